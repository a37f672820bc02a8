package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/domain/repositories"
)

// InMemoryExecutionLog is the in-process execution ledger. Append-only:
// events are never updated or removed, and the recommendation index enforces
// one event per recommendation id.
type InMemoryExecutionLog struct {
	mutex            sync.RWMutex
	events           []*entities.ExecutionEvent
	byRecommendation map[string]*entities.ExecutionEvent
}

var _ repositories.ExecutionLog = (*InMemoryExecutionLog)(nil)

// NewInMemoryExecutionLog creates an empty execution log
func NewInMemoryExecutionLog() *InMemoryExecutionLog {
	return &InMemoryExecutionLog{
		byRecommendation: make(map[string]*entities.ExecutionEvent),
	}
}

// Record appends one execution event
func (l *InMemoryExecutionLog) Record(ctx context.Context, event *entities.ExecutionEvent) error {
	if event == nil {
		return fmt.Errorf("execution event cannot be nil")
	}
	if event.RecommendationID == "" {
		return fmt.Errorf("execution event recommendation id cannot be empty")
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	if _, exists := l.byRecommendation[event.RecommendationID]; exists {
		return fmt.Errorf("execution event for recommendation %s already recorded", event.RecommendationID)
	}

	stored := *event
	stored.Sequence = len(l.events) + 1
	l.events = append(l.events, &stored)
	l.byRecommendation[stored.RecommendationID] = &stored
	return nil
}

// FindByRecommendation looks up the event for a recommendation id
func (l *InMemoryExecutionLog) FindByRecommendation(ctx context.Context, recommendationID string) (*entities.ExecutionEvent, error) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	event, ok := l.byRecommendation[recommendationID]
	if !ok {
		return nil, nil
	}
	copied := *event
	return &copied, nil
}

// All returns every event in append order
func (l *InMemoryExecutionLog) All(ctx context.Context) ([]*entities.ExecutionEvent, error) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	out := make([]*entities.ExecutionEvent, len(l.events))
	for i, event := range l.events {
		copied := *event
		out[i] = &copied
	}
	return out, nil
}
