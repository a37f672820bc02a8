package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// SetupRoutes registers every API endpoint on the router
func SetupRoutes(router *mux.Router, deps *Deps) {
	router.HandleFunc("/api/forecast", BatchForecastHandler(deps)).Methods(http.MethodGet)
	router.HandleFunc("/api/forecast/{bloodType}", ForecastHandler(deps)).Methods(http.MethodGet)
	router.HandleFunc("/api/supply", SupplyHandler(deps)).Methods(http.MethodGet)
	router.HandleFunc("/api/balance", BalanceHandler(deps)).Methods(http.MethodGet)
	router.HandleFunc("/api/optimize", OptimizeHandler(deps)).Methods(http.MethodPost)
	router.HandleFunc("/api/recommendations", ActiveRecommendationsHandler(deps)).Methods(http.MethodGet)
	router.HandleFunc("/api/recommendations/quick", QuickRecommendationsHandler(deps)).Methods(http.MethodGet)
	router.HandleFunc("/api/recommendations/{id}/execute", ExecuteHandler(deps)).Methods(http.MethodPost)
	router.HandleFunc("/api/reports", ReportsListHandler(deps)).Methods(http.MethodGet)
	router.HandleFunc("/api/reports/{id}", ReportsGetHandler(deps)).Methods(http.MethodGet)
}
