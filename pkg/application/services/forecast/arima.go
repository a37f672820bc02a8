package forecast

import (
	"fmt"
	"math"

	"github.com/rvela/hemoplan/pkg/domain/entities"
)

// fittedModel is one ARIMA fit over a differenced demand series. Fitting is
// closed-form least squares (Hannan-Rissanen for MA terms), so identical
// input always yields the identical model.
type fittedModel struct {
	order          entities.ModelOrder
	seasonal       bool
	seasonalPeriod int

	arCoeffs  []float64
	maCoeffs  []float64
	intercept float64

	residuals   []float64
	residualVar float64
	aic         float64
	bic         float64

	// Series state needed to invert the differencing at forecast time.
	original []float64 // values after seasonal differencing (if any)
	seasTail []float64 // last seasonalPeriod values of the raw series
	diffed   []float64 // original after d regular differences
}

// chooseDifferencing picks the smallest d in [0, maxD] whose differenced
// series has the lowest variance. A lower d wins ties within 10% to avoid
// over-differencing.
func chooseDifferencing(values []float64, maxD int) int {
	bestD := 0
	bestVar := variance(values)
	for d := 1; d <= maxD; d++ {
		diffed := difference(values, d)
		if len(diffed) < 4 {
			break
		}
		v := variance(diffed)
		if v < bestVar*0.90 {
			bestD = d
			bestVar = v
		}
	}
	return bestD
}

// detectSeasonality reports whether the series shows periodicity at the
// given lag, via the sample autocorrelation
func detectSeasonality(values []float64, period int, threshold float64) bool {
	if period <= 1 || len(values) < 4*period {
		return false
	}
	return autocorrelation(values, period) >= threshold
}

// fitARMA estimates an ARMA(p,q) model on a stationary series using the
// Hannan-Rissanen two-stage regression. Returns the fitted coefficients,
// residuals and information criteria.
func fitARMA(values []float64, p, q int) (*fittedModel, error) {
	n := len(values)
	params := p + q + 1 // +1 for the intercept
	if n < params+4 {
		return nil, fmt.Errorf("series length %d too short for ARMA(%d,%d)", n, p, q)
	}

	// Mean-only model.
	if p == 0 && q == 0 {
		m := mean(values)
		residuals := make([]float64, n)
		var rss float64
		for i, v := range values {
			residuals[i] = v - m
			rss += residuals[i] * residuals[i]
		}
		model := &fittedModel{
			order:     entities.ModelOrder{P: 0, D: 0, Q: 0},
			intercept: m,
			residuals: residuals,
		}
		model.finishFit(rss, n, 1)
		return model, nil
	}

	// Stage 1: long autoregression to estimate the innovation sequence.
	longOrder := p + q + 2
	if longOrder > n/3 {
		longOrder = n / 3
	}
	if longOrder < 1 {
		longOrder = 1
	}
	innovations, err := longARResiduals(values, longOrder)
	if err != nil {
		return nil, err
	}

	// Stage 2: regress y_t on its own lags and lagged innovations.
	start := p
	if q > start {
		start = q
	}
	if longOrder > start {
		start = longOrder
	}
	rows := n - start
	if rows <= params {
		return nil, fmt.Errorf("series length %d too short for ARMA(%d,%d) after lagging", n, p, q)
	}

	design := make([][]float64, rows)
	response := make([]float64, rows)
	for t := start; t < n; t++ {
		row := make([]float64, params)
		row[0] = 1
		for i := 1; i <= p; i++ {
			row[i] = values[t-i]
		}
		for j := 1; j <= q; j++ {
			row[p+j] = innovations[t-j]
		}
		design[t-start] = row
		response[t-start] = values[t]
	}

	coeffs, rss, err := olsFit(design, response)
	if err != nil {
		return nil, fmt.Errorf("ARMA(%d,%d) fit failed: %w", p, q, err)
	}

	model := &fittedModel{
		order:     entities.ModelOrder{P: p, D: 0, Q: q},
		intercept: coeffs[0],
		arCoeffs:  coeffs[1 : 1+p],
		maCoeffs:  coeffs[1+p : 1+p+q],
	}

	// Recover in-sample residuals for forecasting state.
	model.residuals = make([]float64, n)
	for t := start; t < n; t++ {
		var fitted float64
		for i := 0; i < params; i++ {
			fitted += coeffs[i] * design[t-start][i]
		}
		model.residuals[t] = values[t] - fitted
	}

	model.finishFit(rss, rows, params)
	return model, nil
}

// longARResiduals fits a long AR(m) by OLS and returns its residuals,
// zero-padded at the start
func longARResiduals(values []float64, m int) ([]float64, error) {
	n := len(values)
	rows := n - m
	if rows <= m+1 {
		return nil, fmt.Errorf("series too short for long AR(%d)", m)
	}

	design := make([][]float64, rows)
	response := make([]float64, rows)
	for t := m; t < n; t++ {
		row := make([]float64, m+1)
		row[0] = 1
		for i := 1; i <= m; i++ {
			row[i] = values[t-i]
		}
		design[t-m] = row
		response[t-m] = values[t]
	}

	coeffs, _, err := olsFit(design, response)
	if err != nil {
		return nil, fmt.Errorf("long AR(%d) fit failed: %w", m, err)
	}

	residuals := make([]float64, n)
	for t := m; t < n; t++ {
		var fitted float64
		for i := 0; i <= m; i++ {
			fitted += coeffs[i] * design[t-m][i]
		}
		residuals[t] = values[t] - fitted
	}
	return residuals, nil
}

// finishFit computes residual variance, AIC and BIC from the fit
func (m *fittedModel) finishFit(rss float64, effN, params int) {
	if effN <= params {
		effN = params + 1
	}
	m.residualVar = rss / float64(effN-params)
	if m.residualVar <= 0 {
		m.residualVar = 1e-9
	}
	nf := float64(effN)
	ll := nf * math.Log(rss/nf+1e-12)
	m.aic = ll + 2*float64(params+1)
	m.bic = ll + float64(params+1)*math.Log(nf)
}

// psiWeights expands the fitted ARMA into its moving-average representation
// and applies the integration operators, so forecast variance can accumulate
// correctly over the horizon.
func (m *fittedModel) psiWeights(horizon, d int) []float64 {
	psi := make([]float64, horizon)
	if horizon == 0 {
		return psi
	}
	psi[0] = 1
	for j := 1; j < horizon; j++ {
		var w float64
		if j <= len(m.maCoeffs) {
			w += m.maCoeffs[j-1]
		}
		for i := 1; i <= len(m.arCoeffs) && i <= j; i++ {
			w += m.arCoeffs[i-1] * psi[j-i]
		}
		psi[j] = w
	}

	// Regular integration: cumulative sums, once per difference.
	for k := 0; k < d; k++ {
		for j := 1; j < horizon; j++ {
			psi[j] += psi[j-1]
		}
	}

	// Seasonal integration.
	if m.seasonal {
		for j := m.seasonalPeriod; j < horizon; j++ {
			psi[j] += psi[j-m.seasonalPeriod]
		}
	}
	return psi
}

// forecast produces point predictions and standard errors for the next
// horizon steps on the original scale
func (m *fittedModel) forecast(horizon, d int) (predictions, stderrs []float64) {
	// Forecast on the differenced scale.
	hist := append([]float64(nil), m.diffed...)
	resid := append([]float64(nil), m.residuals...)

	diffPreds := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		pred := m.intercept
		for i := 1; i <= len(m.arCoeffs); i++ {
			idx := len(hist) - i
			if idx >= 0 {
				pred += m.arCoeffs[i-1] * hist[idx]
			}
		}
		for j := 1; j <= len(m.maCoeffs); j++ {
			idx := len(resid) - j
			if idx >= 0 {
				pred += m.maCoeffs[j-1] * resid[idx]
			}
		}
		diffPreds[h] = pred
		hist = append(hist, pred)
		resid = append(resid, 0) // future innovations have zero expectation
	}

	// Invert regular differencing.
	predictions = diffPreds
	tail := append([]float64(nil), m.original...)
	for k := d; k >= 1; k-- {
		// Last value of the (k-1)-times differenced series.
		base := difference(tail, k-1)
		last := base[len(base)-1]
		integrated := make([]float64, horizon)
		for h := 0; h < horizon; h++ {
			last += predictions[h]
			integrated[h] = last
		}
		predictions = integrated
	}

	// Invert seasonal differencing.
	if m.seasonal {
		period := m.seasonalPeriod
		seasonalBase := append([]float64(nil), m.seasTail...)
		integrated := make([]float64, horizon)
		for h := 0; h < horizon; h++ {
			prior := seasonalBase[len(seasonalBase)-period]
			integrated[h] = predictions[h] + prior
			seasonalBase = append(seasonalBase, integrated[h])
		}
		predictions = integrated
	}

	// Standard errors from accumulated psi weights.
	psi := m.psiWeights(horizon, d)
	stderrs = make([]float64, horizon)
	var acc float64
	for h := 0; h < horizon; h++ {
		acc += psi[h] * psi[h]
		stderrs[h] = math.Sqrt(m.residualVar * acc)
	}
	return predictions, stderrs
}
