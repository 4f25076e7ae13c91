// Package forecast fits ARIMA models to close-price series and projects them forward.
package forecast

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"CoinCast/internal/model"
)

// Order is the (p, d, q) order of an ARIMA model.
type Order struct {
	P int `yaml:"p" json:"p" validate:"gte=0,lte=10"`
	D int `yaml:"d" json:"d" validate:"gte=0,lte=2"`
	Q int `yaml:"q" json:"q" validate:"gte=0,lte=10"`
}

func (o Order) String() string {
	return fmt.Sprintf("ARIMA(%d,%d,%d)", o.P, o.D, o.Q)
}

// MinObservations is the shortest series the order can be estimated on: one
// observation per order term, and at least one conditional residual after
// differencing.
func (o Order) MinObservations() int {
	return max(o.P+o.D+o.Q, o.P+o.D+1)
}

// Fitted is an estimated ARIMA model.
type Fitted struct {
	Order  Order
	AR     []float64
	MA     []float64
	Sigma2 float64

	// levels[0] is the input series, levels[k] its k-th difference.
	levels [][]float64
	resid  []float64
}

// Fit estimates a zero-mean ARMA(p,q) on the d-th difference of series by
// conditional sum of squares. Parameters are mapped through partial
// autocorrelations so the result is always stationary and invertible.
func Fit(series []float64, order Order) (*Fitted, error) {
	if order.P < 0 || order.D < 0 || order.Q < 0 {
		return nil, errors.New("order must be non-negative")
	}
	if len(series) < order.MinObservations() {
		return nil, fmt.Errorf("%w: %s needs %d observations, got %d",
			model.ErrInsufficientHistory, order, order.MinObservations(), len(series))
	}
	for _, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: series contains non-finite values", model.ErrNoConvergence)
		}
	}

	levels := make([][]float64, order.D+1)
	levels[0] = append([]float64(nil), series...)
	for k := 1; k <= order.D; k++ {
		levels[k] = difference(levels[k-1])
	}
	w := levels[order.D]

	scale := stat.StdDev(w, nil)
	if scale == 0 || math.IsNaN(scale) {
		scale = 1
	}
	scaled := make([]float64, len(w))
	for i, v := range w {
		scaled[i] = v / scale
	}

	fit := &Fitted{Order: order, levels: levels}
	nParams := order.P + order.Q
	if nParams > 0 {
		problem := optimize.Problem{
			Func: func(x []float64) float64 {
				ar, ma := transformParams(x, order.P, order.Q)
				sse, _ := conditionalResiduals(scaled, ar, ma)
				return sse
			},
		}
		settings := &optimize.Settings{
			MajorIterations: 5000,
			FuncEvaluations: 20000,
		}
		result, err := optimize.Minimize(problem, make([]float64, nParams), settings, &optimize.NelderMead{})
		if result == nil {
			return nil, fmt.Errorf("%w: %v", model.ErrNoConvergence, err)
		}
		if err != nil && !acceptableStatus(result.Status) {
			return nil, fmt.Errorf("%w: %v", model.ErrNoConvergence, err)
		}
		if math.IsNaN(result.F) || math.IsInf(result.F, 0) {
			return nil, fmt.Errorf("%w: objective is not finite", model.ErrNoConvergence)
		}
		fit.AR, fit.MA = transformParams(result.X, order.P, order.Q)
	} else {
		fit.AR, fit.MA = []float64{}, []float64{}
	}

	sse, resid := conditionalResiduals(w, fit.AR, fit.MA)
	fit.resid = resid
	if n := len(w) - order.P; n > 0 {
		fit.Sigma2 = sse / float64(n)
	}
	return fit, nil
}

// acceptableStatus reports budget exhaustion, where the estimate is still usable.
func acceptableStatus(s optimize.Status) bool {
	switch s {
	case optimize.IterationLimit, optimize.FunctionEvaluationLimit, optimize.RuntimeLimit:
		return true
	}
	return false
}

// Forecast returns steps predictions following the end of the fitted series.
func (f *Fitted) Forecast(steps int) []float64 {
	if steps <= 0 {
		return nil
	}
	p, q := f.Order.P, f.Order.Q

	w := append([]float64(nil), f.levels[f.Order.D]...)
	e := append([]float64(nil), f.resid...)
	n := len(w)
	for h := 0; h < steps; h++ {
		t := len(w)
		v := 0.0
		for i := 1; i <= p; i++ {
			v += f.AR[i-1] * w[t-i]
		}
		for j := 1; j <= q; j++ {
			if t-j >= 0 {
				v += f.MA[j-1] * e[t-j]
			}
		}
		w = append(w, v)
		e = append(e, 0)
	}
	out := w[n:]

	// Integrate back through each differencing level.
	for k := f.Order.D - 1; k >= 0; k-- {
		last := f.levels[k][len(f.levels[k])-1]
		integrated := make([]float64, steps)
		for i, d := range out {
			last += d
			integrated[i] = last
		}
		out = integrated
	}
	return out
}

func difference(x []float64) []float64 {
	if len(x) < 2 {
		return nil
	}
	out := make([]float64, len(x)-1)
	for i := 1; i < len(x); i++ {
		out[i-1] = x[i] - x[i-1]
	}
	return out
}

// conditionalResiduals computes innovations e_t for t >= p with pre-sample
// innovations set to zero, and returns their sum of squares.
func conditionalResiduals(w, ar, ma []float64) (float64, []float64) {
	p, q := len(ar), len(ma)
	resid := make([]float64, len(w))
	sse := 0.0
	for t := p; t < len(w); t++ {
		v := w[t]
		for i := 1; i <= p; i++ {
			v -= ar[i-1] * w[t-i]
		}
		for j := 1; j <= q; j++ {
			if t-j >= p {
				v -= ma[j-1] * resid[t-j]
			}
		}
		resid[t] = v
		sse += v * v
	}
	return sse, resid
}

// transformParams maps unconstrained values to stationary AR and invertible
// MA coefficients.
func transformParams(x []float64, p, q int) (ar, ma []float64) {
	ar = constrainStationary(x[:p])
	psi := constrainStationary(x[p : p+q])
	ma = make([]float64, q)
	for i, v := range psi {
		ma[i] = -v
	}
	return ar, ma
}

// constrainStationary treats tanh(x) as partial autocorrelations and runs the
// Durbin-Levinson recursion to obtain polynomial coefficients.
func constrainStationary(x []float64) []float64 {
	n := len(x)
	coef := make([]float64, n)
	tmp := make([]float64, n)
	for k := 0; k < n; k++ {
		a := math.Tanh(x[k])
		for j := 0; j < k; j++ {
			tmp[j] = coef[j] - a*coef[k-1-j]
		}
		copy(coef[:k], tmp[:k])
		coef[k] = a
	}
	return coef
}
