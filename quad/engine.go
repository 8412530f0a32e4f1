package quad

import (
	"fmt"
	"math"
	"sync"

	gquad "gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/num/dual"
)

// Integrand is a function of the integration variable returning a dual
// number. The integration variable itself is never differentiated; any
// parameter derivatives carried in the dual part of the returned value are
// accumulated linearly by the quadrature sum.
type Integrand func(x float64) dual.Number

// Result holds an integral estimate.
type Result struct {
	Value  dual.Number // integral (and its parameter derivative)
	AbsErr float64     // estimated absolute error of the real part
	Evals  int         // integrand evaluations performed
	Panels int         // panels in the final subdivision
}

// Config configures an Engine. Zero values produce sensible defaults;
// see field comments.
type Config struct {
	AbsTol        float64 `json:"abs_tol"`         // zero → 1e-10
	RelTol        float64 `json:"rel_tol"`         // zero → 1e-8
	MaxPanels     int     `json:"max_panels"`      // zero → 512
	Order         int     `json:"order"`           // low-rule Gauss order; zero → 7 (high rule is 2*Order+1)
	MaxPanelWidth float64 `json:"max_panel_width"` // zero → no cap; set near the oscillation scale for oscillatory integrands
}

// Engine performs adaptive Gauss-Legendre quadrature. An Engine is safe for
// concurrent use: its configuration is immutable after construction and the
// result cache is mutex-guarded.
type Engine struct {
	absTol        float64
	relTol        float64
	maxPanels     int
	order         int
	maxPanelWidth float64

	mu    sync.Mutex
	cache map[cacheKey]Result
}

// NewEngine creates an Engine from the given config, filling zero-valued
// fields with defaults.
func NewEngine(cfg Config) (*Engine, error) {
	e := &Engine{
		absTol:        cfg.AbsTol,
		relTol:        cfg.RelTol,
		maxPanels:     cfg.MaxPanels,
		order:         cfg.Order,
		maxPanelWidth: cfg.MaxPanelWidth,
		cache:         make(map[cacheKey]Result),
	}
	if e.absTol == 0 {
		e.absTol = 1e-10
	}
	if e.relTol == 0 {
		e.relTol = 1e-8
	}
	if e.maxPanels == 0 {
		e.maxPanels = 512
	}
	if e.order == 0 {
		e.order = 7
	}
	if e.absTol < 0 || e.relTol < 0 {
		return nil, fmt.Errorf("%w: tolerances must be non-negative (abs %g, rel %g)", ErrInvalidInput, e.absTol, e.relTol)
	}
	if e.maxPanels < 1 {
		return nil, fmt.Errorf("%w: max panels %d must be positive", ErrInvalidInput, e.maxPanels)
	}
	if e.order < 2 {
		return nil, fmt.Errorf("%w: order %d must be at least 2", ErrInvalidInput, e.order)
	}
	if e.maxPanelWidth < 0 {
		return nil, fmt.Errorf("%w: max panel width %g must be non-negative", ErrInvalidInput, e.maxPanelWidth)
	}
	return e, nil
}

type panel struct {
	a, b   float64
	value  dual.Number
	absErr float64
}

// Integrate computes ∫f over [a, b] adaptively. If the estimated error
// cannot be brought under max(AbsTol, RelTol·|I|) within the panel budget it
// returns the best estimate together with ErrNonConvergence.
func (e *Engine) Integrate(f Integrand, a, b float64) (Result, error) {
	if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) {
		return Result{}, fmt.Errorf("%w: bounds [%g, %g] must be finite", ErrInvalidInput, a, b)
	}
	if a == b {
		return Result{}, nil
	}
	sign := 1.0
	if a > b {
		a, b, sign = b, a, -1.0
	}

	evals := 0
	eval := func(lo, hi float64) panel {
		coarse := e.gauss(f, lo, hi, e.order)
		fine := e.gauss(f, lo, hi, 2*e.order+1)
		evals += 3*e.order + 1
		return panel{a: lo, b: hi, value: fine, absErr: math.Abs(fine.Real - coarse.Real)}
	}

	// Initial subdivision: one panel, or enough to respect MaxPanelWidth.
	n := 1
	if e.maxPanelWidth > 0 {
		n = int(math.Ceil((b - a) / e.maxPanelWidth))
		if n < 1 {
			n = 1
		}
		if n > e.maxPanels {
			n = e.maxPanels
		}
	}
	panels := make([]panel, 0, n)
	for i := 0; i < n; i++ {
		lo := a + (b-a)*float64(i)/float64(n)
		hi := a + (b-a)*float64(i+1)/float64(n)
		panels = append(panels, eval(lo, hi))
	}

	for {
		var total dual.Number
		var totalErr float64
		worst := 0
		for i, p := range panels {
			total = dual.Add(total, p.value)
			totalErr += p.absErr
			if p.absErr > panels[worst].absErr {
				worst = i
			}
		}

		tol := math.Max(e.absTol, e.relTol*math.Abs(total.Real))
		res := Result{Value: dual.Scale(sign, total), AbsErr: totalErr, Evals: evals, Panels: len(panels)}
		if totalErr <= tol {
			return res, nil
		}
		if len(panels) >= e.maxPanels {
			return res, fmt.Errorf("%w: interval [%g, %g], estimated error %g > tolerance %g after %d panels (%d evaluations)",
				ErrNonConvergence, a, b, totalErr, tol, len(panels), evals)
		}

		p := panels[worst]
		mid := 0.5 * (p.a + p.b)
		left, right := eval(p.a, mid), eval(mid, p.b)
		panels[worst] = left
		panels = append(panels, right)
	}
}

// gauss evaluates the n-point Gauss-Legendre rule on [lo, hi].
func (e *Engine) gauss(f Integrand, lo, hi float64, n int) dual.Number {
	x := make([]float64, n)
	w := make([]float64, n)
	gquad.Legendre{}.FixedLocations(x, w, lo, hi)
	var sum dual.Number
	for i := 0; i < n; i++ {
		sum = dual.Add(sum, dual.Scale(w[i], f(x[i])))
	}
	return sum
}

type cacheKey struct {
	key    string
	a, b   float64
	absTol float64
	relTol float64
}

// IntegrateCached is Integrate with a keyed result cache. The key must
// fingerprint the integrand's parameters; bounds and tolerances are folded
// in automatically. Failed integrations are never cached.
func (e *Engine) IntegrateCached(key string, f Integrand, a, b float64) (Result, error) {
	ck := cacheKey{key: key, a: a, b: b, absTol: e.absTol, relTol: e.relTol}
	e.mu.Lock()
	if res, ok := e.cache[ck]; ok {
		e.mu.Unlock()
		return res, nil
	}
	e.mu.Unlock()

	res, err := e.Integrate(f, a, b)
	if err != nil {
		return res, err
	}
	e.mu.Lock()
	e.cache[ck] = res
	e.mu.Unlock()
	return res, nil
}

// CacheLen returns the number of cached results.
func (e *Engine) CacheLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.cache)
}
