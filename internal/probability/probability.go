// Package probability computes tail and interval probabilities of the
// standard normal distribution Z ~ N(0,1) and the bounds of the region they
// cover.
package probability

import (
	"errors"
	"fmt"
	"math"

	"github.com/aclements/go-moremath/stats"
)

var (
	ErrUnknownKind     = errors.New("unknown query kind")
	ErrNonFinite       = errors.New("z-values must be finite numbers")
	ErrInvalidInterval = errors.New("lower value must be less than upper value")
)

// Query is a single probability question. Z2 is only read for Between.
type Query struct {
	Kind Kind    `json:"kind"`
	Z1   float64 `json:"z1"`
	Z2   float64 `json:"z2,omitempty"`
}

// Result holds the probability together with the shading bounds of the
// region it measures. Lower and Upper may be infinite.
type Result struct {
	Probability float64
	Lower       float64
	Upper       float64
}

// Percent returns the probability expressed as a percentage.
func (r Result) Percent() float64 {
	return r.Probability * 100
}

// Complement returns 1 - probability.
func (r Result) Complement() float64 {
	return 1 - r.Probability
}

// CDF returns P(Z <= z).
func CDF(z float64) float64 {
	return stats.StdNormal.CDF(z)
}

// Density returns the standard normal density at x.
func Density(x float64) float64 {
	return stats.StdNormal.PDF(x)
}

// Validate rejects queries Compute cannot answer meaningfully. It must be
// called before Compute for any user-supplied query.
func Validate(q Query) error {
	if !q.Kind.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(q.Kind))
	}
	if !finite(q.Z1) {
		return fmt.Errorf("%w: z1=%g", ErrNonFinite, q.Z1)
	}
	if q.Kind != Between {
		return nil
	}
	if !finite(q.Z2) {
		return fmt.Errorf("%w: z2=%g", ErrNonFinite, q.Z2)
	}
	if q.Z1 >= q.Z2 {
		return fmt.Errorf("%w: %g >= %g", ErrInvalidInterval, q.Z1, q.Z2)
	}
	return nil
}

// Compute evaluates q. It does not validate; a Between query with
// Z1 >= Z2 yields a meaningless (possibly negative) probability.
func Compute(q Query) Result {
	switch q.Kind {
	case GreaterThan:
		return Result{Probability: 1 - CDF(q.Z1), Lower: q.Z1, Upper: math.Inf(1)}
	case LessThan:
		return Result{Probability: CDF(q.Z1), Lower: math.Inf(-1), Upper: q.Z1}
	case Between:
		return Result{Probability: CDF(q.Z2) - CDF(q.Z1), Lower: q.Z1, Upper: q.Z2}
	}
	panic(fmt.Sprintf("probability: unhandled kind %v", q.Kind))
}

// Solve validates q and computes it.
func Solve(q Query) (Result, error) {
	if err := Validate(q); err != nil {
		return Result{}, err
	}
	return Compute(q), nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
