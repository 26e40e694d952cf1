package probability

import "fmt"

// Describe renders q in probability notation, e.g. "P(-1.50 < Z < 2.53)".
func Describe(q Query) string {
	switch q.Kind {
	case GreaterThan:
		return fmt.Sprintf("P(Z > %.2f)", q.Z1)
	case LessThan:
		return fmt.Sprintf("P(Z < %.2f)", q.Z1)
	case Between:
		return fmt.Sprintf("P(%.2f < Z < %.2f)", q.Z1, q.Z2)
	}
	return q.Kind.String()
}

// Explain returns the arithmetic steps that lead to the probability of q,
// one line per step, values to four decimals.
func Explain(q Query) []string {
	desc := Describe(q)
	p := Compute(q).Probability

	switch q.Kind {
	case GreaterThan:
		le := fmt.Sprintf("P(Z ≤ %.2f)", q.Z1)
		cdf := CDF(q.Z1)
		return []string{
			fmt.Sprintf("Use the complement rule: %s = 1 - %s", desc, le),
			fmt.Sprintf("%s = %.4f", le, cdf),
			fmt.Sprintf("%s = 1 - %.4f = %.4f", desc, cdf, p),
		}
	case LessThan:
		return []string{
			"Read the cumulative distribution function (CDF) directly",
			fmt.Sprintf("%s = %.4f", desc, p),
		}
	case Between:
		upper := Describe(Query{Kind: LessThan, Z1: q.Z2})
		lower := Describe(Query{Kind: LessThan, Z1: q.Z1})
		cu, cl := CDF(q.Z2), CDF(q.Z1)
		return []string{
			fmt.Sprintf("Subtract the lower tail: %s = %s - %s", desc, upper, lower),
			fmt.Sprintf("%s = %.4f", upper, cu),
			fmt.Sprintf("%s = %.4f", lower, cl),
			fmt.Sprintf("%s = %.4f - %.4f = %.4f", desc, cu, cl, p),
		}
	}
	return nil
}
