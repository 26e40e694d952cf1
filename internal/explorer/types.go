package explorer

import (
	"fmt"
	"math"

	"znormal-explorer/internal/probability"
)

// ProbabilityRequest is the JSON body of POST /probability. The z-values
// are pointers so an omitted value can be told apart from zero.
type ProbabilityRequest struct {
	Kind probability.Kind `json:"kind"`
	Z1   *float64         `json:"z1"`
	Z2   *float64         `json:"z2"`
}

// Query converts the request, rejecting a missing z1, or a missing z2 for
// interval queries.
func (req ProbabilityRequest) Query() (probability.Query, error) {
	if req.Z1 == nil {
		return probability.Query{}, fmt.Errorf("z1: %w", errMissingValue)
	}
	q := probability.Query{Kind: req.Kind, Z1: *req.Z1}
	if req.Kind == probability.Between {
		if req.Z2 == nil {
			return probability.Query{}, fmt.Errorf("z2: %w", errMissingValue)
		}
		q.Z2 = *req.Z2
	}
	return q, nil
}

// ProbabilityResponse is the JSON answer to a probability query.
type ProbabilityResponse struct {
	Kind        probability.Kind `json:"kind"`
	Z1          float64          `json:"z1"`
	Z2          *float64         `json:"z2,omitempty"`
	Description string           `json:"description"`
	Probability float64          `json:"probability"`
	Percent     float64          `json:"percent"`
	Complement  float64          `json:"complement"`
	Lower       *float64         `json:"lower"` // null when unbounded
	Upper       *float64         `json:"upper"` // null when unbounded
	Steps       []string         `json:"steps"`
	ChartURL    string           `json:"chart_url"`
}

// ExerciseResponse is a solved exercise.
type ExerciseResponse struct {
	ID int `json:"id"`
	ProbabilityResponse
}

// ReportResponse is the batch view of every exercise.
type ReportResponse struct {
	Count     int                `json:"count"`
	Exercises []ExerciseResponse `json:"exercises"`
}

func newProbabilityResponse(q probability.Query, r probability.Result, chartURL string) ProbabilityResponse {
	resp := ProbabilityResponse{
		Kind:        q.Kind,
		Z1:          q.Z1,
		Description: probability.Describe(q),
		Probability: r.Probability,
		Percent:     r.Percent(),
		Complement:  r.Complement(),
		Lower:       finiteOrNil(r.Lower),
		Upper:       finiteOrNil(r.Upper),
		Steps:       probability.Explain(q),
		ChartURL:    chartURL,
	}
	if q.Kind == probability.Between {
		z2 := q.Z2
		resp.Z2 = &z2
	}
	return resp
}

func finiteOrNil(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
