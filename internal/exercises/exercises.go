// Package exercises holds the fixed set of textbook exercises the explorer
// can solve and display.
package exercises

import (
	"errors"
	"fmt"
	"strconv"

	"znormal-explorer/internal/probability"
)

// Exercise is one entry of the exercise table.
type Exercise struct {
	ID          int               `json:"id"`
	Description string            `json:"description"`
	Query       probability.Query `json:"query"`
}

// Solution is an exercise together with its computed result.
type Solution struct {
	Exercise
	Result probability.Result
}

// table is built once at package initialisation and never written to.
var table = [...]Exercise{
	{ID: 1, Description: "P(Z > -1.25)", Query: probability.Query{Kind: probability.GreaterThan, Z1: -1.25}},
	{ID: 2, Description: "P(-1.5 < Z < 2.53)", Query: probability.Query{Kind: probability.Between, Z1: -1.5, Z2: 2.53}},
	{ID: 3, Description: "P(-0.75 < Z < 1)", Query: probability.Query{Kind: probability.Between, Z1: -0.75, Z2: 1}},
	{ID: 4, Description: "P(-0.98 < Z < -0.75)", Query: probability.Query{Kind: probability.Between, Z1: -0.98, Z2: -0.75}},
	{ID: 5, Description: "P(0.5 < Z < 1)", Query: probability.Query{Kind: probability.Between, Z1: 0.5, Z2: 1}},
	{ID: 6, Description: "P(Z < 1.72)", Query: probability.Query{Kind: probability.LessThan, Z1: 1.72}},
	{ID: 7, Description: "P(Z > -1.96)", Query: probability.Query{Kind: probability.GreaterThan, Z1: -1.96}},
	{ID: 8, Description: "P(-2.02 < Z < -0.52)", Query: probability.Query{Kind: probability.Between, Z1: -2.02, Z2: -0.52}},
	{ID: 9, Description: "P(Z < -1.24)", Query: probability.Query{Kind: probability.LessThan, Z1: -1.24}},
	{ID: 10, Description: "P(Z > 1.12)", Query: probability.Query{Kind: probability.GreaterThan, Z1: 1.12}},
	{ID: 11, Description: "P(-1 < Z < 1)", Query: probability.Query{Kind: probability.Between, Z1: -1, Z2: 1}},
	{ID: 12, Description: "P(-2 < Z < 2)", Query: probability.Query{Kind: probability.Between, Z1: -2, Z2: 2}},
	{ID: 13, Description: "P(-3 < Z < 3)", Query: probability.Query{Kind: probability.Between, Z1: -3, Z2: 3}},
}

// ErrNotFound is returned by Lookup for an id outside the table.
var ErrNotFound = errors.New("exercise not found")

// Count is the number of exercises in the table.
func Count() int {
	return len(table)
}

// All returns a copy of the table in id order.
func All() []Exercise {
	out := make([]Exercise, len(table))
	copy(out, table[:])
	return out
}

// Lookup returns the exercise with the given id.
func Lookup(id int) (Exercise, error) {
	if id < 1 || id > len(table) {
		return Exercise{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return table[id-1], nil
}

// LookupString parses id and looks it up.
func LookupString(id string) (Exercise, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return Exercise{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return Lookup(n)
}

// Title is the heading shown above an exercise chart.
func (e Exercise) Title() string {
	return fmt.Sprintf("Item %d: %s", e.ID, e.Description)
}

// Solve validates and computes a single exercise.
func Solve(e Exercise) (Solution, error) {
	r, err := probability.Solve(e.Query)
	if err != nil {
		return Solution{}, fmt.Errorf("exercise %d: %w", e.ID, err)
	}
	return Solution{Exercise: e, Result: r}, nil
}

// SolveAll solves every exercise in id order.
func SolveAll() ([]Solution, error) {
	out := make([]Solution, 0, len(table))
	for _, e := range table {
		s, err := Solve(e)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
