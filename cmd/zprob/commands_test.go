package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"znormal-explorer/internal/probability"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestComputeCommand(t *testing.T) {
	out, err := run(t, "compute", "--kind", "greater", "--z1", "-1.25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"P(Z > -1.25) = 0.8944", "Percentage: 89.44%", "Complement: 0.1056", "1 - 0.1056"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestComputeCommandJSON(t *testing.T) {
	out, err := run(t, "compute", "-k", "between", "--z1", "-3", "--z2", "3", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var payload struct {
		Query       probability.Query `json:"query"`
		Probability float64           `json:"probability"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if payload.Query.Kind != probability.Between || payload.Probability < 0.9972 || payload.Probability > 0.9974 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestComputeCommandRejectsReversedInterval(t *testing.T) {
	_, err := run(t, "compute", "--kind", "between", "--z1", "2", "--z2", "1")
	if err == nil || !strings.Contains(err.Error(), "lower value must be less than upper value") {
		t.Fatalf("expected interval error, got %v", err)
	}
}

func TestComputeCommandRequiresZValues(t *testing.T) {
	tests := []struct {
		args    []string
		wantErr error
	}{
		{args: []string{"compute", "--kind", "between", "--z1", "-1.5"}, wantErr: errMissingZ2},
		{args: []string{"compute", "--kind", "less"}, wantErr: errMissingZ1},
		{args: []string{"chart", "--kind", "between", "--z1", "-1.5"}, wantErr: errMissingZ2},
	}

	for _, tc := range tests {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			out, err := run(t, tc.args...)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if strings.Contains(out, "P(") {
				t.Fatalf("did not expect a result, got:\n%s", out)
			}
		})
	}
}

func TestComputeCommandAcceptsExplicitZeroZ2(t *testing.T) {
	out, err := run(t, "compute", "--kind", "between", "--z1", "-1", "--z2", "0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "P(-1.00 < Z < 0.00) = 0.3413") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestExercisesCommand(t *testing.T) {
	out, err := run(t, "exercises")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"P(Z > -1.25)", "0.8944", "P(-3 < Z < 3)", "99.73%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestChartCommandWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "item2.svg")

	if _, err := run(t, "chart", "--exercise", "2", "--format", "svg", "--out", path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading chart: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Fatal("expected an SVG document")
	}
}

func TestChartCommandErrors(t *testing.T) {
	tests := [][]string{
		{"chart"},
		{"chart", "--exercise", "20"},
		{"chart", "--kind", "less", "--z1", "1", "--format", "gif"},
		{"chart", "--exercise", "2", "--kind", "less", "--z1", "1"},
	}

	for _, args := range tests {
		if _, err := run(t, args...); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}
