package explorer

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"znormal-explorer/internal/chart"
	"znormal-explorer/internal/observability"
	"znormal-explorer/internal/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	oldLogger := observability.Logger
	observability.Logger = zap.NewNop()
	t.Cleanup(func() { observability.Logger = oldLogger })

	if err := InitMetrics(); err != nil {
		t.Fatalf("initializing explorer metrics: %v", err)
	}

	r := chi.NewRouter()
	r.Use(observability.RequestIDMiddleware)
	New(chart.MinSamples).RegisterRoutes(r)
	return r
}

func postProbability(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.PostJSON(h, "/probability", body)
}

func TestProbabilityGreaterThan(t *testing.T) {
	w := postProbability(t, newTestRouter(t), `{"kind":"greater","z1":-1.25}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp ProbabilityResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)

	if resp.Description != "P(Z > -1.25)" {
		t.Fatalf("unexpected description %q", resp.Description)
	}
	if resp.Probability < 0.8943 || resp.Probability > 0.8945 {
		t.Fatalf("expected probability ≈ 0.8944, got %v", resp.Probability)
	}
	if resp.Lower == nil || *resp.Lower != -1.25 {
		t.Fatalf("expected lower bound -1.25, got %v", resp.Lower)
	}
	if resp.Upper != nil {
		t.Fatalf("expected unbounded upper, got %v", *resp.Upper)
	}
	if resp.Z2 != nil {
		t.Fatal("did not expect z2 for a tail query")
	}
	if len(resp.Steps) != 3 {
		t.Fatalf("expected 3 explanation steps, got %d", len(resp.Steps))
	}
	if !strings.HasPrefix(resp.ChartURL, "/charts/query?") {
		t.Fatalf("unexpected chart url %q", resp.ChartURL)
	}
}

func TestProbabilityBetween(t *testing.T) {
	w := postProbability(t, newTestRouter(t), `{"kind":"between","z1":-2,"z2":2}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp ProbabilityResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)

	if resp.Probability < 0.9544 || resp.Probability > 0.9546 {
		t.Fatalf("expected probability ≈ 0.9545, got %v", resp.Probability)
	}
	if resp.Complement < 0.0454 || resp.Complement > 0.0456 {
		t.Fatalf("expected complement ≈ 0.0455, got %v", resp.Complement)
	}
	if resp.Percent < 95.44 || resp.Percent > 95.46 {
		t.Fatalf("expected percent ≈ 95.45, got %v", resp.Percent)
	}
	if resp.Z2 == nil || *resp.Z2 != 2 {
		t.Fatalf("expected z2 = 2, got %v", resp.Z2)
	}
}

func TestProbabilityRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "reversed interval", body: `{"kind":"between","z1":2.0,"z2":1.0}`, wantMsg: "lower value must be less than upper value"},
		{name: "equal bounds", body: `{"kind":"between","z1":1,"z2":1}`, wantMsg: "lower value must be less than upper value"},
		{name: "unknown kind", body: `{"kind":"sideways","z1":1}`, wantMsg: "unknown query kind"},
		{name: "missing kind", body: `{"z1":1}`, wantMsg: "unknown query kind"},
		{name: "malformed body", body: `{"kind":`, wantMsg: "invalid request body"},
		{name: "between without z2", body: `{"kind":"between","z1":-1.5}`, wantMsg: "z2: missing value"},
		{name: "between with null z2", body: `{"kind":"between","z1":-1.5,"z2":null}`, wantMsg: "z2: missing value"},
		{name: "tail without z1", body: `{"kind":"less"}`, wantMsg: "z1: missing value"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := postProbability(t, newTestRouter(t), tc.body)
			testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)

			var body map[string]string
			testutil.DecodeJSONBody(t, w.Body, &body)
			if !strings.Contains(body["error"], tc.wantMsg) {
				t.Fatalf("expected error containing %q, got %q", tc.wantMsg, body["error"])
			}
			if _, ok := body["probability"]; ok {
				t.Fatal("did not expect a probability in an error response")
			}
		})
	}
}

func TestProbabilityLogsRejectedInterval(t *testing.T) {
	h := newTestRouter(t)

	core, logs := observer.New(zap.WarnLevel)
	observability.Logger = zap.New(core)

	_ = postProbability(t, h, `{"kind":"between","z1":2,"z2":1}`)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["operation"]; got != "query" {
		t.Fatalf("expected operation %q, got %#v", "query", got)
	}
}

func TestExercisesReport(t *testing.T) {
	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/exercises", nil), newTestRouter(t))
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var report ReportResponse
	testutil.DecodeJSONBody(t, w.Body, &report)

	if report.Count != 13 || len(report.Exercises) != 13 {
		t.Fatalf("expected 13 exercises, got count=%d len=%d", report.Count, len(report.Exercises))
	}

	first := report.Exercises[0]
	if first.ID != 1 || first.Description != "P(Z > -1.25)" {
		t.Fatalf("unexpected first exercise: %+v", first)
	}
	if first.ChartURL != "/charts/exercises/1" {
		t.Fatalf("unexpected chart url %q", first.ChartURL)
	}

	last := report.Exercises[12]
	if last.Probability < 0.9972 || last.Probability > 0.9974 {
		t.Fatalf("expected P(-3 < Z < 3) ≈ 0.9973, got %v", last.Probability)
	}
}

func TestExerciseByID(t *testing.T) {
	h := newTestRouter(t)

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/exercises/11", nil), h)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp ExerciseResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if resp.ID != 11 || resp.Probability < 0.6826 || resp.Probability > 0.6828 {
		t.Fatalf("unexpected exercise 11: %+v", resp)
	}

	for _, id := range []string{"0", "14", "abc"} {
		w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/exercises/"+id, nil), h)
		testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
	}
}

func TestQueryChartFormats(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		query       string
		contentType string
		prefix      string
	}{
		{query: "kind=between&z1=-1&z2=1", contentType: "text/html; charset=utf-8"},
		{query: "kind=less&z1=1.72&format=svg", contentType: "image/svg+xml"},
		{query: "kind=gt&z1=-1.25&format=PNG", contentType: "image/png", prefix: "\x89PNG"},
	}

	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/charts/query?"+tc.query, nil), h)
			testutil.CheckResponseCode(t, http.StatusOK, w.Code)

			if got := w.Result().Header.Get("Content-Type"); got != tc.contentType {
				t.Fatalf("expected Content-Type %q, got %q", tc.contentType, got)
			}
			if !strings.HasPrefix(w.Body.String(), tc.prefix) {
				t.Fatalf("unexpected body prefix %q", w.Body.String()[:8])
			}
		})
	}
}

func TestQueryChartRejectsInvalidInput(t *testing.T) {
	h := newTestRouter(t)

	for _, query := range []string{
		"kind=between&z1=2&z2=1",
		"kind=between&z1=1",
		"kind=less",
		"kind=less&z1=abc",
		"kind=nope&z1=1",
		"kind=less&z1=1&format=gif",
	} {
		t.Run(query, func(t *testing.T) {
			w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/charts/query?"+query, nil), h)
			testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)
			if ct := w.Result().Header.Get("Content-Type"); ct != "application/json" {
				t.Fatalf("expected JSON error, got Content-Type %q", ct)
			}
		})
	}
}

func TestExerciseChart(t *testing.T) {
	h := newTestRouter(t)

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/charts/exercises/4?format=svg", nil), h)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	if !strings.Contains(w.Body.String(), "<svg") {
		t.Fatal("expected an SVG document")
	}

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/charts/exercises/99", nil), h)
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
}

func TestProbabilityAcceptsExplicitZero(t *testing.T) {
	w := postProbability(t, newTestRouter(t), `{"kind":"between","z1":-1,"z2":0}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp ProbabilityResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if resp.Z2 == nil || *resp.Z2 != 0 {
		t.Fatalf("expected z2 = 0, got %v", resp.Z2)
	}
	if resp.Probability < 0.3412 || resp.Probability > 0.3414 {
		t.Fatalf("expected probability ≈ 0.3413, got %v", resp.Probability)
	}
}
