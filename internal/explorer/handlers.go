package explorer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"znormal-explorer/internal/chart"
	"znormal-explorer/internal/exercises"
	"znormal-explorer/internal/handlers"
	"znormal-explorer/internal/observability"
	"znormal-explorer/internal/probability"
)

// tracer is the explorer's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("explorer")

// Handler serves the explorer endpoints.
type Handler struct {
	chartSamples int
}

// New returns a Handler whose charts sample the density at chartSamples
// points.
func New(chartSamples int) *Handler {
	if chartSamples < chart.MinSamples {
		chartSamples = chart.DefaultSamples
	}
	return &Handler{chartSamples: chartSamples}
}

// ---------------------------------------------------------------------------
// Shared computation
// ---------------------------------------------------------------------------

// solve validates and computes q inside span, recording metrics, a span
// event and a trace-correlated log line. A validation error is returned
// untouched; nothing is computed in that case.
func solve(ctx context.Context, span trace.Span, logger *zap.Logger, opName string, q probability.Query) (probability.Result, error) {
	span.SetAttributes(
		attribute.String("probability.kind", q.Kind.String()),
		attribute.Float64("probability.z1", q.Z1),
	)
	if q.Kind == probability.Between {
		span.SetAttributes(attribute.Float64("probability.z2", q.Z2))
	}

	if err := probability.Validate(q); err != nil {
		return probability.Result{}, err
	}

	start := time.Now()
	result := probability.Compute(q)
	elapsed := float64(time.Since(start).Nanoseconds()) / 1e6 // ms

	attrs := metric.WithAttributes(
		attribute.String("operation", opName),
		attribute.String("kind", q.Kind.String()),
	)
	queryCounter.Add(ctx, 1, attrs)
	queryHistogram.Record(ctx, elapsed, attrs)
	lastValueGauge.Record(ctx, result.Probability, attrs)

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.Float64("probability", result.Probability),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.Float64("probability.result", result.Probability))
	span.SetStatus(codes.Ok, "")

	logger.Debug("probability computed",
		zap.String("operation", opName),
		zap.String("query", probability.Describe(q)),
		zap.Float64("probability", result.Probability),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
		zap.Float64("duration_ms", elapsed),
	)

	return result, nil
}

// validationStatus maps a rejected request to its HTTP status.
func validationStatus(err error) int {
	if errors.Is(err, exercises.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

// ---------------------------------------------------------------------------
// JSON API
// ---------------------------------------------------------------------------

// Probability handles POST /probability.
func (h *Handler) Probability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "probability.query",
		trace.WithAttributes(
			attribute.String("request.id", observability.RequestIDFromContext(ctx)),
		),
	)
	defer span.End()

	var req ProbabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := "invalid request body"
		if errors.Is(err, probability.ErrUnknownKind) {
			msg = err.Error()
		}
		observability.RecordError(ctx, span, logger, errorCounter, "query", msg, err, http.StatusBadRequest, w)
		return
	}

	q, err := req.Query()
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "query", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	result, err := solve(ctx, span, logger, "query", q)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "query", err.Error(), err, validationStatus(err), w)
		return
	}

	logger.Info("probability query answered",
		zap.String("query", probability.Describe(q)),
		zap.Float64("probability", result.Probability),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusOK, newProbabilityResponse(q, result, queryChartURL(q)))
}

// Exercises handles GET /exercises, the batch report.
func (h *Handler) Exercises(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "exercises.report")
	defer span.End()

	report, err := solveReport(ctx, logger)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "report", "failed to solve exercises", err, http.StatusInternalServerError, w)
		return
	}

	span.SetAttributes(attribute.Int("exercises.count", report.Count))
	span.SetStatus(codes.Ok, "")

	handlers.WriteJSON(w, http.StatusOK, report)
}

// Exercise handles GET /exercises/{id}.
func (h *Handler) Exercise(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "exercises.item")
	defer span.End()

	ex, err := exercises.LookupString(chi.URLParam(r, "id"))
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "exercise", err.Error(), err, http.StatusNotFound, w)
		return
	}

	resp, err := solveExercise(ctx, span, logger, ex)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "exercise", err.Error(), err, http.StatusInternalServerError, w)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, resp)
}

// solveReport solves every exercise, one child span each.
func solveReport(ctx context.Context, logger *zap.Logger) (ReportResponse, error) {
	all := exercises.All()
	report := ReportResponse{Count: len(all), Exercises: make([]ExerciseResponse, 0, len(all))}

	for _, ex := range all {
		itemCtx, itemSpan := tracer.Start(ctx, fmt.Sprintf("exercises.report.item.%d", ex.ID),
			trace.WithAttributes(attribute.Int("exercise.id", ex.ID)),
		)
		resp, err := solveExercise(itemCtx, itemSpan, logger, ex)
		if err != nil {
			itemSpan.RecordError(err)
			itemSpan.SetStatus(codes.Error, err.Error())
			itemSpan.End()
			return ReportResponse{}, err
		}
		itemSpan.End()
		report.Exercises = append(report.Exercises, resp)
	}

	logger.Info("exercise report generated",
		zap.Int("exercises", report.Count),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	return report, nil
}

func solveExercise(ctx context.Context, span trace.Span, logger *zap.Logger, ex exercises.Exercise) (ExerciseResponse, error) {
	span.SetAttributes(attribute.Int("exercise.id", ex.ID))

	result, err := solve(ctx, span, logger, "exercise", ex.Query)
	if err != nil {
		return ExerciseResponse{}, fmt.Errorf("exercise %d: %w", ex.ID, err)
	}

	resp := ExerciseResponse{
		ID:                  ex.ID,
		ProbabilityResponse: newProbabilityResponse(ex.Query, result, exerciseChartURL(ex.ID)),
	}
	resp.Description = ex.Description
	return resp, nil
}

// ---------------------------------------------------------------------------
// Charts
// ---------------------------------------------------------------------------

// QueryChart handles GET /charts/query?kind=&z1=&z2=&format=.
func (h *Handler) QueryChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "chart.query")
	defer span.End()

	q, err := parseQuery(r.URL.Query())
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "chart", err.Error(), err, validationStatus(err), w)
		return
	}

	h.renderChart(ctx, span, logger, w, q, probability.Describe(q), r.URL.Query().Get("format"))
}

// ExerciseChart handles GET /charts/exercises/{id}?format=.
func (h *Handler) ExerciseChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "chart.exercise")
	defer span.End()

	ex, err := exercises.LookupString(chi.URLParam(r, "id"))
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "chart", err.Error(), err, http.StatusNotFound, w)
		return
	}
	span.SetAttributes(attribute.Int("exercise.id", ex.ID))

	h.renderChart(ctx, span, logger, w, ex.Query, ex.Title(), r.URL.Query().Get("format"))
}

// renderChart computes q and writes its chart. The chart is rendered into a
// buffer first so a rendering failure still produces a clean error response.
func (h *Handler) renderChart(ctx context.Context, span trace.Span, logger *zap.Logger, w http.ResponseWriter, q probability.Query, title, format string) {
	format = strings.ToLower(format)
	if format == "" {
		format = chart.FormatHTML
	}

	contentType, err := chart.ContentType(format)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "chart", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	result, err := solve(ctx, span, logger, "chart", q)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "chart", err.Error(), err, validationStatus(err), w)
		return
	}

	fig := chart.FromResult(result, title, h.chartSamples)

	var buf bytes.Buffer
	if err := chart.Write(&buf, fig, format); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "chart", "failed to render chart", err, http.StatusInternalServerError, w)
		return
	}

	renderCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
	span.AddEvent("chart.rendered", trace.WithAttributes(
		attribute.String("format", format),
		attribute.Int("bytes", buf.Len()),
	))

	w.Header().Set("Content-Type", contentType)
	if format != chart.FormatHTML {
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", "normal."+format))
	}
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
