package explorer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"znormal-explorer/internal/exercises"
	"znormal-explorer/internal/observability"
	"znormal-explorer/internal/probability"
)

const (
	modeManual   = "manual"
	modeAll      = "all"
	modeExercise = "exercise"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("page.html").Funcs(template.FuncMap{
	"prob":       func(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) },
	"pct":        func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) + "%" },
	"withFormat": withFormat,
}).ParseFS(templateFS, "templates/page.html"))

type kindOption struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	Mode       string
	Kinds      []kindOption
	Z1         string
	Z2         string
	ShowZ2     bool
	Error      string
	Result     *ProbabilityResponse
	Report     *ReportResponse
	Exercises  []exercises.Exercise
	SelectedID int
}

// Page handles GET /, the HTML explorer with its three modes: manual entry,
// all exercises, and a single exercise.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	mode := r.URL.Query().Get("mode")
	switch mode {
	case modeManual, modeAll, modeExercise:
	default:
		mode = modeManual
	}

	ctx, span := tracer.Start(ctx, "page."+mode)
	defer span.End()

	data := pageData{Mode: mode, Exercises: exercises.All()}
	status := http.StatusOK

	var err error
	switch mode {
	case modeManual:
		err = manualPage(ctx, span, logger, r, &data)
	case modeAll:
		var report ReportResponse
		report, err = solveReport(ctx, logger)
		data.Report = &report
	case modeExercise:
		err = exercisePage(ctx, span, logger, r, &data)
	}

	if err != nil {
		status = validationStatus(err)
		data.Error = err.Error()
		data.Result, data.Report = nil, nil

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		errorCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "page."+mode)))
		logger.Warn("page request rejected",
			zap.String("mode", mode),
			zap.Error(err),
			zap.String("request_id", observability.RequestIDFromContext(ctx)),
		)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "page."+mode, "failed to render page", err, http.StatusInternalServerError, w)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func manualPage(ctx context.Context, span trace.Span, logger *zap.Logger, r *http.Request, data *pageData) error {
	params := r.URL.Query()

	kind := probability.GreaterThan
	if raw := params.Get("kind"); raw != "" {
		k, err := probability.ParseKind(raw)
		if err != nil {
			data.Kinds = kindOptions(kind)
			return err
		}
		kind = k
	}
	data.Kinds = kindOptions(kind)
	data.ShowZ2 = kind == probability.Between

	q := formDefaults[kind]
	if params.Get("z1") != "" {
		params.Set("kind", kind.String())
		if kind == probability.Between && params.Get("z2") == "" {
			params.Set("z2", strconv.FormatFloat(q.Z2, 'g', -1, 64))
		}
		parsed, err := parseQuery(params)
		if err != nil {
			data.Z1, data.Z2 = params.Get("z1"), params.Get("z2")
			return err
		}
		q = parsed
	}
	data.Z1 = strconv.FormatFloat(q.Z1, 'f', 2, 64)
	data.Z2 = strconv.FormatFloat(formDefaults[probability.Between].Z2, 'f', 2, 64)
	if kind == probability.Between {
		data.Z2 = strconv.FormatFloat(q.Z2, 'f', 2, 64)
	}

	result, err := solve(ctx, span, logger, "page", q)
	if err != nil {
		return err
	}

	resp := newProbabilityResponse(q, result, queryChartURL(q))
	data.Result = &resp
	return nil
}

func exercisePage(ctx context.Context, span trace.Span, logger *zap.Logger, r *http.Request, data *pageData) error {
	id := r.URL.Query().Get("id")
	if id == "" {
		id = "1"
	}

	ex, err := exercises.LookupString(id)
	if err != nil {
		return err
	}
	data.SelectedID = ex.ID

	resp, err := solveExercise(ctx, span, logger, ex)
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}
	data.Result = &resp.ProbabilityResponse
	return nil
}

func kindOptions(selected probability.Kind) []kindOption {
	out := make([]kindOption, 0, len(probability.Kinds()))
	for _, k := range probability.Kinds() {
		out = append(out, kindOption{Value: k.String(), Label: k.Label(), Selected: k == selected})
	}
	return out
}
