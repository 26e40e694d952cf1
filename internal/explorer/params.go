package explorer

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"znormal-explorer/internal/probability"
)

var errMissingValue = errors.New("missing value")

// Defaults pre-filled in the manual entry form, per kind.
var formDefaults = map[probability.Kind]probability.Query{
	probability.GreaterThan: {Kind: probability.GreaterThan, Z1: -1.25},
	probability.LessThan:    {Kind: probability.LessThan, Z1: 1.72},
	probability.Between:     {Kind: probability.Between, Z1: -1.5, Z2: 2.53},
}

// parseQuery reads kind, z1 and z2 from URL parameters. z2 is only required
// for interval queries.
func parseQuery(v url.Values) (probability.Query, error) {
	kind, err := probability.ParseKind(v.Get("kind"))
	if err != nil {
		return probability.Query{}, err
	}

	q := probability.Query{Kind: kind}

	q.Z1, err = parseFloat(v, "z1")
	if err != nil {
		return probability.Query{}, err
	}

	if kind == probability.Between {
		q.Z2, err = parseFloat(v, "z2")
		if err != nil {
			return probability.Query{}, err
		}
	}

	return q, nil
}

func parseFloat(v url.Values, key string) (float64, error) {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return 0, fmt.Errorf("%s: %w", key, errMissingValue)
	}
	// Accept a decimal comma as well as a decimal point.
	f, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", key, raw)
	}
	return f, nil
}

// queryChartURL is the chart endpoint for an ad-hoc query.
func queryChartURL(q probability.Query) string {
	v := url.Values{}
	v.Set("kind", q.Kind.String())
	v.Set("z1", strconv.FormatFloat(q.Z1, 'g', -1, 64))
	if q.Kind == probability.Between {
		v.Set("z2", strconv.FormatFloat(q.Z2, 'g', -1, 64))
	}
	return "/charts/query?" + v.Encode()
}

func exerciseChartURL(id int) string {
	return fmt.Sprintf("/charts/exercises/%d", id)
}

// withFormat adds a format parameter to a chart URL.
func withFormat(chartURL, format string) string {
	u, err := url.Parse(chartURL)
	if err != nil {
		return chartURL
	}
	v := u.Query()
	v.Set("format", format)
	u.RawQuery = v.Encode()
	return u.String()
}
