package probability

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind selects which region of the standard normal distribution a query
// measures.
type Kind int

const (
	// GreaterThan is the upper tail P(Z > z1).
	GreaterThan Kind = iota + 1
	// LessThan is the lower tail P(Z < z1).
	LessThan
	// Between is the interval P(z1 < Z < z2).
	Between
)

var kindNames = map[Kind]string{
	GreaterThan: "greater",
	LessThan:    "less",
	Between:     "between",
}

var kindAliases = map[string]Kind{
	"greater": GreaterThan,
	"gt":      GreaterThan,
	"less":    LessThan,
	"lt":      LessThan,
	"between": Between,
	"bt":      Between,
}

// Kinds lists every query kind in display order.
func Kinds() []Kind {
	return []Kind{GreaterThan, LessThan, Between}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Label is the human-readable form used by the form selector.
func (k Kind) Label() string {
	switch k {
	case GreaterThan:
		return "P(Z > a) - probability greater than a value"
	case LessThan:
		return "P(Z < a) - probability less than a value"
	case Between:
		return "P(a < Z < b) - probability between two values"
	}
	return k.String()
}

// ParseKind maps a wire name ("greater", "less", "between" or their short
// aliases) to a Kind.
func ParseKind(s string) (Kind, error) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

func (k Kind) MarshalJSON() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("kind must be a string: %w", err)
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
