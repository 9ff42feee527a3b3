package coltype

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// IsEmpty reports whether v counts as a missing cell: nil or a blank string.
func IsEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	}
	return false
}

// ToNumber coerces a cell to a number. Go numeric kinds pass through, strings
// must be a complete numeric literal. Booleans, dates and blanks do not coerce.
func ToNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x)
	case float32:
		f := float64(x)
		return f, !math.IsNaN(f)
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		return parseNumber(string(x))
	case string:
		return parseNumber(x)
	}
	return 0, false
}

// BoolNumber maps the boolean literals true, false, "true" and "false" to 1
// and 0. Anything else does not coerce.
func BoolNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		switch x {
		case "true":
			return 1, true
		case "false":
			return 0, true
		}
	}
	return 0, false
}

// ToMeasure coerces a cell for aggregation. Numbers coerce as in ToNumber and
// Go bools count as 1 or 0; boolean strings do not coerce.
func ToMeasure(v any) (float64, bool) {
	if f, ok := ToNumber(v); ok {
		return f, true
	}
	if b, ok := v.(bool); ok {
		return BoolNumber(b)
	}
	return 0, false
}

// IsNumber reports whether v is a Go numeric value (not a numeric string).
func IsNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func parseNumber(s string) (float64, bool) {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0, false
	}
	switch t {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}
	if len(t) > 2 && t[0] == '0' && strings.ContainsRune("xXoObB", rune(t[1])) {
		if strings.Contains(t, "_") {
			return 0, false
		}
		n, err := strconv.ParseUint(t, 0, 64)
		if err != nil {
			return 0, false
		}
		return float64(n), true
	}
	if !decimalLiteral.MatchString(t) {
		return 0, false
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}

// String renders a cell the way it is shown to people and compared lexically.
func String(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case json.Number:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339)
	}
	if f, ok := ToNumber(v); ok && IsNumber(v) {
		return formatFloat(f)
	}
	return fmt.Sprint(v)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if f == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'e', -1, 64)
}

type timeKey struct{ nanos int64 }

type compositeKey string

// Key returns a comparable identity for v so it can index a map. Scalars are
// their own key; nested values are keyed by their JSON encoding.
func Key(v any) any {
	switch x := v.(type) {
	case nil, string, bool, float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		return x
	case time.Time:
		return timeKey{x.UnixNano()}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return compositeKey(fmt.Sprintf("%T:%v", v, v))
	}
	return compositeKey(b)
}
