package coltype

import (
	"math"
	"testing"
	"time"

	"chartcraft/internal/common/models"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		name   string
		values []any
		want   models.ColumnType
	}{
		{name: "no values", values: nil, want: models.ColumnTypeText},
		{name: "all null", values: []any{nil, nil, ""}, want: models.ColumnTypeText},
		{name: "numeric strings with fraction", values: []any{"3", "4", "5.5"}, want: models.ColumnTypeDecimal},
		{name: "integral strings", values: []any{"3", "4", "5"}, want: models.ColumnTypeInteger},
		{name: "float64 cells", values: []any{1.0, 2.0, nil}, want: models.ColumnTypeInteger},
		{name: "float64 decimal cells", values: []any{1.5, 2.0}, want: models.ColumnTypeDecimal},
		{name: "exponent and sign", values: []any{"1e3", "-2", "+7"}, want: models.ColumnTypeInteger},
		{name: "hex literal", values: []any{"0x1F", "10"}, want: models.ColumnTypeInteger},
		{name: "infinity is not integral", values: []any{"Infinity", "1"}, want: models.ColumnTypeDecimal},
		{name: "NaN is not numeric", values: []any{"NaN", "1"}, want: models.ColumnTypeText},
		{name: "boolean strings", values: []any{"true", "false", "true"}, want: models.ColumnTypeBoolean},
		{name: "boolean values", values: []any{true, false}, want: models.ColumnTypeBoolean},
		// Numeric check runs before the boolean check and reads booleans as 1 and 0.
		{name: "numeric wins over boolean", values: []any{"true", "7"}, want: models.ColumnTypeInteger},
		{name: "numeric wins over boolean in any order", values: []any{"3", "true"}, want: models.ColumnTypeInteger},
		{name: "bool cells with a number", values: []any{true, 7.0, false}, want: models.ColumnTypeInteger},
		{name: "bool cells with a fraction", values: []any{true, 2.5}, want: models.ColumnTypeDecimal},
		{name: "booleans alone stay boolean", values: []any{true, "false"}, want: models.ColumnTypeBoolean},
		{name: "booleans are case sensitive", values: []any{"True", "false"}, want: models.ColumnTypeText},
		{name: "iso dates", values: []any{"2024-01-05", "2024-02-10T10:00:00Z"}, want: models.ColumnTypeDate},
		{name: "empty strings between dates", values: []any{"", "2024-01-05", "", "01/02/2024"}, want: models.ColumnTypeDate},
		{name: "time values", values: []any{time.Now(), time.Now().Add(time.Hour)}, want: models.ColumnTypeDate},
		{name: "numbers before dates", values: []any{"2024", "2025"}, want: models.ColumnTypeInteger},
		{name: "mixed text", values: []any{"north", "2024-01-05"}, want: models.ColumnTypeText},
		{name: "blank strings ignored", values: []any{"  ", "12"}, want: models.ColumnTypeInteger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Infer(tt.values); got != tt.want {
				t.Errorf("Infer(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		in     any
		want   float64
		wantOK bool
	}{
		{in: "42", want: 42, wantOK: true},
		{in: " 4.5 ", want: 4.5, wantOK: true},
		{in: ".5", want: 0.5, wantOK: true},
		{in: "0b101", want: 5, wantOK: true},
		{in: 7, want: 7, wantOK: true},
		{in: int64(-3), want: -3, wantOK: true},
		{in: "1_000", wantOK: false},
		{in: "12abc", wantOK: false},
		{in: "", wantOK: false},
		{in: nil, wantOK: false},
		{in: true, wantOK: false},
		{in: math.NaN(), wantOK: false},
	}

	for _, tt := range tests {
		got, ok := ToNumber(tt.in)
		if ok != tt.wantOK {
			t.Errorf("ToNumber(%#v) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ToNumber(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if f, ok := ToNumber("1e400"); !ok || !math.IsInf(f, 1) {
		t.Errorf("ToNumber(1e400) = %v, %v, want +Inf", f, ok)
	}
}

func TestToMeasure(t *testing.T) {
	tests := []struct {
		in     any
		want   float64
		wantOK bool
	}{
		{in: 4.5, want: 4.5, wantOK: true},
		{in: "12", want: 12, wantOK: true},
		{in: true, want: 1, wantOK: true},
		{in: false, want: 0, wantOK: true},
		{in: "true", wantOK: false},
		{in: nil, wantOK: false},
		{in: "north", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := ToMeasure(tt.in)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("ToMeasure(%#v) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{in: nil, want: "null"},
		{in: 15.0, want: "15"},
		{in: 0.25, want: "0.25"},
		{in: 1e21, want: "1e+21"},
		{in: 3, want: "3"},
		{in: true, want: "true"},
		{in: "N", want: "N"},
	}
	for _, tt := range tests {
		if got := String(tt.in); got != tt.want {
			t.Errorf("String(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKeyDistinguishesTypes(t *testing.T) {
	buckets := map[any]int{}
	for _, v := range []any{"1", 1.0, "1", nil, []any{"a"}, []any{"a"}} {
		buckets[Key(v)]++
	}
	if len(buckets) != 4 {
		t.Fatalf("expected 4 distinct keys, got %d: %v", len(buckets), buckets)
	}
	if buckets[Key("1")] != 2 {
		t.Errorf("string key count = %d, want 2", buckets[Key("1")])
	}
	if buckets[Key([]any{"a"})] != 2 {
		t.Errorf("composite key count = %d, want 2", buckets[Key([]any{"a"})])
	}
}
