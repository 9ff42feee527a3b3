// Package coltype classifies table columns and coerces their cells.
package coltype

import (
	"math"

	"chartcraft/internal/common/models"
)

// Infer picks a single semantic type for one column. Empty cells are ignored.
// The checks run in a fixed order (numeric, date, boolean) and the first one
// every value passes wins. The numeric check reads boolean literals as 1 and 0
// once at least one real number is present, so ["true", "7"] and ["3", "true"]
// are both integer columns while ["true", "false"] stays boolean. A column with
// no values is text.
func Infer(values []any) models.ColumnType {
	present := make([]any, 0, len(values))
	for _, v := range values {
		if !IsEmpty(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return models.ColumnTypeText
	}

	if t, ok := inferNumeric(present); ok {
		return t
	}
	if allDates(present) {
		return models.ColumnTypeDate
	}
	if allBooleans(present) {
		return models.ColumnTypeBoolean
	}
	return models.ColumnTypeText
}

func inferNumeric(values []any) (models.ColumnType, bool) {
	integral := true
	numbers := 0
	for _, v := range values {
		f, ok := ToNumber(v)
		if !ok {
			if _, isBool := BoolNumber(v); !isBool {
				return "", false
			}
			continue
		}
		numbers++
		if math.IsInf(f, 0) || math.Trunc(f) != f {
			integral = false
		}
	}
	if numbers == 0 {
		return "", false
	}
	if integral {
		return models.ColumnTypeInteger, true
	}
	return models.ColumnTypeDecimal, true
}

func allDates(values []any) bool {
	for _, v := range values {
		if _, ok := ParseDate(v); !ok {
			return false
		}
	}
	return true
}

func allBooleans(values []any) bool {
	for _, v := range values {
		switch x := v.(type) {
		case bool:
		case string:
			if x != "true" && x != "false" {
				return false
			}
		default:
			return false
		}
	}
	return true
}
