package template

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Row is one recipient's data: column name to scalar value.
// Values come from an uploaded table, so cells may be strings, numbers
// or absent entirely.
type Row map[string]any

// Text converts a cell value to its string form.
// Nil, NaN and the literal string "nan" (any case) collapse to the empty
// string; everything else is stringified and trimmed.
func Text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return cleanText(v)
	case float64:
		if math.IsNaN(v) {
			return ""
		}
		return cleanText(strconv.FormatFloat(v, 'g', -1, 64))
	case float32:
		if math.IsNaN(float64(v)) {
			return ""
		}
		return cleanText(strconv.FormatFloat(float64(v), 'g', -1, 32))
	default:
		return cleanText(fmt.Sprint(v))
	}
}

func cleanText(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}
