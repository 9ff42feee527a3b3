package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"chartcraft/internal/common/models"
)

var (
	utf8BOM     = []byte{0xEF, 0xBB, 0xBF}
	floatToken  = regexp.MustCompile(`^\s*-?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?\s*$`)
	maxSafeInt  = math.Pow(2, 53) - 1
	sniffCommas = []rune{',', ';', '\t', '|'}
)

func parseDelimited(data []byte, comma rune) ([]models.Row, []string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if comma == 0 {
		comma = sniffDelimiter(data)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("%w: read header: %v", ErrMalformedInput, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var (
		rows []models.Row
		keys []string
	)
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("%w: read row %d: %v", ErrMalformedInput, line, err)
		}

		n := min(len(header), len(rec))
		row := make(models.Row, n)
		for i := 0; i < n; i++ {
			row[header[i]] = dynamicCell(rec[i])
		}
		if rows == nil {
			keys = uniqueKeys(header[:n])
		}
		rows = append(rows, row)
	}
	return rows, keys, nil
}

// dynamicCell types a text cell: numeric tokens become float64, TRUE/true and
// FALSE/false become bools, empty cells become nil.
func dynamicCell(s string) any {
	switch s {
	case "":
		return nil
	case "true", "TRUE":
		return true
	case "false", "FALSE":
		return false
	}
	if floatToken.MatchString(s) {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil && f > -maxSafeInt && f < maxSafeInt {
			return f
		}
	}
	return s
}

func sniffDelimiter(data []byte) rune {
	line := data
	for len(line) > 0 {
		var rest []byte
		if i := bytes.IndexByte(line, '\n'); i >= 0 {
			line, rest = line[:i], line[i+1:]
		}
		if len(bytes.TrimSpace(line)) > 0 {
			break
		}
		line = rest
	}

	best, bestCount := ',', 0
	for _, c := range sniffCommas {
		if n := countOutsideQuotes(line, c); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

func countOutsideQuotes(line []byte, c rune) int {
	n := 0
	quoted := false
	for _, r := range string(line) {
		switch {
		case r == '"':
			quoted = !quoted
		case r == c && !quoted:
			n++
		}
	}
	return n
}
