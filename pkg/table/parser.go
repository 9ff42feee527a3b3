// Package table turns uploaded files into rows and typed column descriptors.
package table

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"slices"
	"strings"

	"chartcraft/internal/common/models"
	"chartcraft/pkg/coltype"
)

var (
	// ErrUnsupportedFormat is returned when neither the content type nor the
	// file extension names a format the parser understands.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrMalformedInput is returned when the content claims a supported format
	// but cannot be parsed as one.
	ErrMalformedInput = errors.New("malformed input")
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// Hint carries what the uploader told us about the file.
type Hint struct {
	Filename    string
	ContentType string
}

type Table struct {
	Format  Format          `json:"format"`
	Rows    []models.Row    `json:"rows"`
	Columns []models.Column `json:"columns"`
}

type formatRule struct {
	format       Format
	contentTypes []string
	extensions   []string
}

// Checked in order, content types first; the first matching rule wins.
var formatRules = []formatRule{
	{format: FormatTSV, contentTypes: []string{"text/tab-separated-values"}, extensions: []string{".tsv"}},
	{format: FormatCSV, contentTypes: []string{"text/csv", "application/csv"}, extensions: []string{".csv", ".txt"}},
	{format: FormatJSON, contentTypes: []string{"application/json", "text/json"}, extensions: []string{".json"}},
	{format: FormatXLSX, contentTypes: []string{
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.ms-excel.sheet.macroenabled.12",
	}, extensions: []string{".xlsx", ".xlsm"}},
}

// DetectFormat resolves the upload format from its hint.
func DetectFormat(h Hint) (Format, error) {
	ct := strings.ToLower(strings.TrimSpace(h.ContentType))
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		ct = mt
	}
	ext := strings.ToLower(filepath.Ext(h.Filename))

	// A known content type decides before the extension is looked at.
	for _, rule := range formatRules {
		if slices.Contains(rule.contentTypes, ct) {
			return rule.format, nil
		}
	}
	for _, rule := range formatRules {
		if ext != "" && slices.Contains(rule.extensions, ext) {
			return rule.format, nil
		}
	}
	return "", fmt.Errorf("%w: content type %q, file %q", ErrUnsupportedFormat, h.ContentType, h.Filename)
}

// Parse reads an uploaded file into rows and infers one column descriptor per
// key of the first row.
func Parse(data []byte, h Hint) (*Table, error) {
	format, err := DetectFormat(h)
	if err != nil {
		return nil, err
	}

	var (
		rows []models.Row
		keys []string
	)
	switch format {
	case FormatCSV:
		rows, keys, err = parseDelimited(data, 0)
	case FormatTSV:
		rows, keys, err = parseDelimited(data, '\t')
	case FormatJSON:
		rows, keys, err = parseJSON(data)
	case FormatXLSX:
		rows, keys, err = parseXLSX(data)
	}
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.Row{}
	}

	return &Table{
		Format:  format,
		Rows:    rows,
		Columns: BuildColumns(rows, keys),
	}, nil
}

// BuildColumns infers the type of each key over every row. Keys come from the
// first row only; no rows means no columns.
func BuildColumns(rows []models.Row, keys []string) []models.Column {
	columns := make([]models.Column, 0, len(keys))
	if len(rows) == 0 {
		return columns
	}
	for _, key := range keys {
		values := make([]any, len(rows))
		for i, row := range rows {
			values[i] = row[key]
		}
		columns = append(columns, models.Column{
			Name:        key,
			DisplayName: DisplayName(key),
			Type:        coltype.Infer(values),
		})
	}
	return columns
}

// DisplayName turns "order_total-usd" into "Order Total Usd".
func DisplayName(name string) string {
	b := []byte(strings.NewReplacer("_", " ", "-", " ").Replace(name))
	for i := range b {
		if i > 0 && isWordByte(b[i-1]) {
			continue
		}
		if b[i] >= 'a' && b[i] <= 'z' {
			b[i] -= 'a' - 'A'
		}
	}
	return string(b)
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func uniqueKeys(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
