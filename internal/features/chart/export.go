package chart

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"chartcraft/internal/common/models"
	"chartcraft/pkg/coltype"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedExport = errors.New("unsupported export format")
	unsafeFilename       = regexp.MustCompile(`[^a-zA-Z0-9]`)
	unsafeSheetName      = regexp.MustCompile(`[\[\]:*?/\\]`)
)

func exportFilename(chart *Chart, format string) string {
	return unsafeFilename.ReplaceAllString(chart.Name, "_") + "." + format
}

func renderExport(chart *Chart, header []string, data []models.Row, format string) (*Export, error) {
	var (
		body        []byte
		contentType string
		err         error
	)
	switch format {
	case ExportCSV:
		body, err = exportCSV(header, data)
		contentType = "text/csv"
	case ExportJSON:
		body, err = json.MarshalIndent(data, "", "  ")
		contentType = "application/json"
	case ExportXLSX:
		body, err = exportXLSX(chart.Name, header, data)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExport, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to export chart %s as %s: %w", chart.ID, format, err)
	}

	return &Export{
		Filename:    exportFilename(chart, format),
		ContentType: contentType,
		Body:        body,
	}, nil
}

func exportCSV(header []string, data []models.Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	record := make([]string, len(header))
	for _, row := range data {
		for i, key := range header {
			v, ok := row[key]
			if !ok || v == nil {
				record[i] = ""
				continue
			}
			record[i] = coltype.String(v)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func exportXLSX(title string, header []string, data []models.Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(title)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return nil, err
	}

	for r, row := range data {
		values := make([]any, len(header))
		for i, key := range header {
			values[i] = xlsxValue(row[key])
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func xlsxValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string, bool, float64, int:
		return x
	}
	if coltype.IsNumber(v) {
		f, _ := coltype.ToNumber(v)
		return f
	}
	return coltype.String(v)
}

// sheetName trims a chart name to a valid worksheet name.
func sheetName(name string) string {
	name = unsafeSheetName.ReplaceAllString(name, " ")
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	name = strings.Trim(name, " '")
	if name == "" {
		return "Chart"
	}
	return name
}
