package table

import (
	"bytes"
	"fmt"
	"strings"

	"chartcraft/internal/common/models"

	"github.com/xuri/excelize/v2"
)

// parseXLSX reads the first sheet; its first row is the header.
func parseXLSX(data []byte) ([]models.Row, []string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open workbook: %v", ErrMalformedInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%w: no sheets found in workbook", ErrMalformedInput)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read sheet %q: %v", ErrMalformedInput, sheets[0], err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	var (
		rows []models.Row
		keys []string
	)
	for _, rec := range records[1:] {
		if blankRecord(rec) {
			continue
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

func blankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
