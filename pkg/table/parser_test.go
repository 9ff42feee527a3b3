package table

import (
	"errors"
	"reflect"
	"testing"

	"chartcraft/internal/common/models"

	"github.com/xuri/excelize/v2"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		hint    Hint
		want    Format
		wantErr bool
	}{
		{name: "csv content type", hint: Hint{ContentType: "text/csv"}, want: FormatCSV},
		{name: "csv content type with charset", hint: Hint{ContentType: "text/csv; charset=utf-8"}, want: FormatCSV},
		{name: "csv extension with excel content type", hint: Hint{Filename: "sales.CSV", ContentType: "application/vnd.ms-excel"}, want: FormatCSV},
		{name: "tsv extension", hint: Hint{Filename: "sales.tsv"}, want: FormatTSV},
		{name: "content type beats extension", hint: Hint{Filename: "x.tsv", ContentType: "text/csv"}, want: FormatCSV},
		{name: "json content type beats csv extension", hint: Hint{Filename: "x.csv", ContentType: "application/json"}, want: FormatJSON},
		{name: "json content type", hint: Hint{Filename: "upload", ContentType: "application/json"}, want: FormatJSON},
		{name: "xlsx extension", hint: Hint{Filename: "book.xlsx", ContentType: "application/octet-stream"}, want: FormatXLSX},
		{name: "xml is unsupported", hint: Hint{Filename: "data.xml", ContentType: "application/xml"}, wantErr: true},
		{name: "no hint", hint: Hint{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.hint)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Fatalf("DetectFormat() error = %v, want ErrUnsupportedFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectFormat() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseCSV(t *testing.T) {
	data := []byte("\xEF\xBB\xBFregion,sales,order_date,active,note\n" +
		"N,10,2024-01-05,true,first\n" +
		"\n" +
		"N,5.5,2024-01-06,false,\n" +
		"S,7,2024-02-01,TRUE,\"quoted, text\"\n")

	tbl, err := Parse(data, Hint{Filename: "sales.csv"})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if tbl.Format != FormatCSV {
		t.Errorf("Format = %q, want csv", tbl.Format)
	}
	if len(tbl.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(tbl.Rows))
	}

	wantColumns := []models.Column{
		{Name: "region", DisplayName: "Region", Type: models.ColumnTypeText},
		{Name: "sales", DisplayName: "Sales", Type: models.ColumnTypeDecimal},
		{Name: "order_date", DisplayName: "Order Date", Type: models.ColumnTypeDate},
		{Name: "active", DisplayName: "Active", Type: models.ColumnTypeBoolean},
		{Name: "note", DisplayName: "Note", Type: models.ColumnTypeText},
	}
	if !reflect.DeepEqual(tbl.Columns, wantColumns) {
		t.Errorf("Columns = %+v\nwant %+v", tbl.Columns, wantColumns)
	}

	if got := tbl.Rows[0]["sales"]; got != 10.0 {
		t.Errorf("sales cell = %#v, want float64 10", got)
	}
	if got := tbl.Rows[1]["note"]; got != nil {
		t.Errorf("empty cell = %#v, want nil", got)
	}
	if got := tbl.Rows[2]["active"]; got != true {
		t.Errorf("TRUE cell = %#v, want true", got)
	}
	if got := tbl.Rows[2]["note"]; got != "quoted, text" {
		t.Errorf("quoted cell = %#v", got)
	}
}

func TestParseDelimiterSniffing(t *testing.T) {
	data := []byte("city;population\nLyon;522250\nNice;342669\n")
	tbl, err := Parse(data, Hint{ContentType: "text/csv"})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(tbl.Columns) != 2 || tbl.Columns[1].Type != models.ColumnTypeInteger {
		t.Fatalf("unexpected columns: %+v", tbl.Columns)
	}
	if tbl.Rows[1]["city"] != "Nice" {
		t.Errorf("row 1 city = %#v", tbl.Rows[1]["city"])
	}
}

func TestParseTSV(t *testing.T) {
	data := []byte("name\tscore\nann\t1\nbob\t2\n")
	tbl, err := Parse(data, Hint{Filename: "scores.tsv"})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if tbl.Format != FormatTSV || len(tbl.Rows) != 2 || tbl.Rows[1]["score"] != 2.0 {
		t.Fatalf("unexpected table: %+v", tbl)
	}
}

func TestParseCSVShortFirstRow(t *testing.T) {
	data := []byte("a,b,c\n1,2\n3,4,5\n")
	tbl, err := Parse(data, Hint{Filename: "short.csv"})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(tbl.Columns) != 2 {
		t.Fatalf("columns come from the first row only; got %+v", tbl.Columns)
	}
	if _, ok := tbl.Rows[0]["c"]; ok {
		t.Errorf("missing cell should be absent")
	}
	if tbl.Rows[1]["c"] != 5.0 {
		t.Errorf("later rows keep their cells; got %#v", tbl.Rows[1]["c"])
	}
}

func TestParseCSVHeaderOnly(t *testing.T) {
	tbl, err := Parse([]byte("a,b\n"), Hint{Filename: "empty.csv"})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(tbl.Rows) != 0 || len(tbl.Columns) != 0 {
		t.Errorf("expected empty table, got %+v", tbl)
	}
}

func TestParseJSON(t *testing.T) {
	data := []byte(`[{"zeta": 1, "alpha": "x", "when": "2024-03-01"}, {"zeta": 2.5, "alpha": "y", "when": "2024-03-02"}]`)
	tbl, err := Parse(data, Hint{Filename: "rows.json"})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	names := make([]string, len(tbl.Columns))
	for i, c := range tbl.Columns {
		names[i] = c.Name
	}
	if !reflect.DeepEqual(names, []string{"zeta", "alpha", "when"}) {
		t.Errorf("column order = %v, want document order", names)
	}
	if tbl.Columns[0].Type != models.ColumnTypeDecimal {
		t.Errorf("zeta type = %q, want decimal", tbl.Columns[0].Type)
	}
	if tbl.Columns[2].Type != models.ColumnTypeDate {
		t.Errorf("when type = %q, want date", tbl.Columns[2].Type)
	}
}

func TestParseJSONSingleObject(t *testing.T) {
	tbl, err := Parse([]byte(`{"flag": true, "n": 3}`), Hint{ContentType: "application/json"})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(tbl.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(tbl.Rows))
	}
	if tbl.Columns[0].Type != models.ColumnTypeBoolean || tbl.Columns[1].Type != models.ColumnTypeInteger {
		t.Errorf("unexpected columns: %+v", tbl.Columns)
	}
}

func TestParseJSONMalformed(t *testing.T) {
	inputs := map[string]string{
		"syntax error":       `[{"a": 1},`,
		"empty body":         ``,
		"top-level number":   `42`,
		"top-level string":   `"rows"`,
		"top-level null":     `null`,
		"non-object element": `[{"a": 1}, 2]`,
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(in), Hint{Filename: "bad.json"})
			if !errors.Is(err, ErrMalformedInput) {
				t.Errorf("Parse(%q) error = %v, want ErrMalformedInput", in, err)
			}
		})
	}
}

func TestParseUnsupported(t *testing.T) {
	_, err := Parse([]byte("<rows/>"), Hint{Filename: "rows.xml", ContentType: "application/xml"})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	cells := [][]any{
		{"product-name", "units"},
		{"widget", 3},
		{"gadget", 4},
	}
	for r, row := range cells {
		for c, v := range row {
			name, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(sheet, name, v); err != nil {
				t.Fatalf("SetCellValue: %v", err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	tbl, err := Parse(buf.Bytes(), Hint{Filename: "book.xlsx"})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := []models.Column{
		{Name: "product-name", DisplayName: "Product Name", Type: models.ColumnTypeText},
		{Name: "units", DisplayName: "Units", Type: models.ColumnTypeInteger},
	}
	if !reflect.DeepEqual(tbl.Columns, want) {
		t.Errorf("Columns = %+v, want %+v", tbl.Columns, want)
	}
	if tbl.Rows[1]["units"] != 4.0 {
		t.Errorf("units cell = %#v, want 4", tbl.Rows[1]["units"])
	}
}

func TestParseXLSXMalformed(t *testing.T) {
	_, err := Parse([]byte("not a zip"), Hint{Filename: "book.xlsx"})
	if !errors.Is(err, ErrMalformedInput) {
		t.Errorf("error = %v, want ErrMalformedInput", err)
	}
}

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"order_total":     "Order Total",
		"first-name":      "First Name",
		"already Spaced":  "Already Spaced",
		"sales.total":     "Sales.Total",
		"2024_revenue":    "2024 Revenue",
		"o'neil":          "O'Neil",
		"camelCaseColumn": "CamelCaseColumn",
	}
	for in, want := range tests {
		if got := DisplayName(in); got != want {
			t.Errorf("DisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}
