package exports

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestCSVField(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain value stays verbatim", "hello", "hello"},
		{"empty value stays empty", "", ""},
		{"comma forces quoting", "a,b", `"a,b"`},
		{"quote forces quoting and doubling", `say "hi"`, `"say ""hi"""`},
		{"newline forces quoting", "line1\nline2", "\"line1\nline2\""},
		{"spaces alone do not force quoting", "two cats", "two cats"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := csvField(c.input); got != c.want {
				t.Errorf("csvField(%q) = %q, want %q", c.input, got, c.want)
			}
		})
	}
}

func TestCSVDocument(t *testing.T) {
	doc := csvDocument([]string{"a,b", "c,d"})

	if doc != "a,b\nc,d" {
		t.Errorf("document = %q, want rows joined by \\n without trailing newline", doc)
	}
}

func TestIsoTime(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	ts := pgtype.Timestamptz{
		Time:  time.Date(2024, 5, 1, 15, 4, 5, 120_000_000, loc),
		Valid: true,
	}

	if got := isoTime(ts); got != "2024-05-01T12:04:05.120Z" {
		t.Errorf("isoTime = %q, want 2024-05-01T12:04:05.120Z", got)
	}

	if got := isoTime(pgtype.Timestamptz{}); got != "" {
		t.Errorf("isoTime on a null timestamp = %q, want empty", got)
	}
}

// a standard CSV reader must be able to parse what the exporters emit
func TestCSVOutputParsesBack(t *testing.T) {
	fields := []string{
		"plain",
		"with, comma",
		`with "quotes"`,
		"with\nnewline",
		"",
	}

	rendered := make([]string, len(fields))
	for i, field := range fields {
		rendered[i] = csvField(field)
	}
	doc := csvDocument([]string{csvLine(rendered), csvLine(rendered)})

	reader := csv.NewReader(strings.NewReader(doc))
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	for _, record := range records {
		if len(record) != len(fields) {
			t.Fatalf("expected %d fields, got %d", len(fields), len(record))
		}
		for i, got := range record {
			if got != fields[i] {
				t.Errorf("field %d = %q, want %q", i, got, fields[i])
			}
		}
	}
}
