package exports

import (
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// csvField quotes a field only when it has to: a field containing a
// comma, a double quote or a newline is wrapped in double quotes with
// internal quotes doubled, everything else is emitted verbatim. Empty
// (and absent) values render as the empty string.
func csvField(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// csvLine joins already-rendered fields into one row.
func csvLine(fields []string) string {
	return strings.Join(fields, ",")
}

// csvDocument joins rows with \n and no trailing newline.
func csvDocument(lines []string) string {
	return strings.Join(lines, "\n")
}

// isoTime renders a timestamp the way the exports expect it, UTC with
// millisecond precision.
func isoTime(ts pgtype.Timestamptz) string {
	if !ts.Valid {
		return ""
	}
	return ts.Time.UTC().Format("2006-01-02T15:04:05.000Z")
}

func textOrEmpty(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}
