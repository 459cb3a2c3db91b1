package sqlgen

import (
	"math"
	"strings"

	"AcctEventSQL/internal/catalog"
	"AcctEventSQL/internal/cell"
)

// QuoteText wraps s in single quotes, doubling any embedded quote. Nothing
// else is escaped: backslashes and control characters pass through.
func QuoteText(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Literal renders v as a SQL literal followed by the cast suffix of kind.
func Literal(v cell.Value, kind catalog.CastKind) string {
	suffix := kind.Suffix()
	if v.IsNull() {
		return "NULL" + suffix
	}

	switch kind {
	case catalog.CastInteger:
		if n, ok := v.Number(); ok && !math.IsInf(n, 0) {
			return cell.FormatNumber(math.Trunc(n)) + suffix
		}
	case catalog.CastTimestamp:
		if t, ok := v.Time(); ok {
			return QuoteText(cell.FormatTime(t)) + suffix
		}
	}
	// numeric values are quoted as-is and rounded by the database cast
	return QuoteText(v.String()) + suffix
}
