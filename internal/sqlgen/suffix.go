package sqlgen

import (
	"strings"

	"AcctEventSQL/internal/catalog"
)

// joinKeys identify a database event for an extracted row. They are also
// the leading columns of every result row.
var joinKeys = []string{"document_no", "account_code", "plan_type", "reinsurance_type"}

// profile is what differs between the success and fail reconciliation
// queries: the compared columns, in result order.
type profile struct {
	compare []catalog.Column
}

var profiles = map[Mode]profile{
	ModeSuccess: {compare: successColumns()},
	ModeFail:    {compare: failColumns()},
}

func successColumns() []catalog.Column {
	out := make([]catalog.Column, 0, catalog.Count)
	for _, c := range catalog.Columns {
		if c.Name == "failure_type" || c.Name == "failure_reason" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// failColumns also compares the failure columns, reported right after
// policy_effective_date.
func failColumns() []catalog.Column {
	base := successColumns()
	out := make([]catalog.Column, 0, catalog.Count)
	for _, c := range base {
		out = append(out, c)
		if c.Name == "policy_effective_date" {
			out = append(out,
				catalog.Columns[catalog.MustIndex("failure_type")],
				catalog.Columns[catalog.MustIndex("failure_reason")])
		}
	}
	return out
}

// mismatch is the predicate that flags column c as differing between the
// database row (db) and the extracted row (e).
func mismatch(c catalog.Column) string {
	n := c.Name
	switch c.Cast {
	case catalog.CastNumeric:
		return "trunc(db." + n + "::numeric, 2) IS DISTINCT FROM e." + n
	case catalog.CastInteger:
		return "NULLIF(db." + n + "::text,'')::int IS DISTINCT FROM e." + n
	case catalog.CastTimestamp:
		return "db." + n + "::timestamp IS DISTINCT FROM e." + n
	default:
		return "NULLIF(db." + n + "::text,'') IS DISTINCT FROM NULLIF(e." + n + "::text,'')"
	}
}

func sameKey(name string) string {
	return "NULLIF(db." + name + "::text,'') IS NOT DISTINCT FROM NULLIF(e." + name + "::text,'')"
}

// writeMismatches writes one CASE per compared column, comma separated.
func writeMismatches(b *strings.Builder, cols []catalog.Column, indent string) {
	for i, c := range cols {
		b.WriteString(indent)
		b.WriteString("CASE WHEN ")
		b.WriteString(mismatch(c))
		b.WriteString(" THEN '")
		b.WriteString(c.Name)
		b.WriteString("' END")
		if i < len(cols)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
}

// writeNameList writes every catalog name quoted, wrapped to a readable width.
func writeNameList(b *strings.Builder, indent string) {
	const width = 110
	line := 0
	for i, name := range catalog.Names() {
		item := "'" + name + "'"
		if i < catalog.Count-1 {
			item += ","
		}
		if line > 0 && line+len(item) > width {
			b.WriteByte('\n')
			line = 0
		}
		if line == 0 {
			b.WriteString(indent)
			line = len(indent)
		}
		b.WriteString(item)
		line += len(item)
	}
	b.WriteByte('\n')
}

// validationSuffix renders the reconciliation SELECT that follows the
// excel CTE. Rows with no matching event report every catalog column.
func validationSuffix(dateID string, mode Mode) string {
	p := profiles[mode]
	var b strings.Builder

	b.WriteString("SELECT\n")
	for _, k := range joinKeys {
		b.WriteString("    e." + k + ",\n")
	}
	b.WriteString("    CASE\n")
	b.WriteString("      WHEN db.document_no IS NULL THEN ARRAY[\n")
	writeNameList(&b, "        ")
	b.WriteString("      ]::text[]\n")
	b.WriteString("      ELSE array_remove(ARRAY[\n")
	writeMismatches(&b, p.compare, "        ")
	b.WriteString("      ]::text[], NULL)\n")
	b.WriteString("    END AS invalid_columns,\n")

	b.WriteString("    (CASE\n")
	b.WriteString("      WHEN db.document_no IS NULL THEN FALSE\n")
	b.WriteString("      ELSE CARDINALITY(\n")
	b.WriteString("        array_remove(ARRAY[\n")
	writeMismatches(&b, p.compare, "          ")
	b.WriteString("        ]::text[], NULL)\n")
	b.WriteString("      ) = 0\n")
	b.WriteString("    END) AS is_valid\n")

	b.WriteString("  FROM excel e\n")
	b.WriteString("  LEFT JOIN " + eventsTable(dateID, mode) + " db\n")
	for i, k := range joinKeys {
		if i == 0 {
			b.WriteString("    ON ")
		} else {
			b.WriteString("  AND ")
		}
		b.WriteString(sameKey(k))
		b.WriteByte('\n')
	}
	b.WriteString("  ")
	return b.String()
}
