// Package catalog holds the fixed business column layout of the accounting
// validation template. Column identity is positional: the order below is the
// order of spreadsheet columns C..AI and of every generated VALUES tuple.
package catalog

type CastKind uint8

const (
	CastText CastKind = iota
	CastInteger
	CastNumeric
	CastTimestamp
)

// Suffix is the SQL cast appended to every literal of this kind.
func (k CastKind) Suffix() string {
	switch k {
	case CastInteger:
		return "::int"
	case CastNumeric:
		return "::numeric(18,2)"
	case CastTimestamp:
		return "::timestamp"
	default:
		return "::text"
	}
}

func (k CastKind) String() string {
	switch k {
	case CastInteger:
		return "integer"
	case CastNumeric:
		return "numeric(18,2)"
	case CastTimestamp:
		return "timestamp"
	default:
		return "text"
	}
}

type Column struct {
	Name string
	Cast CastKind
}

// Count is the number of business columns: C..AI is 33 names, the same 33
// the reconciliation queries read back from the events tables.
const Count = 33

// Physical offsets (0-based) inside a template row.
const (
	SelectorOffset    = 1 // column B
	FirstColumnOffset = 2 // column C
)

// Key columns used to scope the cleanup statements.
const (
	KeyHeadColumn = "sn_no"
	KeyTailColumn = "pn_no"
)

var Columns = [Count]Column{
	{"event_module", CastText},
	{"event_module_action", CastText},
	{"document_no", CastText},
	{"prefix_document_no", CastText},
	{"suffix_document_no", CastText},
	{"description", CastText},
	{"account_event", CastText},
	{"account_code", CastText},
	{"account_type", CastText},
	{"status", CastText},
	{"company", CastText},
	{"channel", CastText},
	{"product", CastText},
	{"bau", CastText},
	{"payment_type", CastText},
	{"interco", CastText},
	{"fund", CastText},
	{"amount", CastNumeric},
	{"policy_no", CastText},
	{"policy_group_no", CastText},
	{"policy_account_no", CastText},
	{"policy_year", CastInteger},
	{"account_effective_date", CastTimestamp},
	{"policy_effective_date", CastTimestamp},
	{"pn_no", CastText},
	{"sn_no", CastText},
	{"failure_type", CastText},
	{"failure_reason", CastText},
	{"plan_type", CastText},
	{"reinsurance_type", CastText},
	{"period", CastInteger},
	{"issue_date", CastTimestamp},
	{"payment_date", CastTimestamp},
}

var index = func() map[string]int {
	m := make(map[string]int, Count)
	for i, c := range Columns {
		m[c.Name] = i
	}
	return m
}()

// Names returns a fresh copy of the column names in catalog order.
func Names() []string {
	out := make([]string, Count)
	for i, c := range Columns {
		out[i] = c.Name
	}
	return out
}

func Index(name string) (int, bool) {
	i, ok := index[name]
	return i, ok
}

// MustIndex is for package-level lookups of names that are known to exist.
func MustIndex(name string) int {
	i, ok := index[name]
	if !ok {
		panic("catalog: unknown column " + name)
	}
	return i
}
