package sqlgen

import (
	"fmt"
	"strings"
)

const (
	accountingSchema = "accounting"
	runningNoTable   = accountingSchema + ".gisx_accounting_running_no"
)

// eventsTable names the per-date event table for mode.
func eventsTable(dateID string, mode Mode) string {
	return fmt.Sprintf("%s.accounting_%s_%s_events", accountingSchema, dateID, mode)
}

// quotedList joins quoted items, or yields NULL when there are none so the
// statement stays valid and matches nothing.
func quotedList(items []string) string {
	if len(items) == 0 {
		return "NULL"
	}
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = QuoteText(s)
	}
	return strings.Join(quoted, ", ")
}

func deleteRunningNo(keys []string) string {
	return "DELETE\nFROM " + runningNoTable + " x\nWHERE x.prefix IN (" + quotedList(keys) + ");"
}

func deleteEvents(dateID string, mode Mode, likes []string) string {
	return "DELETE\nFROM " + eventsTable(dateID, mode) + " x\nWHERE x.document_no LIKE ANY (ARRAY[" + quotedList(likes) + "]);"
}
