package sqlgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AcctEventSQL/internal/apperr"
	"AcctEventSQL/internal/cell"
	"AcctEventSQL/internal/extract"
)

func rowWith(t *testing.T, vals map[string]cell.Value) extract.Row {
	t.Helper()
	var r extract.Row
	for k, v := range vals {
		require.NoError(t, r.Set(k, v))
	}
	return r
}

func TestDeriveKeysDeduplicatesInOrder(t *testing.T) {
	rows := []extract.Row{
		rowWith(t, map[string]cell.Value{"sn_no": cell.TextValue("A1"), "pn_no": cell.TextValue("00")}),
		rowWith(t, map[string]cell.Value{"sn_no": cell.TextValue("B2")}),
		rowWith(t, map[string]cell.Value{"sn_no": cell.NumberValue(7), "pn_no": cell.NumberValue(1.5)}),
		rowWith(t, map[string]cell.Value{"sn_no": cell.TextValue("A1"), "pn_no": cell.TextValue("00")}),
	}

	keys := DeriveKeys(rows)
	assert.Equal(t, []string{"A1-00", "7-1.5"}, keys.Keys)
	assert.Equal(t, []string{"A1-00%", "7-1.5%"}, keys.Likes)

	empty := DeriveKeys(nil)
	assert.NotNil(t, empty.Keys)
	assert.Empty(t, empty.Keys)
}

func TestGenerateRejectsBadParameters(t *testing.T) {
	g := NewGenerator(ConfirmPolicy{})

	_, err := g.Generate(Request{DateID: "2026061", Mode: ModeSuccess})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInvalidParameter)
	assert.Equal(t, MsgInvalidDate, apperr.Message(err))

	_, err = g.Generate(Request{DateID: "2026-06-15", Mode: ModeSuccess})
	assert.ErrorIs(t, err, apperr.ErrInvalidParameter)

	_, err = g.Generate(Request{DateID: "20260615", Mode: "unknown"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInvalidParameter)
	assert.Equal(t, MsgInvalidMode, apperr.Message(err))

	// date is checked before mode
	_, err = g.Generate(Request{DateID: "x", Mode: "unknown"})
	assert.Equal(t, MsgInvalidDate, apperr.Message(err))
}

func TestConfirmationPolicy(t *testing.T) {
	g := NewGenerator(ConfirmPolicy{Enabled: true})
	assert.Equal(t, DefaultConfirmPhrase, g.Policy.Phrase)

	_, err := g.Generate(Request{ConfirmText: "yes", DateID: "bad", Mode: ModeFail})
	assert.ErrorIs(t, err, apperr.ErrConfirmationMismatch, "confirmation is checked first")

	res, err := g.Generate(Request{ConfirmText: DefaultConfirmPhrase, DateID: "20260615", Mode: ModeFail})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Main)

	// disabled policy ignores the text entirely
	_, err = NewGenerator(ConfirmPolicy{}).Generate(Request{ConfirmText: "anything", DateID: "20260615", Mode: ModeSuccess})
	assert.NoError(t, err)
}

func TestGenerateWithNoRowsUsesNullPlaceholders(t *testing.T) {
	res, err := NewGenerator(ConfirmPolicy{}).Generate(Request{DateID: "20260615", Mode: ModeSuccess})
	require.NoError(t, err)

	assert.Equal(t, "DELETE\nFROM accounting.gisx_accounting_running_no x\nWHERE x.prefix IN (NULL);", res.RunningNo)
	assert.Equal(t, "DELETE\nFROM accounting.accounting_20260615_success_events x\nWHERE x.document_no LIKE ANY (ARRAY[NULL]);", res.SuccessEvents)
	assert.Equal(t, "DELETE\nFROM accounting.accounting_20260615_fail_events x\nWHERE x.document_no LIKE ANY (ARRAY[NULL]);", res.FailEvents)
}

func TestGenerateSuccessMode(t *testing.T) {
	rows := []extract.Row{
		rowWith(t, map[string]cell.Value{
			"document_no": cell.TextValue("O'Brien"),
			"amount":      cell.NumberValue(123.456),
			"policy_year": cell.NumberValue(2024.9),
			"sn_no":       cell.TextValue("A1"),
			"pn_no":       cell.TextValue("00"),
		}),
		rowWith(t, map[string]cell.Value{
			"sn_no": cell.TextValue("A1"),
			"pn_no": cell.TextValue("00"),
		}),
	}

	res, err := NewGenerator(ConfirmPolicy{}).Generate(Request{Rows: rows, DateID: "20260615", Mode: ModeSuccess})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.Main, "WITH excel AS (\n  SELECT\n    v.event_module,\n    v.event_module_action,"))
	assert.Contains(t, res.Main, "'O''Brien'::text")
	assert.Contains(t, res.Main, "'123.456'::numeric(18,2)")
	assert.Contains(t, res.Main, "2024::int")
	assert.Contains(t, res.Main, "  ) AS v(event_module, event_module_action, document_no,")
	assert.Contains(t, res.Main, "payment_date)\n)\n SELECT\n    e.document_no,")
	cte := res.Main[:strings.Index(res.Main, ") AS v(")]
	assert.Equal(t, 2, strings.Count(cte, "\n    (NULL::text, NULL::text, "), "one tuple per row")

	assert.Contains(t, res.Main, "LEFT JOIN accounting.accounting_20260615_success_events db\n")
	assert.Contains(t, res.Main, "    ON NULLIF(db.document_no::text,'') IS NOT DISTINCT FROM NULLIF(e.document_no::text,'')\n")
	assert.Contains(t, res.Main, "  AND NULLIF(db.reinsurance_type::text,'') IS NOT DISTINCT FROM NULLIF(e.reinsurance_type::text,'')\n")
	assert.Contains(t, res.Main, "CASE WHEN trunc(db.amount::numeric, 2) IS DISTINCT FROM e.amount THEN 'amount' END,")
	assert.Contains(t, res.Main, "CASE WHEN NULLIF(db.period::text,'')::int IS DISTINCT FROM e.period THEN 'period' END,")
	assert.Contains(t, res.Main, "CASE WHEN db.payment_date::timestamp IS DISTINCT FROM e.payment_date THEN 'payment_date' END\n")
	assert.NotContains(t, res.Main, "THEN 'failure_type' END")
	// missing rows still list every column, failure ones included
	assert.Contains(t, res.Main, "'failure_type',")

	assert.Equal(t, "DELETE\nFROM accounting.gisx_accounting_running_no x\nWHERE x.prefix IN ('A1-00');", res.RunningNo)
	assert.Contains(t, res.SuccessEvents, "ARRAY['A1-00%']")
	assert.Contains(t, res.FailEvents, "accounting_20260615_fail_events")
	assert.Equal(t, []string{"A1-00"}, res.Keys.Keys)
}

func TestGenerateFailMode(t *testing.T) {
	rows := []extract.Row{rowWith(t, map[string]cell.Value{"failure_type": cell.TextValue("E1")})}

	res, err := NewGenerator(ConfirmPolicy{}).Generate(Request{Rows: rows, DateID: "20260615", Mode: ModeFail})
	require.NoError(t, err)

	assert.Contains(t, res.Main, "LEFT JOIN accounting.accounting_20260615_fail_events db")
	assert.NotContains(t, res.Main, "_success_events")
	assert.Equal(t, 2, strings.Count(res.Main, "THEN 'failure_type' END"))
	assert.Equal(t, 2, strings.Count(res.Main, "THEN 'failure_reason' END"))

	pe := strings.Index(res.Main, "THEN 'policy_effective_date' END")
	ft := strings.Index(res.Main, "THEN 'failure_type' END")
	pn := strings.Index(res.Main, "THEN 'pn_no' END")
	assert.True(t, pe < ft && ft < pn, "failure columns follow policy_effective_date")

	// success and fail cleanup do not depend on mode
	assert.Contains(t, res.SuccessEvents, "accounting_20260615_success_events")
}

func TestSuffixShape(t *testing.T) {
	s := validationSuffix("20260615", ModeSuccess)
	assert.True(t, strings.HasPrefix(s, "SELECT\n    e.document_no,\n    e.account_code,\n    e.plan_type,\n    e.reinsurance_type,\n    CASE\n"))
	assert.Contains(t, s, "    END AS invalid_columns,\n")
	assert.Contains(t, s, "      ) = 0\n    END) AS is_valid\n  FROM excel e\n")
	assert.Equal(t, 31*2, strings.Count(s, "CASE WHEN "))
	assert.Equal(t, 33*2, strings.Count(validationSuffix("20260615", ModeFail), "CASE WHEN "))
}
