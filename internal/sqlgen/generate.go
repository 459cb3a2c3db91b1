// Package sqlgen renders the reconciliation query and cleanup statements
// for a set of extracted accounting rows. It only produces text; nothing
// here talks to a database.
package sqlgen

import (
	"fmt"
	"regexp"
	"strings"

	"AcctEventSQL/internal/apperr"
	"AcctEventSQL/internal/catalog"
	"AcctEventSQL/internal/extract"
)

type Mode string

const (
	ModeSuccess Mode = "success"
	ModeFail    Mode = "fail"
)

func (m Mode) Valid() bool {
	return m == ModeSuccess || m == ModeFail
}

const (
	MsgInvalidDate    = "inputdate must be exactly 8 digits, e.g. 20260615"
	MsgInvalidMode    = `mode must be "success" or "fail"`
	MsgConfirmMissing = "confirmation text does not match; type %q to generate SQL"
)

var dateIDPattern = regexp.MustCompile(`^[0-9]{8}$`)

// ConfirmPolicy optionally gates generation behind an exact phrase.
type ConfirmPolicy struct {
	Enabled bool
	Phrase  string
}

// DefaultConfirmPhrase is the phrase operators type in the grid page.
const DefaultConfirmPhrase = "Extract ตรง Excel 100%"

type Request struct {
	Rows        []extract.Row
	ConfirmText string
	DateID      string
	Mode        Mode
}

type Result struct {
	Main          string `json:"sql_main"`
	RunningNo     string `json:"sql_running_no"`
	SuccessEvents string `json:"sql_success_events"`
	FailEvents    string `json:"sql_fail_events"`
	Keys          Keys   `json:"-"`
}

type Generator struct {
	Policy ConfirmPolicy
}

func NewGenerator(policy ConfirmPolicy) *Generator {
	if policy.Enabled && policy.Phrase == "" {
		policy.Phrase = DefaultConfirmPhrase
	}
	return &Generator{Policy: policy}
}

// Validate checks the request parameters in order: confirmation (when the
// policy requires it), date id, then mode.
func (g *Generator) Validate(req Request) error {
	if g.Policy.Enabled && req.ConfirmText != g.Policy.Phrase {
		return apperr.ConfirmationMismatch(fmt.Sprintf(MsgConfirmMissing, g.Policy.Phrase))
	}
	if !dateIDPattern.MatchString(req.DateID) {
		return apperr.InvalidParameter(MsgInvalidDate)
	}
	if !req.Mode.Valid() {
		return apperr.InvalidParameter(MsgInvalidMode)
	}
	return nil
}

// Generate produces all four statements or none.
func (g *Generator) Generate(req Request) (*Result, error) {
	if err := g.Validate(req); err != nil {
		return nil, err
	}

	keys := DeriveKeys(req.Rows)
	return &Result{
		Main:          excelCTE(req.Rows) + " " + validationSuffix(req.DateID, req.Mode),
		RunningNo:     deleteRunningNo(keys.Keys),
		SuccessEvents: deleteEvents(req.DateID, ModeSuccess, keys.Likes),
		FailEvents:    deleteEvents(req.DateID, ModeFail, keys.Likes),
		Keys:          keys,
	}, nil
}

// excelCTE embeds rows as a VALUES list, one tuple per row in catalog order.
func excelCTE(rows []extract.Row) string {
	names := catalog.Names()
	var b strings.Builder

	b.WriteString("WITH excel AS (\n  SELECT\n    v.")
	b.WriteString(strings.Join(names, ",\n    v."))
	b.WriteString("\n  FROM (VALUES\n")

	parts := make([]string, catalog.Count)
	for i := range rows {
		for j, c := range catalog.Columns {
			parts[j] = Literal(rows[i].Values[j], c.Cast)
		}
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("    (")
		b.WriteString(strings.Join(parts, ", "))
		b.WriteByte(')')
	}

	b.WriteString("\n  ) AS v(")
	b.WriteString(strings.Join(names, ", "))
	b.WriteString(")\n)\n")
	return b.String()
}
