package accounting

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"AcctEventSQL/api"
	"AcctEventSQL/api/constants"
	"AcctEventSQL/internal/cell"
	"AcctEventSQL/internal/checksum"
	"AcctEventSQL/internal/extract"
	"AcctEventSQL/internal/logger"
	"AcctEventSQL/internal/sheet"
	"AcctEventSQL/internal/sqlgen"
	"AcctEventSQL/internal/templates"
)

// Handlers serves the extract and generate endpoints. It keeps no state
// between requests: the client holds the rows and sends them back.
type Handlers struct {
	Generator   *sqlgen.Generator
	TemplateDir string
}

// Extract handles POST /api/extract with a multipart "file" upload.
func (h *Handlers) Extract(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.RespondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf(constants.ErrBodyTooLarge, tooLarge.Limit>>20))
			return
		}
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrMultipartParse)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(constants.UploadField)
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrNoFile)
		return
	}
	defer file.Close()

	kind, ok := sheet.KindForFilename(header.Filename)
	if !ok {
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrUnsupportedFile)
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf(constants.ErrFileOpen, header.Filename))
		return
	}

	res, err := extract.Extract(data, kind)
	if err != nil {
		api.RespondWithRejection(w, err)
		return
	}

	extractionID := uuid.New().String()
	fingerprint := checksum.Fingerprint(data)
	logger.L().WithFields(map[string]interface{}{
		"request_id":    api.RequestIDFromCtx(r.Context()),
		"extraction_id": extractionID,
		"file":          header.Filename,
		"kind":          kind,
		"fingerprint":   fingerprint,
		"rows":          len(res.Rows),
	}).Info("extracted upload")

	api.RespondWithPayload(w, map[string]interface{}{
		"kind":          res.Kind,
		"rows":          res.Rows,
		"displayRows":   res.DisplayRows,
		"columns":       res.Columns,
		"extraction_id": extractionID,
		"fingerprint":   fingerprint,
	})
}

// flexString accepts any JSON value and keeps its text form, so an
// inputdate typed as 20260615 or "20260615" behaves the same. Arrays and
// objects keep their raw JSON and are left for parameter validation to
// reject.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var v cell.Value
	if err := v.UnmarshalJSON(b); err != nil {
		*f = flexString(bytes.TrimSpace(b))
		return nil
	}
	*f = flexString(v.String())
	return nil
}

type generateRequest struct {
	Rows        json.RawMessage `json:"rows"`
	ConfirmText flexString      `json:"confirmText"`
	InputDate   flexString      `json:"inputdate"`
	Mode        flexString      `json:"mode"`
}

type keysRequest struct {
	Rows json.RawMessage `json:"rows"`
}

// decodeRows requires raw to be a JSON array of row records.
func decodeRows(raw json.RawMessage) ([]extract.Row, string) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, constants.ErrRowsNotArray
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, constants.ErrRowsNotArray
	}
	rows := make([]extract.Row, len(items))
	for i, item := range items {
		if err := json.Unmarshal(item, &rows[i]); err != nil {
			return nil, fmt.Sprintf(constants.ErrInvalidRow, i, err)
		}
	}
	return rows, ""
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.RespondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf(constants.ErrBodyTooLarge, tooLarge.Limit>>20))
			return false
		}
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
		return false
	}
	return true
}

// GenerateSQL handles POST /api/generate-sql.
func (h *Handlers) GenerateSQL(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rows, msg := decodeRows(req.Rows)
	if msg != "" {
		api.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := h.Generator.Generate(sqlgen.Request{
		Rows:        rows,
		ConfirmText: string(req.ConfirmText),
		DateID:      string(req.InputDate),
		Mode:        sqlgen.Mode(req.Mode),
	})
	if err != nil {
		api.RespondWithRejection(w, err)
		return
	}

	logger.L().WithFields(map[string]interface{}{
		"request_id": api.RequestIDFromCtx(r.Context()),
		"inputdate":  req.InputDate,
		"mode":       req.Mode,
		"rows":       len(rows),
		"keys":       len(res.Keys.Keys),
	}).Info("generated sql")

	api.RespondWithPayload(w, map[string]interface{}{
		"sql":                res.Main,
		"sql_main":           res.Main,
		"sql_running_no":     res.RunningNo,
		"sql_success_events": res.SuccessEvents,
		"sql_fail_events":    res.FailEvents,
		"keys":               res.Keys.Keys,
		"likes":              res.Keys.Likes,
	})
}

// DeriveKeys handles POST /api/derive-keys, previewing the cleanup scope.
func (h *Handlers) DeriveKeys(w http.ResponseWriter, r *http.Request) {
	var req keysRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rows, msg := decodeRows(req.Rows)
	if msg != "" {
		api.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}
	keys := sqlgen.DeriveKeys(rows)
	api.RespondWithPayload(w, map[string]interface{}{
		"keys":  keys.Keys,
		"likes": keys.Likes,
	})
}

// Template handles GET /api/template/{kind}. The file written by the
// template service is served when present, otherwise it is built on the fly.
func (h *Handlers) Template(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]
	name, ok := templates.FileName(kind)
	if !ok {
		api.RespondWithError(w, http.StatusNotFound, fmt.Sprintf(constants.ErrUnknownTemplate, kind))
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	if h.TemplateDir != "" {
		path := filepath.Join(h.TemplateDir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			w.Header().Set(constants.ContentTypeHeader, templates.ContentType(kind))
			http.ServeFile(w, r, path)
			return
		}
	}

	data, err := templates.Build(kind)
	if err != nil {
		api.LogError("build %s template: %v", kind, err)
		api.RespondWithError(w, http.StatusInternalServerError, constants.ErrTemplateMissing)
		return
	}
	w.Header().Set(constants.ContentTypeHeader, templates.ContentType(kind))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	api.RespondWithPayload(w, map[string]interface{}{"status": "Accounting Service is active"})
}
