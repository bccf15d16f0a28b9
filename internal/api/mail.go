package api

import (
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/postpanda/mailmerge/pkg/mailer"
	"github.com/postpanda/mailmerge/pkg/template"
)

// maxUploadBytes caps the recipient table upload.
const maxUploadBytes = 16 << 20

// handleUpload ingests a CSV recipient table and parks it in the
// session store. The response carries the session id the send
// endpoints refer back to, plus the detected columns for the mapping
// UI.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.respondError(w, http.StatusBadRequest, "expected a multipart upload with a 'file' field")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing 'file' field in upload")
		return
	}
	defer file.Close()

	ds, err := parseCSV(file)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := h.sessions.Put(ds)
	h.log.Info("dataset uploaded", "session", id, "rows", len(ds.Rows), "columns", len(ds.Columns))
	h.respondJSON(w, http.StatusOK, map[string]any{
		"sessionId": id,
		"columns":   ds.Columns,
		"rowCount":  len(ds.Rows),
	})
}

// parseCSV reads a header row plus data rows. Fully empty rows are
// dropped; ragged rows are tolerated by padding or truncating to the
// header width.
func parseCSV(r io.Reader) (*mailer.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.New("could not read the table: missing header row")
	}
	columns := make([]string, len(header))
	for i, c := range header {
		columns[i] = strings.TrimSpace(c)
	}

	ds := &mailer.Dataset{Columns: columns}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.New("could not read the table: malformed CSV row")
		}
		row := make(template.Row, len(columns))
		empty := true
		for i, col := range columns {
			var cell string
			if i < len(record) {
				cell = record[i]
			}
			if strings.TrimSpace(cell) != "" {
				empty = false
			}
			row[col] = cell
		}
		if empty {
			continue
		}
		ds.Rows = append(ds.Rows, row)
	}
	if len(ds.Rows) == 0 {
		return nil, mailer.ErrEmptyDataset
	}
	return ds, nil
}

func (h *Handler) dataset(w http.ResponseWriter, sessionID string) (*mailer.Dataset, bool) {
	ds, ok := h.sessions.Get(strings.TrimSpace(sessionID))
	if !ok {
		h.respondError(w, http.StatusNotFound, errSessionUnknown.Error())
		return nil, false
	}
	return ds, true
}

// handlePreview resolves one row without touching any channel.
func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	ds, ok := h.dataset(w, req.SessionID)
	if !ok {
		return
	}
	content, err := req.content()
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	rendered, err := mailer.Preview(content, ds, req.Index)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"index":     rendered.Index,
		"recipient": rendered.Recipient,
		"valid":     rendered.Valid,
		"text":      rendered.Resolved,
		"html":      rendered.HTML,
		"rowCount":  ds.Len(),
	})
}

// handleSendTest delivers a single rendered row. Sender-backed
// channels send it to the configured sender address; the mail-app
// channel drafts it for the row's own recipient.
func (h *Handler) handleSendTest(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	ds, ok := h.dataset(w, req.SessionID)
	if !ok {
		return
	}
	content, err := req.content()
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	ch, err := h.channel(r.Context(), req)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	rendered, err := mailer.SendTest(r.Context(), ch, content, ds, req.Index)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	h.log.Info("test message delivered", "channel", ch.Name(), "index", rendered.Index)
	h.respondJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"index":     rendered.Index,
		"recipient": rendered.Recipient,
	})
}

// handleSendAll runs the whole batch. The response reports the batch
// accounting; the mail-app mode labels successes "drafted" because
// nothing left the machine.
func (h *Handler) handleSendAll(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	ds, ok := h.dataset(w, req.SessionID)
	if !ok {
		return
	}
	content, err := req.content()
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	ch, err := h.channel(r.Context(), req)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	result, err := mailer.SendAll(r.Context(), ch, content, ds)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	h.log.Info("batch finished",
		"channel", ch.Name(),
		"total", result.Total,
		"delivered", result.Sent,
		"skipped", result.Skipped,
	)
	body := map[string]any{
		"total":   result.Total,
		"skipped": result.Skipped,
	}
	if ch.Sender() == "" {
		body["drafted"] = result.Sent
	} else {
		body["sent"] = result.Sent
	}
	h.respondJSON(w, http.StatusOK, body)
}
