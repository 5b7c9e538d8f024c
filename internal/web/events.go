package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/ivanmalyshevv/weblarek/internal/app"
	"github.com/ivanmalyshevv/weblarek/internal/dom"
)

// maxEventBody bounds the size of one interaction.
const maxEventBody = 64 << 10

// EventRequest is one browser interaction.
type EventRequest struct {
	Ref   string `json:"ref" validate:"required"`
	Type  string `json:"type" validate:"required,oneof=click input submit"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value"`
}

// Frame is a rendered document as sent to the browser.
type Frame struct {
	Revision uint64 `json:"revision"`
	HTML     string `json:"html"`
}

func newFrame(snap app.Snapshot) Frame {
	return Frame{Revision: snap.Revision, HTML: string(snap.HTML)}
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBody))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed event: " + err.Error()})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: describeInvalid(err)})
		return
	}

	log := s.log.WithFields(map[string]any{
		"request_id": requestID(r),
		"ref":        req.Ref,
		"type":       req.Type,
	})
	if req.Name != "" {
		log = log.WithField("name", req.Name)
	}

	snap, err := s.session.Dispatch(r.Context(), req.Ref, req.Type, req.Value)
	switch {
	case errors.Is(err, dom.ErrUnknownRef):
		// The page is stale; the client reloads from the frame.
		log.Debug("event on unknown node")
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
		return
	case errors.Is(err, app.ErrNotRunning):
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: err.Error()})
		return
	case err != nil:
		// Handler failures still leave a consistent document.
		log.WithError(err).Warn("event handling failed")
	}

	w.Header().Set(RevisionHeader, strconv.FormatUint(snap.Revision, 10))
	writeJSON(w, http.StatusOK, newFrame(snap))
}

func describeInvalid(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	if fe.Tag() == "required" {
		return fe.Field() + " is required"
	}
	return fe.Field() + " must be one of: " + fe.Param()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
