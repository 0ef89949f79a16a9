// Package handlers provides the HTTP handlers of the check API.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/querylint/querylint/pkg/autofix"
	"github.com/querylint/querylint/pkg/check"
	"github.com/querylint/querylint/pkg/checkerr"
	"github.com/querylint/querylint/pkg/config"
	"github.com/querylint/querylint/pkg/render"
	"github.com/querylint/querylint/server/types"
)

// QueryChecker is the checking pipeline the handler runs requests through.
type QueryChecker interface {
	Check(ctx context.Context, req check.Request) (*check.Result, error)
}

// CheckHandler handles query check HTTP requests.
type CheckHandler struct {
	checker QueryChecker
	marker  string
}

// NewCheckHandler creates a check handler. marker is the default wrapper
// type name used when a request names none.
func NewCheckHandler(checker QueryChecker, marker string) *CheckHandler {
	return &CheckHandler{checker: checker, marker: marker}
}

// Check handles POST /v1/check.
func (h *CheckHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req types.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, checkerr.NewInvalidParameterError("body", "invalid JSON"))
		return
	}
	if req.SQL == "" {
		sendError(w, http.StatusBadRequest, checkerr.NewInvalidParameterError("sql", "required"))
		return
	}

	marker := req.Marker
	if marker == "" {
		marker = h.marker
	}
	format, err := check.FormatFor(config.ShapeName(req.Shape), marker, req.Array)
	if err != nil {
		sendError(w, http.StatusBadRequest, checkerr.FromError(err))
		return
	}

	checkReq := check.Request{
		SQL:            req.SQL,
		Format:         format,
		Source:         req.Source,
		AnnotationText: req.AnnotationText,
	}
	if req.Annotation != nil {
		checkReq.Annotation = autofix.Annotation{
			Present: true,
			Start:   req.Annotation.Start,
			End:     req.Annotation.End,
		}
	}

	result, err := h.checker.Check(r.Context(), checkReq)
	if err != nil {
		ce := checkerr.FromError(err)
		status := http.StatusInternalServerError
		if ce.Code == checkerr.CodeInvalidParameter {
			status = http.StatusBadRequest
		}
		sendError(w, status, ce)
		return
	}

	sendJSON(w, http.StatusOK, types.CheckResponse{
		Success: true,
		Data:    successData(result),
	})
}

// Health handles GET /health.
func (h *CheckHandler) Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// successData maps a pipeline result onto the wire shape.
func successData(result *check.Result) *types.CheckSuccessData {
	data := &types.CheckSuccessData{
		RequestID:  uuid.NewString(),
		Skipped:    result.Skipped,
		SkipReason: result.SkipReason,
		Rendered:   result.Rendered,
	}
	if result.Registry != nil {
		for _, e := range result.Registry.Entries() {
			data.Columns = append(data.Columns, types.ColumnType{
				Name:     e.Name,
				Type:     render.RenderDescriptor(e.Descriptor),
				Nullable: e.Descriptor.Nullable,
			})
		}
	}
	for _, d := range result.Discrepancies {
		data.Discrepancies = append(data.Discrepancies, types.Discrepancy{
			Kind:     d.Kind.String(),
			Column:   d.Name,
			Expected: d.Expected,
			Actual:   d.Actual,
			Message:  d.Message(),
		})
	}
	for _, f := range result.Fixes {
		data.Fixes = append(data.Fixes, types.TextEdit{Start: f.Start, End: f.End, Text: f.Text})
	}
	return data
}

func sendError(w http.ResponseWriter, status int, err *checkerr.CheckError) {
	sendJSON(w, status, types.CheckResponse{
		Success: false,
		Message: err.Message,
		Code:    err.Code,
	})
}

func sendJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
