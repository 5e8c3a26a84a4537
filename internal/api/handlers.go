package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/resograph/resograph/pkg/archive"
	"github.com/resograph/resograph/pkg/document"
	apperrors "github.com/resograph/resograph/pkg/errors"
	"github.com/resograph/resograph/pkg/record"
	"github.com/resograph/resograph/pkg/render/nodelink"
	"github.com/resograph/resograph/pkg/store"
)

// SyncResponse summarizes the outcome of a sync request.
type SyncResponse struct {
	Records []document.Identity    `json:"records"`
	Meta    map[string]any         `json:"meta,omitempty"`
	Errors  []document.ErrorObject `json:"errors,omitempty"`
	Size    int                    `json:"size"`
}

// SyncDocument handles POST /v1/sync. The body is a resource-linking
// document; its resources are normalized into the shared store.
func (s *Server) SyncDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := document.Read(r.Body)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidDocument, err, "parse document"))
		return
	}

	var result store.Result
	s.mu.Lock()
	if len(doc.Errors) > 0 {
		result = store.Result{Errors: doc.Errors}
	} else {
		result = s.store.SyncWithMeta(doc)
	}
	size := s.store.Size()
	s.mu.Unlock()

	resp := SyncResponse{
		Records: make([]document.Identity, 0, len(result.Records)+1),
		Meta:    result.Meta,
		Errors:  result.Errors,
		Size:    size,
	}
	if result.Record != nil {
		resp.Records = append(resp.Records, result.Record.Identity())
	}
	for _, m := range result.Records {
		resp.Records = append(resp.Records, m.Identity())
	}
	writeJSON(w, http.StatusOK, resp)
}

// ResetStore handles POST /v1/reset.
func (s *Server) ResetStore(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.store.Reset()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]int{"size": 0})
}

// ListTypes handles GET /v1/types.
func (s *Server) ListTypes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	types := s.store.Types()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"types": types})
}

// ListRecords handles GET /v1/records/{type}. The response is a collection
// document holding the serialized form of every record of that type.
func (s *Server) ListRecords(w http.ResponseWriter, r *http.Request) {
	typeName := chi.URLParam(r, "type")

	s.mu.Lock()
	records := s.store.FindAll(typeName)
	resources := make([]document.Resource, 0, len(records))
	for _, m := range records {
		resources = append(resources, *m.Serialize(record.SerializeOptions{}).Data.One)
	}
	s.mu.Unlock()

	writeDocument(w, http.StatusOK, document.Collection(resources))
}

// GetRecord handles GET /v1/records/{type}/{id}.
func (s *Server) GetRecord(w http.ResponseWriter, r *http.Request) {
	typeName := chi.URLParam(r, "type")
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	m := s.store.Find(typeName, id)
	var doc document.Document
	if m != nil {
		doc = m.Serialize(record.SerializeOptions{})
	}
	s.mu.Unlock()

	if m == nil {
		writeError(w, apperrors.New(apperrors.ErrCodeRecordNotFound, "record %s/%s does not exist", typeName, id))
		return
	}
	writeDocument(w, http.StatusOK, doc)
}

// DeleteRecord handles DELETE /v1/records/{type}/{id}. Related records are
// untouched; any relationships pointing at the deleted record keep their
// stale references, matching in-process destroy semantics.
func (s *Server) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	typeName := chi.URLParam(r, "type")
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	m := s.store.Find(typeName, id)
	if m != nil {
		s.store.Destroy(m)
	}
	size := s.store.Size()
	s.mu.Unlock()

	if m == nil {
		writeError(w, apperrors.New(apperrors.ErrCodeRecordNotFound, "record %s/%s does not exist", typeName, id))
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"size": size})
}

// GraphDOT handles GET /v1/graph.dot.
func (s *Server) GraphDOT(w http.ResponseWriter, r *http.Request) {
	detailed := r.URL.Query().Get("detailed") == "true"

	s.mu.Lock()
	dot := nodelink.ToDOT(s.store, nodelink.Options{Detailed: detailed})
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(dot))
}

// GraphSVG handles GET /v1/graph.svg.
func (s *Server) GraphSVG(w http.ResponseWriter, r *http.Request) {
	detailed := r.URL.Query().Get("detailed") == "true"

	s.mu.Lock()
	dot := nodelink.ToDOT(s.store, nodelink.Options{Detailed: detailed})
	s.mu.Unlock()

	svg, err := nodelink.RenderSVG(dot)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "render graph"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

// CreateSnapshotRequest is the request body for creating a snapshot.
type CreateSnapshotRequest struct {
	Label string `json:"label"`
}

// CreateSnapshot handles POST /v1/snapshots.
func (s *Server) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	var req CreateSnapshotRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "parse request"))
			return
		}
	}

	s.mu.Lock()
	snap := archive.Take(s.store, req.Label)
	s.mu.Unlock()

	if err := s.archive.Save(r.Context(), snap); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// ListSnapshots handles GET /v1/snapshots.
func (s *Server) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	snaps, err := s.archive.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"snapshots": snaps})
}

// GetSnapshot handles GET /v1/snapshots/{id}.
func (s *Server) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.archive.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// DeleteSnapshot handles DELETE /v1/snapshots/{id}.
func (s *Server) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.archive.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestoreSnapshot handles POST /v1/snapshots/{id}/restore. The snapshot's
// resources replay through the normal sync path and merge into the store.
func (s *Server) RestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.archive.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	restored := archive.Restore(s.store, snap)
	size := s.store.Size()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]int{
		"restored": len(restored),
		"size":     size,
	})
}

// =============================================================================
// Response Helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDocument writes a resource-linking document response.
func writeDocument(w http.ResponseWriter, status int, doc document.Document) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = document.Write(doc, w)
}

// errorResponse is the JSON body for failed requests.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case apperrors.ErrCodeInvalidDocument, apperrors.ErrCodeInvalidResource,
		apperrors.ErrCodeInvalidFormat, apperrors.ErrCodeInvalidConfig:
		status = http.StatusBadRequest
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeRecordNotFound,
		apperrors.ErrCodeSnapshotNotFound, apperrors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	}
	writeJSON(w, status, errorResponse{
		Code:    string(code),
		Message: apperrors.UserMessage(err),
	})
}
