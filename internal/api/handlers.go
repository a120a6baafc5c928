package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	lerrors "github.com/linealens/linealens/pkg/errors"
	"github.com/linealens/linealens/pkg/export"
	"github.com/linealens/linealens/pkg/lineage"
	"github.com/linealens/linealens/pkg/pipeline"
	"github.com/linealens/linealens/pkg/project"
)

// graphPayload carries a node/edge set over the wire. Filter and trace
// requests embed it so clients can operate on unsaved graphs.
type graphPayload struct {
	Nodes []lineage.Node `json:"nodes"`
	Edges []lineage.Edge `json:"edges"`
}

func (p graphPayload) graph() *lineage.Graph {
	return &lineage.Graph{Nodes: p.Nodes, Edges: p.Edges}
}

func graphResponse(g *lineage.Graph) graphPayload {
	return graphPayload{Nodes: g.Nodes, Edges: g.Edges}
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := lerrors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case lerrors.ErrCodeInvalidManifest, lerrors.ErrCodeEmptyManifest,
		lerrors.ErrCodeInvalidBackup, lerrors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case lerrors.ErrCodeNotFound, lerrors.ErrCodeProjectNotFound, lerrors.ErrCodeNodeNotFound:
		status = http.StatusNotFound
	}
	s.writeJSON(w, status, errorResponse{Error: lerrors.UserMessage(err), Code: string(code)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleParse accepts a raw manifest body and returns the built, laid-out
// graph. Pass ?name=<project>&save=true to also persist a snapshot.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	opts := pipeline.Options{
		Manifest:    r.Body,
		ProjectName: r.URL.Query().Get("name"),
		Save:        r.URL.Query().Get("save") == "true",
		Logger:      s.logger,
	}
	result, err := s.runner.Import(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := struct {
		graphPayload
		SourceProject string                `json:"sourceProject,omitempty"`
		Project       *project.SavedProject `json:"project,omitempty"`
	}{
		graphPayload:  graphResponse(result.Graph),
		SourceProject: result.SourceProject,
		Project:       result.Project,
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleFilter applies filter criteria to a posted graph and returns the
// surviving sub-graph with a fresh layout.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		graphPayload
		Filters project.FilterState `json:"filters"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "decode filter request"))
		return
	}
	out := s.runner.Filter(req.graph(), req.Filters.Criteria())
	s.writeJSON(w, http.StatusOK, graphResponse(out))
}

// handleTrace returns the sub-graph reachable from a node in the requested
// direction (upstream, downstream or both).
func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		graphPayload
		NodeID    string `json:"nodeId"`
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "decode trace request"))
		return
	}
	out, err := s.runner.Trace(req.graph(), req.NodeID, pipeline.Direction(req.Direction))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, graphResponse(out))
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if entries == nil {
		entries = []project.Metadata{}
	}
	s.writeJSON(w, http.StatusOK, entries)
}

// handleSaveProject upserts a posted project snapshot. The body is a full
// SavedProject; re-posting the same id updates it in place.
func (s *Server) handleSaveProject(w http.ResponseWriter, r *http.Request) {
	var p project.SavedProject
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.writeError(w, lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "decode project"))
		return
	}
	if !p.Valid() {
		s.writeError(w, lerrors.New(lerrors.ErrCodeInvalidInput, "project is missing id, nodes or edges"))
		return
	}
	if err := s.store.Save(r.Context(), &p); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p.Metadata)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := s.store.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if p == nil {
		s.writeError(w, lerrors.New(lerrors.ErrCodeProjectNotFound, "project %s not found", id))
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportProject returns the minimal graph projection of a saved
// project, suitable for external work-plan tooling.
func (s *Server) handleExportProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := s.store.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if p == nil {
		s.writeError(w, lerrors.New(lerrors.ErrCodeProjectNotFound, "project %s not found", id))
		return
	}
	s.writeJSON(w, http.StatusOK, export.Minimal(p.Metadata.Name, p.Graph()))
}

func (s *Server) handleExportBackup(w http.ResponseWriter, r *http.Request) {
	backup, err := s.store.ExportAll(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, backup)
}

func (s *Server) handleImportBackup(w http.ResponseWriter, r *http.Request) {
	var backup project.DatabaseBackup
	if err := json.NewDecoder(r.Body).Decode(&backup); err != nil {
		s.writeError(w, lerrors.Wrap(lerrors.ErrCodeInvalidBackup, err, "decode backup"))
		return
	}
	imported, err := s.store.ImportAll(r.Context(), &backup)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"imported": imported})
}
