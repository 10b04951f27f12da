package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
)

// outputPath extracts the file path after /api/output/{project}/.
// Encoded slashes are accepted.
func outputPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListOutput handles GET /api/output/{project}.
func (h *Handler) ListOutput(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")
	if !requireProject(w, project) {
		return
	}
	files, err := h.svc.Files(r.Context(), project)
	if err != nil {
		writeError(w, "list output", err)
		return
	}
	resp := OutputListResponse{Project: project, Files: make([]OutputFile, 0, len(files))}
	for _, f := range files {
		resp.Files = append(resp.Files, OutputFile{
			Path:     strings.TrimPrefix(f.Path, project+"/"),
			Size:     f.Size,
			Checksum: f.Checksum,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetOutputFile handles GET /api/output/{project}/*.
func (h *Handler) GetOutputFile(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")
	rel := outputPath(r)
	if !requireProject(w, project) {
		return
	}
	if rel == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	data, err := h.svc.ReadFile(r.Context(), project, rel)
	if err != nil {
		writeError(w, "read output", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// DeleteOutputFile handles DELETE /api/output/{project}/*.
func (h *Handler) DeleteOutputFile(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")
	rel := outputPath(r)
	if !requireProject(w, project) {
		return
	}
	if rel == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if err := h.svc.RemoveFile(r.Context(), project, rel); err != nil {
		writeError(w, "remove output", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteOutput handles DELETE /api/output/{project}.
func (h *Handler) DeleteOutput(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")
	if !requireProject(w, project) {
		return
	}
	if err := h.svc.Clean(r.Context(), project); err != nil {
		writeError(w, "clean output", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
