package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/tftdatascientist/drdoc/internal/service"
	"github.com/tftdatascientist/drdoc/internal/transform"
)

// Handler holds API route handlers.
type Handler struct {
	svc *service.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Detect handles POST /api/detect.
//
//	@Summary		Detect the format of raw content
//	@Tags			pipeline
//	@Accept			json
//	@Produce		json
//	@Param			body	body		DetectRequest	true	"Content to analyze"
//	@Success		200		{object}	DetectResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/detect [post]
func (h *Handler) Detect(w http.ResponseWriter, r *http.Request) {
	var req DetectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	d := h.svc.Detect(r.Context(), req.Content)
	writeJSON(w, http.StatusOK, DetectResponse{Format: d.Format, Confidence: d.Confidence})
}

// Parse handles POST /api/parse and returns the document model.
//
//	@Summary		Parse content into a document model
//	@Tags			pipeline
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ParseRequest	true	"Content and optional format hint"
//	@Success		200		{object}	models.Document
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/parse [post]
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Parse(r.Context(), req.Content, req.Format))
}

// Transform handles POST /api/transform.
//
//	@Summary		Transform content for a destination
//	@Tags			pipeline
//	@Accept			json
//	@Produce		json
//	@Param			body	body		TransformRequest	true	"Content, destination and options"
//	@Success		200		{object}	TransformResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/transform [post]
func (h *Handler) Transform(w http.ResponseWriter, r *http.Request) {
	var req TransformRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	for _, d := range h.svc.Destinations() {
		req.destinations = append(req.destinations, d)
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	preview := req.preview()
	out, err := h.svc.Transform(r.Context(), service.TransformRequest{
		Content:     req.Content,
		Format:      req.Format,
		Destination: req.Destination,
		Options:     req.Options.Options,
		Preview:     preview,
		Project:     req.Options.ProjectName,
		Clean:       req.Options.Clean,
	})
	if err != nil {
		writeError(w, "transform", err)
		return
	}
	if len(out.Document.Errors) > 0 {
		slog.Warn("parse warnings", slog.String("errors", strings.Join(out.Document.Errors, "; ")))
	}
	writeJSON(w, http.StatusOK, newTransformResponse(out, preview))
}

// Formats handles GET /api/formats.
func (h *Handler) Formats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, FormatsResponse{Formats: h.svc.Formats()})
}

// Destinations handles GET /api/destinations.
func (h *Handler) Destinations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, DestinationsResponse{
		Destinations: h.svc.Destinations(),
		ContextTypes: transform.ContextTypes,
	})
}

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: "Dr.Doc API",
		Version: service.Version,
	})
}

func requireProject(w http.ResponseWriter, project string) bool {
	if project == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("project is required"))
		return false
	}
	return true
}

