package api

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/tftdatascientist/drdoc/internal/extract"
	"github.com/tftdatascientist/drdoc/internal/models"
	"github.com/tftdatascientist/drdoc/internal/service"
	"github.com/tftdatascientist/drdoc/internal/transform"
)

var errBlank = errors.New("cannot be blank")

func notBlank(v any) error {
	if s, _ := v.(string); strings.TrimSpace(s) == "" {
		return errBlank
	}
	return nil
}

func formatHint(v any) error {
	s, _ := v.(string)
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return nil
	}
	if _, ok := extract.NormalizeHint(s); !ok {
		return errors.New("must be one of auto, txt, md, json")
	}
	return nil
}

// DetectRequest is the request body for format detection.
type DetectRequest struct {
	Content string `json:"content"`
}

// Validate implements validation.Validatable.
func (r *DetectRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Content, validation.By(notBlank)),
	)
}

// DetectResponse reports the detected format.
type DetectResponse struct {
	Format     models.Format `json:"format"`
	Confidence float64       `json:"confidence"`
}

// ParseRequest is the request body for parsing into a document.
type ParseRequest struct {
	Content string `json:"content"`
	Format  string `json:"format,omitempty"`
}

// Validate implements validation.Validatable.
func (r *ParseRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Content, validation.By(notBlank)),
		validation.Field(&r.Format, validation.By(formatHint)),
	)
}

// TransformOptions carries transformer options plus request flags.
type TransformOptions struct {
	transform.Options
	// Preview defaults to true: nothing is written unless it is false.
	Preview *bool `json:"preview,omitempty"`
	Clean   bool  `json:"clean,omitempty"`
}

// TransformRequest is the request body for a transform run.
type TransformRequest struct {
	Content     string           `json:"content"`
	Format      string           `json:"format,omitempty"`
	Destination string           `json:"destination"`
	Options     TransformOptions `json:"options"`

	destinations []any
}

// Validate implements validation.Validatable.
func (r *TransformRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Content, validation.By(notBlank)),
		validation.Field(&r.Format, validation.By(formatHint)),
		validation.Field(&r.Destination,
			validation.Required,
			validation.By(func(v any) error {
				d, _ := v.(string)
				return validation.In(r.destinations...).Error("unknown destination").Validate(strings.ToLower(d))
			}),
		),
	)
}

func (r *TransformRequest) preview() bool {
	return r.Options.Preview == nil || *r.Options.Preview
}

// TransformResponse is returned by POST /api/transform. Files are only
// included in preview mode.
type TransformResponse struct {
	Destination    string            `json:"destination"`
	FilesCount     int               `json:"files_count"`
	FileTree       string            `json:"file_tree"`
	Files          map[string]string `json:"files,omitempty"`
	Metadata       map[string]any    `json:"metadata"`
	OutputPath     string            `json:"output_path,omitempty"`
	GeneratedFiles []string          `json:"generated_files,omitempty"`
	Checksum       string            `json:"checksum"`
}

// FormatsResponse lists supported input formats.
type FormatsResponse struct {
	Formats []models.Format `json:"formats"`
}

// DestinationsResponse lists destinations and AI context types.
type DestinationsResponse struct {
	Destinations []string `json:"destinations"`
	ContextTypes []string `json:"context_types"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// OutputFile is one generated file on disk.
type OutputFile struct {
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Checksum string `json:"checksum"`
}

// OutputListResponse lists the files of a generated project.
type OutputListResponse struct {
	Project string       `json:"project"`
	Files   []OutputFile `json:"files"`
}

func newTransformResponse(out *service.TransformOutcome, preview bool) TransformResponse {
	res := out.Result
	resp := TransformResponse{
		Destination: res.Destination,
		FilesCount:  len(res.Files),
		FileTree:    out.Tree,
		Metadata:    res.Metadata,
		Checksum:    out.Checksum,
	}
	if preview {
		resp.Files = res.Files
		return resp
	}
	resp.OutputPath = out.Path
	resp.GeneratedFiles = res.Paths()
	return resp
}
