// Package service runs detect, parse, transform and materialize on behalf
// of the CLI, HTTP and MCP adapters.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/tftdatascientist/drdoc/internal/apperr"
	"github.com/tftdatascientist/drdoc/internal/checksum"
	"github.com/tftdatascientist/drdoc/internal/materialize"
	"github.com/tftdatascientist/drdoc/internal/models"
	"github.com/tftdatascientist/drdoc/internal/pipeline"
	"github.com/tftdatascientist/drdoc/internal/sse"
	"github.com/tftdatascientist/drdoc/internal/storage"
	"github.com/tftdatascientist/drdoc/internal/transform"
)

// Version is reported by health endpoints and the MCP server.
const Version = "1.0.0"

// DestinationProjectBrief is an alias accepted by every adapter: the AI
// context transformer with context_type project_brief.
const DestinationProjectBrief = "project_brief"

var errNoOutput = fmt.Errorf("service: no output root configured: %w", apperr.ErrNotFound)

// Publisher receives a notification after every transform run.
type Publisher interface {
	PublishGeneration(gen sse.Generation)
}

// ResultError reports a result that carried errors. It always matches
// apperr.ErrTransformFailed, and Sentinel when a more specific cause
// (unknown destination, empty content) is known.
type ResultError struct {
	Sentinel error
	Errors   []string
}

func (e *ResultError) Error() string { return strings.Join(e.Errors, "; ") }

func (e *ResultError) Unwrap() []error {
	if e.Sentinel == nil || e.Sentinel == apperr.ErrTransformFailed {
		return []error{apperr.ErrTransformFailed}
	}
	return []error{e.Sentinel, apperr.ErrTransformFailed}
}

// Detection is the outcome of format detection.
type Detection struct {
	Format     models.Format `json:"format"`
	Confidence float64       `json:"confidence"`
}

// TransformRequest describes one run of the pipeline.
type TransformRequest struct {
	Content     string
	Format      string // hint; empty or "auto" detects
	Destination string
	Options     transform.Options
	Preview     bool
	Project     string
	Clean       bool
}

// TransformOutcome carries everything an adapter may want to show.
type TransformOutcome struct {
	Document *models.Document  `json:"-"`
	Result   *models.Result    `json:"result"`
	Project  string            `json:"project,omitempty"`
	Written  map[string]string `json:"written,omitempty"`
	Preview  string            `json:"preview,omitempty"`
	Tree     string            `json:"tree,omitempty"`
	Path     string            `json:"path,omitempty"`
	Checksum string            `json:"checksum"`
}

// Service wires the pipeline to the materializer and an event publisher.
type Service struct {
	pipe   *pipeline.Pipeline
	mat    *materialize.Materializer
	events Publisher
	log    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the generation event sink.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.events = p }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// New creates a service. mat may be nil for preview-only use.
func New(pipe *pipeline.Pipeline, mat *materialize.Materializer, opts ...Option) *Service {
	s := &Service{pipe: pipe, mat: mat, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pipeline exposes the underlying pipeline.
func (s *Service) Pipeline() *pipeline.Pipeline { return s.pipe }

// Detect reports the most likely format of content.
func (s *Service) Detect(_ context.Context, content string) Detection {
	format, confidence := s.pipe.Detect(content)
	return Detection{Format: format, Confidence: confidence}
}

// Parse extracts content into a document, honouring a format hint.
func (s *Service) Parse(_ context.Context, content, hint string) *models.Document {
	return s.pipe.Parse(content, hint)
}

// Formats lists the supported input formats.
func (s *Service) Formats() []models.Format { return s.pipe.Formats() }

// Destinations lists registered destinations followed by the aliases.
func (s *Service) Destinations() []string {
	return append(s.pipe.Destinations(), DestinationProjectBrief)
}

// ResolveDestination normalises case and spacing, maps aliases onto a
// registered destination and adjusts opts accordingly. The result is only
// meaningful for registry lookup.
func ResolveDestination(destination string, opts *transform.Options) string {
	d := strings.ToLower(strings.TrimSpace(destination))
	if d == DestinationProjectBrief {
		opts.ContextType = transform.ContextProjectBrief
		return transform.DestinationChatGPT
	}
	return d
}

// Transform parses the request content, renders it for the destination
// and either previews or writes the result. A result carrying errors is
// returned together with a *ResultError.
func (s *Service) Transform(ctx context.Context, req TransformRequest) (*TransformOutcome, error) {
	opts := req.Options
	dest := ResolveDestination(req.Destination, &opts)
	known := slices.Contains(s.pipe.Destinations(), dest)
	if !known {
		// Unknown destinations are reported exactly as requested.
		dest = req.Destination
	}

	doc := s.Parse(ctx, req.Content, req.Format)
	res := s.pipe.Transform(dest, doc, opts)

	out := &TransformOutcome{
		Document: doc,
		Result:   res,
		Checksum: checksum.String(req.Content),
	}

	if res.Failed() {
		s.publish(sse.Generation{Destination: dest, Project: req.Project, Preview: req.Preview, Errors: res.Errors})
		s.log.Warn("transform failed",
			slog.String("destination", dest),
			slog.String("errors", strings.Join(res.Errors, "; ")),
		)
		rerr := &ResultError{Sentinel: apperr.ErrTransformFailed, Errors: res.Errors}
		switch {
		case !known:
			rerr.Sentinel = apperr.ErrUnknownDestination
		case strings.TrimSpace(req.Content) == "":
			rerr.Sentinel = apperr.ErrEmptyContent
		}
		return out, rerr
	}

	if req.Preview || s.mat == nil {
		out.Preview = materialize.Preview(res)
		out.Tree = materialize.Tree(res)
		s.publish(sse.Generation{Destination: dest, Files: len(res.Files), Preview: true})
		return out, nil
	}

	project := req.Project
	if project == "" {
		project = materialize.DefaultProject(dest)
	}
	out.Project = project

	if req.Clean {
		if err := s.mat.Clean(project); err != nil {
			return out, err
		}
	}
	written, err := s.mat.Generate(res, project)
	if err != nil {
		s.publish(sse.Generation{Destination: dest, Project: project, Errors: []string{err.Error()}})
		return out, err
	}
	out.Written = written
	out.Tree = materialize.Tree(res)
	if p, err := s.mat.Path(project); err == nil {
		out.Path = p
	}

	s.log.Info("generated",
		slog.String("destination", dest),
		slog.String("project", project),
		slog.String("format", string(doc.Format)),
		slog.Int("files", len(written)),
	)
	s.publish(sse.Generation{Destination: dest, Project: project, Files: len(written)})
	return out, nil
}

// Files lists the generated files of project.
func (s *Service) Files(_ context.Context, project string) ([]storage.FileInfo, error) {
	if s.mat == nil {
		return nil, errNoOutput
	}
	return s.mat.Files(project)
}

// ReadFile returns one generated file of project.
func (s *Service) ReadFile(_ context.Context, project, rel string) ([]byte, error) {
	if s.mat == nil {
		return nil, errNoOutput
	}
	return s.mat.Read(project, rel)
}

// RemoveFile deletes one generated file of project.
func (s *Service) RemoveFile(_ context.Context, project, rel string) error {
	if s.mat == nil {
		return errNoOutput
	}
	if err := s.mat.Remove(project, rel); err != nil {
		return err
	}
	s.log.Info("removed", slog.String("project", project), slog.String("path", rel))
	return nil
}

// Clean removes a generated project.
func (s *Service) Clean(_ context.Context, project string) error {
	if s.mat == nil {
		return errNoOutput
	}
	if err := s.mat.Clean(project); err != nil {
		return err
	}
	s.log.Info("cleaned", slog.String("project", project))
	return nil
}

func (s *Service) publish(gen sse.Generation) {
	if s.events != nil {
		s.events.PublishGeneration(gen)
	}
}
