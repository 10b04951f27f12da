// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the Dr.Doc pipeline for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tftdatascientist/drdoc/internal/apperr"
	"github.com/tftdatascientist/drdoc/internal/materialize"
	"github.com/tftdatascientist/drdoc/internal/service"
	"github.com/tftdatascientist/drdoc/internal/transform"
)

const destinationsURI = "drdoc://destinations"

// Server wraps the MCP server with Dr.Doc tools.
type Server struct {
	mcp *server.MCPServer
	svc *service.Service
}

// New creates a new MCP server with all Dr.Doc tools registered.
func New(svc *service.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Dr.Doc",
		service.Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("detect_format",
		mcp.WithDescription("Detect whether content is plain text, Markdown or JSON."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Raw content to analyze")),
	), s.detectFormat)

	s.mcp.AddTool(mcp.NewTool("parse_document",
		mcp.WithDescription("Parse content into the structured document model "+
			"(sections, headers, lists, code blocks, tables, links, stats)."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Raw content to parse")),
		mcp.WithString("format", mcp.Description("Optional format hint: txt, md or json")),
	), s.parseDocument)

	s.mcp.AddTool(mcp.NewTool("transform_document",
		mcp.WithDescription("Transform content for a destination. Previews by default; "+
			"set preview=false to write files under the output root. Read the "+
			"drdoc://destinations resource for the options each destination accepts."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Raw content to transform")),
		mcp.WithString("destination", mcp.Required(), mcp.Description("github, chatgpt or project_brief")),
		mcp.WithString("format", mcp.Description("Optional format hint: txt, md or json")),
		mcp.WithBoolean("preview", mcp.DefaultBool(true), mcp.Description("Only render, do not write")),
		mcp.WithBoolean("clean", mcp.Description("Remove the project directory before writing")),
		mcp.WithString("project_name", mcp.Description("Project name; also the output directory")),
		mcp.WithString("author", mcp.Description("Author for README and LICENSE")),
		mcp.WithString("description", mcp.Description("Project description")),
		mcp.WithString("license", mcp.Description("License name, MIT by default")),
		mcp.WithString("context_type", mcp.Enum(transform.ContextTypes...), mcp.Description("AI context type")),
		mcp.WithString("goal", mcp.Description("Goal of the AI context")),
		mcp.WithArray("requirements", mcp.WithStringItems(), mcp.Description("Requirements, rendered as a numbered list")),
	), s.transformDocument)

	s.mcp.AddTool(mcp.NewTool("render_tree",
		mcp.WithDescription("Render the file tree a transform would produce, without writing."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Raw content to transform")),
		mcp.WithString("destination", mcp.Required(), mcp.Description("github, chatgpt or project_brief")),
		mcp.WithString("format", mcp.Description("Optional format hint: txt, md or json")),
	), s.renderTree)

	s.mcp.AddTool(mcp.NewTool("list_destinations",
		mcp.WithDescription("List destinations, input formats and AI context types."),
	), s.listDestinations)

	s.mcp.AddTool(mcp.NewTool("list_output",
		mcp.WithDescription("List the files of a generated project."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project directory under the output root")),
	), s.listOutput)

	s.mcp.AddTool(mcp.NewTool("read_output",
		mcp.WithDescription("Read one generated file."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project directory under the output root")),
		mcp.WithString("path", mcp.Required(), mcp.Description("File path inside the project (e.g. docs/usage.md)")),
	), s.readOutput)

	s.mcp.AddResource(
		mcp.NewResource(destinationsURI, "Destinations",
			mcp.WithResourceDescription("Destinations and the options each one accepts."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDestinationsResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func optionsFrom(req mcp.CallToolRequest) transform.Options {
	var opts transform.Options
	opts.ProjectName = req.GetString("project_name", "")
	opts.Author = req.GetString("author", "")
	opts.Description = req.GetString("description", "")
	opts.License = req.GetString("license", "")
	opts.ContextType = req.GetString("context_type", "")
	opts.Goal = req.GetString("goal", "")
	if reqs := req.GetStringSlice("requirements", nil); len(reqs) > 0 {
		opts.Requirements = transform.List(reqs...)
	}
	return opts
}

func (s *Server) detectFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.svc.Detect(ctx, content)), nil
}

func (s *Server) parseDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.svc.Parse(ctx, content, req.GetString("format", ""))), nil
}

func (s *Server) transformDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dest, err := req.RequireString("destination")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := optionsFrom(req)
	preview := req.GetBool("preview", true)
	out, err := s.svc.Transform(ctx, service.TransformRequest{
		Content:     content,
		Format:      req.GetString("format", ""),
		Destination: dest,
		Options:     opts,
		Preview:     preview,
		Project:     opts.ProjectName,
		Clean:       req.GetBool("clean", false),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if preview {
		return mcp.NewToolResultText(out.Preview + "\n" + out.Tree), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("generated %d files in %s\n%s", len(out.Written), out.Path, out.Tree)), nil
}

func (s *Server) renderTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dest, err := req.RequireString("destination")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var opts transform.Options
	dest = service.ResolveDestination(dest, &opts)
	doc := s.svc.Parse(ctx, content, req.GetString("format", ""))
	res := s.svc.Pipeline().Transform(dest, doc, opts)
	if res.Failed() {
		return mcp.NewToolResultError(strings.Join(res.Errors, "; ")), nil
	}
	return mcp.NewToolResultText(materialize.Tree(res)), nil
}

func (s *Server) listDestinations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]any{
		"destinations":  s.svc.Destinations(),
		"formats":       s.svc.Formats(),
		"context_types": transform.ContextTypes,
	}), nil
}

func (s *Server) listOutput(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := req.RequireString("project")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	files, err := s.svc.Files(ctx, project)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", project)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, strings.TrimPrefix(f.Path, project+"/"))
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) readOutput(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := req.RequireString("project")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.svc.ReadFile(ctx, project, path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s/%s", project, path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) readDestinationsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      destinationsURI,
			MIMEType: "text/markdown",
			Text:     DestinationsContract,
		},
	}, nil
}
