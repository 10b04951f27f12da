package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tftdatascientist/drdoc/internal"
	"github.com/tftdatascientist/drdoc/internal/extract"
	"github.com/tftdatascientist/drdoc/internal/service"
	"github.com/tftdatascientist/drdoc/internal/transform"
)

var (
	errNoInput            = errors.New("no input: use --input <file> or --stdin")
	errMissingDestination = errors.New("missing --destination")
)

// readInput returns the input content and the format hint derived from the
// --format flag or, failing that, the input file extension.
func readInput(cmd *cli.Command) (content, hint string, err error) {
	input := cmd.String("input")
	var data []byte
	switch {
	case cmd.Bool("stdin") || input == "-":
		data, err = io.ReadAll(cmd.Root().Reader)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
	case input != "":
		data, err = os.ReadFile(input)
		if err != nil {
			return "", "", fmt.Errorf("read input: %w", err)
		}
		hint = extract.HintFromPath(input)
	default:
		return "", "", errNoInput
	}
	if f := cmd.String("format"); f != "" {
		hint = f
	}
	return string(data), hint, nil
}

func optionsFromFlags(cmd *cli.Command) transform.Options {
	var opts transform.Options
	opts.ProjectName = cmd.String("project-name")
	opts.Author = cmd.String("author")
	opts.Description = cmd.String("description")
	opts.License = cmd.String("license")
	opts.ContextType = cmd.String("context-type")
	opts.Goal = cmd.String("goal")
	if reqs := cmd.StringSlice("requirement"); len(reqs) > 0 {
		opts.Requirements = transform.List(reqs...)
	}
	return opts
}

func requestFromFlags(cmd *cli.Command, content, hint string) service.TransformRequest {
	return service.TransformRequest{
		Content:     content,
		Format:      hint,
		Destination: cmd.String("destination"),
		Options:     optionsFromFlags(cmd),
		Preview:     cmd.Bool("preview"),
		Project:     cmd.String("project-name"),
		Clean:       cmd.Bool("clean"),
	}
}

// newService builds a service. Detect and preview runs never touch the
// output root, so they get a service without a materializer.
func newService(cmd *cli.Command, cfg *internal.Config, logger *slog.Logger) (*service.Service, error) {
	if cmd.Bool("detect") || cmd.Bool("preview") {
		return service.New(internal.NewPipeline(cfg), nil, service.WithLogger(logger)), nil
	}
	return internal.NewService(cfg, service.WithLogger(logger))
}

// runGenerate is the root action: detect, preview or generate.
func runGenerate(ctx context.Context, cmd *cli.Command) error {
	logger := setupLogger(cmd)
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	content, hint, err := readInput(cmd)
	if err != nil {
		return err
	}
	svc, err := newService(cmd, cfg, logger)
	if err != nil {
		return err
	}

	stdout, stderr := cmd.Root().Writer, cmd.Root().ErrWriter
	if cmd.Bool("detect") {
		printDetection(stdout, svc.Detect(ctx, content))
		return nil
	}
	if cmd.String("destination") == "" {
		return fmt.Errorf("%w (one of %v)", errMissingDestination, svc.Destinations())
	}

	infoColor.Fprintf(stderr, "Processing for destination: %s\n", cmd.String("destination"))
	out, err := svc.Transform(ctx, requestFromFlags(cmd, content, hint))
	if out != nil && out.Document != nil {
		logger.Debug("parsed input",
			slog.String("format", string(out.Document.Format)),
			slog.Int("sections", len(out.Document.Sections)),
		)
		printWarnings(stderr, out.Document.Errors)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("preview") {
		printPreview(stdout, out)
		return nil
	}
	printGenerated(stdout, out)
	return nil
}
