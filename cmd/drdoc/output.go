package main

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/fatih/color"

	"github.com/tftdatascientist/drdoc/internal/service"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	infoColor = color.New(color.FgCyan)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
)

func printError(w io.Writer, err error) {
	errColor.Fprintf(w, "Error: %v\n", err)
}

func printWarnings(w io.Writer, warnings []string) {
	for _, msg := range warnings {
		warnColor.Fprintf(w, "Warning: %s\n", msg)
	}
}

func printDetection(w io.Writer, d service.Detection) {
	okColor.Fprintf(w, "Detected format: %s", d.Format)
	fmt.Fprintf(w, " (confidence: %.1f%%)\n", d.Confidence*100)
}

func printPreview(w io.Writer, out *service.TransformOutcome) {
	fmt.Fprint(w, out.Preview)
	fmt.Fprintln(w)
	infoColor.Fprintln(w, "Tree:")
	fmt.Fprint(w, out.Tree)
}

func printGenerated(w io.Writer, out *service.TransformOutcome) {
	okColor.Fprintf(w, "Generated %d files:\n", len(out.Written))
	for _, rel := range slices.Sorted(maps.Keys(out.Written)) {
		fmt.Fprintf(w, "  %s\n", rel)
	}
	infoColor.Fprintf(w, "Output location: %s\n", out.Path)
}
