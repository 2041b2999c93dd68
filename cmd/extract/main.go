package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"pdf-extractor/internal/config"
	"pdf-extractor/internal/dto"
	"pdf-extractor/internal/pkg/logger"
	"pdf-extractor/internal/repository/memory"
	"pdf-extractor/internal/service"
	"pdf-extractor/pkg/extraction"

	"github.com/fatih/color"
	"github.com/gabriel-vasile/mimetype"
)

func main() {
	cfg := config.Load()

	url := flag.String("url", cfg.Extraction.URL, "extraction endpoint")
	timeout := flag.Duration("timeout", cfg.Extraction.Timeout, "request timeout, 0 waits for the transport")
	xlsxOut := flag.String("xlsx", "", "also write the result to this XLSX file")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <file.pdf>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	os.Exit(run(flag.Arg(0), *url, *timeout, *xlsxOut, *verbose, os.Stdout))
}

func run(path, url string, timeout time.Duration, xlsxOut string, verbose bool, out io.Writer) int {
	log := logger.NewConsoleLogger(verbose)
	defer log.Sync()

	client, err := extraction.NewClient(url, extraction.WithTimeout(timeout))
	if err != nil {
		color.New(color.FgRed).Fprintln(out, err)
		return 1
	}

	doc, err := readDocument(path)
	if err != nil {
		color.New(color.FgRed).Fprintln(out, err)
		return 1
	}

	svc := service.NewExtractionService(
		memory.NewSessionRepository(time.Hour, time.Hour),
		client,
		nil,
		nil,
		config.SessionConfig{Secret: "cli", TTL: time.Hour, CleanupInterval: time.Hour},
		log,
	)

	ctx := context.Background()
	session, err := svc.CreateSession(ctx)
	if err != nil {
		color.New(color.FgRed).Fprintln(out, err)
		return 1
	}

	view, err := svc.SelectFile(ctx, session.Id, doc)
	if err == nil && view.Error == "" {
		fmt.Fprintf(out, "%s %s (%d bytes)\n", view.SubmitLabel, doc.Filename, doc.Size())
		view, err = svc.Submit(ctx, session.Id)
	}
	if err != nil {
		color.New(color.FgRed).Fprintln(out, err)
		return 1
	}

	printState(out, view)
	if view.Error != "" {
		return 1
	}

	if xlsxOut != "" {
		_, data, err := svc.ExportResult(ctx, session.Id)
		if err == nil {
			err = os.WriteFile(xlsxOut, data, 0o644)
		}
		if err != nil {
			color.New(color.FgRed).Fprintln(out, err)
			return 1
		}
		fmt.Fprintf(out, "Saved %s\n", xlsxOut)
	}
	return 0
}

// readDocument sniffs the content type rather than trusting the extension.
func readDocument(path string) (extraction.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return extraction.Document{}, err
	}
	return extraction.Document{
		Filename: filepath.Base(path),
		MIMEType: mimetype.Detect(content).String(),
		Content:  content,
	}, nil
}

var tierColors = map[string]*color.Color{
	"high":   color.New(color.FgGreen),
	"medium": color.New(color.FgYellow),
	"low":    color.New(color.FgRed),
}

func printState(out io.Writer, view *dto.UIStateResponse) {
	if view.Error != "" {
		color.New(color.FgRed, color.Bold).Fprintf(out, "Error: %s\n", view.Error)
		return
	}

	bold := color.New(color.Bold)
	for _, f := range view.Fields {
		bold.Fprintf(out, "%-8s ", f.Label)
		if f.Found {
			fmt.Fprintf(out, "%-40s ", f.Value)
		} else {
			color.New(color.Faint, color.Italic).Fprintf(out, "%-40s ", f.Value)
		}
		c, ok := tierColors[f.Confidence.Tier]
		if !ok {
			c = color.New(color.Reset)
		}
		c.Fprintf(out, "%3d%% %s\n", f.Confidence.Percent, f.Confidence.Tier)
	}
}
