// qbextract is a one-shot utility: parse an exam document, extract the
// question records, and write the snapshot file the server loads.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgallion1/qbank/internal/extractor"
	"github.com/dgallion1/qbank/internal/parser"
	"github.com/dgallion1/qbank/internal/question"
)

func main() {
	var (
		in      = flag.String("in", "", "input document (.docx, .txt, .md, .html, .pdf, .csv)")
		out     = flag.String("out", "questions.json", "output snapshot path")
		preview = flag.Int("preview", 0, "print the first n extracted questions")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *in == "" {
		log.Error("-in is required")
		os.Exit(2)
	}

	p, err := parser.ForFile(*in)
	if err != nil {
		log.Error("unsupported input", "error", err)
		os.Exit(2)
	}

	f, err := os.Open(*in)
	if err != nil {
		log.Error("open input", "error", err)
		os.Exit(1)
	}
	doc, err := p.Parse(f, *in)
	f.Close()
	if err != nil {
		log.Error("parse failed", "file", *in, "error", err)
		os.Exit(1)
	}

	records := extractor.Extract(doc.Paragraphs, func(done, total int) {
		fmt.Fprintf(os.Stderr, "\rscanning %d/%d lines", done, total)
	})
	fmt.Fprintln(os.Stderr)

	if err := question.WriteFile(*out, records); err != nil {
		log.Error("snapshot write failed", "path", *out, "error", err)
		os.Exit(1)
	}

	log.Info("snapshot written",
		"path", *out,
		"paragraphs", len(doc.Paragraphs),
		"questions", len(records),
	)

	for i, q := range records {
		if i >= *preview {
			break
		}
		fmt.Printf("--- question %d ---\n%s\n\n", i+1, q.DisplayText())
	}
}
