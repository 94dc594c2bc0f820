package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/qbank/internal/engine"
	"github.com/dgallion1/qbank/internal/extractor"
	"github.com/dgallion1/qbank/internal/parser"
	"github.com/dgallion1/qbank/internal/question"
)

// Worker processes a single document ingest job: parse, extract, persist the
// snapshot, publish to the engine.
type Worker struct {
	engine       *engine.Engine
	snapshotPath string
	pdfFallback  bool
	log          *slog.Logger
}

func NewWorker(eng *engine.Engine, snapshotPath string, pdfFallback bool, log *slog.Logger) *Worker {
	return &Worker{
		engine:       eng,
		snapshotPath: snapshotPath,
		pdfFallback:  pdfFallback,
		log:          log,
	}
}

// Process runs the full ingest pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if pdfParser, ok := p.(*parser.PDFParser); ok {
		pdfParser.FallbackPdftotext = w.pdfFallback
	}

	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	log.Info("parsed document", "title", doc.Title, "paragraphs", len(doc.Paragraphs))

	if ctx.Err() != nil {
		job.SetStatus(StatusFailed, "canceled")
		return
	}

	// Phase 2: Extract
	job.SetStatus(StatusExtracting, "extracting")
	records := extractor.Extract(doc.Paragraphs, job.SetLines)
	job.SetQuestionsFound(len(records))
	log.Info("extraction complete", "questions", len(records))

	if len(records) == 0 {
		job.AddError("no questions extracted")
		job.SetStatus(StatusFailed, "extracting")
		return
	}

	// Phase 3: Persist snapshot, then publish the new corpus. The engine
	// swap is atomic; searches in flight keep their current state.
	job.SetStatus(StatusStoring, "storing")
	if err := question.WriteFile(w.snapshotPath, records); err != nil {
		log.Error("snapshot write failed", "error", err)
		job.AddError(fmt.Sprintf("snapshot: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}
	w.engine.Load(records)

	log.Info("corpus published", "questions", len(records), "snapshot", w.snapshotPath)
	job.SetStatus(StatusCompleted, "done")
}
