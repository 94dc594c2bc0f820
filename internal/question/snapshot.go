package question

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrSnapshotFormat indicates the snapshot data does not match the expected
// schema. The underlying IO errors are returned unwrapped by the file helpers.
var ErrSnapshotFormat = errors.New("invalid snapshot format")

// snapshotRecord is the on-disk form of a Question. Field order is the
// serialization order; nullable answers stay absent rather than empty.
type snapshotRecord struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	UserAnswer    *string  `json:"user_answer,omitempty"`
	CorrectAnswer *string  `json:"correct_answer,omitempty"`
	QuestionType  Type     `json:"question_type"`
}

// Encode writes records as an indented UTF-8 JSON array.
func Encode(w io.Writer, records []*Question) error {
	out := make([]snapshotRecord, 0, len(records))
	for _, q := range records {
		opts := q.Options
		if opts == nil {
			opts = []string{}
		}
		out = append(out, snapshotRecord{
			QuestionText:  q.Text,
			Options:       opts,
			UserAnswer:    q.UserAnswer,
			CorrectAnswer: q.CorrectAnswer,
			QuestionType:  q.Type,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// Decode reads a snapshot back into records. A record without question_text
// fails with ErrSnapshotFormat; every other field defaults (empty options,
// absent answers, type derived from options).
func Decode(r io.Reader) ([]*Question, error) {
	var raw []snapshotRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotFormat, err)
	}

	records := make([]*Question, 0, len(raw))
	for i, rec := range raw {
		if rec.QuestionText == "" {
			return nil, fmt.Errorf("%w: record %d missing question_text", ErrSnapshotFormat, i)
		}
		records = append(records, New(rec.QuestionText, rec.Options, rec.UserAnswer, rec.CorrectAnswer))
	}
	return records, nil
}

// LoadFile reads and decodes a snapshot file.
func LoadFile(path string) ([]*Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	records, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return records, nil
}

// WriteFile encodes records to path through a temp file and rename, so a
// concurrent reader never observes a half-written snapshot.
func WriteFile(path string, records []*Question) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".qbank-snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpPath := tmp.Name()

	if err := Encode(tmp, records); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
