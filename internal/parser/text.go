package parser

import (
	"bufio"
	"io"
	"strings"
)

// TextParser handles plain text files: one paragraph per line.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	out := &Document{
		Title: strings.TrimSuffix(filename, ".txt"),
	}

	for scanner.Scan() {
		out.Paragraphs = append(out.Paragraphs, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
