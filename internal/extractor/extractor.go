// Package extractor turns an ordered paragraph sequence into question
// records. The source documents are exam result exports: a question prompt,
// optional lettered options, then a line recording the respondent's answer
// and (when they differed) the standard answer.
package extractor

import (
	"regexp"
	"strings"

	"github.com/dgallion1/qbank/internal/question"
)

const (
	// LookaheadWindow bounds the forward scan that decides whether a line
	// starts a question: a candidate needs an answer line within this many
	// following lines, otherwise it is ordinary narrative text.
	LookaheadWindow = 15

	// ProgressInterval is how often (in lines) the progress callback fires.
	ProgressInterval = 100

	answerLinePrefix     = "your answer"
	unansweredPrefix     = "you did not answer"
	answerValuePrefix    = "your answer:"
	standardAnswerMarker = "standard answer:"

	// markerStem guards the continuation-line path: a line starting with the
	// stem shared by both answer markers is never folded into question text,
	// even when it is not actually an answer line.
	markerStem = "you"
)

// optionPattern matches option lines: one uppercase letter followed by an
// ASCII or fullwidth separator. Such lines never start a question.
var optionPattern = regexp.MustCompile(`^[A-Z][.．、]`)

// ProgressFunc receives (lines processed, lines total) at a coarse interval.
// Advisory only; it never affects extraction output.
type ProgressFunc func(done, total int)

// Extract scans paragraphs in order and returns the question records found,
// preserving source order. Sequences that never resolve to an answer line
// contribute nothing.
func Extract(paragraphs []string, progress ProgressFunc) []*question.Question {
	total := len(paragraphs)
	var records []*question.Question

	i := 0
	for i < total {
		if progress != nil && i%ProgressInterval == 0 {
			progress(i, total)
		}

		text := paragraphs[i]

		if text == "" || isAnswerLine(text) || optionPattern.MatchString(text) {
			i++
			continue
		}

		if !answerLineAhead(paragraphs, i) {
			i++
			continue
		}

		q, next := collectQuestion(paragraphs, i)
		records = append(records, q)
		i = next
	}

	if progress != nil {
		progress(total, total)
	}
	return records
}

// collectQuestion consumes one question body starting at index i (the prompt
// line) and returns the record plus the index to resume scanning from.
func collectQuestion(paragraphs []string, i int) (*question.Question, int) {
	text := paragraphs[i]
	var options []string
	var userAnswer, correctAnswer *string
	i++

	for i < len(paragraphs) {
		current := paragraphs[i]
		if current == "" {
			i++
			continue
		}
		if optionPattern.MatchString(current) {
			options = append(options, current)
			i++
			continue
		}
		if isAnswerLine(current) {
			userAnswer, correctAnswer = parseAnswerLine(current)
			i++
			break
		}
		// At most one continuation line, and only before any option. Either
		// way this line forces the classification to end here; a question
		// interrupted like this is emitted with no answers recorded.
		if len(options) == 0 && !strings.HasPrefix(current, markerStem) {
			text += current
		}
		i++
		break
	}

	return question.New(text, options, userAnswer, correctAnswer), i
}

// parseAnswerLine splits a respondent-answer line into user and standard
// answers. Without a standard-answer segment the user's answer counts as
// correct; the document only records a standard answer on mismatch.
func parseAnswerLine(line string) (userAnswer, correctAnswer *string) {
	if strings.Contains(line, standardAnswerMarker) {
		parts := strings.SplitN(line, standardAnswerMarker, 2)
		if strings.HasPrefix(parts[0], answerValuePrefix) {
			userAnswer = ptr(answerValue(parts[0]))
		} else if strings.HasPrefix(parts[0], unansweredPrefix) {
			userAnswer = ptr(question.Unanswered)
		}
		correctAnswer = ptr(strings.TrimSpace(parts[1]))
		return userAnswer, correctAnswer
	}

	if strings.HasPrefix(line, answerValuePrefix) {
		v := answerValue(line)
		return ptr(v), ptr(v)
	}
	if strings.HasPrefix(line, unansweredPrefix) {
		return ptr(question.Unanswered), nil
	}
	return nil, nil
}

// answerValue extracts the answer text after the "your answer:" prefix,
// dropping the separator comma left behind when the line continued with the
// standard-answer segment.
func answerValue(segment string) string {
	v := strings.TrimSpace(strings.TrimPrefix(segment, answerValuePrefix))
	v = strings.TrimSpace(strings.TrimSuffix(v, ","))
	return v
}

// answerLineAhead reports whether an answer line occurs within the lookahead
// window after index i.
func answerLineAhead(paragraphs []string, i int) bool {
	end := i + LookaheadWindow
	if end > len(paragraphs) {
		end = len(paragraphs)
	}
	for j := i + 1; j < end; j++ {
		if isAnswerLine(paragraphs[j]) {
			return true
		}
	}
	return false
}

func isAnswerLine(line string) bool {
	return strings.HasPrefix(line, answerLinePrefix) || strings.HasPrefix(line, unansweredPrefix)
}

func ptr(s string) *string {
	return &s
}
