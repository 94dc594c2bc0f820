package question

import "strings"

// Type classifies a question by its answer form.
type Type string

const (
	TrueFalse      Type = "TrueFalse"
	MultipleChoice Type = "MultipleChoice"
)

// Unanswered is the recorded user answer for questions the respondent skipped.
const Unanswered = "unanswered"

// Question is one extracted exam question. Records are immutable after
// construction: the extractor (or the snapshot decoder) builds them once and
// the query engine only holds references.
type Question struct {
	Text          string
	Options       []string
	UserAnswer    *string
	CorrectAnswer *string
	Type          Type

	// Precomputed lowercase search fields. Set once in New, never recomputed.
	searchText    string
	searchOptions string
}

// New builds a Question. The type is derived from the options: any option
// makes it multiple-choice, none makes it true/false.
func New(text string, options []string, userAnswer, correctAnswer *string) *Question {
	q := &Question{
		Text:          text,
		Options:       options,
		UserAnswer:    userAnswer,
		CorrectAnswer: correctAnswer,
		Type:          TrueFalse,
		searchText:    strings.ToLower(text),
	}
	if len(options) > 0 {
		q.Type = MultipleChoice
		q.searchOptions = strings.ToLower(strings.Join(options, " "))
	}
	return q
}

// Matches reports whether the already lowercase-folded keyword occurs in the
// question text, or in the options when includeOptions is set. Containment is
// pure substring — not token-boundary aware.
func (q *Question) Matches(folded string, includeOptions bool) bool {
	if strings.Contains(q.searchText, folded) {
		return true
	}
	return includeOptions && q.searchOptions != "" && strings.Contains(q.searchOptions, folded)
}

// DisplayText renders the question for plain-text preview output.
func (q *Question) DisplayText() string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(string(q.Type))
	sb.WriteString("] ")
	sb.WriteString(q.Text)
	for _, opt := range q.Options {
		sb.WriteString("\n")
		sb.WriteString(opt)
	}
	if q.CorrectAnswer != nil {
		sb.WriteString("\ncorrect answer: ")
		sb.WriteString(*q.CorrectAnswer)
	}
	return sb.String()
}
