// Package engine answers keyword queries over the loaded question set.
// The loaded state is immutable: Load publishes a fully-built state with a
// single atomic swap, so any number of searches can run concurrently with no
// locking.
package engine

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/dgallion1/qbank/internal/question"
)

// TypeFilter selects the search pool.
type TypeFilter string

const (
	FilterAll            TypeFilter = "all"
	FilterTrueFalse      TypeFilter = "true_false"
	FilterMultipleChoice TypeFilter = "multiple_choice"
)

// ErrEmptyKeyword rejects a search whose keyword trims to nothing.
var ErrEmptyKeyword = errors.New("search keyword is empty")

// state holds one loaded corpus with its type partitions. Built once per
// load, read-only afterwards.
type state struct {
	all            []*question.Question
	trueFalse      []*question.Question
	multipleChoice []*question.Question
}

// Engine serves search, browse, and stats over the current corpus.
type Engine struct {
	state atomic.Pointer[state]
}

// New returns an engine with an empty corpus loaded.
func New() *Engine {
	e := &Engine{}
	e.Load(nil)
	return e
}

// Load replaces the corpus. Partitions are computed here, then the whole
// state becomes visible at once; in-flight searches keep reading the state
// they started with.
func (e *Engine) Load(records []*question.Question) {
	st := &state{all: records}
	for _, q := range records {
		if q.Type == question.TrueFalse {
			st.trueFalse = append(st.trueFalse, q)
		} else {
			st.multipleChoice = append(st.multipleChoice, q)
		}
	}
	e.state.Store(st)
}

// Size returns the number of loaded records.
func (e *Engine) Size() int {
	return len(e.state.Load().all)
}

// Records returns the pool selected by filter, in corpus order. Callers must
// treat the slice as read-only.
func (e *Engine) Records(filter TypeFilter) []*question.Question {
	return e.state.Load().pool(filter)
}

// Search returns the records whose question text (or options, when
// includeOptions is set) contains keyword, case-folded, in corpus order.
func (e *Engine) Search(keyword string, filter TypeFilter, includeOptions bool) ([]*question.Question, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}
	folded := strings.ToLower(keyword)

	pool := e.state.Load().pool(filter)
	var results []*question.Question
	for _, q := range pool {
		if q.Matches(folded, includeOptions) {
			results = append(results, q)
		}
	}
	return results, nil
}

func (st *state) pool(filter TypeFilter) []*question.Question {
	switch filter {
	case FilterTrueFalse:
		return st.trueFalse
	case FilterMultipleChoice:
		return st.multipleChoice
	default:
		return st.all
	}
}

// Stats summarizes the loaded corpus.
type Stats struct {
	Total          int `json:"total"`
	TrueFalse      int `json:"true_false"`
	MultipleChoice int `json:"multiple_choice"`
	Unanswered     int `json:"unanswered"`
}

// Stats counts the loaded records by type, plus how many the respondent left
// unanswered.
func (e *Engine) Stats() Stats {
	st := e.state.Load()
	s := Stats{
		Total:          len(st.all),
		TrueFalse:      len(st.trueFalse),
		MultipleChoice: len(st.multipleChoice),
	}
	for _, q := range st.all {
		if q.UserAnswer != nil && *q.UserAnswer == question.Unanswered {
			s.Unanswered++
		}
	}
	return s
}

// Paginate slices results into the requested page. totalPages is at least 1
// even for empty results; an out-of-range pageIndex yields an empty page
// rather than an error — clamping is the caller's job.
func Paginate(results []*question.Question, pageIndex, pageSize int) (items []*question.Question, totalPages int) {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages = (len(results) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := pageIndex * pageSize
	if pageIndex < 0 || start >= len(results) {
		return nil, totalPages
	}
	end := start + pageSize
	if end > len(results) {
		end = len(results)
	}
	return results[start:end], totalPages
}
