package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dgallion1/qbank/internal/engine"
	"github.com/dgallion1/qbank/internal/question"
)

// questionPayload is the wire form of a question card.
type questionPayload struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	UserAnswer    *string  `json:"user_answer,omitempty"`
	CorrectAnswer *string  `json:"correct_answer,omitempty"`
	QuestionType  string   `json:"question_type"`
}

func toPayload(records []*question.Question) []questionPayload {
	out := make([]questionPayload, 0, len(records))
	for _, q := range records {
		opts := q.Options
		if opts == nil {
			opts = []string{}
		}
		out = append(out, questionPayload{
			QuestionText:  q.Text,
			Options:       opts,
			UserAnswer:    q.UserAnswer,
			CorrectAnswer: q.CorrectAnswer,
			QuestionType:  string(q.Type),
		})
	}
	return out
}

// handleSearch runs a keyword query and returns one page of matching cards.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	filter := parseTypeFilter(r.URL.Query().Get("type"))
	includeOptions := r.URL.Query().Get("options") != "false"

	results, err := s.engine.Search(keyword, filter, includeOptions)
	if err != nil {
		if errors.Is(err, engine.ErrEmptyKeyword) {
			jsonError(w, "keyword is required", http.StatusBadRequest)
			return
		}
		jsonError(w, "search failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	s.writePage(w, results, r)
}

// handleQuestions lists the loaded bank (optionally type-filtered) without a
// keyword, one page at a time.
func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	filter := parseTypeFilter(r.URL.Query().Get("type"))
	s.writePage(w, s.engine.Records(filter), r)
}

// writePage paginates results per the request's page/page_size parameters.
// The page index is clamped into [0, totalPages) here — the engine itself
// returns an empty slice for out-of-range pages.
func (s *Server) writePage(w http.ResponseWriter, results []*question.Question, r *http.Request) {
	pageSize := queryInt(r, "page_size", s.cfg.DefaultPageSize)
	if pageSize < 1 {
		pageSize = s.cfg.DefaultPageSize
	}
	if pageSize > s.cfg.MaxPageSize {
		pageSize = s.cfg.MaxPageSize
	}

	page := queryInt(r, "page", 0)
	items, totalPages := engine.Paginate(results, page, pageSize)
	if page < 0 || page >= totalPages {
		if page < 0 {
			page = 0
		} else {
			page = totalPages - 1
		}
		items, totalPages = engine.Paginate(results, page, pageSize)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"total":       len(results),
		"page":        page,
		"page_size":   pageSize,
		"total_pages": totalPages,
		"items":       toPayload(items),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.engine.Stats())
}

func parseTypeFilter(v string) engine.TypeFilter {
	switch engine.TypeFilter(v) {
	case engine.FilterTrueFalse:
		return engine.FilterTrueFalse
	case engine.FilterMultipleChoice:
		return engine.FilterMultipleChoice
	default:
		return engine.FilterAll
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
