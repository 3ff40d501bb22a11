// Package text exposes the extractive summarizer over HTTP for ad-hoc text that is not
// stored as a document.
package text

import (
	"encoding/json"
	"errors"
	"net/http"

	"docsumm/internal/domain/entity"
	"docsumm/internal/extractive"
	"docsumm/internal/handler/http/respond"
)

const maxKeywords = 50

type summarizeRequest struct {
	Text         string `json:"text"`
	MaxLength    int    `json:"max_length"`
	MaxSentences int    `json:"max_sentences"`
	Keywords     int    `json:"keywords"`
}

// SummaryDTO mirrors extractive.Result.
type SummaryDTO struct {
	Success             bool     `json:"success"`
	Summary             string   `json:"summary"`
	OriginalLength      int      `json:"original_length"`
	SummaryLength       int      `json:"summary_length"`
	CompressionRatio    float64  `json:"compression_ratio"`
	Method              string   `json:"method"`
	ProcessingTimeMS    float64  `json:"processing_time_ms"`
	SentencesSelected   int      `json:"sentences_selected,omitempty"`
	TotalSentences      int      `json:"total_sentences,omitempty"`
	ParagraphsProcessed int      `json:"paragraphs_processed,omitempty"`
	FinalSentences      int      `json:"final_sentences,omitempty"`
	Keywords            []string `json:"keywords,omitempty"`
}

// StatsDTO mirrors extractive.Stats.
type StatsDTO struct {
	CharacterCount          int `json:"character_count"`
	WordCount               int `json:"word_count"`
	SentenceCount           int `json:"sentence_count"`
	AverageWordsPerSentence int `json:"average_words_per_sentence"`
	ReadingTime             int `json:"reading_time"`
}

// SummarizeHandler handles POST /text/summarize.
//
//	{"text": "...", "max_length": 500, "max_sentences": 3, "keywords": 5}
type SummarizeHandler struct{}

func (SummarizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.MaxLength < 0 || req.MaxSentences < 0 || req.Keywords < 0 || req.Keywords > maxKeywords {
		respond.SafeError(w, http.StatusBadRequest, &entity.ValidationError{
			Field:   "options",
			Message: "max_length and max_sentences must be non-negative and keywords must be between 0 and 50",
		})
		return
	}

	res, err := extractive.Summarize(req.Text, extractive.Options{
		MaxLength:    req.MaxLength,
		MaxSentences: req.MaxSentences,
	})
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, entity.ErrInvalidInput) {
			code = http.StatusBadRequest
		}
		respond.SafeError(w, code, err)
		return
	}

	out := SummaryDTO{
		Success:             res.Success,
		Summary:             res.Summary,
		OriginalLength:      res.OriginalLength,
		SummaryLength:       res.SummaryLength,
		CompressionRatio:    res.CompressionRatio,
		Method:              string(res.Method),
		ProcessingTimeMS:    float64(res.ProcessingTime.Microseconds()) / 1000,
		SentencesSelected:   res.SentencesSelected,
		TotalSentences:      res.TotalSentences,
		ParagraphsProcessed: res.ParagraphsProcessed,
		FinalSentences:      res.FinalSentences,
	}
	if req.Keywords > 0 {
		out.Keywords = extractive.Keywords(req.Text, req.Keywords)
	}
	respond.JSON(w, http.StatusOK, out)
}

// StatsHandler handles POST /text/stats with {"text": "..."}. Empty text is allowed.
type StatsHandler struct{}

func (StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}

	s := extractive.TextStats(req.Text)
	respond.JSON(w, http.StatusOK, StatsDTO{
		CharacterCount:          s.CharacterCount,
		WordCount:               s.WordCount,
		SentenceCount:           s.SentenceCount,
		AverageWordsPerSentence: s.AverageWordsPerSentence,
		ReadingTime:             s.ReadingTime,
	})
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		respond.SafeError(w, http.StatusRequestEntityTooLarge, errors.New("request body too large"))
		return
	}
	respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
}

// Register registers the text routes.
func Register(mux *http.ServeMux) {
	mux.Handle("POST /text/summarize", SummarizeHandler{})
	mux.Handle("POST /text/stats", StatsHandler{})
}
