package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"docsumm/internal/config"
	"docsumm/internal/domain/entity"
	"docsumm/internal/extractive"
	"docsumm/internal/infra/extractor"
	"docsumm/internal/infra/summarizer"
	docUC "docsumm/internal/usecase/document"
)

const maxKeywords = 50

type options struct {
	maxLength    int
	maxSentences int
	format       string
	keywords     int
	remote       bool
	timeout      time.Duration
}

func (o *options) validate() error {
	if o.format != "json" && o.format != "text" {
		return fmt.Errorf("--format must be json or text, got %q", o.format)
	}
	if o.maxLength < 0 || o.maxSentences < 0 {
		return fmt.Errorf("--max-length and --max-sentences cannot be negative")
	}
	if o.keywords < 0 || o.keywords > maxKeywords {
		return fmt.Errorf("--keywords must be between 0 and %d", maxKeywords)
	}
	return nil
}

// summaryOutput is the --format json body of the root command.
type summaryOutput struct {
	Source           string   `json:"source"`
	Summary          string   `json:"summary"`
	Method           string   `json:"method"`
	Model            string   `json:"model,omitempty"`
	OriginalLength   int      `json:"original_length"`
	SummaryLength    int      `json:"summary_length"`
	CompressionRatio float64  `json:"compression_ratio"`
	WordCount        int      `json:"word_count"`
	ReadingTime      int      `json:"reading_time"`
	ProcessingTimeMS float64  `json:"processing_time_ms"`
	Keywords         []string `json:"keywords,omitempty"`
}

// statsOutput is the --format json body of the stats command.
type statsOutput struct {
	Source                  string   `json:"source"`
	CharacterCount          int      `json:"character_count"`
	WordCount               int      `json:"word_count"`
	SentenceCount           int      `json:"sentence_count"`
	AverageWordsPerSentence int      `json:"average_words_per_sentence"`
	ReadingTime             int      `json:"reading_time"`
	Keywords                []string `json:"keywords,omitempty"`
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "summarize [file]",
		Short: "Summarize a pdf, docx, html, markdown or text document",
		Long: "Summarize extracts the text of a document, or reads standard input when no file " +
			"is given, and prints its most representative sentences.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummarize(cmd, args, opts, logger)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.format, "format", "text", "output format: text or json")
	flags.IntVar(&opts.keywords, "keywords", 0, "number of keywords to print (0 disables)")

	root.Flags().IntVar(&opts.maxLength, "max-length", 0, "character budget of long-document summaries (0 uses the default)")
	root.Flags().IntVar(&opts.maxSentences, "max-sentences", 0, "sentences kept in a summary (0 uses the default, minimum 2)")
	root.Flags().BoolVar(&opts.remote, "remote", false, "try the configured remote providers before the local summarizer")
	root.Flags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "overall time limit")

	root.AddCommand(&cobra.Command{
		Use:   "stats [file]",
		Short: "Print word, sentence and reading-time statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args, opts)
		},
	})
	return root
}

func runSummarize(cmd *cobra.Command, args []string, opts *options, logger *slog.Logger) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	source, doc, err := readInput(ctx, cmd, args)
	if err != nil {
		return err
	}

	var s docUC.Summarizer = summarizer.NewLocal()
	if opts.remote {
		cfg, err := config.LoadSummarizerConfig()
		if err != nil {
			return err
		}
		if s, err = summarizer.NewFromConfig(cfg); err != nil {
			return err
		}
	}

	sum, err := s.Summarize(ctx, doc.Text, entity.SummaryOptions{
		MaxLength:    opts.maxLength,
		MaxSentences: opts.maxSentences,
	})
	if err != nil {
		return fmt.Errorf("summarize %s: %w", source, err)
	}
	logger.Debug("summary generated",
		slog.String("source", source),
		slog.String("method", sum.Method),
		slog.Duration("duration", sum.ProcessingTime))

	out := summaryOutput{
		Source:           source,
		Summary:          sum.Text,
		Method:           sum.Method,
		Model:            sum.Model,
		OriginalLength:   sum.OriginalLength,
		SummaryLength:    sum.SummaryLength,
		CompressionRatio: sum.CompressionRatio,
		WordCount:        doc.WordCount,
		ReadingTime:      extractive.ReadingTime(doc.WordCount),
		ProcessingTimeMS: float64(sum.ProcessingTime.Microseconds()) / 1000,
	}
	if opts.keywords > 0 {
		out.Keywords = extractive.Keywords(doc.Text, opts.keywords)
	}

	w := cmd.OutOrStdout()
	if opts.format == "json" {
		return writeJSON(w, out)
	}
	fmt.Fprintf(w, "Source:      %s\n", out.Source)
	fmt.Fprintf(w, "Method:      %s\n", methodLabel(out.Method, out.Model))
	fmt.Fprintf(w, "Compression: %.2f (%d of %d characters)\n", out.CompressionRatio, out.SummaryLength, out.OriginalLength)
	fmt.Fprintf(w, "Reading:     %d min, %d words\n", out.ReadingTime, out.WordCount)
	if len(out.Keywords) > 0 {
		fmt.Fprintf(w, "Keywords:    %s\n", strings.Join(out.Keywords, ", "))
	}
	fmt.Fprintf(w, "\n%s\n", out.Summary)
	return nil
}

func runStats(cmd *cobra.Command, args []string, opts *options) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	source, doc, err := readInput(ctx, cmd, args)
	if err != nil {
		return err
	}

	st := extractive.TextStats(doc.Text)
	out := statsOutput{
		Source:                  source,
		CharacterCount:          st.CharacterCount,
		WordCount:               st.WordCount,
		SentenceCount:           st.SentenceCount,
		AverageWordsPerSentence: st.AverageWordsPerSentence,
		ReadingTime:             st.ReadingTime,
	}
	if opts.keywords > 0 {
		out.Keywords = extractive.Keywords(doc.Text, opts.keywords)
	}

	w := cmd.OutOrStdout()
	if opts.format == "json" {
		return writeJSON(w, out)
	}
	fmt.Fprintf(w, "Source:     %s\n", out.Source)
	fmt.Fprintf(w, "Characters: %d\n", out.CharacterCount)
	fmt.Fprintf(w, "Words:      %d\n", out.WordCount)
	fmt.Fprintf(w, "Sentences:  %d (%d words each on average)\n", out.SentenceCount, out.AverageWordsPerSentence)
	fmt.Fprintf(w, "Reading:    %d min\n", out.ReadingTime)
	if len(out.Keywords) > 0 {
		fmt.Fprintf(w, "Keywords:   %s\n", strings.Join(out.Keywords, ", "))
	}
	return nil
}

// readInput extracts the text of args[0], or of standard input read as plain text
// when no file or "-" is given.
func readInput(ctx context.Context, cmd *cobra.Command, args []string) (string, *extractor.Result, error) {
	ext := extractor.New(0)
	if len(args) == 0 || args[0] == "-" {
		res, err := ext.Extract(ctx, "stdin.txt", "text/plain", cmd.InOrStdin())
		if err != nil {
			return "", nil, fmt.Errorf("read standard input: %w", err)
		}
		return "stdin", res, nil
	}

	path := args[0]
	f, err := os.Open(path) // #nosec G304 -- the path is the user's own argument
	if err != nil {
		return "", nil, err
	}
	defer func() { _ = f.Close() }()

	res, err := ext.Extract(ctx, path, "", f)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}
	return path, res, nil
}

func methodLabel(method, model string) string {
	if model == "" {
		return method
	}
	return method + " (" + model + ")"
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
