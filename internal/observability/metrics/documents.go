package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DocumentsUploadedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "documents_uploaded_total",
		Help: "Uploads by file type and result (success, rejected, failure)",
	}, []string{"file_type", "result"})

	DocumentsSummarizedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "documents_summarized_total",
		Help: "Document summarizations by method and status",
	}, []string{"method", "status"})

	SummarizationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "document_summarization_duration_seconds",
		Help:    "Time to summarize one document, remote providers included",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
	})

	CompressionRatio = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "document_compression_ratio",
		Help:    "Summary length over original length of completed summaries",
		Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
	})

	ExtractedTextSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "document_extracted_text_characters",
		Help:    "Characters of text extracted from an upload",
		Buckets: prometheus.ExponentialBuckets(100, 4, 9),
	})

	PendingBatchSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "documents_pending_batch_size",
		Help: "Documents picked up by the most recent summarization batch",
	})
)

// RecordDocumentUploaded counts an upload. An empty fileType is recorded as "unknown".
func RecordDocumentUploaded(fileType, result string) {
	if fileType == "" {
		fileType = "unknown"
	}
	DocumentsUploadedTotal.WithLabelValues(fileType, result).Inc()
}

func RecordExtractedText(characters int) {
	ExtractedTextSize.Observe(float64(characters))
}

// RecordDocumentSummarized counts a summarization and observes its duration.
// Failures are labelled with method "none".
func RecordDocumentSummarized(method string, success bool, elapsed time.Duration) {
	status := "success"
	if !success {
		method, status = "none", "failure"
	}
	DocumentsSummarizedTotal.WithLabelValues(method, status).Inc()
	SummarizationDuration.Observe(elapsed.Seconds())
}

func RecordCompressionRatio(ratio float64) {
	CompressionRatio.Observe(ratio)
}

func UpdatePendingBatchSize(count int) {
	PendingBatchSize.Set(float64(count))
}
