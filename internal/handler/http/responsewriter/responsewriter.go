// Package responsewriter records the status code and body size of a response for the
// logging, metrics and tracing middleware.
package responsewriter

import "net/http"

// ResponseWriter is an http.ResponseWriter that remembers what was sent.
// The zero status means nothing has been written yet; StatusCode reports 200 then,
// as net/http would.
type ResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

// Wrap returns w wrapped for recording.
func Wrap(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w}
}

// WriteHeader forwards only the first status code.
func (w *ResponseWriter) WriteHeader(code int) {
	if w.status != 0 {
		return
	}
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	w.WriteHeader(http.StatusOK)
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// Flush commits a 200 header if none was sent and flushes when the wrapped writer can.
func (w *ResponseWriter) Flush() {
	w.WriteHeader(http.StatusOK)
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the wrapped writer.
func (w *ResponseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func (w *ResponseWriter) StatusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *ResponseWriter) BytesWritten() int { return w.size }

// Written reports whether the header has been sent.
func (w *ResponseWriter) Written() bool { return w.status != 0 }
