package internal

import (
	"net/http"
	"sync"
)

// ResponseWriter records the status code, the body size and whether the
// header has gone out. Middleware and the error handler consult it to avoid
// writing a second response.
type ResponseWriter struct {
	http.ResponseWriter

	mu      sync.Mutex
	status  int
	size    int64
	written bool
}

// NewResponseWriter wraps w. The status defaults to 200 until set.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

// commit marks the header as sent and reports whether this call did it.
func (w *ResponseWriter) commit(code int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.written {
		return false
	}
	w.written = true
	if code != 0 {
		w.status = code
	}
	return true
}

// WriteHeader sends the status line. Later calls are ignored.
func (w *ResponseWriter) WriteHeader(code int) {
	if w.commit(code) {
		w.ResponseWriter.WriteHeader(code)
	}
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if w.commit(0) {
		w.ResponseWriter.WriteHeader(w.Status())
	}
	n, err := w.ResponseWriter.Write(b)

	w.mu.Lock()
	w.size += int64(n)
	w.mu.Unlock()
	return n, err
}

func (w *ResponseWriter) Status() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Size is the number of body bytes written so far.
func (w *ResponseWriter) Size() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

func (w *ResponseWriter) Written() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

// Flush implements http.Flusher when the wrapped writer does.
func (w *ResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the wrapped writer to http.ResponseController.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
