package middleware

import "net/http"

// ResponseRecorder wraps ResponseWriter, captures the status code and runs hooks right before
// the first byte goes out, which is the last moment cookies can still be set.
type ResponseRecorder struct {
	http.ResponseWriter
	status      int
	wrote       bool
	beforeWrite []func(http.ResponseWriter)
}

func NewResponseRecorder(w http.ResponseWriter) *ResponseRecorder {
	if rw, ok := w.(*ResponseRecorder); ok {
		return rw
	}
	return &ResponseRecorder{ResponseWriter: w, status: http.StatusOK}
}

// SetBeforeWrite registers a hook run once before headers are sent.
func (rw *ResponseRecorder) SetBeforeWrite(fn func(http.ResponseWriter)) {
	rw.beforeWrite = append(rw.beforeWrite, fn)
}

func (rw *ResponseRecorder) flushHooks() {
	if rw.wrote {
		return
	}
	rw.wrote = true
	for _, fn := range rw.beforeWrite {
		fn(rw.ResponseWriter)
	}
}

func (rw *ResponseRecorder) WriteHeader(statusCode int) {
	rw.flushHooks()
	rw.status = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *ResponseRecorder) Write(b []byte) (int, error) {
	rw.flushHooks()
	return rw.ResponseWriter.Write(b)
}

func (rw *ResponseRecorder) Status() int { return rw.status }

// Wrote reports whether anything was sent.
func (rw *ResponseRecorder) Wrote() bool { return rw.wrote }

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *ResponseRecorder) Unwrap() http.ResponseWriter { return rw.ResponseWriter }
