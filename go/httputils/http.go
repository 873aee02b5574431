// Package httputils holds the middleware and small helpers shared by the HTTP
// servers in this module.
package httputils

import (
	"encoding/json"
	"io"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/fiorix/go-web/autogzip"

	"github.com/pairedstats/infra/go/metrics2"
	"github.com/pairedstats/infra/go/sklog"
)

// ReportError logs err and sends message to the client with the given status
// code. If message is empty a generic message is sent.
func ReportError(w http.ResponseWriter, err error, message string, code int) {
	sklog.ErrorfWithDepth(1, "%s: %s", message, err)
	if err != io.ErrClosedPipe {
		httpErrMsg := message
		if message == "" {
			httpErrMsg = "Unknown error"
		}
		http.Error(w, httpErrMsg, code)
	}
}

// WriteJSON encodes v as the JSON response body.
func WriteJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		sklog.ErrorfWithDepth(1, "Failed to write JSON response: %s", err)
	}
}

// responseProxy implements http.ResponseWriter and records the status codes.
type responseProxy struct {
	http.ResponseWriter
	wroteHeader bool
}

func (rp *responseProxy) WriteHeader(code int) {
	if !rp.wroteHeader {
		sklog.Infof("Response Code: %d", code)
		metrics2.GetCounter("http_response", map[string]string{"statuscode": strconv.Itoa(code)}).Inc(1)
		rp.ResponseWriter.WriteHeader(code)
		rp.wroteHeader = true
	}
}

func (rp *responseProxy) Write(b []byte) (int, error) {
	if !rp.wroteHeader {
		rp.WriteHeader(http.StatusOK)
	}
	return rp.ResponseWriter.Write(b)
}

// recordResponse returns a wrapped http.Handler that records the status codes
// of the responses.
func recordResponse(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(&responseProxy{ResponseWriter: w}, r)
	})
}

// LoggingGzipRequestResponse records parts of the request and the response to
// the logs and gzips responses when the client accepts it.
func LoggingGzipRequestResponse(h http.Handler) http.Handler {
	return autogzip.Handle(LoggingRequestResponse(h))
}

// LoggingRequestResponse records parts of the request and the response to the
// logs, tracks request latency and turns panics into 500s.
func LoggingRequestResponse(h http.Handler) http.Handler {
	f := func(w http.ResponseWriter, r *http.Request) {
		sklog.Infof("Incoming request: %s %s", r.Method, r.URL.Path)
		defer func() {
			if err := recover(); err != nil {
				const size = 64 << 10
				buf := make([]byte, size)
				buf = buf[:runtime.Stack(buf, false)]
				sklog.Errorf("panic serving %v: %v\n%s", r.URL.Path, err, buf)

				// Only changes the response if WriteHeader has not been called yet.
				http.Error(w, "Error Handling request", http.StatusInternalServerError)
			}
		}()
		start := time.Now()
		defer func() {
			metrics2.GetFloat64SummaryMetric("http_latency_seconds", map[string]string{"path": r.URL.Path}).Observe(time.Since(start).Seconds())
		}()
		h.ServeHTTP(w, r)
	}

	return recordResponse(http.HandlerFunc(f))
}

// Healthz answers health checks at /healthz and passes every other request
// on to h.
func Healthz(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.ServeHTTP(w, r)
	})
}
