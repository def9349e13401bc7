package httpx

import (
	"io"
	"net/http"
)

const statusResponse = `{"status":"ok","service":"membershield"}`

// statusHandler returns a simple 200 OK status for liveness checks and the
// root page.
func statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, statusResponse); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}
