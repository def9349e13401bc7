package httpx

import (
	"html/template"
	"log/slog"
	"net/http"
)

// User-facing result pages for the verification flow. Presentation only;
// failure bodies stay generic so provider error detail never reaches the
// browser.

var successTemplate = template.Must(template.New("success").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Verification Successful</title>
    <style>
        body { background-color: #2c2f33; color: white; font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; display: flex; align-items: center; justify-content: center; height: 100vh; margin: 0; }
        .card { background-color: #23272a; padding: 50px; border-radius: 20px; text-align: center; box-shadow: 0 10px 30px rgba(0,0,0,0.5); border: 2px solid #5865F2; max-width: 400px; }
        .icon { font-size: 60px; margin-bottom: 20px; filter: drop-shadow(0 0 10px #5865F2); }
        h1 { margin: 0; font-size: 28px; color: #5865F2; }
        p { color: #b9bbbe; line-height: 1.6; margin-top: 15px; }
        .username { color: #ffffff; font-weight: bold; background: #36393f; padding: 5px 12px; border-radius: 5px; }
        .footer { margin-top: 30px; font-size: 12px; opacity: 0.6; }
    </style>
</head>
<body>
    <div class="card">
        <div class="icon">&#128737;&#65039;</div>
        <h1>Verification Success</h1>
        <p>Identity confirmed for <span class="username">{{.Name}}</span>.</p>
        <p>Your account is now securely backed up in the Member Shield vault. You can safely close this window.</p>
        <div class="footer">Member Shield System &bull; Secured via Discord OAuth2</div>
    </div>
</body>
</html>
`))

type successData struct {
	Name string
}

func writeSuccessPage(w http.ResponseWriter, logger *slog.Logger, name string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := successTemplate.Execute(w, successData{Name: name}); err != nil {
		logger.Warn("render success page failed", "error", err)
	}
}

func writePlainError(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}
