package transport

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

var (
	statusPage = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Sensor Ledger</title></head>
<body>
<h2>Sensor Ledger Server</h2>
<p>Use <b>/upload_block</b> for POST and <b>/blocks</b> to view all stored blocks.</p>
<p>Blocks stored: {{.Count}}</p>
{{- if .HasTip}}
<p>Chain tip: #{{.Tip.Index}} <code>{{.Tip.Hash}}</code></p>
{{- end}}
<p>Live feed: <a href="/blocks/stream">/blocks/stream</a></p>
</body>
</html>
`))

	waitingPage = template.Must(template.New("waiting").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Sensor Ledger</title></head>
<body><h3>Waiting for sensor block uploads...</h3></body>
</html>
`))

	blocksPage = template.Must(template.New("blocks").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Sensor Ledger blocks</title></head>
<body>
<h2>Stored blocks ({{len .}})</h2>
<table border="1" cellpadding="4">
<tr><th>#</th><th>Distance (cm)</th><th>Time</th><th>Prev hash</th><th>Hash</th></tr>
{{- range .}}
<tr><td>{{.Index}}</td><td>{{.Distance}}</td><td>{{.ClockTime}}</td><td><code>{{.PrevHash}}</code></td><td><code>{{.Hash}}</code></td></tr>
{{- end}}
</table>
</body>
</html>
`))
)

func renderHTML(w http.ResponseWriter, logger *zap.Logger, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		logger.Error("render page", zap.String("template", tmpl.Name()), zap.Error(err))
	}
}
