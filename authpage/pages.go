package authpage

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
)

var successPage = template.Must(template.New("success").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8" />
    <title>{{.AppName}}</title>
</head>
<body>
    <p>Authorisation complete. You can close this window and return to {{.AppName}}.</p>
    <script>window.close()</script>
</body>
</html>
`))

var failurePage = template.Must(template.New("failure").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8" />
    <title>{{.AppName}}</title>
</head>
<body>
    <p>Authorisation failed. You can close this window and return to {{.AppName}}.</p>
    <p>Error details: error {{.Code}}, error description: {{.Description}}</p>
</body>
</html>
`))

type pageData struct {
	AppName     string
	Code        string
	Description string
}

func render(w http.ResponseWriter, status int, page *template.Template, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Execute(w, data); err != nil {
		log.Err(err).Str("page", page.Name()).Msg("Failed to render auth page")
	}
}
