package httpx

import (
	"html/template"
	"log/slog"
	"net/http"

	domainauth "github.com/algexpress/algexpress-admin/internal/domain/auth"
)

const basePage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>AlgExpress Admin</title>
</head>
<body>
{{block "content" .}}{{end}}
</body>
</html>`

const loginContent = `{{define "content"}}
<main class="login">
  <h1>AlgExpress Admin</h1>
  {{if .Error}}<p class="error" role="alert">{{.Error}}</p>{{end}}
  <form method="post" action="/login">
    <label>Email <input type="email" name="email" value="{{.Email}}" required autofocus></label>
    <label>Password <input type="password" name="password" required></label>
    <button type="submit">Sign in</button>
  </form>
</main>
{{end}}`

const dashboardContent = `{{define "content"}}
<main class="dashboard">
  <header>
    <h1>AlgExpress Admin</h1>
    <form method="post" action="/logout"><button type="submit">Sign out</button></form>
  </header>
  <p>Signed in as {{.User.Name}} ({{.User.Email}}, {{.User.Role}})</p>
</main>
{{end}}`

const loadingContent = `{{define "content"}}
<main class="loading">
  <p>Restoring session&hellip;</p>
  <meta http-equiv="refresh" content="1">
</main>
{{end}}`

// Renderer renders the admin pages from the embedded templates.
type Renderer struct {
	login     *template.Template
	dashboard *template.Template
	loading   *template.Template
	logger    *slog.Logger
}

// NewRenderer parses the page templates. Parse errors panic at startup.
func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	parse := func(content string) *template.Template {
		return template.Must(template.Must(template.New("base").Parse(basePage)).Parse(content))
	}
	return &Renderer{
		login:     parse(loginContent),
		dashboard: parse(dashboardContent),
		loading:   parse(loadingContent),
		logger:    logger,
	}
}

// LoginData feeds the login page template.
type LoginData struct {
	Email string
	Error string
}

// Login renders the login form with the given status code.
func (r *Renderer) Login(w http.ResponseWriter, status int, data LoginData) {
	r.render(w, r.login, status, data)
}

// DashboardData feeds the dashboard template.
type DashboardData struct {
	User domainauth.User
}

// Dashboard renders the signed-in landing page.
func (r *Renderer) Dashboard(w http.ResponseWriter, data DashboardData) {
	r.render(w, r.dashboard, http.StatusOK, data)
}

// Loading renders the session-restore placeholder page.
func (r *Renderer) Loading(w http.ResponseWriter) {
	r.render(w, r.loading, http.StatusOK, nil)
}

func (r *Renderer) render(w http.ResponseWriter, tmpl *template.Template, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		r.logger.Error("render template", slog.Any("error", err))
	}
}
