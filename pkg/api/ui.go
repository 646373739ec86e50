package api

import (
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/player.html
var templateFS embed.FS

var playerTemplate = template.Must(template.ParseFS(templateFS, "templates/player.html"))

// playerUI handles GET /, rendering the embedded web player
func (s *Server) playerUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := playerTemplate.Execute(w, struct {
		Title string
	}{Title: s.title}); err != nil {
		s.logger.WithError(err).Error("Failed to render player template")
	}
}
