package api

import (
	"net/http"
	"strings"

	"github.com/ayusman/mudra/internal/guide"
)

// GuideHandler serves the static alphabet references.
type GuideHandler struct{}

// NewGuideHandler creates a GuideHandler.
func NewGuideHandler() *GuideHandler {
	return &GuideHandler{}
}

type listGuidesResponse struct {
	Guides []guideSummary `json:"guides"`
}

type guideSummary struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// ServeHTTP handles GET /api/guides, /api/guides/{name} and
// /api/guides/{name}/{letter}.
func (h *GuideHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/guides"), "/")
	if name == "" {
		var resp listGuidesResponse
		for _, g := range guide.All() {
			resp.Guides = append(resp.Guides, guideSummary{Name: g.Name, Title: g.Title, Summary: g.Summary})
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	name, letter, _ := strings.Cut(name, "/")
	g, err := guide.Get(strings.ToLower(name))
	if err != nil {
		writeError(w, statusFor(err), "Guide not found")
		return
	}
	if letter == "" {
		writeJSON(w, http.StatusOK, g)
		return
	}

	entry, ok := g.Letter(strings.ToUpper(letter))
	if !ok {
		writeError(w, http.StatusNotFound, "Letter not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
