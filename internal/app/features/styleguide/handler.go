// internal/app/features/styleguide/handler.go
package styleguide

import (
	"fmt"
	"net/http"

	"github.com/dalemusser/grouppages/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// MediaPath is where the card images are served from.
const MediaPath = "/static/styleguide/media/"

// TailwindCDN is the script the style guide page loads instead of the
// site's compiled stylesheet.
const TailwindCDN = "https://cdn.tailwindcss.com"

// CardCount is the number of demo cards on the page.
const CardCount = 10

// Person is one demo card.
type Person struct {
	Index    int
	Name     string
	Title    string
	Email    string
	Phone    string
	ImageURL string
}

type pageData struct {
	viewdata.BaseVM
	People    []Person
	MediaPath string
}

type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// People returns the demo cards, numbered from 1.
func People() []Person {
	people := make([]Person, 0, CardCount)
	for i := 1; i <= CardCount; i++ {
		people = append(people, Person{
			Index:    i,
			Name:     fmt.Sprintf("Person card %d", i),
			Title:    "Paradigm Representative",
			Email:    fmt.Sprintf("person%d@example.com", i),
			Phone:    fmt.Sprintf("+1-202-555-%04d", 100+i),
			ImageURL: MediaPath + "person.svg",
		})
	}
	return people
}

// ServeStyleGuide renders the person cards.
// GET /style-guide
func (h *Handler) ServeStyleGuide(w http.ResponseWriter, r *http.Request) {
	base := viewdata.NewBaseVM(r, "Person Cards", "/")
	base.Scripts = []string{TailwindCDN}
	templates.Render(w, r, "style_guide", pageData{
		BaseVM:    base,
		People:    People(),
		MediaPath: MediaPath,
	})
}
