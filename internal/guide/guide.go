// Package guide holds the static ASL and SASL fingerspelling references shown
// to the user and fed to the interpreter prompt.
package guide

import (
	"errors"
	"fmt"
)

// Guide names.
const (
	ASL  = "asl"
	SASL = "sasl"
)

// ErrUnknownGuide is returned by Get for a name that has no guide.
var ErrUnknownGuide = errors.New("unknown guide")

// Letter describes how one letter is signed.
type Letter struct {
	Letter      string `json:"letter"`
	Description string `json:"description"`
	Hands       int    `json:"hands"`
}

// Guide is one sign language alphabet.
type Guide struct {
	Name    string   `json:"name"`
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Letters []Letter `json:"letters"`
}

// Letter returns the entry for l, if present.
func (g *Guide) Letter(l string) (Letter, bool) {
	for _, entry := range g.Letters {
		if entry.Letter == l {
			return entry, true
		}
	}
	return Letter{}, false
}

// TwoHanded returns the letters signed with both hands.
func (g *Guide) TwoHanded() []Letter {
	var out []Letter
	for _, entry := range g.Letters {
		if entry.Hands > 1 {
			out = append(out, entry)
		}
	}
	return out
}

var guides = map[string]*Guide{
	ASL:  &aslGuide,
	SASL: &saslGuide,
}

// Names returns the available guide names in display order.
func Names() []string {
	return []string{ASL, SASL}
}

// Get returns a copy of the named guide.
func Get(name string) (Guide, error) {
	g, ok := guides[name]
	if !ok {
		return Guide{}, fmt.Errorf("%w: %q", ErrUnknownGuide, name)
	}
	out := *g
	out.Letters = append([]Letter(nil), g.Letters...)
	return out, nil
}

// All returns every guide in display order.
func All() []Guide {
	out := make([]Guide, 0, len(guides))
	for _, name := range Names() {
		g, _ := Get(name)
		out = append(out, g)
	}
	return out
}
