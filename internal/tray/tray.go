// Package tray provides a system tray menu for starting and stopping transcription.
package tray

import (
	"sync"
	"unicode/utf8"

	"github.com/getlantern/systray"

	"github.com/ayusman/mudra/internal/session"
)

// maxSentenceRunes bounds the sentence shown in the menu.
const maxSentenceRunes = 40

// Tray represents the system tray application.
type Tray struct {
	onToggle func()
	onClear  func()
	onOpen   func()
	onQuit   func()
	status   session.Status
	sentence string
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle   *systray.MenuItem
	menuSentence *systray.MenuItem
}

// New creates a new Tray showing the loading status.
func New() *Tray {
	return &Tray{status: session.StatusLoadingModel}
}

// OnToggle sets the callback for the start/stop item.
func (t *Tray) OnToggle(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnClear sets the callback for the clear text item.
func (t *Tray) OnClear(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onClear = fn
}

// OnOpen sets the callback for the open in browser item.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback for the quit item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit stops a running tray.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra sign language transcription")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.status), "Start or stop transcription")
	if !toggleEnabled(t.status) {
		t.menuToggle.Disable()
	}
	systray.AddSeparator()

	t.menuSentence = systray.AddMenuItem(sentenceTitle(t.sentence), "Current sentence")
	t.menuSentence.Disable()
	t.mu.Unlock()

	menuClear := systray.AddMenuItem("Clear Text", "Clear the sentence and recording")
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open in Browser...", "Open the transcription page")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.fire(func() func() { return t.onToggle })
			case <-menuClear.ClickedCh:
				t.fire(func() func() { return t.onClear })
			case <-menuOpen.ClickedCh:
				t.fire(func() func() { return t.onOpen })
			case <-menuQuit.ClickedCh:
				t.fire(func() func() { return t.onQuit })
				systray.Quit()
				return
			}
		}
	}()
}

// fire reads a callback under the lock and calls it outside.
func (t *Tray) fire(get func() func()) {
	t.mu.RLock()
	callback := get()
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// Update reflects the session state in the menu.
func (t *Tray) Update(st session.State) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status = st.Status
	t.sentence = st.Sentence

	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(st.Status))
		if toggleEnabled(st.Status) {
			t.menuToggle.Enable()
		} else {
			t.menuToggle.Disable()
		}
	}
	if t.menuSentence != nil {
		t.menuSentence.SetTitle(sentenceTitle(st.Sentence))
	}
}

// Follow updates the menu from session changes until the channel closes.
func (t *Tray) Follow(changes <-chan session.Change) {
	for ch := range changes {
		t.Update(ch.State)
	}
}

// Status returns the last status shown.
func (t *Tray) Status() session.Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

func toggleTitle(s session.Status) string {
	if s == session.StatusTranscribing {
		return "■ " + s.ToggleLabel()
	}
	return "● " + s.ToggleLabel()
}

func toggleEnabled(s session.Status) bool {
	return s.CanStart() || s == session.StatusTranscribing
}

func sentenceTitle(s string) string {
	if s == "" {
		return "Text: none"
	}
	if utf8.RuneCountInString(s) > maxSentenceRunes {
		r := []rune(s)
		s = "…" + string(r[len(r)-maxSentenceRunes+1:])
	}
	return "Text: " + s
}
