package session

import (
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/observability"
)

// Banner is a transient, self-expiring error message.
type Banner struct {
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// State is a point-in-time copy of the session.
type State struct {
	Status   Status  `json:"status"`
	Sentence string  `json:"sentence"`
	Error    string  `json:"error,omitempty"`
	Banner   *Banner `json:"banner,omitempty"`
	VideoID  string  `json:"video_id,omitempty"`
}

// ChangeKind names the part of the session that changed.
type ChangeKind string

const (
	KindStatus   ChangeKind = "status"
	KindSentence ChangeKind = "sentence"
	KindBanner   ChangeKind = "banner"
	KindVideo    ChangeKind = "video"
)

// Change is delivered to subscribers after every mutation.
type Change struct {
	Kind  ChangeKind `json:"kind"`
	State State      `json:"state"`
}

// subscriberBuffer is the per-subscriber channel capacity.
const subscriberBuffer = 32

// Session owns the sentence, status, error and banner. It is safe for
// concurrent use.
type Session struct {
	mu          sync.Mutex
	status      Status
	sentence    string
	errMsg      string
	banner      *Banner
	bannerTimer *time.Timer
	bannerGen   uint64
	videoID     string

	subs    map[int]chan Change
	nextSub int
}

// New creates a session in the given initial status.
func New(initial Status) *Session {
	return &Session{
		status: initial,
		subs:   make(map[int]chan Change),
	}
}

// Status returns the current status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Apply moves the status along event. Starting clears any persistent error.
func (s *Session) Apply(event Event) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Transition(s.status, event)
	if err != nil {
		return s.status, err
	}
	if event == EventStart {
		s.errMsg = ""
	}
	if next != s.status {
		s.setStatusLocked(next)
	}
	return next, nil
}

// Fail moves to the error status with a persistent user-facing message.
func (s *Session) Fail(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.errMsg = message
	s.setStatusLocked(StatusError)
}

func (s *Session) setStatusLocked(next Status) {
	s.status = next
	observability.SetStatus(string(next), statusLabels)
	s.notifyLocked(KindStatus)
}

// Sentence returns the accumulated sentence.
func (s *Session) Sentence() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sentence
}

// ReplaceSentence sets the sentence to text as a whole value. It
// reports false, and notifies nobody, when text equals the current sentence.
func (s *Session) ReplaceSentence(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if text == s.sentence {
		return false
	}
	s.sentence = text
	s.notifyLocked(KindSentence)
	return true
}

// ClearSentence resets the sentence to empty.
func (s *Session) ClearSentence() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sentence == "" {
		return
	}
	s.sentence = ""
	s.notifyLocked(KindSentence)
}

// ShowBanner displays message until ttl elapses. A pending expiry from a
// previous banner is cancelled and replaced.
func (s *Session) ShowBanner(message string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopBannerTimerLocked()

	s.bannerGen++
	gen := s.bannerGen
	s.banner = &Banner{Message: message, ExpiresAt: time.Now().Add(ttl)}
	s.bannerTimer = time.AfterFunc(ttl, func() { s.expireBanner(gen) })
	s.notifyLocked(KindBanner)
}

// expireBanner clears the banner if it is still the one generation gen set.
func (s *Session) expireBanner(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.bannerGen || s.banner == nil {
		return
	}
	s.banner = nil
	s.bannerTimer = nil
	s.notifyLocked(KindBanner)
}

// ClearBanner removes the banner, if any, and cancels its expiry.
func (s *Session) ClearBanner() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopBannerTimerLocked()
	if s.banner == nil {
		return
	}
	s.banner = nil
	s.notifyLocked(KindBanner)
}

// CancelBanner cancels the pending expiry but leaves the banner showing.
func (s *Session) CancelBanner() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopBannerTimerLocked()
}

// HasBanner reports whether a banner is showing.
func (s *Session) HasBanner() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.banner != nil
}

func (s *Session) stopBannerTimerLocked() {
	if s.bannerTimer != nil {
		s.bannerTimer.Stop()
		s.bannerTimer = nil
	}
	// Invalidate a timer that already fired and is waiting for the lock.
	s.bannerGen++
}

// SetVideo sets the downloadable recording reference. Empty removes it.
func (s *Session) SetVideo(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.videoID == id {
		return
	}
	s.videoID = id
	s.notifyLocked(KindVideo)
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() State {
	st := State{
		Status:   s.status,
		Sentence: s.sentence,
		Error:    s.errMsg,
		VideoID:  s.videoID,
	}
	if s.banner != nil {
		b := *s.banner
		st.Banner = &b
	}
	return st
}

// Subscribe registers for change notifications. The returned function
// unsubscribes and closes the channel. A subscriber that falls behind misses
// changes; each Change carries the full state so the latest one is enough.
func (s *Session) Subscribe() (<-chan Change, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Change, subscriberBuffer)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

func (s *Session) notifyLocked(kind ChangeKind) {
	if len(s.subs) == 0 {
		return
	}
	change := Change{Kind: kind, State: s.snapshotLocked()}
	for _, ch := range s.subs {
		select {
		case ch <- change:
		default:
		}
	}
}
