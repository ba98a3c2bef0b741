package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionApply(t *testing.T) {
	s := New(StatusIdle)

	got, err := s.Apply(EventStart)
	require.NoError(t, err)
	assert.Equal(t, StatusStartingCamera, got)
	assert.Equal(t, StatusStartingCamera, s.Status())

	_, err = s.Apply(EventStart)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusStartingCamera, s.Status())
}

func TestSessionFailAndRestartClearsError(t *testing.T) {
	s := New(StatusIdle)
	s.Fail("Could not access camera. Please check permissions.")

	st := s.Snapshot()
	assert.Equal(t, StatusError, st.Status)
	assert.Equal(t, "Could not access camera. Please check permissions.", st.Error)

	_, err := s.Apply(EventStart)
	require.NoError(t, err)
	assert.Empty(t, s.Snapshot().Error)
}

func TestReplaceSentenceWholeValue(t *testing.T) {
	s := New(StatusIdle)

	assert.True(t, s.ReplaceSentence("HELLO"))
	assert.Equal(t, "HELLO", s.Sentence())

	// A shorter result replaces rather than appends.
	assert.True(t, s.ReplaceSentence("HELL"))
	assert.Equal(t, "HELL", s.Sentence())

	assert.False(t, s.ReplaceSentence("HELL"))

	s.ClearSentence()
	assert.Empty(t, s.Sentence())
}

func TestReplaceSentenceIdenticalDoesNotNotify(t *testing.T) {
	s := New(StatusIdle)
	s.ReplaceSentence("HI")

	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	s.ReplaceSentence("HI")
	select {
	case c := <-ch:
		t.Fatalf("unexpected change %+v", c)
	default:
	}
}

func TestBannerExpires(t *testing.T) {
	s := New(StatusTranscribing)
	s.ShowBanner("Rate limit exceeded. Please wait a moment.", 30*time.Millisecond)

	st := s.Snapshot()
	require.NotNil(t, st.Banner)
	assert.Equal(t, "Rate limit exceeded. Please wait a moment.", st.Banner.Message)

	require.Eventually(t, func() bool { return !s.HasBanner() }, time.Second, 5*time.Millisecond)
}

func TestBannerReplaceRestartsTimer(t *testing.T) {
	s := New(StatusTranscribing)
	s.ShowBanner("first", 40*time.Millisecond)
	time.Sleep(25 * time.Millisecond)
	s.ShowBanner("second", 80*time.Millisecond)

	// The first banner's expiry must not clear the second.
	time.Sleep(35 * time.Millisecond)
	st := s.Snapshot()
	require.NotNil(t, st.Banner)
	assert.Equal(t, "second", st.Banner.Message)

	require.Eventually(t, func() bool { return !s.HasBanner() }, time.Second, 5*time.Millisecond)
}

func TestClearBannerCancelsExpiry(t *testing.T) {
	s := New(StatusTranscribing)
	s.ShowBanner("busy", 20*time.Millisecond)
	s.ClearBanner()
	assert.False(t, s.HasBanner())

	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	time.Sleep(40 * time.Millisecond)
	select {
	case c := <-ch:
		t.Fatalf("unexpected change after clear: %+v", c)
	default:
	}
}

func TestSubscribeReceivesChanges(t *testing.T) {
	s := New(StatusIdle)
	ch, unsubscribe := s.Subscribe()

	s.ReplaceSentence("A")
	s.SetVideo("rec-1")
	_, err := s.Apply(EventStart)
	require.NoError(t, err)

	c := <-ch
	assert.Equal(t, KindSentence, c.Kind)
	assert.Equal(t, "A", c.State.Sentence)

	c = <-ch
	assert.Equal(t, KindVideo, c.Kind)
	assert.Equal(t, "rec-1", c.State.VideoID)

	c = <-ch
	assert.Equal(t, KindStatus, c.Kind)
	assert.Equal(t, StatusStartingCamera, c.State.Status)

	unsubscribe()
	unsubscribe()
	_, open := <-ch
	assert.False(t, open)
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	s := New(StatusIdle)
	_, unsubscribe := s.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*4; i++ {
			s.ReplaceSentence(string(rune('A' + i%26)))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("mutations blocked on a full subscriber")
	}
}

func TestSessionConcurrentAccess(t *testing.T) {
	s := New(StatusTranscribing)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.ReplaceSentence(string(rune('A' + (i+j)%26)))
				_ = s.Snapshot()
				s.ShowBanner("x", time.Millisecond)
			}
		}(i)
	}
	wg.Wait()
}

func TestCancelBannerKeepsMessage(t *testing.T) {
	s := New(StatusTranscribing)
	s.ShowBanner("held", 20*time.Millisecond)
	s.CancelBanner()

	time.Sleep(40 * time.Millisecond)
	assert.True(t, s.HasBanner())

	s.ClearBanner()
	assert.False(t, s.HasBanner())
}
