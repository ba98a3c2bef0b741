package transcribe

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/interpreter"
	"github.com/ayusman/mudra/internal/observability"
	"github.com/ayusman/mudra/internal/session"
)

const (
	// RateLimitMessage is shown while the interpreter is throttling requests.
	RateLimitMessage = "Rate limit exceeded. Please wait a moment."
	// BannerTTL is how long the rate limit banner stays up.
	BannerTTL = 5 * time.Second
	// DefaultInterval is the polling interval when none is configured.
	DefaultInterval = 4 * time.Second
	// DefaultTimeout bounds a single interpreter call.
	DefaultTimeout = 30 * time.Second
)

// Outcome is the result of one RunCycle.
type Outcome string

const (
	OutcomeSkippedBusy  Outcome = observability.OutcomeSkippedBusy
	OutcomeSkippedEmpty Outcome = observability.OutcomeSkippedEmpty
	OutcomeUnchanged    Outcome = observability.OutcomeUnchanged
	OutcomeAccepted     Outcome = observability.OutcomeAccepted
	OutcomeRateLimited  Outcome = observability.OutcomeRateLimited
	OutcomeFailed       Outcome = observability.OutcomeFailed
)

var rateLimitMarkers = []string{"429", "RESOURCE_EXHAUSTED"}

// IsRateLimited reports whether err describes a rate limit or exhausted quota.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// ControllerConfig wires a Controller.
type ControllerConfig struct {
	Interpreter interpreter.Interpreter
	Session     *session.Session
	Latest      *Latest
	Interval    time.Duration
	Timeout     time.Duration
	BannerTTL   time.Duration
}

// Controller sends the latest landmarks to the interpreter on a fixed
// interval, with at most one call in flight.
type Controller struct {
	interp    interpreter.Interpreter
	session   *session.Session
	latest    *Latest
	timeout   time.Duration
	bannerTTL time.Duration

	inFlight atomic.Bool

	mu       sync.Mutex
	interval time.Duration
	reset    chan struct{}

	cycles sync.WaitGroup
	log    zerolog.Logger
}

// NewController creates a Controller. Zero durations take the package defaults.
func NewController(cfg ControllerConfig) *Controller {
	c := &Controller{
		interp:    cfg.Interpreter,
		session:   cfg.Session,
		latest:    cfg.Latest,
		timeout:   cfg.Timeout,
		bannerTTL: cfg.BannerTTL,
		interval:  cfg.Interval,
		reset:     make(chan struct{}, 1),
		log:       observability.Component("controller"),
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.bannerTTL <= 0 {
		c.bannerTTL = BannerTTL
	}
	if c.interval <= 0 {
		c.interval = DefaultInterval
	}
	return c
}

// RunCycle performs one transcription cycle. It is a no-op while another
// cycle is in flight or when the latest frame has no hands. The interpreter
// call is not cancelled by ctx; it is bounded only by the configured timeout.
func (c *Controller) RunCycle(ctx context.Context) Outcome {
	outcome := c.runCycle(ctx)
	observability.RecordCycle(string(outcome))
	return outcome
}

func (c *Controller) runCycle(ctx context.Context) Outcome {
	if !c.inFlight.CompareAndSwap(false, true) {
		return OutcomeSkippedBusy
	}
	defer c.inFlight.Store(false)

	frame := c.latest.Load()
	if frame.HandCount() == 0 {
		return OutcomeSkippedEmpty
	}
	sentence := c.session.Sentence()

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	start := time.Now()
	candidate, err := c.interp.Interpret(callCtx, frame.Hands, sentence)
	observability.ObserveInterpreter(time.Since(start))

	if err != nil {
		if IsRateLimited(err) {
			c.log.Warn().Err(err).Msg("Interpreter rate limited")
			c.session.ShowBanner(RateLimitMessage, c.bannerTTL)
			return OutcomeRateLimited
		}
		c.log.Debug().Err(err).Msg("Interpreter call failed")
		return OutcomeFailed
	}

	if c.session.HasBanner() {
		c.session.ClearBanner()
	}
	if candidate == sentence {
		return OutcomeUnchanged
	}
	c.session.ReplaceSentence(candidate)
	c.log.Debug().Str("sentence", candidate).Msg("Sentence updated")
	return OutcomeAccepted
}

// InFlight reports whether an interpreter call is outstanding.
func (c *Controller) InFlight() bool {
	return c.inFlight.Load()
}

// Interval returns the current polling interval.
func (c *Controller) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interval
}

// SetInterval changes the polling interval. A running loop restarts its
// timer so the next cycle fires d after the change.
func (c *Controller) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.interval = d
	c.mu.Unlock()

	select {
	case c.reset <- struct{}{}:
	default:
	}
}

// Run triggers a cycle every interval until ctx is done. Each tick starts
// its cycle on a new goroutine, so a tick that lands during a slow call
// returns OutcomeSkippedBusy rather than queueing.
func (c *Controller) Run(ctx context.Context) {
	// Drop a reset left over from before the loop started.
	select {
	case <-c.reset:
	default:
	}

	ticker := time.NewTicker(c.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.reset:
			ticker.Reset(c.Interval())
		case <-ticker.C:
			c.cycles.Add(1)
			go func() {
				defer c.cycles.Done()
				c.RunCycle(ctx)
			}()
		}
	}
}

// Wait blocks until every cycle started by Run has finished. Call it only
// after Run has returned.
func (c *Controller) Wait() {
	c.cycles.Wait()
}
