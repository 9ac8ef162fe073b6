package practice

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// State is the controller's position in the practice lifecycle.
type State int

const (
	Uninitialized       State = iota // No session loaded
	AwaitingFirstPrompt              // Session exists, opening prompt not yet received
	AwaitingAnswer                   // Prompt shown, waiting for user input
	Submitting                       // Answer sent, waiting for feedback
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case AwaitingFirstPrompt:
		return "awaiting-first-prompt"
	case AwaitingAnswer:
		return "awaiting-answer"
	case Submitting:
		return "submitting"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	// ErrBusy is returned when a feedback request is already outstanding.
	ErrBusy = errors.New("a request is already in flight")

	// ErrEmptyAnswer is returned for answers that are blank after trimming.
	ErrEmptyAnswer = errors.New("answer is empty")

	// ErrInvalidTransition is returned when an operation is not allowed in
	// the current state.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrStaleExchange is returned by Complete for an outcome whose session
	// was reset while the request was in flight.
	ErrStaleExchange = errors.New("exchange belongs to a discarded session")
)

// Store persists the single active session. Implementations swallow and
// log their own failures.
type Store interface {
	Load(ctx context.Context) (*Session, bool)
	Save(ctx context.Context, s *Session) bool
	Clear(ctx context.Context) bool
}

// Requester produces feedback for a session. answer is nil for the
// session-start request.
type Requester interface {
	RequestFeedback(ctx context.Context, s Session, answer *string) (*Feedback, error)
}

// Controller owns the practice state machine. It folds feedback into the
// session, keeps history bounded and persists after every change.
//
// A Controller is not safe for concurrent use. It is meant to be driven
// from a single event loop; the blocking service call is isolated in
// Exchange.Run so it can execute elsewhere and report back via Complete.
type Controller struct {
	store Store
	svc   Requester

	state      State
	session    *Session
	generation int  // bumped whenever the session is replaced
	inFlight   bool // an Exchange has been issued and not completed
	opened     bool // one-shot latch for the opening request
}

// NewController returns a controller in the Uninitialized state.
func NewController(store Store, svc Requester) *Controller {
	return &Controller{store: store, svc: svc}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Busy reports whether a feedback request is outstanding.
func (c *Controller) Busy() bool { return c.inFlight }

// Session returns a copy of the in-memory session, or nil when none.
func (c *Controller) Session() *Session {
	if c.session == nil {
		return nil
	}
	return c.session.Clone()
}

// Load restores the persisted session, if any, and enters the matching
// state.
func (c *Controller) Load(ctx context.Context) State {
	s, ok := c.store.Load(ctx)
	if !ok {
		c.enter(Uninitialized, nil)
		return c.state
	}
	if s.Started() {
		c.enter(AwaitingAnswer, s)
	} else {
		c.enter(AwaitingFirstPrompt, s)
	}
	return c.state
}

// Start creates a new session from setup values, persists it and enters
// AwaitingFirstPrompt. The caller follows up with BeginFirstPrompt.
func (c *Controller) Start(ctx context.Context, p SetupParams) (*Session, error) {
	if c.state != Uninitialized {
		return nil, fmt.Errorf("%w: start from %s", ErrInvalidTransition, c.state)
	}
	s, err := NewSession(p)
	if err != nil {
		return nil, err
	}
	c.store.Save(ctx, s)
	c.enter(AwaitingFirstPrompt, s)
	return s.Clone(), nil
}

// BeginFirstPrompt issues the opening request. It fires at most once per
// session lifetime and only while AwaitingFirstPrompt; later calls return
// false. A failed opening request re-arms it.
func (c *Controller) BeginFirstPrompt() (*Exchange, bool) {
	if c.state != AwaitingFirstPrompt || c.opened || c.inFlight {
		return nil, false
	}
	c.opened = true
	return c.issue(nil), true
}

// Submit issues a request for answer. The answer is sent as typed; only
// the emptiness check trims it.
func (c *Controller) Submit(answer string) (*Exchange, error) {
	if c.inFlight {
		return nil, ErrBusy
	}
	if c.state != AwaitingAnswer {
		return nil, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, c.state)
	}
	if strings.TrimSpace(answer) == "" {
		return nil, ErrEmptyAnswer
	}
	c.state = Submitting
	return c.issue(&answer), nil
}

func (c *Controller) issue(answer *string) *Exchange {
	c.inFlight = true
	return &Exchange{
		svc:        c.svc,
		session:    *c.session.Clone(),
		answer:     clonePtr(answer),
		generation: c.generation,
	}
}

// Complete folds the outcome of an exchange into the controller.
//
// On success the updated session is persisted and the controller enters
// AwaitingAnswer. On failure the session is left as it was, the state
// returns to where the exchange started and the service error is
// returned for display. Outcomes from before a reset yield
// ErrStaleExchange and change nothing.
func (c *Controller) Complete(ctx context.Context, o Outcome) error {
	if o.generation != c.generation || c.session == nil {
		return ErrStaleExchange
	}
	c.inFlight = false

	if o.Err != nil {
		if o.Answer == nil {
			c.opened = false
			c.state = AwaitingFirstPrompt
		} else {
			c.state = AwaitingAnswer
		}
		return o.Err
	}

	next := c.session.Apply(o.Answer, *o.Feedback)
	c.store.Save(ctx, next)
	c.session = next
	c.state = AwaitingAnswer
	return nil
}

// Reset discards the session from memory and storage, abandons any
// outstanding exchange and enters Uninitialized.
func (c *Controller) Reset(ctx context.Context) {
	c.store.Clear(ctx)
	c.enter(Uninitialized, nil)
}

func (c *Controller) enter(state State, s *Session) {
	c.generation++
	c.state = state
	c.session = s
	c.inFlight = false
	c.opened = false
}

// Exchange is one in-flight feedback request. It captures everything the
// request needs so Run never touches the Controller.
type Exchange struct {
	svc        Requester
	session    Session
	answer     *string
	generation int
}

// Answer returns the submitted answer, or nil for the opening request.
func (e *Exchange) Answer() *string { return clonePtr(e.answer) }

// Run performs the blocking service call. It is safe to call from any
// goroutine.
func (e *Exchange) Run(ctx context.Context) Outcome {
	o := Outcome{Answer: clonePtr(e.answer), generation: e.generation}
	fb, err := e.svc.RequestFeedback(ctx, e.session, e.answer)
	switch {
	case err != nil:
		o.Err = err
	case fb == nil:
		o.Err = errors.New("feedback service returned no feedback")
	default:
		o.Feedback = fb
	}
	return o
}

// Outcome is the result of Exchange.Run, handed back to Complete.
type Outcome struct {
	Answer   *string
	Feedback *Feedback
	Err      error

	generation int
}
