// Package practice holds the language-practice domain: the persisted
// Session record, the feedback it accumulates, and the Controller that
// drives a session from setup to reset.
package practice

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// HistoryLimit is the number of completed exchanges a session keeps.
const HistoryLimit = 5

// ErrInvalidSession is wrapped by every session validation failure.
var ErrInvalidSession = errors.New("invalid session")

// Difficulty is the learner's self-reported level.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Difficulties lists every valid Difficulty in ascending order.
var Difficulties = []Difficulty{Beginner, Intermediate, Advanced}

// ParseDifficulty accepts a difficulty name in any letter case.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: unknown difficulty %q", ErrInvalidSession, s)
	}
	return d, nil
}

// Valid reports whether d is one of Difficulties.
func (d Difficulty) Valid() bool {
	return slices.Contains(Difficulties, d)
}

// Label is the capitalized display name.
func (d Difficulty) Label() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// Feedback is one structured response from the feedback service.
type Feedback struct {
	Corrected    string   `json:"corrected"`
	Explanation  string   `json:"explanation"`
	Alternatives []string `json:"alternatives"`
	NextPrompt   string   `json:"next_prompt"`

	// Opening is set on the response to a session-start request. Such a
	// response carries no correction and only NextPrompt is meaningful.
	Opening bool `json:"opening"`
}

// HistoryItem records one completed prompt/answer/correction exchange.
type HistoryItem struct {
	Prompt    string `json:"prompt"`
	Answer    string `json:"answer"`
	Corrected string `json:"corrected"`
}

// Perfect reports whether the answer needed no correction, ignoring case
// and surrounding whitespace.
func (h HistoryItem) Perfect() bool {
	return strings.EqualFold(strings.TrimSpace(h.Answer), strings.TrimSpace(h.Corrected))
}

// Session is the persisted state of one practice run.
type Session struct {
	ID             string        `json:"id,omitempty"`
	NativeLanguage string        `json:"nativeLanguage"`
	TargetLanguage string        `json:"targetLanguage"`
	Difficulty     Difficulty    `json:"difficulty"`
	Scenario       string        `json:"scenario"`
	CurrentPrompt  *string       `json:"currentPrompt"`
	LastAnswer     *string       `json:"lastAnswer"`
	LastFeedback   *Feedback     `json:"lastFeedback"`
	History        []HistoryItem `json:"history"`
	StartedAt      time.Time     `json:"startedAt,omitzero"`
}

// SetupParams are the values collected by the setup form.
type SetupParams struct {
	NativeLanguage string
	TargetLanguage string
	Difficulty     Difficulty
	Scenario       string
}

// NewSession builds a fresh session from setup values: no prompt, no
// answer, no feedback and empty history.
func NewSession(p SetupParams) (*Session, error) {
	s := &Session{
		ID:             uuid.NewString(),
		NativeLanguage: strings.TrimSpace(p.NativeLanguage),
		TargetLanguage: strings.TrimSpace(p.TargetLanguage),
		Difficulty:     p.Difficulty,
		Scenario:       strings.TrimSpace(p.Scenario),
		History:        []HistoryItem{},
		StartedAt:      time.Now().UTC(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the fields a session cannot work without. It is applied
// to records read back from storage and to sessions received over HTTP.
func (s *Session) Validate() error {
	switch {
	case strings.TrimSpace(s.NativeLanguage) == "":
		return fmt.Errorf("%w: nativeLanguage is required", ErrInvalidSession)
	case strings.TrimSpace(s.TargetLanguage) == "":
		return fmt.Errorf("%w: targetLanguage is required", ErrInvalidSession)
	case !s.Difficulty.Valid():
		return fmt.Errorf("%w: difficulty must be one of beginner, intermediate, advanced", ErrInvalidSession)
	case strings.TrimSpace(s.Scenario) == "":
		return fmt.Errorf("%w: scenario is required", ErrInvalidSession)
	case len(s.History) > HistoryLimit:
		return fmt.Errorf("%w: history holds %d items, limit is %d", ErrInvalidSession, len(s.History), HistoryLimit)
	}
	return nil
}

// Started reports whether the first prompt has arrived.
func (s *Session) Started() bool {
	return s.CurrentPrompt != nil
}

// Prompt returns the current prompt, or "" before the first one arrives.
func (s *Session) Prompt() string {
	if s.CurrentPrompt == nil {
		return ""
	}
	return *s.CurrentPrompt
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := *s
	c.CurrentPrompt = clonePtr(s.CurrentPrompt)
	c.LastAnswer = clonePtr(s.LastAnswer)
	if s.LastFeedback != nil {
		fb := *s.LastFeedback
		fb.Alternatives = slices.Clone(fb.Alternatives)
		c.LastFeedback = &fb
	}
	c.History = slices.Clone(s.History)
	return &c
}

// Apply folds a successful feedback response into the session and returns
// the result. answer is nil for the session-start request. The receiver is
// left untouched.
//
// With an answer, a HistoryItem pairing the prompt that was answered with
// the correction is prepended, and history is truncated to HistoryLimit.
func (s *Session) Apply(answer *string, fb Feedback) *Session {
	next := s.Clone()

	if answer != nil {
		item := HistoryItem{
			Prompt:    s.Prompt(),
			Answer:    *answer,
			Corrected: fb.Corrected,
		}
		history := make([]HistoryItem, 0, HistoryLimit)
		history = append(history, item)
		history = append(history, s.History...)
		if len(history) > HistoryLimit {
			history = history[:HistoryLimit]
		}
		next.History = history
	}

	prompt := fb.NextPrompt
	next.CurrentPrompt = &prompt
	next.LastAnswer = clonePtr(answer)
	fb.Alternatives = slices.Clone(fb.Alternatives)
	next.LastFeedback = &fb

	return next
}

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
