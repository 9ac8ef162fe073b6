package app

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/parley/internal/practice"
	"github.com/abhisek/parley/internal/sessionstore"
)

type nopRequester struct{}

func (nopRequester) RequestFeedback(context.Context, practice.Session, *string) (*practice.Feedback, error) {
	return &practice.Feedback{Alternatives: []string{}, NextPrompt: "Hallo!", Opening: true}, nil
}

func newStore() *sessionstore.Store {
	return sessionstore.New(sessionstore.NewMemory(), "", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestStartsOnSetupWithoutSession(t *testing.T) {
	ctrl := practice.NewController(newStore(), nopRequester{})
	m := newAppModel(context.Background(), ctrl)

	if got := m.router.Active().Title(); got != "New Session" {
		t.Errorf("initial screen = %q, want setup", got)
	}
}

func TestResumesPersistedSession(t *testing.T) {
	store := newStore()
	sess, err := practice.NewSession(practice.SetupParams{
		NativeLanguage: "English",
		TargetLanguage: "Deutsch",
		Difficulty:     practice.Advanced,
		Scenario:       "Job interview",
	})
	if err != nil {
		t.Fatal(err)
	}
	prompt := "Erzählen Sie etwas über sich."
	sess.CurrentPrompt = &prompt
	store.Save(context.Background(), sess)

	ctrl := practice.NewController(store, nopRequester{})
	m := newAppModel(context.Background(), ctrl)

	if got := m.router.Active().Title(); got != "Practice" {
		t.Fatalf("initial screen = %q, want practice", got)
	}
	if ctrl.State() != practice.AwaitingAnswer {
		t.Errorf("state = %s", ctrl.State())
	}

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	content := updated.(AppModel).frame()
	for _, want := range []string{"Parley", "Practice", "English → Deutsch · Advanced", prompt, "Ctrl+H"} {
		if !strings.Contains(content, want) {
			t.Errorf("frame missing %q", want)
		}
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newAppModel(context.Background(), practice.NewController(newStore(), nopRequester{}))
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}

func TestTooSmallTerminal(t *testing.T) {
	m := newAppModel(context.Background(), practice.NewController(newStore(), nopRequester{}))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if !strings.Contains(updated.(AppModel).frame(), "Terminal too small") {
		t.Error("expected min size message")
	}
}
