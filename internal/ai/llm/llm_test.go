package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/scoring"
)

func sampleView() game.GameView {
	v := game.GameView{
		Seat:        0,
		Turn:        4,
		TargetScore: 21,
		HandLimit:   7,
		DeckSize:    30,
		ActionState: game.ActionStateIdle.String(),
		LegalIntents: []game.Intent{
			game.Draw(0),
			game.PlayToRow(0, "5C", scoring.RowScore),
		},
	}
	v.Players[0] = game.PlayerView{Seat: 0, Score: 12, Hand: []game.CardView{{ID: "5C", Rank: "5", Suit: "C"}}}
	v.Players[1] = game.PlayerView{Seat: 1, Score: 9, HandSize: 2, Hand: []game.CardView{{Hidden: true}, {Hidden: true}}}
	return v
}

type stubModel struct {
	reply string
	err   error
	user  string
}

func (m *stubModel) Complete(_ context.Context, _, user string) (string, error) {
	m.user = user
	return m.reply, m.err
}

func TestParseReply(t *testing.T) {
	cases := []struct {
		text    string
		choice  int
		wantErr bool
	}{
		{`{"choice": 2, "reasoning": "score"}`, 2, false},
		{"Sure! ```json\n{\"choice\": 1}\n```", 1, false},
		{`{"choice": 0}`, 0, true},
		{`{"choice": 3}`, 0, true},
		{"no json here", 0, true},
		{"   ", 0, true},
	}
	for _, tc := range cases {
		choice, _, err := ParseReply(tc.text, 2)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tc.text)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tc.text, err)
		}
		if choice != tc.choice {
			t.Fatalf("expected choice %d for %q, got %d", tc.choice, tc.text, choice)
		}
	}
}

func TestPromptListsNumberedOptions(t *testing.T) {
	p := Prompt(sampleView(), "Choose.")
	for _, want := range []string{"1. draw and end turn", "2. play 5C to score row", "Target score 21", "hand [? ?]"} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestStrategyTurnAction(t *testing.T) {
	model := &stubModel{reply: `{"choice": 2, "reasoning": "closer to 21"}`}
	s := NewStrategy(model, zaptest.NewLogger(t))

	dec, err := s.ChooseTurnAction(context.Background(), sampleView())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Intent.Type != game.IntentPlayToRow || dec.Intent.CardID != "5C" {
		t.Fatalf("expected to play 5C, got %s", dec.Intent)
	}
	if dec.Reasoning != "closer to 21" {
		t.Fatalf("unexpected reasoning %q", dec.Reasoning)
	}
	if !strings.Contains(model.user, "Choose your action") {
		t.Fatalf("prompt did not carry the task: %s", model.user)
	}
}

func TestStrategyCounterResponse(t *testing.T) {
	view := sampleView()
	view.ActionState = game.ActionStateAwaitingCounter.String()
	view.LegalIntents = []game.Intent{game.PassCounter(0), game.PlayCounter(0, "KS")}
	legal := []game.CardView{{ID: "KS", Rank: "K", Suit: "S"}}

	s := NewStrategy(&stubModel{reply: `{"choice": 2}`}, zaptest.NewLogger(t))
	dec, err := s.ChooseCounterResponse(context.Background(), view, legal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Pass || dec.CardID != "KS" {
		t.Fatalf("expected counter with KS, got %+v", dec)
	}

	s = NewStrategy(&stubModel{reply: `{"choice": 1}`}, zaptest.NewLogger(t))
	dec, err = s.ChooseCounterResponse(context.Background(), view, legal)
	if err != nil || !dec.Pass {
		t.Fatalf("expected pass, got %+v (%v)", dec, err)
	}

	// No counter card means no model call
	model := &stubModel{err: errors.New("should not be called")}
	dec, err = NewStrategy(model, nil).ChooseCounterResponse(context.Background(), view, nil)
	if err != nil || !dec.Pass {
		t.Fatalf("expected pass without a call, got %+v (%v)", dec, err)
	}
}

func TestStrategyPropagatesErrors(t *testing.T) {
	s := NewStrategy(&stubModel{reply: `{"choice": 9}`}, zaptest.NewLogger(t))
	if _, err := s.ChooseMidTurnPick(context.Background(), sampleView()); err == nil {
		t.Fatal("expected an out-of-range choice to fail")
	}

	s = NewStrategy(&stubModel{err: errors.New("down")}, zaptest.NewLogger(t))
	if _, err := s.ChooseTurnAction(context.Background(), sampleView()); err == nil {
		t.Fatal("expected the model error to surface")
	}
}

func TestNewClientValidates(t *testing.T) {
	if _, err := NewClient(Config{Model: "m"}); err == nil {
		t.Fatal("expected missing key to fail")
	}
	if _, err := NewClient(Config{APIKey: "k"}); err == nil {
		t.Fatal("expected missing model to fail")
	}
	c, err := NewClient(Config{APIKey: "k", Model: "m", BaseURL: "http://example.com/v1/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.cfg.BaseURL != "http://example.com/v1" {
		t.Fatalf("expected trailing slash trimmed, got %q", c.cfg.BaseURL)
	}
}

func TestClientComplete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"choice\":1}"}}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL + "/v1", APIKey: "secret", Model: "test-model", Temperature: 0.2, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text, err := c.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != `{"choice":1}` {
		t.Fatalf("unexpected reply %q", text)
	}
	if got.Model != "test-model" || len(got.Messages) != 2 || got.Messages[1].Content != "user" {
		t.Fatalf("unexpected request %+v", got)
	}
	if got.Temperature == nil || *got.Temperature != 0.2 {
		t.Fatalf("expected temperature 0.2, got %v", got.Temperature)
	}
	if got.ResponseFormat["type"] != "json_object" {
		t.Fatalf("expected json_object response format, got %v", got.ResponseFormat)
	}
}

func TestClientHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "k", Model: "m"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = c.Complete(context.Background(), "sys", "user")
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected an http 429 error, got %v", err)
	}
}

func TestClientNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c, _ := NewClient(Config{BaseURL: srv.URL, APIKey: "k", Model: "m"})
	if _, err := c.Complete(context.Background(), "sys", "user"); err == nil {
		t.Fatal("expected an error for an empty choice list")
	}
}

func TestTruncate(t *testing.T) {
	if truncate("abcdef", 10) != "abcdef" {
		t.Fatal("short strings are unchanged")
	}
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Fatalf("unexpected truncation %q", got)
	}
}
