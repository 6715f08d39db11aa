package tui

import (
	"context"
	"testing"

	"github.com/hferrera/vision-chat/convo"
	"github.com/hferrera/vision-chat/exchange"
)

// fakeInvoker records exchanged payloads and returns a canned result.
type fakeInvoker struct {
	calls []string
	reply convo.Message
	err   error
}

func (f *fakeInvoker) Exchange(_ context.Context, conversation string) (convo.Message, error) {
	f.calls = append(f.calls, conversation)
	return f.reply, f.err
}

func TestSubmitNoopOnEmptyInput(t *testing.T) {
	fake := &fakeInvoker{}
	m := New(fake)

	if cmd := m.submit(); cmd != nil {
		t.Fatalf("expected nil cmd for empty input")
	}

	m.updateText("   \n  ")
	if cmd := m.submit(); cmd != nil {
		t.Fatalf("expected nil cmd for whitespace-only input")
	}

	if len(fake.calls) != 0 {
		t.Fatalf("expected no remote calls, got %d", len(fake.calls))
	}
	if len(m.history) != 0 || m.loading || m.errMsg != "" {
		t.Fatalf("expected state unchanged, got history=%d loading=%v err=%q", len(m.history), m.loading, m.errMsg)
	}
}

func TestSubmitBlockedWhileLoading(t *testing.T) {
	fake := &fakeInvoker{}
	m := New(fake)
	m.updateText("hello")
	m.loading = true

	if cmd := m.submit(); cmd != nil {
		t.Fatalf("expected nil cmd while a submit is in flight")
	}
}

func TestSubmitSuccessGrowsHistoryByTwo(t *testing.T) {
	fake := &fakeInvoker{reply: convo.NewTextMessage(convo.RoleAssistant, "the Eiffel Tower")}
	m := New(fake)
	m.updateText("Show me Paris")

	cmd := m.submit()
	if cmd == nil {
		t.Fatal("expected a submit cmd")
	}

	// Optimistic input reset happens before the call resolves.
	if m.textarea.Value() != "" {
		t.Fatalf("expected input cleared, got %q", m.textarea.Value())
	}
	if !m.loading {
		t.Fatal("expected loading while submit is in flight")
	}
	if len(m.history) != 0 {
		t.Fatal("user message must not be visible before the exchange resolves")
	}

	updated, _ := m.Update(cmd())
	m = updated.(Model)

	if m.loading {
		t.Fatal("expected loading cleared after the exchange")
	}
	if m.errMsg != "" {
		t.Fatalf("expected no error, got %q", m.errMsg)
	}
	if len(m.history) != 2 {
		t.Fatalf("expected history of 2, got %d", len(m.history))
	}
	want := convo.Message{Role: convo.RoleUser, Content: []convo.Item{convo.TextItem{Text: "Show me Paris"}}}
	if m.history[0].Role != want.Role || m.history[0].Content[0] != want.Content[0] {
		t.Fatalf("unexpected user message: %+v", m.history[0])
	}
	if m.history[1].Role != convo.RoleAssistant {
		t.Fatalf("expected assistant message second, got %+v", m.history[1])
	}
}

func TestSubmitSendsCandidateHistory(t *testing.T) {
	fake := &fakeInvoker{reply: convo.NewTextMessage(convo.RoleAssistant, "ok")}
	m := New(fake)
	m.history = convo.Conversation{
		convo.NewTextMessage(convo.RoleUser, "hi"),
		convo.NewTextMessage(convo.RoleAssistant, "hello"),
	}
	m.updateText("Show me Paris")

	cmd := m.submit()
	if cmd == nil {
		t.Fatal("expected a submit cmd")
	}
	cmd()

	if len(fake.calls) != 1 {
		t.Fatalf("expected exactly one remote call, got %d", len(fake.calls))
	}
	sent, err := convo.Decode(fake.calls[0])
	if err != nil {
		t.Fatalf("payload is not a valid conversation: %v", err)
	}
	if len(sent) != 3 {
		t.Fatalf("expected candidate history of 3, got %d", len(sent))
	}
	last := sent[2]
	if last.Role != convo.RoleUser {
		t.Fatalf("expected new user message last, got role %q", last.Role)
	}
	if last.Content[0] != (convo.TextItem{Text: "Show me Paris"}) {
		t.Fatalf("unexpected payload content: %+v", last.Content[0])
	}
}

func TestSubmitFailureLeavesHistoryUntouched(t *testing.T) {
	fake := &fakeInvoker{err: &exchange.RemoteError{Detail: "Rate limit exceeded"}}
	m := New(fake)
	m.history = convo.Conversation{convo.NewTextMessage(convo.RoleUser, "earlier")}
	m.updateText("hello?")

	cmd := m.submit()
	if cmd == nil {
		t.Fatal("expected a submit cmd")
	}

	updated, _ := m.Update(cmd())
	m = updated.(Model)

	if len(m.history) != 1 {
		t.Fatalf("history must be unchanged on failure, got %d entries", len(m.history))
	}
	if m.loading {
		t.Fatal("expected loading cleared after failure")
	}
	if m.errMsg != "Rate limit exceeded" {
		t.Fatalf("expected first error detail surfaced, got %q", m.errMsg)
	}
}

func TestFailureWithoutDetailUsesGenericFallback(t *testing.T) {
	fake := &fakeInvoker{err: &exchange.ParseError{}}
	m := New(fake)
	m.updateText("hello")

	updated, _ := m.Update(m.submit()())
	m = updated.(Model)

	if m.errMsg == "" {
		t.Fatal("expected a non-empty error message")
	}
	if m.errMsg != exchange.UserMessage(fake.err) {
		t.Fatalf("expected generic fallback, got %q", m.errMsg)
	}
}

func TestUpdateTextClearsError(t *testing.T) {
	m := New(&fakeInvoker{})
	m.errMsg = "something failed"

	m.updateText("new input")

	if m.errMsg != "" {
		t.Fatalf("expected error cleared, got %q", m.errMsg)
	}
	if m.textarea.Value() != "new input" {
		t.Fatalf("expected buffer replaced, got %q", m.textarea.Value())
	}
}
