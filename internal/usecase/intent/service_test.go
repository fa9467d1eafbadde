package intent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	domintent "github.com/guestlane/guestchat/internal/domain/intent"
)

type mockCompleter struct {
	out   string
	err   error
	calls int
	user  string
}

func (m *mockCompleter) Complete(_ context.Context, _, user string) (string, error) {
	m.calls++
	m.user = user
	return m.out, m.err
}

func TestClassify_ValidOutput(t *testing.T) {
	llm := &mockCompleter{out: `{"type":"feature_inquiry","confidence":0.9,"reasoning":"asks about AC"}`}
	svc := New(llm, zap.NewNop())

	got := svc.Classify(context.Background(), "do rooms have AC?", nil)
	if got.Category != domintent.FeatureInquiry {
		t.Errorf("category = %s, want feature_inquiry", got.Category)
	}
	if got.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", got.Confidence)
	}
	if got.Reasoning != "asks about AC" {
		t.Errorf("reasoning = %q", got.Reasoning)
	}
}

func TestClassify_FencedOutput(t *testing.T) {
	llm := &mockCompleter{out: "```json\n{\"type\":\"pricing_inquiry\",\"confidence\":0.85}\n```"}
	svc := New(llm, zap.NewNop())

	got := svc.Classify(context.Background(), "how much per night?", nil)
	if got.Category != domintent.PricingInquiry {
		t.Errorf("category = %s, want pricing_inquiry", got.Category)
	}
}

func TestClassify_FallbackCases(t *testing.T) {
	tests := []struct {
		name string
		out  string
		err  error
	}{
		{name: "completer error", err: errors.New("deadline exceeded")},
		{name: "not json", out: "I think this is a pricing question."},
		{name: "unknown category", out: `{"type":"weather","confidence":0.9}`},
		{name: "confidence above one", out: `{"type":"general","confidence":1.5}`},
		{name: "confidence negative", out: `{"type":"general","confidence":-0.1}`},
		{name: "empty output", out: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(&mockCompleter{out: tt.out, err: tt.err}, zap.NewNop())

			got := svc.Classify(context.Background(), "anything", nil)
			want := domintent.Fallback()
			if got.Category != want.Category || got.Confidence != want.Confidence || got.Reasoning != want.Reasoning {
				t.Errorf("got %+v, want fallback %+v", got, want)
			}
		})
	}
}

func TestClassifyPremium_AvoidEntities(t *testing.T) {
	llm := &mockCompleter{
		out: `{"type":"general","confidence":0.92,"reasoning":"tourism activity",` +
			`"avoid_entities":["room","suite"],"should_show_both":false}`,
	}
	svc := New(llm, zap.NewNop())

	got := svc.ClassifyPremium(context.Background(), "where can I scuba dive nearby?", nil)
	if len(got.AvoidEntities) != 2 {
		t.Fatalf("avoid entities = %v, want [room suite]", got.AvoidEntities)
	}
}

func TestClassifyPremium_ShowBothDropsAvoidEntities(t *testing.T) {
	llm := &mockCompleter{
		out: `{"type":"general","confidence":0.9,"avoid_entities":["room"],"should_show_both":true}`,
	}
	svc := New(llm, zap.NewNop())

	got := svc.ClassifyPremium(context.Background(), "rooms near the dive shop?", nil)
	if len(got.AvoidEntities) != 0 {
		t.Errorf("avoid entities = %v, want none when both domains requested", got.AvoidEntities)
	}
}

func TestClassify_StandardIgnoresAvoidEntities(t *testing.T) {
	llm := &mockCompleter{
		out: `{"type":"general","confidence":0.9,"avoid_entities":["room"]}`,
	}
	svc := New(llm, zap.NewNop())

	got := svc.Classify(context.Background(), "where can I scuba dive?", nil)
	if len(got.AvoidEntities) != 0 {
		t.Errorf("avoid entities = %v, want none on standard variant", got.AvoidEntities)
	}
}

func TestClassify_HistoryInPrompt(t *testing.T) {
	llm := &mockCompleter{out: `{"type":"specific_unit","confidence":0.8}`}
	svc := New(llm, zap.NewNop())

	history := []domintent.Message{
		{Role: "user", Content: "tell me about the Coral Suite"},
		{Role: "assistant", Content: "The Coral Suite sleeps four."},
	}
	svc.Classify(context.Background(), "does it have a balcony?", history)

	if llm.calls != 1 {
		t.Fatalf("completer calls = %d, want 1", llm.calls)
	}
	for _, want := range []string{"Coral Suite", "does it have a balcony?"} {
		if !strings.Contains(llm.user, want) {
			t.Errorf("user prompt missing %q:\n%s", want, llm.user)
		}
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := stripFences(tt.in); got != tt.want {
			t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
