package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/mindful-journal/backend/internal/model/chat"
)

type fakeChatModel struct {
	reply string
	err   error
	got   []*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.got = input
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	f.got = input
	return schema.StreamReaderFromArray([]*schema.Message{schema.AssistantMessage(f.reply, nil)}), nil
}

func (f *fakeChatModel) BindTools(_ []*schema.ToolInfo) error { return nil }

func TestServiceGenerateBuildsMessages(t *testing.T) {
	fake := &fakeChatModel{reply: "  hello there  "}
	svc, err := NewService(context.Background(), fake)
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}

	history := []chat.Turn{
		{Role: chat.RoleUser, Content: "hi"},
		{Role: "system", Content: "ignored"},
		{Role: chat.RoleAssistant, Content: "hey"},
	}
	query := `return {"emotion": "sad"}`

	got, err := svc.Generate(context.Background(), Request{System: "be kind", History: history, Query: query})
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if got != "hello there" {
		t.Fatalf("unexpected completion %q", got)
	}

	if len(fake.got) != 4 {
		t.Fatalf("expected system + 2 history + query, got %d messages", len(fake.got))
	}
	if fake.got[0].Role != schema.System || fake.got[0].Content != "be kind" {
		t.Fatalf("unexpected system message %+v", fake.got[0])
	}
	if fake.got[1].Role != schema.User || fake.got[2].Role != schema.Assistant {
		t.Fatalf("unexpected history roles %s %s", fake.got[1].Role, fake.got[2].Role)
	}
	if fake.got[3].Content != query {
		t.Fatalf("query must be passed verbatim, got %q", fake.got[3].Content)
	}
}

func TestServiceGenerateEmptyCompletion(t *testing.T) {
	svc, err := NewService(context.Background(), &fakeChatModel{reply: "   "})
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}

	if _, err := svc.Generate(context.Background(), Request{Query: "hi"}); !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
}

func TestServiceGenerateModelError(t *testing.T) {
	svc, err := NewService(context.Background(), &fakeChatModel{err: errors.New("quota exceeded")})
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}

	_, err = svc.Generate(context.Background(), Request{Query: "hi"})
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected wrapped model error, got %v", err)
	}
}

func TestNewServiceRequiresModel(t *testing.T) {
	if _, err := NewService(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil model")
	}
}

func TestBuildHistoryMessagesKeepsLastTen(t *testing.T) {
	turns := make([]chat.Turn, 0, 14)
	for i := 0; i < 14; i++ {
		turns = append(turns, chat.Turn{Role: chat.RoleUser, Content: string(rune('a' + i))})
	}

	history := buildHistoryMessages(turns)
	if len(history) != historyLimit {
		t.Fatalf("expected %d messages, got %d", historyLimit, len(history))
	}
	if history[0].Content != "e" {
		t.Fatalf("expected oldest kept turn to be %q, got %q", "e", history[0].Content)
	}
}

func TestCoachPromptManager(t *testing.T) {
	pm := NewCoachPromptManager()

	sad := pm.BuildSystemPrompt("lonely")
	if !strings.Contains(sad, "offer comfort") {
		t.Fatalf("expected sad tone for lonely, got %q", sad)
	}

	unknown := pm.BuildSystemPrompt("bewildered")
	if !strings.Contains(unknown, "calm, clear and friendly") {
		t.Fatalf("expected neutral tone for unknown label, got %q", unknown)
	}

	query := pm.BuildEmpathyQuery(`he said "no"`, "angry")
	if !strings.Contains(query, "feeling angry") || !strings.Contains(query, `"he said \"no\""`) {
		t.Fatalf("unexpected empathy query %q", query)
	}
}
