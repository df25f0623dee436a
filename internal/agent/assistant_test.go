package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/texfolio/stockroom/internal/agent/catalog"
	"github.com/texfolio/stockroom/internal/agent/imagecache"
	"github.com/texfolio/stockroom/internal/llm"
)

// stubClient scripts the reasoning rounds and records what it was asked.
type stubClient struct {
	planResult   llm.PlanResult
	planErr      error
	summary      string
	summarizeErr error

	planReq    llm.PlanRequest
	transcript []llm.Message
}

func (s *stubClient) Plan(_ context.Context, req llm.PlanRequest) (llm.PlanResult, error) {
	s.planReq = req
	return s.planResult, s.planErr
}

func (s *stubClient) Summarize(_ context.Context, transcript []llm.Message) (string, error) {
	s.transcript = transcript
	return s.summary, s.summarizeErr
}

type countArgs struct {
	Label string `json:"label" validate:"required"`
}

// testRegistry offers one operation that records the labels it ran with.
func testRegistry(t *testing.T, ran *[]string) *catalog.Registry {
	t.Helper()
	r, err := catalog.NewRegistry(catalog.Operation{
		Name:        "count",
		Description: "records its label",
		Contract: catalog.Contract{
			Type:       "object",
			Properties: map[string]catalog.Field{"label": {Type: "string"}},
			Required:   []string{"label"},
		},
		Decode: catalog.DecodeInto[countArgs](),
		Handle: func(_ context.Context, args any) catalog.Result {
			a := args.(*countArgs)
			*ran = append(*ran, a.Label)
			return catalog.OK(map[string]any{"label": a.Label})
		},
	})
	if err != nil {
		t.Fatalf("building registry: %v", err)
	}
	return r
}

func TestHandleTurnDirectAnswer(t *testing.T) {
	var ran []string
	client := &stubClient{planResult: llm.PlanResult{Answer: "just a chat"}}
	a := New(client, testRegistry(t, &ran), nil, nil)

	resp, err := a.HandleTurn(context.Background(), TurnRequest{Instruction: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Reply != "just a chat" || resp.Phase != PhaseDone {
		t.Errorf("unexpected response %+v", resp)
	}
	if len(resp.Invocations) != 0 || len(ran) != 0 {
		t.Errorf("expected no operations to run, got %v", ran)
	}
	if len(client.planReq.Tools) != 1 || client.planReq.Tools[0].Name != "count" {
		t.Errorf("expected catalog advertised to planner, got %+v", client.planReq.Tools)
	}
}

func TestHandleTurnExecutesCallsInOrder(t *testing.T) {
	var ran []string
	client := &stubClient{
		planResult: llm.PlanResult{
			Calls: []llm.ToolCall{
				{ID: "c1", Name: "count", Arguments: json.RawMessage(`{"label":"first"}`)},
				{ID: "c2", Name: "count", Arguments: json.RawMessage(`{"label":"second"}`)},
			},
			Assistant: llm.Message{Role: llm.RoleAssistant},
		},
		summary: "both done",
	}
	a := New(client, testRegistry(t, &ran), nil, nil)

	resp, err := a.HandleTurn(context.Background(), TurnRequest{Instruction: "count twice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Reply != "both done" || resp.Phase != PhaseDone {
		t.Errorf("unexpected response %+v", resp)
	}
	if len(ran) != 2 || ran[0] != "first" || ran[1] != "second" {
		t.Errorf("expected plan order preserved, got %v", ran)
	}
	if len(resp.Invocations) != 2 || resp.Invocations[0].Name != "count" {
		t.Errorf("unexpected invocations %+v", resp.Invocations)
	}

	// The summarizing transcript replays system, user, assistant and one
	// tool message per call.
	if len(client.transcript) != 5 {
		t.Fatalf("expected 5 transcript messages, got %d", len(client.transcript))
	}
	if client.transcript[0].Role != llm.RoleSystem || client.transcript[1].Role != llm.RoleUser {
		t.Errorf("unexpected transcript head %+v", client.transcript[:2])
	}
	last := client.transcript[4]
	if last.Role != llm.RoleTool || last.ToolCallID != "c2" {
		t.Errorf("unexpected final tool message %+v", last)
	}
	if !strings.Contains(last.Content, `"success":true`) {
		t.Errorf("expected encoded result, got %q", last.Content)
	}
}

func TestHandleTurnFailedOperationDoesNotStopTheRest(t *testing.T) {
	var ran []string
	client := &stubClient{
		planResult: llm.PlanResult{
			Calls: []llm.ToolCall{
				{ID: "c1", Name: "vanish", Arguments: json.RawMessage(`{}`)},
				{ID: "c2", Name: "count", Arguments: json.RawMessage(`{"label":"after"}`)},
			},
		},
		summary: "mixed outcomes",
	}
	a := New(client, testRegistry(t, &ran), nil, nil)

	resp, err := a.HandleTurn(context.Background(), TurnRequest{Instruction: "go"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Invocations) != 2 {
		t.Fatalf("expected both invocations reported, got %+v", resp.Invocations)
	}
	if resp.Invocations[0].Result.Success {
		t.Error("expected unknown operation to fail")
	}
	if resp.Invocations[0].Result.ErrorCode != catalog.CodeUnknownOperation {
		t.Errorf("expected %s, got %s", catalog.CodeUnknownOperation, resp.Invocations[0].Result.ErrorCode)
	}
	if len(ran) != 1 || ran[0] != "after" {
		t.Errorf("expected second operation to still run, got %v", ran)
	}
}

func TestHandleTurnPlanFailure(t *testing.T) {
	var ran []string
	client := &stubClient{planErr: errors.New("upstream 500")}
	a := New(client, testRegistry(t, &ran), nil, nil)

	resp, err := a.HandleTurn(context.Background(), TurnRequest{Instruction: "go"})
	if !errors.Is(err, ErrReasoningService) {
		t.Fatalf("expected ErrReasoningService, got %v", err)
	}
	if resp.Phase != PhasePlanning {
		t.Errorf("expected phase %s, got %s", PhasePlanning, resp.Phase)
	}
	if len(ran) != 0 {
		t.Errorf("expected nothing to run, got %v", ran)
	}
}

func TestHandleTurnSummarizeFailureKeepsInvocations(t *testing.T) {
	var ran []string
	client := &stubClient{
		planResult: llm.PlanResult{
			Calls: []llm.ToolCall{{ID: "c1", Name: "count", Arguments: json.RawMessage(`{"label":"kept"}`)}},
		},
		summarizeErr: errors.New("upstream timeout"),
	}
	a := New(client, testRegistry(t, &ran), nil, nil)

	resp, err := a.HandleTurn(context.Background(), TurnRequest{Instruction: "go"})
	if !errors.Is(err, ErrReasoningService) {
		t.Fatalf("expected ErrReasoningService, got %v", err)
	}
	if resp.Phase != PhaseSummarizing {
		t.Errorf("expected phase %s, got %s", PhaseSummarizing, resp.Phase)
	}
	if len(resp.Invocations) != 1 || !resp.Invocations[0].Result.Success {
		t.Errorf("expected executed invocation to survive, got %+v", resp.Invocations)
	}
	if len(ran) != 1 || ran[0] != "kept" {
		t.Errorf("expected operation to have run, got %v", ran)
	}
}

func TestHandleTurnPeeksImageWithoutSpending(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	images := imagecache.New(rdb, 10*time.Minute)

	ctx := context.Background()
	token, err := images.Put(ctx, imagecache.Entry{
		AssetID: "a1", URL: "http://localhost/assets/a1.jpg", ContentType: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	var ran []string
	client := &stubClient{planResult: llm.PlanResult{Answer: "nice photo"}}
	a := New(client, testRegistry(t, &ran), images, nil)

	if _, err := a.HandleTurn(ctx, TurnRequest{Instruction: "look", ImageToken: token}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.planReq.Image == nil || client.planReq.Image.URL != "http://localhost/assets/a1.jpg" {
		t.Errorf("expected image forwarded to planner, got %+v", client.planReq.Image)
	}

	// Planning must not spend the token.
	if _, ok, _ := images.Consume(ctx, token); !ok {
		t.Error("expected token to survive planning")
	}
}
