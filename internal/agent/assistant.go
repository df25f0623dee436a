// Package agent runs the conversational pipeline: plan a user turn with
// the reasoning service, execute the planned operations, then summarize
// the outcomes into a reply.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/texfolio/stockroom/internal/agent/catalog"
	"github.com/texfolio/stockroom/internal/agent/imagecache"
	"github.com/texfolio/stockroom/internal/llm"
)

// Pipeline phases, reported on every turn response.
const (
	PhasePlanning    = "PLANNING"
	PhaseExecuting   = "EXECUTING"
	PhaseSummarizing = "SUMMARIZING"
	PhaseDone        = "DONE"
)

// ErrReasoningService marks failures of the external reasoning service.
// Operation outcomes already executed still ride back on the response.
var ErrReasoningService = errors.New("reasoning service failed")

// TurnRequest is one user turn. ImageToken optionally correlates the
// turn with a just-uploaded image.
type TurnRequest struct {
	Instruction string
	History     []llm.Message
	ImageToken  string
}

// Invocation is one executed operation and its outcome.
type Invocation struct {
	Name   string          `json:"name"`
	Result catalog.Result  `json:"result"`
	Args   json.RawMessage `json:"args,omitempty"`
}

// TurnResponse is the pipeline's output for one turn. Phase records how
// far the turn got; Invocations are always populated for executed
// operations, even when summarizing failed.
type TurnResponse struct {
	Reply       string       `json:"reply"`
	Invocations []Invocation `json:"invocations,omitempty"`
	Phase       string       `json:"phase"`
}

// Assistant owns the fixed operation registry and the reasoning client.
type Assistant struct {
	client   llm.Client
	registry *catalog.Registry
	images   *imagecache.Cache
	logger   *zap.Logger
	prompt   string
}

// New builds an Assistant. Images may be nil when uploads are disabled.
func New(client llm.Client, registry *catalog.Registry, images *imagecache.Cache, logger *zap.Logger) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{
		client:   client,
		registry: registry,
		images:   images,
		logger:   logger,
		prompt:   systemPrompt(),
	}
}

// HandleTurn runs the full pipeline for one user turn. Planned
// operations execute strictly in plan order; one failing does not stop
// the rest, the summarizing round explains mixed outcomes.
func (a *Assistant) HandleTurn(ctx context.Context, req TurnRequest) (TurnResponse, error) {
	planReq := llm.PlanRequest{
		SystemPrompt: a.prompt,
		History:      req.History,
		Instruction:  req.Instruction,
		Tools:        a.registry.Specs(),
	}

	// Peek, never consume: the token is spent only by the operation
	// that attaches the image to a product.
	if req.ImageToken != "" && a.images != nil {
		entry, ok, err := a.images.Peek(ctx, req.ImageToken)
		switch {
		case err != nil:
			a.logger.Warn("image context peek failed", zap.Error(err))
		case !ok:
			a.logger.Info("image token expired before planning")
		default:
			planReq.Image = &llm.ImagePart{URL: entry.URL, ContentType: entry.ContentType}
			ctx = imagecache.WithToken(ctx, req.ImageToken)
		}
	}

	plan, err := a.client.Plan(ctx, planReq)
	if err != nil {
		return TurnResponse{Phase: PhasePlanning},
			fmt.Errorf("%w: %v", ErrReasoningService, err)
	}

	// Direct answer, nothing to run.
	if len(plan.Calls) == 0 {
		return TurnResponse{Reply: plan.Answer, Phase: PhaseDone}, nil
	}

	invocations := make([]Invocation, 0, len(plan.Calls))
	toolMessages := make([]llm.Message, 0, len(plan.Calls))
	for _, call := range plan.Calls {
		result := a.registry.Execute(ctx, call.Name, call.Arguments)
		if !result.Success {
			a.logger.Info("operation failed",
				zap.String("operation", call.Name),
				zap.String("code", result.ErrorCode),
				zap.String("error", result.Error))
		}
		invocations = append(invocations, Invocation{Name: call.Name, Result: result, Args: call.Arguments})

		payload, err := json.Marshal(result)
		if err != nil {
			payload = []byte(`{"success":false,"error":"unencodable result"}`)
		}
		toolMessages = append(toolMessages, llm.Message{
			Role:       llm.RoleTool,
			Content:    string(payload),
			ToolCallID: call.ID,
			ToolName:   call.Name,
		})
	}

	transcript := make([]llm.Message, 0, len(req.History)+len(toolMessages)+3)
	transcript = append(transcript, llm.Message{Role: llm.RoleSystem, Content: a.prompt})
	transcript = append(transcript, req.History...)
	transcript = append(transcript, llm.Message{Role: llm.RoleUser, Content: req.Instruction})
	transcript = append(transcript, plan.Assistant)
	transcript = append(transcript, toolMessages...)

	reply, err := a.client.Summarize(ctx, transcript)
	if err != nil {
		return TurnResponse{Invocations: invocations, Phase: PhaseSummarizing},
			fmt.Errorf("%w: %v", ErrReasoningService, err)
	}
	return TurnResponse{Reply: reply, Invocations: invocations, Phase: PhaseDone}, nil
}
