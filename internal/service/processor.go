package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/roohic/supervisorbot/internal/domain"
)

// CompletionProvider is the external language-completion collaborator.
type CompletionProvider interface {
	ChatComplete(ctx context.Context, system, user, model string, maxTokens int, temperature float64) (*domain.Completion, error)
	Complete(ctx context.Context, prompt, model string, maxTokens int, temperature float64) (*domain.Completion, error)
}

// Processor runs the metered request cycle: credit check, provider call,
// settlement. Billing is post-flight: the provider is invoked first and
// the ledger charged from its reported usage, which keeps accounting
// accurate at the cost of permitting one over-budget call per group
// before cutoff. When the provider reports no usage the pre-computed
// estimate is billed instead.
type Processor struct {
	store          *GroupStore
	provider       CompletionProvider
	useChatAPI     bool
	depletedNotice string
}

func NewProcessor(store *GroupStore, provider CompletionProvider, useChatAPI bool, depletedNotice string) *Processor {
	return &Processor{
		store:          store,
		provider:       provider,
		useChatAPI:     useChatAPI,
		depletedNotice: depletedNotice,
	}
}

// Process runs one request through the pipeline. Expected refusals come
// back as rejected results; the error return is reserved for store and
// internal failures.
func (p *Processor) Process(ctx context.Context, req domain.ProcessingRequest) (*domain.ProcessingResult, error) {
	requestID := uuid.NewString()
	log := slog.With("request_id", requestID, "group_id", req.GroupID, "model", req.Model)

	group, err := p.store.Get(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if !group.IsActive {
		return &domain.ProcessingResult{
			Rejected: true,
			Reason:   domain.ReasonGroupInactive,
		}, nil
	}
	if group.Depleted() {
		// Credit ran out since the last settlement; cut the group off
		// before spending anything further.
		deactivated, err := p.store.SetActive(ctx, req.GroupID, false)
		if err != nil {
			return nil, err
		}
		result := &domain.ProcessingResult{
			Rejected: true,
			Reason:   domain.ReasonCreditExhausted,
		}
		if deactivated {
			result.Notice = p.depletedNotice
		}
		return result, nil
	}

	estimate, err := Estimate(FlattenPrompt(req.SystemPrompt, req.UserMessage), req.MaxTokens, req.Model)
	if err != nil {
		return nil, err
	}
	log.Debug("request estimated",
		"input_tokens", estimate.InputTokens,
		"estimated_output_tokens", estimate.EstimatedOutputTokens,
		"estimated_cost", estimate.EstimatedCost.String(),
	)

	completion, err := p.invoke(ctx, req)
	if err != nil {
		// The ledger stays untouched on provider failure.
		log.Error("provider call failed", "error", err)
		return &domain.ProcessingResult{
			Rejected: true,
			Reason:   domain.ReasonProviderError,
			Detail:   err.Error(),
		}, nil
	}

	cost, err := p.actualCost(completion, estimate, req.Model)
	if err != nil {
		return nil, err
	}

	stillActive, deactivated, err := p.store.Settle(ctx, req.GroupID, cost)
	if err != nil {
		return nil, err
	}

	notice := ""
	if deactivated {
		notice = p.depletedNotice
	}

	log.Info("request settled",
		"cost", cost.String(),
		"still_active", stillActive,
		"deactivated", deactivated,
	)

	return &domain.ProcessingResult{
		Text:        refineResponse(completion.Text),
		StillActive: stillActive,
		Notice:      notice,
		Cost:        cost,
	}, nil
}

func (p *Processor) invoke(ctx context.Context, req domain.ProcessingRequest) (*domain.Completion, error) {
	if p.useChatAPI {
		return p.provider.ChatComplete(ctx, req.SystemPrompt, req.UserMessage, req.Model, req.MaxTokens, req.Temperature)
	}
	return p.provider.Complete(ctx, FlattenPrompt(req.SystemPrompt, req.UserMessage), req.Model, req.MaxTokens, req.Temperature)
}

func (p *Processor) actualCost(completion *domain.Completion, estimate domain.CostEstimate, model string) (decimal.Decimal, error) {
	if completion.Usage == nil {
		return estimate.EstimatedCost, nil
	}
	return CompletionCost(completion.Usage.InputTokens, completion.Usage.OutputTokens, model)
}

// refineResponse strips the line breaks and quoting the provider tends to
// wrap short answers in.
func refineResponse(text string) string {
	text = strings.ReplaceAll(text, "\n", "")
	text = strings.ReplaceAll(text, "\r", "")
	return strings.Trim(text, "\" ")
}
