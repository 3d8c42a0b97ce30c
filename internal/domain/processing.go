package domain

import "github.com/shopspring/decimal"

// CostEstimate is the pre-flight token and cost projection for one request.
type CostEstimate struct {
	InputTokens           int
	EstimatedOutputTokens int
	EstimatedCost         decimal.Decimal
}

// TokenUsage carries the provider-reported token counts for a completion.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
}

// Completion is the provider's answer. Usage is nil when the provider did
// not report token counts; billing then falls back to the estimate.
type Completion struct {
	Text  string
	Usage *TokenUsage
}

// ProcessingRequest describes one metered provider invocation.
type ProcessingRequest struct {
	GroupID      string
	SystemPrompt string
	UserMessage  string
	Model        string
	MaxTokens    int
	Temperature  float64
}

type RejectReason string

const (
	ReasonNoMarker        RejectReason = "no_marker"
	ReasonOutOfRange      RejectReason = "out_of_range"
	ReasonGroupInactive   RejectReason = "group_inactive"
	ReasonCreditExhausted RejectReason = "credit_exhausted"
	ReasonProviderError   RejectReason = "provider_error"
)

// ProcessingResult is the settled or rejected outcome of one request.
// Rejections for expected conditions (inactive group, exhausted credit,
// provider failure) are result variants, not errors: callers branch on
// them routinely.
type ProcessingResult struct {
	Rejected    bool
	Reason      RejectReason
	Detail      string
	Text        string
	StillActive bool
	Notice      string
	Cost        decimal.Decimal
}

// Decision is the eligibility gate's verdict on a raw message.
type Decision struct {
	Accepted bool
	Text     string // marker-stripped message text, set when accepted
	Reason   RejectReason
}
