package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/roohic/supervisorbot/internal/domain"
)

// modelRates are USD per 1K tokens. https://openai.com/api/pricing/
type modelRates struct {
	inputPerK  decimal.Decimal
	outputPerK decimal.Decimal
}

var pricing = map[string]modelRates{
	"gpt-3.5-turbo-instruct": {
		inputPerK:  decimal.RequireFromString("0.0015"),
		outputPerK: decimal.RequireFromString("0.002"),
	},
	"gpt-4": {
		inputPerK:  decimal.RequireFromString("0.03"),
		outputPerK: decimal.RequireFromString("0.06"),
	},
	"gpt-4o": {
		inputPerK:  decimal.RequireFromString("0.0025"),
		outputPerK: decimal.RequireFromString("0.01"),
	},
	"gpt-4o-mini": {
		inputPerK:  decimal.RequireFromString("0.00015"),
		outputPerK: decimal.RequireFromString("0.0006"),
	},
}

var tokenDelimiters = " \t\r\n.,!?;:-()[]{}\"'"

// CountTokens approximates the provider tokenizer by splitting on
// whitespace and common punctuation.
func CountTokens(text string) int {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(tokenDelimiters, r)
	})
	return len(fields)
}

// CountWords counts whitespace-delimited words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// CompletionCost prices a finished call from token counts.
func CompletionCost(inputTokens, outputTokens int, model string) (decimal.Decimal, error) {
	rates, ok := pricing[model]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrUnsupportedModel, model)
	}
	thousand := decimal.NewFromInt(1000)
	inputCost := decimal.NewFromInt(int64(inputTokens)).Div(thousand).Mul(rates.inputPerK)
	outputCost := decimal.NewFromInt(int64(outputTokens)).Div(thousand).Mul(rates.outputPerK)
	return inputCost.Add(outputCost), nil
}

// Estimate projects token counts and cost for a prompt before the
// provider is called. Output is assumed comparable in length to the
// input, capped at the requested budget. Pure and deterministic.
func Estimate(text string, maxOutputTokens int, model string) (domain.CostEstimate, error) {
	inputTokens := CountTokens(text)

	estimatedOutput := int(math.Round(float64(inputTokens) * 1.1))
	if estimatedOutput > maxOutputTokens {
		estimatedOutput = maxOutputTokens
	}

	cost, err := CompletionCost(inputTokens, estimatedOutput, model)
	if err != nil {
		return domain.CostEstimate{}, err
	}

	return domain.CostEstimate{
		InputTokens:           inputTokens,
		EstimatedOutputTokens: estimatedOutput,
		EstimatedCost:         cost,
	}, nil
}
