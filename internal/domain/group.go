package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const MaxGroupNameLen = 255

// Group is the persisted per-group record, keyed by the Telegram chat id.
// The name is a renamable display attribute, never part of the key.
type Group struct {
	Name            string          `json:"group_name"`
	Language        string          `json:"language"`
	IsActive        bool            `json:"is_active"`
	CreditPurchased decimal.Decimal `json:"credit_purchased"`
	CreditUsed      decimal.Decimal `json:"credit_used"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewGroup returns a record in its initial state: inactive, zero credit.
func NewGroup(name, language string) *Group {
	return &Group{
		Name:            name,
		Language:        language,
		IsActive:        false,
		CreditPurchased: decimal.Zero,
		CreditUsed:      decimal.Zero,
		CreatedAt:       time.Now().UTC(),
	}
}

func (g *Group) Validate() error {
	if g.Name == "" {
		return fmt.Errorf("%w: group name must not be empty", ErrValidation)
	}
	if len(g.Name) > MaxGroupNameLen {
		return fmt.Errorf("%w: group name must not exceed %d characters", ErrValidation, MaxGroupNameLen)
	}
	if g.Language == "" {
		return fmt.Errorf("%w: language must not be empty", ErrValidation)
	}
	if g.CreditPurchased.IsNegative() {
		return fmt.Errorf("%w: credit purchased cannot be negative", ErrValidation)
	}
	if g.CreditUsed.IsNegative() {
		return fmt.Errorf("%w: credit used cannot be negative", ErrValidation)
	}
	if g.CreditUsed.GreaterThan(g.CreditPurchased) {
		return fmt.Errorf("%w: credit used cannot exceed credit purchased", ErrValidation)
	}
	return nil
}

// CreditLeft is the remaining spendable credit; never below zero.
func (g *Group) CreditLeft() decimal.Decimal {
	left := g.CreditPurchased.Sub(g.CreditUsed)
	if left.IsNegative() {
		return decimal.Zero
	}
	return left
}

// Depleted reports whether the group has spent its purchased credit.
func (g *Group) Depleted() bool {
	return g.CreditUsed.GreaterThanOrEqual(g.CreditPurchased)
}
