package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/roohic/supervisorbot/internal/domain"
)

// Admin is the operator-facing façade over the group store. It validates
// input shape; each operation maps 1:1 onto a store operation and is
// idempotent where the store operation already is.
type Admin struct {
	store           *GroupStore
	defaultLanguage string
}

func NewAdmin(store *GroupStore, defaultLanguage string) *Admin {
	return &Admin{store: store, defaultLanguage: defaultLanguage}
}

// AddGroup registers a group. An empty language falls back to the
// configured default. The new record starts inactive with zero credit.
func (a *Admin) AddGroup(ctx context.Context, groupID, name, language string) error {
	if groupID == "" {
		return fmt.Errorf("%w: group id must not be empty", domain.ErrValidation)
	}
	if language == "" {
		language = a.defaultLanguage
	}
	return a.store.Create(ctx, groupID, domain.NewGroup(name, language))
}

// RemoveGroup erases a record. Removing an unknown id is not an error;
// existed reports whether anything was deleted.
func (a *Admin) RemoveGroup(ctx context.Context, groupID string) (bool, error) {
	if groupID == "" {
		return false, fmt.Errorf("%w: group id must not be empty", domain.ErrValidation)
	}
	return a.store.Remove(ctx, groupID)
}

func (a *Admin) RenameGroup(ctx context.Context, groupID, newName string) error {
	if groupID == "" {
		return fmt.Errorf("%w: group id must not be empty", domain.ErrValidation)
	}
	return a.store.Rename(ctx, groupID, newName)
}

func (a *Admin) SetLanguage(ctx context.Context, groupID, language string) (bool, error) {
	if groupID == "" {
		return false, fmt.Errorf("%w: group id must not be empty", domain.ErrValidation)
	}
	return a.store.SetLanguage(ctx, groupID, language)
}

func (a *Admin) ToggleActive(ctx context.Context, groupID string, isActive bool) (bool, error) {
	if groupID == "" {
		return false, fmt.Errorf("%w: group id must not be empty", domain.ErrValidation)
	}
	return a.store.SetActive(ctx, groupID, isActive)
}

func (a *Admin) AddCredit(ctx context.Context, groupID string, amount decimal.Decimal) error {
	if groupID == "" {
		return fmt.Errorf("%w: group id must not be empty", domain.ErrValidation)
	}
	return a.store.AddCredit(ctx, groupID, amount)
}

func (a *Admin) ListGroups(ctx context.Context) ([]GroupEntry, error) {
	return a.store.ListAll(ctx)
}
