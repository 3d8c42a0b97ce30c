package service

import (
	"context"
	"errors"
	"strings"

	"github.com/roohic/supervisorbot/internal/domain"
)

// Gate decides whether a raw group message warrants a provider call at
// all: an explicit trailing marker opts the message in, word-count bounds
// keep the pipeline off one-word noise and walls of text, and the
// activation check enforces the credit boundary before any spend.
type Gate struct {
	store    *GroupStore
	marker   string
	minWords int
	maxWords int
}

func NewGate(store *GroupStore, marker string, minWords, maxWords int) *Gate {
	return &Gate{
		store:    store,
		marker:   marker,
		minWords: minWords,
		maxWords: maxWords,
	}
}

// ShouldProcess evaluates the rules in order: marker, word count, group
// activation. The returned error is non-nil only for store failures; all
// expected refusals arrive as a rejected Decision.
func (g *Gate) ShouldProcess(ctx context.Context, rawText, groupID string) (domain.Decision, error) {
	if !strings.HasSuffix(rawText, g.marker) {
		return domain.Decision{Reason: domain.ReasonNoMarker}, nil
	}
	text := strings.TrimSpace(strings.TrimSuffix(rawText, g.marker))

	words := CountWords(text)
	if words < g.minWords || words > g.maxWords {
		return domain.Decision{Reason: domain.ReasonOutOfRange}, nil
	}

	active, err := g.store.IsActive(ctx, groupID)
	if err != nil {
		if errors.Is(err, domain.ErrGroupNotFound) {
			return domain.Decision{Reason: domain.ReasonGroupInactive}, nil
		}
		return domain.Decision{}, err
	}
	if !active {
		return domain.Decision{Reason: domain.ReasonGroupInactive}, nil
	}

	return domain.Decision{Accepted: true, Text: text}, nil
}
