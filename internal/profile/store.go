// Package profile persists the risk profile chosen for a user. The classifier
// never imports it; callers inject a Store where a profile must survive a session.
package profile

import (
	"context"
	"strings"

	"github.com/rgehrsitz/sipgo/internal/domain"
)

// Store keeps one risk profile per opaque user ID
type Store interface {
	// Get returns domain.ErrProfileNotFound when nothing is saved for userID
	Get(ctx context.Context, userID string) (domain.RiskProfile, error)
	Set(ctx context.Context, userID string, p domain.RiskProfile) error
	Close() error
}

func validate(op, userID string, p domain.RiskProfile) error {
	if err := validateUser(op, userID); err != nil {
		return err
	}
	if !p.IsValid() {
		return &domain.CalculationError{
			Operation: op,
			Field:     "profile",
			Message:   "cannot store unknown profile " + string(p),
			Kind:      domain.ErrUnknownProfile,
		}
	}
	return nil
}

func validateUser(op, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.NewInvalidInput(op, "user_id", "user id is required")
	}
	return nil
}

func notFound(op, userID string) error {
	return &domain.CalculationError{
		Operation: op,
		Field:     "user_id",
		Message:   "no profile saved for " + userID,
		Kind:      domain.ErrProfileNotFound,
	}
}
