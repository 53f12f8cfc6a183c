package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"drawbook/internal/domain"
	"drawbook/internal/port"
)

// ChargeResult reports what a charge attempt did.
type ChargeResult struct {
	Charged    bool `json:"charged"`
	Pages      int  `json:"pages"`
	NewBalance int  `json:"new_balance"`
}

// MeteringService decides whether a parse event costs page balance and
// applies the charge.
type MeteringService interface {
	// MaybeCharge charges the user for a parse when shouldCharge is true.
	// The charge is at most once per parse event: callers pass shouldCharge
	// only for a fresh parse of a user-owned upload with no prior cache.
	// A metering failure is logged and reported as uncharged; it never
	// blocks the already rendered result.
	MaybeCharge(ctx context.Context, userID uuid.UUID, pages int, fileName string, shouldCharge bool) ChargeResult
}

type meteringService struct {
	userRepo port.UserRepository
}

// NewMeteringService creates a new MeteringService implementation.
func NewMeteringService(userRepo port.UserRepository) MeteringService {
	return &meteringService{userRepo: userRepo}
}

func (s *meteringService) MaybeCharge(ctx context.Context, userID uuid.UUID, pages int, fileName string, shouldCharge bool) ChargeResult {
	if !shouldCharge {
		return ChargeResult{}
	}
	if pages < 1 {
		pages = 1
	}

	newBalance, err := s.userRepo.ChargeUsage(ctx, userID, pages, fileName)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			log.Printf("meteringService.MaybeCharge: user %s balance exhausted mid-parse (%d pages, %s)", userID, pages, fileName)
		} else {
			log.Printf("meteringService.MaybeCharge: charge failed for user %s (%d pages, %s): %v", userID, pages, fileName, err)
		}
		return ChargeResult{}
	}
	return ChargeResult{Charged: true, Pages: pages, NewBalance: newBalance}
}
