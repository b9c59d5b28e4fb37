package service

import (
	"context"
	"strings"
	"sync"

	"github.com/alceillini1999/Zaad.POS/internal/model"
	"github.com/alceillini1999/Zaad.POS/internal/repository"
)

// LoyaltyService maintains per-client point balances keyed by phone number.
// Accrual happens only when a sale is finalized, never when an order is
// placed, and is always a best-effort side effect of the sale.
type LoyaltyService interface {
	Accrue(ctx context.Context, phone, nameHint string, delta int) error
}

type loyaltyService struct {
	repo repository.ClientRepository

	// The store's update is read-modify-write with no row locking, so two
	// concurrent accruals for one phone would lose an increment. A per-phone
	// mutex closes that window within this process (single service instance).
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLoyaltyService(repo repository.ClientRepository) LoyaltyService {
	return &loyaltyService{repo: repo, locks: make(map[string]*sync.Mutex)}
}

func (s *loyaltyService) phoneLock(phone string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[phone]
	if !ok {
		l = &sync.Mutex{}
		s.locks[phone] = l
	}
	return l
}

func (s *loyaltyService) Accrue(ctx context.Context, phone, nameHint string, delta int) error {
	phone = strings.TrimSpace(phone)
	if phone == "" || delta <= 0 {
		return nil
	}

	l := s.phoneLock(phone)
	l.Lock()
	defer l.Unlock()

	existing, rowIndex, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		return unavailable(err, "loyalty lookup failed")
	}

	if existing == nil {
		name := nameHint
		if strings.TrimSpace(name) == "" {
			name = phone
		}
		c := &model.Client{Phone: phone, Name: name, Points: delta}
		if err := s.repo.Append(ctx, c); err != nil {
			return unavailable(err, "loyalty append failed")
		}
		return nil
	}

	points := existing.Points + delta
	if points < 0 {
		points = 0
	}
	existing.Points = points
	if strings.TrimSpace(existing.Name) == "" {
		if nameHint != "" {
			existing.Name = nameHint
		} else {
			existing.Name = phone
		}
	}
	if err := s.repo.Update(ctx, rowIndex, existing); err != nil {
		return unavailable(err, "loyalty update failed")
	}
	return nil
}
