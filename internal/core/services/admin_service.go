package services

import (
	"context"
	"log"
	"sort"

	"markethub/internal/core/domain"
	"markethub/internal/core/state"
	"markethub/internal/pkg/clock"
)

// AdminService implements the privileged direct-state operations:
// balance withdrawal, credit adjustment and user deletion, plus the
// read-only listings the admin panel renders.
type AdminService struct {
	container *state.Container
	clk       clock.Clock
}

// NewAdminService creates a new admin service
func NewAdminService(container *state.Container, clk clock.Clock) *AdminService {
	return &AdminService{container: container, clk: clk}
}

// SetCredits overwrites a user's balance. Negative input clamps to
// zero. No log entry is written for manual adjustments.
func (s *AdminService) SetCredits(ctx context.Context, identity string, credits int64) error {
	if credits < 0 {
		credits = 0
	}

	err := s.container.Update(ctx, func(st *domain.State) error {
		user := st.User(identity)
		if user == nil {
			return domain.ErrUserNotFound
		}
		user.Credits = credits
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("🔧 Credits set: %s = %d", identity, credits)
	return nil
}

// DeleteUser removes the user entirely, including products and any
// outstanding pending transactions on their record. There is no
// cascading settlement; requests owed by or to the user vanish.
func (s *AdminService) DeleteUser(ctx context.Context, identity string) error {
	err := s.container.Update(ctx, func(st *domain.State) error {
		if st.User(identity) == nil {
			return domain.ErrUserNotFound
		}
		delete(st.Users, identity)
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("🗑️ User deleted: %s", identity)
	return nil
}

// Withdraw debits the admin balance and appends a completed
// withdrawal log entry.
func (s *AdminService) Withdraw(ctx context.Context, amount int64) (*domain.LogEntry, error) {
	var entry domain.LogEntry

	err := s.container.Update(ctx, func(st *domain.State) error {
		if amount <= 0 || amount > st.AdminBalance {
			return domain.ErrInvalidAmount
		}

		now := s.clk.NowMillis()
		st.AdminBalance -= amount
		entry = domain.LogEntry{
			ID:        now,
			Timestamp: now,
			Type:      domain.LogTypeWithdrawal,
			Amount:    amount,
			Status:    domain.LogStatusCompleted,
		}
		st.AppendLog(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("💸 Admin withdrew %d credits", amount)
	return &entry, nil
}

// Balance returns the accumulated admin fee balance.
func (s *AdminService) Balance() int64 {
	var balance int64
	s.container.View(func(st *domain.State) {
		balance = st.AdminBalance
	})
	return balance
}

// ListUsers returns every account sorted by identity.
func (s *AdminService) ListUsers() []*domain.UserResponse {
	var users []*domain.UserResponse
	s.container.View(func(st *domain.State) {
		identities := make([]string, 0, len(st.Users))
		for identity := range st.Users {
			identities = append(identities, identity)
		}
		sort.Strings(identities)

		for _, identity := range identities {
			users = append(users, st.Users[identity].ToResponse(identity))
		}
	})
	return users
}

// Logs returns the transaction log newest-first.
func (s *AdminService) Logs() []domain.LogEntry {
	var logs []domain.LogEntry
	s.container.View(func(st *domain.State) {
		logs = make([]domain.LogEntry, 0, len(st.TransactionLogs))
		for i := len(st.TransactionLogs) - 1; i >= 0; i-- {
			logs = append(logs, st.TransactionLogs[i])
		}
	})
	return logs
}
