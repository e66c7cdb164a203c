package services

import (
	"context"
	"log"

	"markethub/internal/core/domain"
	"markethub/internal/core/state"
	"markethub/internal/pkg/clock"
)

// LedgerService creates payment requests and settles them. Settlement
// is the only place credits move: payer is debited the full amount, the
// admin fee is floored off the top, and the payee receives the rest, so
// no credits are ever created or destroyed.
type LedgerService struct {
	container *state.Container
	clk       clock.Clock
}

// NewLedgerService creates a new ledger service
func NewLedgerService(container *state.Container, clk clock.Clock) *LedgerService {
	return &LedgerService{container: container, clk: clk}
}

// RequestPayment appends a pending transaction to the customer's
// record on behalf of the requesting vendor. No funds move yet.
func (s *LedgerService) RequestPayment(ctx context.Context, vendor, customer string, amount int64) (*domain.PendingTransaction, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var tx domain.PendingTransaction
	err := s.container.Update(ctx, func(st *domain.State) error {
		target := st.User(customer)
		if target == nil || target.Type != domain.RoleCustomer {
			return domain.ErrUnknownOrWrongType
		}

		tx = domain.PendingTransaction{
			ID:     s.clk.NowMillis(),
			From:   customer,
			To:     vendor,
			Amount: amount,
		}
		target.PendingTransactions = append(target.PendingTransactions, tx)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("💳 Payment requested: %s -> %s (%d credits)", vendor, customer, amount)
	return &tx, nil
}

// Settle resolves a pending transaction on the payer's record.
//
// Accept with sufficient funds completes the transfer and logs it.
// Accept with insufficient funds returns ErrInsufficientFunds and
// leaves the request pending so the payer can retry after a top-up.
// Decline removes the request without moving funds and logs the
// declined outcome. Either way a settled id is gone, so a second
// settle of the same id finds nothing and touches no funds.
func (s *LedgerService) Settle(ctx context.Context, payer string, txID int64, accept bool) (*domain.LogEntry, error) {
	var (
		entry *domain.LogEntry
		opErr error
	)

	err := s.container.Update(ctx, func(st *domain.State) error {
		user := st.User(payer)
		if user == nil {
			return domain.ErrUserNotFound
		}

		idx := -1
		for i, tx := range user.PendingTransactions {
			if tx.ID == txID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return domain.ErrTransactionNotFound
		}
		tx := user.PendingTransactions[idx]

		if accept && user.Credits < tx.Amount {
			return domain.ErrInsufficientFunds
		}

		// Terminal either way from here: the request leaves the
		// payer's record.
		user.PendingTransactions = append(
			user.PendingTransactions[:idx],
			user.PendingTransactions[idx+1:]...,
		)

		if !accept {
			e := domain.LogEntry{
				ID:        tx.ID,
				Timestamp: s.clk.NowMillis(),
				Type:      domain.LogTypePayment,
				From:      tx.From,
				To:        tx.To,
				Amount:    tx.Amount,
				Status:    domain.LogStatusDeclined,
			}
			st.AppendLog(e)
			entry = &e
			return nil
		}

		payee := st.User(tx.To)
		if payee == nil {
			// Stale request to a deleted payee: drop it, move nothing.
			// The removal above still persists.
			opErr = domain.ErrUserNotFound
			return nil
		}

		fee := tx.Amount * domain.AdminFeePercent / 100 // floors toward zero
		user.Credits -= tx.Amount
		payee.Credits += tx.Amount - fee
		st.AdminBalance += fee

		e := domain.LogEntry{
			ID:        tx.ID,
			Timestamp: s.clk.NowMillis(),
			Type:      domain.LogTypePayment,
			From:      tx.From,
			To:        tx.To,
			Amount:    tx.Amount,
			AdminFee:  fee,
			Status:    domain.LogStatusCompleted,
		}
		st.AppendLog(e)
		entry = &e
		return nil
	})
	if err != nil {
		return nil, err
	}
	if opErr != nil {
		return nil, opErr
	}

	log.Printf("💰 Transaction %d settled (%s)", txID, entry.Status)
	return entry, nil
}
