package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cloud-ru/backoffice-finance-go/internal/domain"
	"github.com/cloud-ru/backoffice-finance-go/internal/ledger"
)

const (
	loanPrefix    = "loan:"
	ledgerPrefix  = "ledger:"
	depositPrefix = "deposit:"
)

func getJSON(ctx context.Context, s Store, key string, dst any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("storage: decode %s: %w", key, err)
	}
	return nil
}

func putJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

func listJSON[T any](ctx context.Context, s Store, prefix string) ([]*T, error) {
	keys, err := s.Keys(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(keys))
	for _, k := range keys {
		v := new(T)
		if err := getJSON(ctx, s, k, v); err != nil {
			// ключ мог быть удалён между Keys и Get
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// LoanRepository записи о кредитах
type LoanRepository struct {
	store Store
}

func NewLoanRepository(s Store) *LoanRepository { return &LoanRepository{store: s} }

func (r *LoanRepository) Get(ctx context.Context, id string) (*domain.Loan, error) {
	var l domain.Loan
	if err := getJSON(ctx, r.store, loanPrefix+id, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LoanRepository) Save(ctx context.Context, l *domain.Loan) error {
	return putJSON(ctx, r.store, loanPrefix+l.ID, l)
}

func (r *LoanRepository) List(ctx context.Context) ([]*domain.Loan, error) {
	return listJSON[domain.Loan](ctx, r.store, loanPrefix)
}

// LedgerRepository состояние учёта платежей по кредитам
type LedgerRepository struct {
	store Store
}

func NewLedgerRepository(s Store) *LedgerRepository { return &LedgerRepository{store: s} }

// Get возвращает состояние учёта. Для кредита без платежей
// возвращается пустое состояние.
func (r *LedgerRepository) Get(ctx context.Context, loanID string) (*ledger.State, error) {
	var st ledger.State
	err := getJSON(ctx, r.store, ledgerPrefix+loanID, &st)
	if errors.Is(err, ErrNotFound) {
		return ledger.NewState(loanID), nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *LedgerRepository) Save(ctx context.Context, st *ledger.State) error {
	return putJSON(ctx, r.store, ledgerPrefix+st.LoanID, st)
}

// DepositRepository записи о вкладах
type DepositRepository struct {
	store Store
}

func NewDepositRepository(s Store) *DepositRepository { return &DepositRepository{store: s} }

func (r *DepositRepository) Get(ctx context.Context, id string) (*domain.Deposit, error) {
	var d domain.Deposit
	if err := getJSON(ctx, r.store, depositPrefix+id, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DepositRepository) Save(ctx context.Context, d *domain.Deposit) error {
	return putJSON(ctx, r.store, depositPrefix+d.ID, d)
}

func (r *DepositRepository) List(ctx context.Context) ([]*domain.Deposit, error) {
	return listJSON[domain.Deposit](ctx, r.store, depositPrefix)
}
