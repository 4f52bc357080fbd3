package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloud-ru/backoffice-finance-go/internal/calculations"
	"github.com/cloud-ru/backoffice-finance-go/internal/config"
	"github.com/cloud-ru/backoffice-finance-go/internal/domain"
)

// testStore общий набор проверок для любого бэкенда
func testStore(t *testing.T, s Store, ns string) {
	ctx := context.Background()

	_, err := s.Get(ctx, ns+"missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, ns+"b", []byte(`{"v":2}`)))
	require.NoError(t, s.Set(ctx, ns+"a", []byte(`{"v":1}`)))
	require.NoError(t, s.Set(ctx, "other:"+ns, []byte(`{}`)))

	got, err := s.Get(ctx, ns+"a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(got))

	keys, err := s.Keys(ctx, ns)
	require.NoError(t, err)
	assert.Equal(t, []string{ns + "a", ns + "b"}, keys)

	require.NoError(t, s.Set(ctx, ns+"a", []byte(`{"v":3}`)))
	got, err = s.Get(ctx, ns+"a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":3}`, string(got))

	require.NoError(t, s.Delete(ctx, ns+"a"))
	require.NoError(t, s.Delete(ctx, ns+"b"))
	require.NoError(t, s.Delete(ctx, "other:"+ns))
	_, err = s.Get(ctx, ns+"a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore(), "test:")
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	buf := []byte(`{"v":1}`)
	require.NoError(t, s.Set(ctx, "k", buf))
	buf[0] = 'X'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, string(got))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR не задан")
	}
	s, err := NewRedisStore(context.Background(), addr, 0)
	require.NoError(t, err)
	defer s.Close()
	testStore(t, s, "test-"+uuid.NewString()+":")
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN не задан")
	}
	s, err := NewPostgresStore(context.Background(), dsn)
	require.NoError(t, err)
	defer s.Close()
	testStore(t, s, "test-"+uuid.NewString()+":")
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StoreBackend: "etcd"})
	assert.Error(t, err)

	s, err := Open(context.Background(), &config.Config{StoreBackend: config.StoreMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
}

func TestRepositories(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	loans := NewLoanRepository(s)
	l := domain.NewLoan("L-1", "C-1", "Иванов", 12000, 12, 12, start, start)
	l.Underwriting = &domain.Underwriting{MonthlyIncome: 5000, Insured: true}
	require.NoError(t, loans.Save(ctx, l))

	got, err := loans.Get(ctx, "L-1")
	require.NoError(t, err)
	assert.Equal(t, l.Principal, got.Principal)
	assert.Equal(t, domain.LoanPendingApproval, got.Status)
	require.NotNil(t, got.Underwriting)
	assert.True(t, got.Underwriting.Insured)
	assert.True(t, got.StartDate.Equal(start))

	_, err = loans.Get(ctx, "L-404")
	assert.ErrorIs(t, err, ErrNotFound)

	ledgers := NewLedgerRepository(s)
	st, err := ledgers.Get(ctx, "L-1")
	require.NoError(t, err)
	assert.Equal(t, "L-1", st.LoanID)
	assert.Empty(t, st.Paid)

	sched, err := calculations.BuildSchedule(12000, 12, 12, start, start)
	require.NoError(t, err)
	require.True(t, st.MarkPaid(sched, 2, start).Applied)
	require.NoError(t, ledgers.Save(ctx, st))

	st, err = ledgers.Get(ctx, "L-1")
	require.NoError(t, err)
	assert.Equal(t, []int{2}, st.Paid)
	assert.Len(t, st.History, 1)

	deposits := NewDepositRepository(s)
	require.NoError(t, deposits.Save(ctx, domain.NewTermDeposit("D-1", "C-1", "", 10000, 10, 3, start)))
	require.NoError(t, deposits.Save(ctx, domain.NewDemandDeposit("D-2", "C-1", "", 500, start)))

	all, err := deposits.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "D-1", all[0].ID)
	require.NotNil(t, all[0].MaturityDate)
	assert.Nil(t, all[1].MaturityDate)

	list, err := loans.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

}

func TestMigrationsEmbedded(t *testing.T) {
	src, err := iofs.New(migrationsFS, "migrations")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	up, name, err := src.ReadUp(first)
	require.NoError(t, err)
	defer up.Close()
	assert.Equal(t, "kv_store", name)
}
