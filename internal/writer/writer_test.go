package writer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ritu28-coder/stock-dashboard/internal/model"
	"github.com/Ritu28-coder/stock-dashboard/internal/store"
)

func obs(symbol string, d int, price float64) model.Observation {
	return model.Observation{
		Symbol:     symbol,
		Timestamp:  time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC),
		ClosePrice: price,
		Volume:     100,
	}
}

func TestWriteAll_DuplicateIsNoOp(t *testing.T) {
	w := New(store.NewMemoryStore())

	res := w.WriteAll(context.Background(), []model.Observation{
		obs("MSFT", 1, 370),
		obs("MSFT", 1, 370),
	})

	assert.True(t, res.Ok())
	assert.Equal(t, 1, res.Written)
	assert.Equal(t, 1, res.Duplicates)
}

func TestWriteAll_Idempotent(t *testing.T) {
	st := store.NewMemoryStore()
	w := New(st)
	rows := []model.Observation{obs("MSFT", 1, 370)}

	w.WriteAll(context.Background(), rows)
	w.WriteAll(context.Background(), rows)

	stored, err := st.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestWriteAll_InvalidRowDoesNotBlockBatch(t *testing.T) {
	st := store.NewMemoryStore()
	w := New(st)

	res := w.WriteAll(context.Background(), []model.Observation{
		obs("BAD", 1, 0), // zero close price fails validation
		obs("GOOD", 1, 55),
	})

	assert.Equal(t, 1, res.Written)
	assert.Equal(t, []string{"BAD"}, res.FailedSymbols())
	assert.Equal(t, []string{"GOOD"}, res.Succeeded())
}

type failingStore struct {
	*store.MemoryStore
	failSymbol string
}

func (s *failingStore) Upsert(ctx context.Context, o model.Observation) (bool, error) {
	if o.Symbol == s.failSymbol {
		return false, errors.New("connection reset")
	}
	return s.MemoryStore.Upsert(ctx, o)
}

func TestWriteAll_StoreFailureReportedOnce(t *testing.T) {
	st := &failingStore{MemoryStore: store.NewMemoryStore(), failSymbol: "FLAKY"}
	w := New(st)

	res := w.WriteAll(context.Background(), []model.Observation{
		obs("FLAKY", 1, 10),
		obs("FLAKY", 2, 11),
		obs("OK", 1, 20),
	})

	assert.False(t, res.Ok())
	assert.Equal(t, 1, res.Written)
	require.Contains(t, res.Failed, "FLAKY")
	assert.Equal(t, []string{"OK"}, res.Succeeded())
}
