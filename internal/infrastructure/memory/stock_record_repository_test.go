package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guztaver/licitacao-sub002/internal/domain"
	"github.com/Guztaver/licitacao-sub002/internal/domain/entity"
	"github.com/Guztaver/licitacao-sub002/internal/domain/repository"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func record(itemID, locationID, lot, onHand, reorderPoint string) *entity.StockRecord {
	now := time.Now()
	return &entity.StockRecord{
		ID:              uuid.New().String(),
		ItemID:          itemID,
		LocationID:      locationID,
		Lot:             lot,
		QuantityOnHand:  dec(onHand),
		QuantityMinimum: dec("20"),
		ReorderPoint:    dec(reorderPoint),
		Status:          entity.StockStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestStockRecordRepo_ChaveUnica(t *testing.T) {
	repo := NewStockRecordRepository()
	ctx := context.Background()

	rec := record("item-1", "loc-1", "L1", "10", "15")
	require.NoError(t, repo.Create(ctx, rec))

	// Mesmo (item, local, lote) é rejeitado.
	dup := record("item-1", "loc-1", "L1", "5", "15")
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrDuplicate)

	// Lote diferente é outro registro.
	outro := record("item-1", "loc-1", "L2", "5", "15")
	assert.NoError(t, repo.Create(ctx, outro))

	got, err := repo.GetByKey(ctx, "item-1", "loc-1", "L1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.ID, got.ID)
}

func TestStockRecordRepo_LeituraDevolveCopia(t *testing.T) {
	repo := NewStockRecordRepository()
	ctx := context.Background()

	rec := record("item-1", "loc-1", "", "10", "15")
	require.NoError(t, repo.Create(ctx, rec))

	lido, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	lido.QuantityOnHand = dec("999")

	denovo, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, denovo.QuantityOnHand.Equal(dec("10")),
		"mutação na cópia não pode vazar para o repositório")
}

func TestStockRecordRepo_ListAtOrBelowReorderPoint(t *testing.T) {
	repo := NewStockRecordRepository()
	ctx := context.Background()

	// Déficits: a=5, b=10, c=0 (acima do ponto), d bloqueado.
	a := record("item-a", "loc-1", "", "10", "15")
	b := record("item-b", "loc-1", "", "5", "15")
	c := record("item-c", "loc-1", "", "50", "15")
	d := record("item-d", "loc-1", "", "0", "15")
	d.Status = entity.StockStatusBlocked
	for _, r := range []*entity.StockRecord{a, b, c, d} {
		require.NoError(t, repo.Create(ctx, r))
	}

	list, err := repo.ListAtOrBelowReorderPoint(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2, "somente ativos no ponto ou abaixo")
	assert.Equal(t, "item-b", list[0].ItemID, "maior déficit primeiro")
	assert.Equal(t, "item-a", list[1].ItemID)
}

func TestStockRecordRepo_ListFiltraSituacaoDerivada(t *testing.T) {
	repo := NewStockRecordRepository()
	ctx := context.Background()

	baixo := record("item-a", "loc-1", "", "10", "15")
	zerado := record("item-b", "loc-1", "", "0", "15")
	saudavel := record("item-c", "loc-1", "", "50", "15")
	for _, r := range []*entity.StockRecord{baixo, zerado, saudavel} {
		require.NoError(t, repo.Create(ctx, r))
	}

	list, err := repo.List(ctx, repository.StockRecordFilter{DerivedStatus: repository.StockFilterLowStock})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "item-a", list[0].ItemID)

	list, err = repo.List(ctx, repository.StockRecordFilter{DerivedStatus: repository.StockFilterZeroStock})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "item-b", list[0].ItemID)

	list, err = repo.List(ctx, repository.StockRecordFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
