package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Guztaver/licitacao-sub002/internal/domain"
	"github.com/Guztaver/licitacao-sub002/internal/domain/entity"
	"github.com/Guztaver/licitacao-sub002/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo histórico de movimentações em memória (append-only).
type MovementRepo struct {
	mu        sync.RWMutex
	movements []entity.MovementRecord
	index     map[string]int
}

// NewMovementRepository constrói um histórico vazio.
func NewMovementRepository() *MovementRepo {
	return &MovementRepo{index: make(map[string]int)}
}

func (r *MovementRepo) Create(ctx context.Context, movement *entity.MovementRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.index[movement.ID]; exists {
		return domain.ErrDuplicate
	}
	r.index[movement.ID] = len(r.movements)
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.MovementRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, exists := r.index[id]
	if !exists {
		return nil, nil
	}
	mov := r.movements[i]
	return &mov, nil
}

func (r *MovementRepo) MarkReversed(ctx context.Context, id, reversalID string, reversedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, exists := r.index[id]
	if !exists {
		return domain.ErrNotFound
	}
	r.movements[i].ReversedByID = reversalID
	at := reversedAt
	r.movements[i].ReversedAt = &at
	return nil
}

func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.MovementRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.MovementRecord
	for i := range r.movements {
		mov := r.movements[i]
		if filter.StockRecordID != "" && mov.StockRecordID != filter.StockRecordID {
			continue
		}
		if filter.ItemID != "" && mov.ItemID != filter.ItemID {
			continue
		}
		if filter.LocationID != "" && mov.LocationID != filter.LocationID {
			continue
		}
		if filter.Kind != "" && mov.Kind != filter.Kind {
			continue
		}
		if filter.From != nil && mov.OccurredAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && mov.OccurredAt.After(*filter.To) {
			continue
		}
		out = append(out, &mov)
	}
	// Mais recentes primeiro, como no adaptador PostgreSQL.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.After(out[j].OccurredAt)
		}
		return out[i].ID < out[j].ID
	})
	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *MovementRepo) SumConfirmedByStockRecord(ctx context.Context, stockRecordID string) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sum := decimal.Zero
	for i := range r.movements {
		mov := &r.movements[i]
		if mov.StockRecordID == stockRecordID && mov.Status == entity.MovementStatusConfirmed {
			sum = sum.Add(mov.Quantity)
		}
	}
	return sum, nil
}

func (r *MovementRepo) LastConfirmedAt(ctx context.Context, stockRecordID string) (*time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var last *time.Time
	for i := range r.movements {
		mov := &r.movements[i]
		if mov.StockRecordID != stockRecordID || mov.Status != entity.MovementStatusConfirmed {
			continue
		}
		if last == nil || mov.OccurredAt.After(*last) {
			t := mov.OccurredAt
			last = &t
		}
	}
	return last, nil
}

func (r *MovementRepo) StatsByItem(ctx context.Context, itemID string, since time.Time) (*repository.MovementStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var values []float64
	for i := range r.movements {
		mov := &r.movements[i]
		if mov.ItemID != itemID || mov.Status != entity.MovementStatusConfirmed {
			continue
		}
		if mov.OccurredAt.Before(since) {
			continue
		}
		values = append(values, mov.Quantity.Abs().InexactFloat64())
	}
	stats := &repository.MovementStats{Count: int64(len(values))}
	if len(values) == 0 {
		return stats, nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	stats.Mean = decimal.NewFromFloat(mean)
	stats.StdDev = decimal.NewFromFloat(math.Sqrt(variance))
	return stats, nil
}
