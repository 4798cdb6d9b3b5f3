// Package memory traz implementações em memória das portas de persistência.
// Servem aos testes dos casos de uso e a execuções locais sem banco; o
// comportamento (erros sentinela, deduplicação, trava otimista) espelha o dos
// adaptadores PostgreSQL.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Guztaver/licitacao-sub002/internal/domain"
	"github.com/Guztaver/licitacao-sub002/internal/domain/entity"
	"github.com/Guztaver/licitacao-sub002/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// StockRecordRepo razão de estoque em memória.
type StockRecordRepo struct {
	mu      sync.RWMutex
	byID    map[string]*entity.StockRecord
	byKey   map[string]string // (item|local|lote) -> id
}

// NewStockRecordRepository constrói um razão vazio.
func NewStockRecordRepository() *StockRecordRepo {
	return &StockRecordRepo{
		byID:  make(map[string]*entity.StockRecord),
		byKey: make(map[string]string),
	}
}

func stockKey(itemID, locationID, lot string) string {
	return itemID + "|" + locationID + "|" + lot
}

func cloneStock(rec *entity.StockRecord) *entity.StockRecord {
	c := *rec
	return &c
}

func (r *StockRecordRepo) Create(ctx context.Context, record *entity.StockRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := stockKey(record.ItemID, record.LocationID, record.Lot)
	if _, exists := r.byKey[key]; exists {
		return domain.ErrDuplicate
	}
	if _, exists := r.byID[record.ID]; exists {
		return domain.ErrDuplicate
	}
	r.byID[record.ID] = cloneStock(record)
	r.byKey[key] = record.ID
	return nil
}

func (r *StockRecordRepo) Update(ctx context.Context, record *entity.StockRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[record.ID]; !exists {
		return domain.ErrNotFound
	}
	r.byID[record.ID] = cloneStock(record)
	return nil
}

func (r *StockRecordRepo) GetByID(ctx context.Context, id string) (*entity.StockRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, exists := r.byID[id]
	if !exists {
		return nil, nil
	}
	return cloneStock(rec), nil
}

// GetByIDForUpdate em memória não há bloqueio de linha; devolve uma cópia como
// GetByID. A serialização fica por conta do TxRunner do pacote.
func (r *StockRecordRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockRecord, error) {
	return r.GetByID(ctx, id)
}

func (r *StockRecordRepo) GetByKey(ctx context.Context, itemID, locationID, lot string) (*entity.StockRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, exists := r.byKey[stockKey(itemID, locationID, lot)]
	if !exists {
		return nil, nil
	}
	return cloneStock(r.byID[id]), nil
}

func (r *StockRecordRepo) List(ctx context.Context, filter repository.StockRecordFilter) ([]*entity.StockRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := time.Now()
	var out []*entity.StockRecord
	for _, rec := range r.byID {
		if filter.ItemID != "" && rec.ItemID != filter.ItemID {
			continue
		}
		if filter.LocationID != "" && rec.LocationID != filter.LocationID {
			continue
		}
		if !matchesDerivedStatus(rec, filter, now) {
			continue
		}
		out = append(out, cloneStock(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ItemID != out[j].ItemID {
			return out[i].ItemID < out[j].ItemID
		}
		return out[i].ID < out[j].ID
	})
	return paginateStock(out, filter.Limit, filter.Offset), nil
}

func matchesDerivedStatus(rec *entity.StockRecord, filter repository.StockRecordFilter, now time.Time) bool {
	switch filter.DerivedStatus {
	case "":
		return true
	case repository.StockFilterLowStock:
		return rec.IsBelowMinimum()
	case repository.StockFilterZeroStock:
		return rec.IsZeroed()
	case repository.StockFilterExcessStock:
		return rec.IsAboveMaximum()
	case repository.StockFilterExpired:
		return rec.IsExpired(now)
	case repository.StockFilterExpiring:
		return rec.ExpiresWithin(now, filter.ExpiringDays)
	case repository.StockFilterBelowReorder:
		return rec.IsAtOrBelowReorderPoint()
	}
	return false
}

func paginateStock(list []*entity.StockRecord, limit, offset int) []*entity.StockRecord {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func (r *StockRecordRepo) ListAtOrBelowReorderPoint(ctx context.Context) ([]*entity.StockRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.StockRecord
	for _, rec := range r.byID {
		if rec.Status != entity.StockStatusActive {
			continue
		}
		if rec.IsAtOrBelowReorderPoint() {
			out = append(out, cloneStock(rec))
		}
	}
	// Maior déficit primeiro, como no adaptador PostgreSQL.
	sort.Slice(out, func(i, j int) bool {
		di := out[i].ReorderPoint.Sub(out[i].QuantityOnHand)
		dj := out[j].ReorderPoint.Sub(out[j].QuantityOnHand)
		if !di.Equal(dj) {
			return di.GreaterThan(dj)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
