package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Guztaver/licitacao-sub002/internal/domain"
	"github.com/Guztaver/licitacao-sub002/internal/domain/entity"
	"github.com/Guztaver/licitacao-sub002/internal/domain/repository"
)

var _ repository.ReplenishmentRepository = (*ReplenishmentRepo)(nil)

// ReplenishmentRepo reposições em memória, com a mesma trava otimista do
// adaptador PostgreSQL.
type ReplenishmentRepo struct {
	mu      sync.RWMutex
	records map[string]*entity.ReplenishmentRecord
}

// NewReplenishmentRepository constrói um repositório de reposições vazio.
func NewReplenishmentRepository() *ReplenishmentRepo {
	return &ReplenishmentRepo{records: make(map[string]*entity.ReplenishmentRecord)}
}

func cloneReplenishment(rec *entity.ReplenishmentRecord) *entity.ReplenishmentRecord {
	c := *rec
	return &c
}

func (r *ReplenishmentRepo) Create(ctx context.Context, record *entity.ReplenishmentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[record.ID]; exists {
		return domain.ErrDuplicate
	}
	r.records[record.ID] = cloneReplenishment(record)
	return nil
}

// Update compara Version com a cópia guardada; divergência devolve
// domain.ErrConflict. Em caso de sucesso a versão avança no registro guardado
// e no ponteiro do chamador.
func (r *ReplenishmentRepo) Update(ctx context.Context, record *entity.ReplenishmentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, exists := r.records[record.ID]
	if !exists {
		return domain.ErrNotFound
	}
	if stored.Version != record.Version {
		return domain.ErrConflict
	}
	record.Version++
	r.records[record.ID] = cloneReplenishment(record)
	return nil
}

func (r *ReplenishmentRepo) GetByID(ctx context.Context, id string) (*entity.ReplenishmentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, exists := r.records[id]
	if !exists {
		return nil, nil
	}
	return cloneReplenishment(rec), nil
}

func (r *ReplenishmentRepo) FindOpenByStockRecord(ctx context.Context, stockRecordID string) (*entity.ReplenishmentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		if rec.StockRecordID == stockRecordID && !rec.IsTerminal() {
			return cloneReplenishment(rec), nil
		}
	}
	return nil, nil
}

func (r *ReplenishmentRepo) List(ctx context.Context, filter repository.ReplenishmentFilter) ([]*entity.ReplenishmentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.ReplenishmentRecord
	for _, rec := range r.records {
		if filter.ItemID != "" && rec.ItemID != filter.ItemID {
			continue
		}
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && rec.Priority != filter.Priority {
			continue
		}
		out = append(out, cloneReplenishment(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := entity.PriorityRank(out[i].Priority), entity.PriorityRank(out[j].Priority)
		if ri != rj {
			return ri > rj
		}
		if !out[i].SuggestedDate.Equal(out[j].SuggestedDate) {
			return out[i].SuggestedDate.Before(out[j].SuggestedDate)
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
