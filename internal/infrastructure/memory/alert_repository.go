package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Guztaver/licitacao-sub002/internal/domain"
	"github.com/Guztaver/licitacao-sub002/internal/domain/entity"
	"github.com/Guztaver/licitacao-sub002/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo alertas em memória.
type AlertRepo struct {
	mu     sync.RWMutex
	alerts map[string]*entity.AlertRecord
}

// NewAlertRepository constrói um repositório de alertas vazio.
func NewAlertRepository() *AlertRepo {
	return &AlertRepo{alerts: make(map[string]*entity.AlertRecord)}
}

func cloneAlert(a *entity.AlertRecord) *entity.AlertRecord {
	c := *a
	return &c
}

func (r *AlertRepo) Create(ctx context.Context, alert *entity.AlertRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.alerts[alert.ID]; exists {
		return domain.ErrDuplicate
	}
	r.alerts[alert.ID] = cloneAlert(alert)
	return nil
}

func (r *AlertRepo) Update(ctx context.Context, alert *entity.AlertRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.alerts[alert.ID]; !exists {
		return domain.ErrNotFound
	}
	r.alerts[alert.ID] = cloneAlert(alert)
	return nil
}

func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.AlertRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	alert, exists := r.alerts[id]
	if !exists {
		return nil, nil
	}
	return cloneAlert(alert), nil
}

func (r *AlertRepo) List(ctx context.Context, filter repository.AlertFilter) ([]*entity.AlertRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.AlertRecord
	for _, alert := range r.alerts {
		if filter.ItemID != "" && alert.ItemID != filter.ItemID {
			continue
		}
		if filter.Kind != "" && alert.Kind != filter.Kind {
			continue
		}
		if filter.Status != "" && alert.Status != filter.Status {
			continue
		}
		if filter.Severity != "" && alert.Severity != filter.Severity {
			continue
		}
		out = append(out, cloneAlert(alert))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RaisedAt.Equal(out[j].RaisedAt) {
			return out[i].RaisedAt.After(out[j].RaisedAt)
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

func (r *AlertRepo) FindOpenByItemAndKind(ctx context.Context, itemID, kind string) (*entity.AlertRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, alert := range r.alerts {
		if alert.ItemID == itemID && alert.Kind == kind && alert.IsOpen() {
			return cloneAlert(alert), nil
		}
	}
	return nil, nil
}
