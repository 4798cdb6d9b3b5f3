package dto

import "github.com/Guztaver/licitacao-sub002/internal/domain/entity"

// CreateItemRequest corpo para POST /api/items.
type CreateItemRequest struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
}

// ItemResponse representação de um item do catálogo.
type ItemResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	Active      bool   `json:"active"`
}

// ItemFromEntity monta a resposta de um item.
func ItemFromEntity(i *entity.Item) ItemResponse {
	return ItemResponse{ID: i.ID, Code: i.Code, Description: i.Description, Unit: i.Unit, Active: i.Active}
}

// CreateLocationRequest corpo para POST /api/locations.
type CreateLocationRequest struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Sector string `json:"sector,omitempty"`
}

// LocationResponse representação de um local de armazenagem.
type LocationResponse struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Sector string `json:"sector,omitempty"`
	Active bool   `json:"active"`
}

// LocationFromEntity monta a resposta de um local.
func LocationFromEntity(l *entity.Location) LocationResponse {
	return LocationResponse{ID: l.ID, Code: l.Code, Name: l.Name, Sector: l.Sector, Active: l.Active}
}
