package entity

import "time"

// Item material do catálogo (colaborador somente leitura para o razão;
// o cadastro em si pertence à plataforma de compras).
type Item struct {
	ID          string
	Code        string
	Description string
	Unit        string // unidade de medida (UN, CX, KG...)
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
