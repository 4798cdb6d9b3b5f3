package entity

import "time"

// Location local físico de armazenagem (endereço/prateleira do almoxarifado).
// Dado de referência estático; nenhuma lógica além de consulta.
type Location struct {
	ID        string
	Code      string
	Name      string
	Sector    string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
