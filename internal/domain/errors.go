package domain

import "errors"

// Erros de domínio (sem dependências externas).
var (
	ErrNotFound          = errors.New("registro não encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("registro duplicado")
	ErrConflict          = errors.New("conflito com o estado atual")
	ErrInsufficientStock = errors.New("estoque insuficiente")
	ErrInvalidTransition = errors.New("transição de situação inválida")
	ErrUnauthorized      = errors.New("não autorizado")
)
