package dto

import "github.com/jhoicas/wareflow-api/internal/domain/repository"

const defaultPageLimit = 20

// PageRequest paginación por query (?limit=&offset=). Limit 0 equivale al valor por defecto.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage normaliza Limit y Offset.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// Repo traduce la página al parámetro de los repositorios.
func (p PageRequest) Repo() repository.Page {
	return repository.Page{Limit: p.Limit, Offset: p.Offset}
}

// Meta metadatos que se devuelven junto a la lista.
func (p PageRequest) Meta() PageResponse {
	return PageResponse{Limit: p.Limit, Offset: p.Offset}
}

// PageResponse eco de la página servida.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse cuerpo de todas las respuestas de error: Code estable para clientes y Message legible.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
