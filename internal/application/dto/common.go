package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=500"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
// Los listados del painel no paginan, por eso el límite por defecto es amplio.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 500
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse cuerpo de respuestas sin entidad (p. ej. borrados).
type MessageResponse struct {
	Message string `json:"message"`
}
