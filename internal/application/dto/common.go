package dto

// ErrorResponse cuerpo estándar de error de la API.
// Details transporta cifras accionables (ej. stock disponible vs solicitado).
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
