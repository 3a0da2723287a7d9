package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TimeoutErrorResponse error de modo vencido: el cliente debe pedir ADD o REMOVE.
type TimeoutErrorResponse struct {
	Code              string `json:"code"`
	Message           string `json:"message"`
	Timeout           bool   `json:"timeout"`
	RequiresOperation bool   `json:"requires_operation"`
}
