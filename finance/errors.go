package finance

import "errors"

// Validation failures surfaced to API clients as 4xx responses. Controllers
// match on these; none of them should reach the central error handler.
var (
	ErrInvalidPeriod      = errors.New("el periodo debe tener formato YYYY-MM")
	ErrInvalidAmount      = errors.New("el monto debe ser un número mayor a cero")
	ErrAlreadyPaid        = errors.New("la factura ya se encuentra pagada")
	ErrAlreadyUnderReview = errors.New("la factura ya tiene un pago en revisión")
	ErrAlreadyProcessed   = errors.New("el pago ya fue procesado")
	ErrInvalidAction      = errors.New("acción no reconocida; use aprobar o rechazar")
	ErrNotFound           = errors.New("registro no encontrado")
	ErrNoActiveUnit       = errors.New("el residente no tiene una vivienda activa asignada")
)
