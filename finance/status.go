package finance

import "strings"

// Canonical invoice states. Stored rows may carry legacy spellings
// (PAGADO/PAGADA, CANCELADO/CANCELADA); always compare through
// NormalizeStatus / InvoiceSettled, never against raw strings.
const (
	InvoicePending   = "PENDIENTE"
	InvoiceReview    = "REVISION"
	InvoicePaid      = "PAGADA"
	InvoiceCancelled = "CANCELADA"
)

// Canonical payment states.
const (
	PaymentPending   = "PENDIENTE"
	PaymentReview    = "REVISION"
	PaymentConfirmed = "CONFIRMADO"
	PaymentRejected  = "RECHAZADO"
)

// Resolution actions accepted by the staff review endpoint.
const (
	ActionApprove = "aprobar"
	ActionReject  = "rechazar"
)

var settledInvoiceStates = map[string]struct{}{
	"PAGADO":    {},
	"PAGADA":    {},
	"CANCELADO": {},
	"CANCELADA": {},
}

var confirmedPaymentStates = map[string]struct{}{
	"APROBADO":   {},
	"CONFIRMADO": {},
	"COMPLETADO": {},
	"PAGADO":     {},
}

// NormalizeStatus upper-cases and trims a stored status value.
func NormalizeStatus(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// InvoiceSettled reports whether a status value means paid/cancelled in any
// of its accepted spellings. Settled invoices are terminal: neither the
// generator nor the reconciliation operations mutate them.
func InvoiceSettled(status string) bool {
	_, ok := settledInvoiceStates[NormalizeStatus(status)]
	return ok
}

// PaymentIsConfirmed reports whether a payment status counts as confirmed
// money for reporting purposes.
func PaymentIsConfirmed(status string) bool {
	_, ok := confirmedPaymentStates[NormalizeStatus(status)]
	return ok
}

// ParseAction normalizes a resolution action. The second return is false for
// anything other than aprobar/rechazar.
func ParseAction(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ActionApprove, "aprobado":
		return ActionApprove, true
	case ActionReject, "rechazado":
		return ActionReject, true
	}
	return "", false
}
