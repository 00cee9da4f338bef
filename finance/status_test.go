package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceSettled(t *testing.T) {
	for _, s := range []string{"PAGADA", "PAGADO", "CANCELADA", "CANCELADO", "pagada", " pagado "} {
		assert.True(t, InvoiceSettled(s), "status %q", s)
	}
	for _, s := range []string{"PENDIENTE", "REVISION", "", "PAGAD"} {
		assert.False(t, InvoiceSettled(s), "status %q", s)
	}
}

func TestPaymentIsConfirmed(t *testing.T) {
	for _, s := range []string{"CONFIRMADO", "APROBADO", "COMPLETADO", "PAGADO", "confirmado"} {
		assert.True(t, PaymentIsConfirmed(s), "status %q", s)
	}
	for _, s := range []string{"PENDIENTE", "REVISION", "RECHAZADO", ""} {
		assert.False(t, PaymentIsConfirmed(s), "status %q", s)
	}
}

func TestParseAction(t *testing.T) {
	cases := map[string]string{
		"aprobar":   ActionApprove,
		"APROBAR":   ActionApprove,
		"aprobado":  ActionApprove,
		"rechazar":  ActionReject,
		"rechazado": ActionReject,
		" Rechazar ": ActionReject,
	}
	for in, want := range cases {
		got, ok := ParseAction(in)
		assert.True(t, ok, "input %q", in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{"", "posponer", "ok", "aprob"} {
		_, ok := ParseAction(in)
		assert.False(t, ok, "input %q", in)
	}
}
