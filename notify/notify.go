// Package notify delivers billing notifications to residents. The service is
// constructed once and injected into the finance operations; the push
// transport behind it is pluggable so the core never touches FCM directly.
package notify

import (
	"encoding/json"
	"log"

	"condominio-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Sender pushes a notification to the resident's devices. Implementations
// wrap an external transport (FCM, APNs); delivery is best effort.
type Sender interface {
	Send(residentID, title, body string, data map[string]string) error
}

// NopSender drops every push. Used in tests and when no transport is
// configured.
type NopSender struct{}

func (NopSender) Send(string, string, string, map[string]string) error { return nil }

// Service persists DirectNotification rows and forwards them to the sender.
type Service struct {
	sender Sender
}

func NewService(sender Sender) *Service {
	if sender == nil {
		sender = NopSender{}
	}
	return &Service{sender: sender}
}

// Event is one notification addressed to a resident.
type Event struct {
	ResidentId string
	Title      string
	Message    string
	InvoiceId  *string
	PaymentId  *string
	SentById   *string
	Data       map[string]string
}

// Notify stores the notification inside the caller's transaction and pushes
// it through the sender. A push failure does not fail the transaction.
func (s *Service) Notify(tx *gorm.DB, ev Event) error {
	n := models.DirectNotification{
		ResidentId: ev.ResidentId,
		Title:      ev.Title,
		Message:    ev.Message,
		Status:     models.NotificationSent,
		InvoiceId:  ev.InvoiceId,
		PaymentId:  ev.PaymentId,
		SentById:   ev.SentById,
	}
	if len(ev.Data) > 0 {
		raw, err := json.Marshal(ev.Data)
		if err == nil {
			n.Context = datatypes.JSON(raw)
		}
	}
	if err := tx.Create(&n).Error; err != nil {
		return err
	}
	if err := s.sender.Send(ev.ResidentId, ev.Title, ev.Message, ev.Data); err != nil {
		log.Printf("push delivery failed for resident %s: %v", ev.ResidentId, err)
	}
	return nil
}

// MarkRead flips a resident's notification to LEIDA. The resident filter
// keeps one resident from touching another's inbox.
func MarkRead(db *gorm.DB, id, residentID string) error {
	res := db.Model(&models.DirectNotification{}).
		Where("id = ? AND resident_id = ?", id, residentID).
		Update("status", models.NotificationRead)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
