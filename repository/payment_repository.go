package repository

import (
	"time"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/entity"

	"gorm.io/gorm"
)

type PaymentRepository struct{ DB *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) Create(p *entity.Payment) error {
	return r.DB.Create(p).Error
}

func (r *PaymentRepository) FindByID(id uint) (*entity.Payment, error) {
	var p entity.Payment
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) FindByGatewayOrderID(gatewayOrderID string) (*entity.Payment, error) {
	var p entity.Payment
	if err := r.DB.Where("gateway_order_id = ?", gatewayOrderID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ClaimCompleted is the idempotency guard: it marks the payment completed
// only if it is not completed already and reports whether this caller won.
// Both the client verify path and the webhook go through it, so a benign
// race can never produce two orders.
func (r *PaymentRepository) ClaimCompleted(tx *gorm.DB, paymentID uint, gatewayPaymentID, signature string, paidAt time.Time) (bool, error) {
	res := tx.Model(&entity.Payment{}).
		Where("id = ? AND status <> ?", paymentID, entity.PaymentCompleted).
		Updates(map[string]any{
			"status":             entity.PaymentCompleted,
			"gateway_payment_id": gatewayPaymentID,
			"signature":          signature,
			"paid_at":            paidAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// MarkFailed is a no-op when the payment already completed.
func (r *PaymentRepository) MarkFailed(paymentID uint, reason string) error {
	return r.DB.Model(&entity.Payment{}).
		Where("id = ? AND status <> ?", paymentID, entity.PaymentCompleted).
		Updates(map[string]any{"status": entity.PaymentFailed, "failure_reason": reason}).Error
}

func (r *PaymentRepository) LinkOrder(tx *gorm.DB, paymentID, orderID uint) error {
	return tx.Model(&entity.Payment{}).Where("id = ?", paymentID).Update("order_id", orderID).Error
}
