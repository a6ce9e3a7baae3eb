package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/entity"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/external/mail"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/external/razorpay"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/pkg/apperr"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/repository"

	"gorm.io/gorm"
)

// Gateway is the slice of the payment provider the service needs; tests
// plug in a fake.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (string, error)
}

var phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

type PaymentService struct {
	DB          *gorm.DB
	PayRepo     *repository.PaymentRepository
	CartRepo    *repository.CartRepository
	RestRepo    *repository.RestaurantRepository
	UserRepo    *repository.UserRepository
	Orders      *OrderService
	Gateway     Gateway
	Mail        mail.Sender
	KeyID       string
	KeySecret   string
	WebhookSkey string
	Log         *slog.Logger
}

func NewPaymentService(db *gorm.DB, pr *repository.PaymentRepository, cr *repository.CartRepository,
	rr *repository.RestaurantRepository, ur *repository.UserRepository, orders *OrderService,
	gw Gateway, sender mail.Sender, keyID, keySecret, webhookSecret string, log *slog.Logger) *PaymentService {
	return &PaymentService{
		DB: db, PayRepo: pr, CartRepo: cr, RestRepo: rr, UserRepo: ur, Orders: orders,
		Gateway: gw, Mail: sender, KeyID: keyID, KeySecret: keySecret, WebhookSkey: webhookSecret, Log: log,
	}
}

type CreateIntentIn struct {
	CustomerPhone string `json:"customerPhone" binding:"required"`
}

type CreateIntentOut struct {
	PaymentID      uint    `json:"paymentId"`
	GatewayOrderID string  `json:"gatewayOrderId"`
	Amount         int64   `json:"amount"` // minor units
	AmountRupees   float64 `json:"amountRupees"`
	Currency       string  `json:"currency"`
	KeyID          string  `json:"keyId"`
}

// CreateIntent snapshots the cart, registers a gateway order for the cart
// total in minor units, and records the attempt. The live cart stays
// untouched until the payment actually completes.
func (s *PaymentService) CreateIntent(ctx context.Context, userID uint, in *CreateIntentIn) (*CreateIntentOut, error) {
	if !phonePattern.MatchString(in.CustomerPhone) {
		return nil, apperr.New(apperr.Validation, "invalid phone number")
	}

	cart, err := s.CartRepo.FindActive(repository.Identity{UserID: userID})
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && len(cart.Items) == 0) {
		return nil, apperr.New(apperr.Validation, "cart is empty")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error creating payment", err)
	}
	if cart.RestaurantID == nil {
		return nil, apperr.New(apperr.Validation, "cart is empty")
	}

	rest, err := s.RestRepo.FindByID(*cart.RestaurantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error creating payment", err)
	}
	if !rest.IsOpen {
		return nil, apperr.New(apperr.Unavailable, "restaurant is currently closed")
	}
	if names := unavailableNames(cart.Items); len(names) > 0 {
		return nil, apperr.Newf(apperr.Unavailable, "no longer available: %s", strings.Join(names, ", "))
	}

	snapshot := entity.CartSnapshot{
		TotalAmount:   cart.TotalAmount,
		CustomerPhone: in.CustomerPhone,
	}
	for _, it := range cart.Items {
		snapshot.Items = append(snapshot.Items, entity.SnapshotItem{
			FoodID:              it.FoodID,
			Name:                it.Food.Name,
			Price:               it.Price,
			Quantity:            it.Quantity,
			SpecialInstructions: it.SpecialInstructions,
		})
	}

	amountMinor := int64(math.Round(cart.TotalAmount * 100))
	receipt := fmt.Sprintf("rcpt_%d_%d", userID, time.Now().Unix())
	gatewayOrderID, err := s.Gateway.CreateOrder(ctx, amountMinor, "INR", receipt, map[string]string{
		"userId":       fmt.Sprint(userID),
		"restaurantId": fmt.Sprint(rest.ID),
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.External, "payment gateway is unavailable, please try again", err)
	}

	payment := &entity.Payment{
		GatewayOrderID: gatewayOrderID,
		UserID:         userID,
		RestaurantID:   rest.ID,
		Amount:         cart.TotalAmount,
		Currency:       "INR",
		Status:         entity.PaymentCreated,
		CartData:       snapshot,
	}
	if err := s.PayRepo.Create(payment); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error creating payment", err)
	}

	return &CreateIntentOut{
		PaymentID:      payment.ID,
		GatewayOrderID: gatewayOrderID,
		Amount:         amountMinor,
		AmountRupees:   cart.TotalAmount,
		Currency:       "INR",
		KeyID:          s.KeyID,
	}, nil
}

type VerifyIn struct {
	GatewayOrderID   string `json:"razorpayOrderId" binding:"required"`
	GatewayPaymentID string `json:"razorpayPaymentId" binding:"required"`
	Signature        string `json:"razorpaySignature" binding:"required"`
}

type VerifyOut struct {
	Order            *entity.Order   `json:"order,omitempty"`
	Payment          *entity.Payment `json:"payment,omitempty"`
	AlreadyProcessed bool            `json:"alreadyProcessed"`
}

// Verify handles the client-side confirmation: check the checkout signature,
// claim the payment, create the order from the snapshot and clear the cart.
// A second call for the same payment returns the existing order with
// AlreadyProcessed set instead of erroring, because the webhook may land
// first.
func (s *PaymentService) Verify(userID uint, in *VerifyIn) (*VerifyOut, error) {
	if !razorpay.VerifyPaymentSignature(in.GatewayOrderID, in.GatewayPaymentID, in.Signature, s.KeySecret) {
		return nil, apperr.New(apperr.Validation, "invalid payment signature")
	}

	payment, err := s.PayRepo.FindByGatewayOrderID(in.GatewayOrderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "payment not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error verifying payment", err)
	}
	if payment.UserID != userID {
		return nil, apperr.New(apperr.Forbidden, "access denied: not your payment")
	}

	return s.settle(payment, in.GatewayPaymentID, in.Signature)
}

// settle is the shared completion path for Verify and the webhook. The claim
// decides the winner; the loser reads back the order the winner created.
func (s *PaymentService) settle(payment *entity.Payment, gatewayPaymentID, signature string) (*VerifyOut, error) {
	var order *entity.Order
	var claimed bool

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		var err error
		claimed, err = s.PayRepo.ClaimCompleted(tx, payment.ID, gatewayPaymentID, signature, now)
		if err != nil || !claimed {
			return err
		}

		// all reads go through tx; sqlite holds the write lock here
		var customer entity.User
		if err := tx.First(&customer, payment.UserID).Error; err != nil {
			return err
		}
		order, err = s.Orders.CreateFromSnapshot(tx, payment, &customer, now)
		if err != nil {
			return err
		}
		if err := s.PayRepo.LinkOrder(tx, payment.ID, order.ID); err != nil {
			return err
		}

		// empty the live cart now that the snapshot became an order
		var cart entity.Cart
		err = tx.Where("user_id = ? AND is_active = ?", payment.UserID, true).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.CartRepo.ClearItems(tx, cart.ID); err != nil {
			return err
		}
		cart.RestaurantID = nil
		cart.TotalAmount = 0
		cart.ItemCount = 0
		cart.ExpiresAt = now.Add(cart.TTL())
		return s.CartRepo.SaveTotals(tx, &cart)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error processing payment", err)
	}

	if !claimed {
		existing, err := s.PayRepo.FindByID(payment.ID)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "error processing payment", err)
		}
		out := &VerifyOut{Payment: existing, AlreadyProcessed: true}
		if existing.OrderID != nil {
			if o, err := s.Orders.OrderRepo.Get(*existing.OrderID); err == nil {
				out.Order = o
			}
		}
		return out, nil
	}

	settled, err := s.PayRepo.FindByID(payment.ID)
	if err != nil {
		settled = payment
	}
	s.sendConfirmation(payment, order)
	return &VerifyOut{Order: order, Payment: settled}, nil
}

// sendConfirmation is fire-and-forget; a mail failure never fails a payment.
func (s *PaymentService) sendConfirmation(payment *entity.Payment, order *entity.Order) {
	customer, err := s.UserRepo.FindByID(payment.UserID)
	if err != nil {
		s.Log.Warn("order confirmation mail skipped", "error", err)
		return
	}
	rest, err := s.RestRepo.FindByID(payment.RestaurantID)
	if err != nil {
		s.Log.Warn("order confirmation mail skipped", "error", err)
		return
	}

	var lines []mail.OrderLine
	for _, it := range order.Items {
		lines = append(lines, mail.OrderLine{Name: it.Name, Price: it.Price, Quantity: it.Quantity})
	}
	html := mail.OrderConfirmationHTML(order.OrderNumber, rest.Name,
		order.CustomerPhone, order.CustomerAddress, lines, order.TotalAmount)

	go func() {
		if err := s.Mail.Send(customer.Email, "Order Confirmation #"+order.OrderNumber, html); err != nil {
			s.Log.Warn("order confirmation mail failed", "orderNumber", order.OrderNumber, "error", err)
		}
	}()
}

type FailureIn struct {
	GatewayOrderID string `json:"razorpayOrderId" binding:"required"`
	Reason         string `json:"reason"`
}

// MarkFailed records a client-reported failure. If the webhook already
// completed the payment, this is a no-op.
func (s *PaymentService) MarkFailed(userID uint, in *FailureIn) error {
	payment, err := s.PayRepo.FindByGatewayOrderID(in.GatewayOrderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.NotFound, "payment not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.Internal, "error recording payment failure", err)
	}
	if payment.UserID != userID {
		return apperr.New(apperr.Forbidden, "access denied: not your payment")
	}
	if err := s.PayRepo.MarkFailed(payment.ID, in.Reason); err != nil {
		return apperr.Wrap(apperr.Internal, "error recording payment failure", err)
	}
	return nil
}

func (s *PaymentService) GetForActor(role string, userID, paymentID uint) (*entity.Payment, error) {
	payment, err := s.PayRepo.FindByID(paymentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "payment not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error fetching payment", err)
	}
	if role != entity.RoleAdmin && payment.UserID != userID {
		return nil, apperr.New(apperr.Forbidden, "access denied: not your payment")
	}
	return payment, nil
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook processes gateway callbacks. When a webhook secret is
// configured the signature over the raw body must match; a deployment
// without one accepts the event as-is. Unknown events and payments we have
// no record of are acknowledged so the gateway stops retrying.
func (s *PaymentService) HandleWebhook(body []byte, signature string) error {
	if s.WebhookSkey != "" && !razorpay.VerifyWebhookSignature(body, signature, s.WebhookSkey) {
		return apperr.New(apperr.Validation, "invalid webhook signature")
	}

	var evt webhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return apperr.Wrap(apperr.Validation, "malformed webhook payload", err)
	}

	switch evt.Event {
	case "payment.captured":
		payment, err := s.PayRepo.FindByGatewayOrderID(evt.Payload.Payment.Entity.OrderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.Log.Warn("webhook for unknown gateway order", "gatewayOrderId", evt.Payload.Payment.Entity.OrderID)
			return nil
		}
		if err != nil {
			return apperr.Wrap(apperr.Internal, "error processing webhook", err)
		}
		out, err := s.settle(payment, evt.Payload.Payment.Entity.ID, signature)
		if err != nil {
			return err
		}
		if out.AlreadyProcessed {
			s.Log.Info("webhook: payment already settled", "paymentId", payment.ID)
		}
		return nil
	case "payment.failed":
		payment, err := s.PayRepo.FindByGatewayOrderID(evt.Payload.Payment.Entity.OrderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return apperr.Wrap(apperr.Internal, "error processing webhook", err)
		}
		return s.PayRepo.MarkFailed(payment.ID, "gateway reported failure")
	default:
		s.Log.Debug("webhook event ignored", "event", evt.Event)
		return nil
	}
}
