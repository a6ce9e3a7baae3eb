package controllers

import (
	"io"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/pkg/resp"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/services"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/utils"

	"github.com/gin-gonic/gin"
)

type PaymentController struct{ Svc *services.PaymentService }

func NewPaymentController(svc *services.PaymentService) *PaymentController {
	return &PaymentController{Svc: svc}
}

// CreateOrder opens a payment intent for the caller's cart.
func (pc *PaymentController) CreateOrder(c *gin.Context) {
	var req services.CreateIntentIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := pc.Svc.CreateIntent(c.Request.Context(), utils.CurrentUserID(c), &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, "payment order created", out)
}

// Verify confirms a checkout from the client-side callback.
func (pc *PaymentController) Verify(c *gin.Context) {
	var req services.VerifyIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := pc.Svc.Verify(utils.CurrentUserID(c), &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	if out.AlreadyProcessed {
		resp.OKMessage(c, "payment already processed", out)
		return
	}
	resp.OKMessage(c, "payment verified", out)
}

// Failure records a client-reported payment failure.
func (pc *PaymentController) Failure(c *gin.Context) {
	var req services.FailureIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := pc.Svc.MarkFailed(utils.CurrentUserID(c), &req); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OKMessage(c, "payment failure recorded", nil)
}

func (pc *PaymentController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	payment, err := pc.Svc.GetForActor(utils.CurrentRole(c), utils.CurrentUserID(c), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, payment)
}

// Webhook handles gateway callbacks. Unauthenticated by design; trust comes
// from the signature over the raw body.
func (pc *PaymentController) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		resp.BadRequest(c, "unreadable body")
		return
	}
	signature := c.GetHeader("X-Razorpay-Signature")
	if err := pc.Svc.HandleWebhook(body, signature); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OKMessage(c, "ok", nil)
}
