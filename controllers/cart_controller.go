package controllers

import (
	"strconv"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/pkg/resp"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/repository"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/services"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartController struct{ Svc *services.CartService }

func NewCartController(svc *services.CartService) *CartController {
	return &CartController{Svc: svc}
}

// identity resolves who the cart belongs to: the authenticated user when a
// valid token rode along (OptionalAuth), else the guest session id from the
// X-Session-ID header.
func (cc *CartController) identity(c *gin.Context) (repository.Identity, bool) {
	if uid := utils.CurrentUserID(c); uid != 0 {
		return repository.Identity{UserID: uid}, true
	}
	if sid := c.GetHeader("X-Session-ID"); sid != "" {
		return repository.Identity{SessionID: sid}, true
	}
	resp.BadRequest(c, "missing session id")
	return repository.Identity{}, false
}

// NewSession mints a guest session id for anonymous carts.
func (cc *CartController) NewSession(c *gin.Context) {
	resp.OK(c, gin.H{"sessionId": uuid.NewString()})
}

func (cc *CartController) Get(c *gin.Context) {
	id, ok := cc.identity(c)
	if !ok {
		return
	}
	cart, err := cc.Svc.Get(id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, cart)
}

func (cc *CartController) Count(c *gin.Context) {
	id, ok := cc.identity(c)
	if !ok {
		return
	}
	count, err := cc.Svc.Count(id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"count": count})
}

func (cc *CartController) Add(c *gin.Context) {
	id, ok := cc.identity(c)
	if !ok {
		return
	}
	var req services.AddIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	cart, err := cc.Svc.Add(id, &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OKMessage(c, "item added to cart", cart)
}

type updateQuantityReq struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (cc *CartController) UpdateQuantity(c *gin.Context) {
	id, ok := cc.identity(c)
	if !ok {
		return
	}
	foodID, err := strconv.ParseUint(c.Param("foodId"), 10, 32)
	if err != nil {
		resp.BadRequest(c, "invalid food id")
		return
	}
	var req updateQuantityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	cart, svcErr := cc.Svc.UpdateQuantity(id, uint(foodID), req.Quantity)
	if svcErr != nil {
		resp.Error(c, svcErr)
		return
	}
	resp.OK(c, cart)
}

func (cc *CartController) Remove(c *gin.Context) {
	id, ok := cc.identity(c)
	if !ok {
		return
	}
	foodID, err := strconv.ParseUint(c.Param("foodId"), 10, 32)
	if err != nil {
		resp.BadRequest(c, "invalid food id")
		return
	}
	cart, svcErr := cc.Svc.Remove(id, uint(foodID))
	if svcErr != nil {
		resp.Error(c, svcErr)
		return
	}
	resp.OKMessage(c, "item removed from cart", cart)
}

func (cc *CartController) Clear(c *gin.Context) {
	id, ok := cc.identity(c)
	if !ok {
		return
	}
	cart, err := cc.Svc.Clear(id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OKMessage(c, "cart cleared", cart)
}

type mergeReq struct {
	SessionID string `json:"sessionId" binding:"required"`
}

// Merge requires an authenticated user; the guest session comes in the body.
func (cc *CartController) Merge(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "login required")
		return
	}
	var req mergeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	cart, msg, err := cc.Svc.Merge(req.SessionID, uid)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OKMessage(c, msg, cart)
}
