package controllers

import (
	"strconv"
	"time"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/pkg/resp"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/services"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct{ Svc *services.OrderService }

func NewOrderController(svc *services.OrderService) *OrderController {
	return &OrderController{Svc: svc}
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		resp.BadRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// Create places a cash-on-delivery order from the caller's cart.
func (oc *OrderController) Create(c *gin.Context) {
	var req services.CreateOrderIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	order, err := oc.Svc.Create(utils.CurrentUserID(c), &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, "order placed", order)
}

func (oc *OrderController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := oc.Svc.GetForActor(utils.CurrentRole(c), utils.CurrentUserID(c), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, order)
}

// List returns orders scoped to the caller's role; supports ?status=,
// ?date=YYYY-MM-DD, ?page= and ?limit=.
func (oc *OrderController) List(c *gin.Context) {
	in := services.ListOrdersIn{Status: c.Query("status")}
	in.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	in.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if d := c.Query("date"); d != "" {
		t, err := time.ParseInLocation("2006-01-02", d, time.Local)
		if err != nil {
			resp.BadRequest(c, "invalid date, expected YYYY-MM-DD")
			return
		}
		in.Date = &t
	}

	out, err := oc.Svc.ListForActor(utils.CurrentRole(c), utils.CurrentUserID(c), in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

type updateStatusReq struct {
	Status string `json:"status" binding:"required"`
}

func (oc *OrderController) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	order, err := oc.Svc.UpdateStatus(utils.CurrentRole(c), utils.CurrentUserID(c), id, req.Status)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OKMessage(c, "order status updated", order)
}

func (oc *OrderController) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.CancelIn
	// body is optional; a bare cancel carries no reason
	_ = c.ShouldBindJSON(&req)

	order, err := oc.Svc.Cancel(utils.CurrentRole(c), utils.CurrentUserID(c), id, &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OKMessage(c, "order cancelled", order)
}

func (oc *OrderController) Stats(c *gin.Context) {
	out, err := oc.Svc.StatsToday(utils.CurrentRole(c), utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}
