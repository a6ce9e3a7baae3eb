package controllers

import (
	"strconv"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/pkg/resp"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/services"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/utils"

	"github.com/gin-gonic/gin"
)

type RestaurantApplicationController struct {
	Svc *services.RestaurantApplicationService
}

func NewRestaurantApplicationController(svc *services.RestaurantApplicationService) *RestaurantApplicationController {
	return &RestaurantApplicationController{Svc: svc}
}

// Apply is public: prospective owners have no account yet.
func (rac *RestaurantApplicationController) Apply(c *gin.Context) {
	var req services.ApplyIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	app, err := rac.Svc.Apply(&req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, "application submitted", app)
}

func (rac *RestaurantApplicationController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	out, err := rac.Svc.List(c.Query("status"), page, limit)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

type reviewReq struct {
	Notes string `json:"notes"`
}

func (rac *RestaurantApplicationController) Approve(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req reviewReq
	_ = c.ShouldBindJSON(&req)

	app, err := rac.Svc.Approve(utils.CurrentUserID(c), id, req.Notes)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OKMessage(c, "application approved", app)
}

func (rac *RestaurantApplicationController) Reject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req reviewReq
	_ = c.ShouldBindJSON(&req)

	app, err := rac.Svc.Reject(utils.CurrentUserID(c), id, req.Notes)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OKMessage(c, "application rejected", app)
}
