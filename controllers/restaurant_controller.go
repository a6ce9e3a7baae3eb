package controllers

import (
	"github.com/Abhiram-Sandhe/TakeAwayBackend/pkg/resp"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/services"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/utils"

	"github.com/gin-gonic/gin"
)

type RestaurantController struct{ Svc *services.RestaurantService }

func NewRestaurantController(svc *services.RestaurantService) *RestaurantController {
	return &RestaurantController{Svc: svc}
}

func (rc *RestaurantController) List(c *gin.Context) {
	out, err := rc.Svc.List()
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

func (rc *RestaurantController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rest, err := rc.Svc.Get(id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, rest)
}

func (rc *RestaurantController) Menu(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	foods, err := rc.Svc.Menu(id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, foods)
}

func (rc *RestaurantController) Categories(c *gin.Context) {
	cats, err := rc.Svc.Categories()
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, cats)
}

// Mine returns the caller's own restaurant for the owner dashboard.
func (rc *RestaurantController) Mine(c *gin.Context) {
	rest, err := rc.Svc.MineFirst(utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, rest)
}

type setOpenReq struct {
	IsOpen *bool `json:"isOpen" binding:"required"`
}

func (rc *RestaurantController) SetOpen(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req setOpenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	rest, err := rc.Svc.SetOpen(utils.CurrentRole(c), utils.CurrentUserID(c), id, *req.IsOpen)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OKMessage(c, "restaurant updated", rest)
}

func (rc *RestaurantController) CreateFood(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.FoodIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	food, err := rc.Svc.CreateFood(utils.CurrentRole(c), utils.CurrentUserID(c), id, &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, "food item created", food)
}

func (rc *RestaurantController) UpdateFood(c *gin.Context) {
	id, ok := paramID(c, "foodId")
	if !ok {
		return
	}
	var req services.FoodIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	food, err := rc.Svc.UpdateFood(utils.CurrentRole(c), utils.CurrentUserID(c), id, &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OKMessage(c, "food item updated", food)
}

type setAvailableReq struct {
	IsAvailable *bool `json:"isAvailable" binding:"required"`
}

func (rc *RestaurantController) SetFoodAvailable(c *gin.Context) {
	id, ok := paramID(c, "foodId")
	if !ok {
		return
	}
	var req setAvailableReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	food, err := rc.Svc.SetFoodAvailable(utils.CurrentRole(c), utils.CurrentUserID(c), id, *req.IsAvailable)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OKMessage(c, "food item updated", food)
}
