package controllers

import (
	"github.com/Abhiram-Sandhe/TakeAwayBackend/pkg/resp"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/services"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	Svc *services.AdminService
}

func NewAdminController(svc *services.AdminService) *AdminController {
	return &AdminController{Svc: svc}
}

func (ac *AdminController) CreateUser(c *gin.Context) {
	var req services.CreateUserIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	user, err := ac.Svc.CreateUser(&req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, "user created", user)
}

func (ac *AdminController) ListUsers(c *gin.Context) {
	users, err := ac.Svc.ListUsers()
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, users)
}

func (ac *AdminController) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ac.Svc.DeleteUser(id); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OKMessage(c, "user deleted", nil)
}

func (ac *AdminController) ListRestaurants(c *gin.Context) {
	rests, err := ac.Svc.ListRestaurants()
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, rests)
}

func (ac *AdminController) CreateRestaurant(c *gin.Context) {
	var req services.AdminCreateRestaurantIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	rest, err := ac.Svc.CreateRestaurant(&req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, "restaurant created", rest)
}

func (ac *AdminController) UpdateRestaurant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.AdminUpdateRestaurantIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	rest, err := ac.Svc.UpdateRestaurant(id, &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OKMessage(c, "restaurant updated", rest)
}

func (ac *AdminController) DeleteRestaurant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ac.Svc.DeleteRestaurant(id); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OKMessage(c, "restaurant deleted", nil)
}
