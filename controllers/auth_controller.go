package controllers

import (
	"github.com/Abhiram-Sandhe/TakeAwayBackend/pkg/resp"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/services"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct{ Svc *services.AuthService }

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{Svc: svc}
}

func (ac *AuthController) Register(c *gin.Context) {
	var req services.RegisterIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := ac.Svc.Register(&req); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OKMessage(c, "verification code sent to your email", nil)
}

func (ac *AuthController) VerifyOtp(c *gin.Context) {
	var req services.VerifyOtpIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := ac.Svc.VerifyOtp(&req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, "account created", out)
}

func (ac *AuthController) Login(c *gin.Context) {
	var req services.LoginIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := ac.Svc.Login(&req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.Svc.Logout(utils.CurrentToken(c), utils.CurrentUserID(c)); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OKMessage(c, "logged out", nil)
}

func (ac *AuthController) Me(c *gin.Context) {
	user, err := ac.Svc.Me(utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, user)
}
