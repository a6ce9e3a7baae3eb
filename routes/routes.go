package routes

import (
	"github.com/Abhiram-Sandhe/TakeAwayBackend/configs"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/controllers"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/entity"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/middlewares"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/repository"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/ws"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Config *configs.Config
	Tokens *repository.TokenRepository

	Admin        *controllers.AdminController
	Auth         *controllers.AuthController
	Cart         *controllers.CartController
	Order        *controllers.OrderController
	Payment      *controllers.PaymentController
	Restaurant   *controllers.RestaurantController
	Applications *controllers.RestaurantApplicationController
	OrderSocket  *ws.OrderSocket
}

func Setup(r *gin.Engine, d Deps) {
	r.Use(middlewares.CORSMiddleware())

	authed := middlewares.AuthMiddleware(d.Config.JWTSecret, d.Tokens)
	staff := middlewares.AuthMiddleware(d.Config.JWTSecret, d.Tokens, entity.RoleRestaurant, entity.RoleAdmin)
	admin := middlewares.AuthMiddleware(d.Config.JWTSecret, d.Tokens, entity.RoleAdmin)
	optional := middlewares.OptionalAuth(d.Config.JWTSecret, d.Tokens)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", d.Auth.Register)
		auth.POST("/verify-otp", d.Auth.VerifyOtp)
		auth.POST("/login", d.Auth.Login)
		auth.POST("/logout", authed, d.Auth.Logout)
		auth.GET("/me", authed, d.Auth.Me)
	}

	// browsing is public
	api.GET("/restaurants", d.Restaurant.List)
	api.GET("/restaurants/:id", d.Restaurant.Get)
	api.GET("/restaurants/:id/menu", d.Restaurant.Menu)
	api.GET("/categories", d.Restaurant.Categories)

	// carts work for guests (X-Session-ID) and users (bearer token) alike
	cart := api.Group("/cart", optional)
	{
		cart.POST("/session", d.Cart.NewSession)
		cart.GET("", d.Cart.Get)
		cart.GET("/count", d.Cart.Count)
		cart.POST("/add", d.Cart.Add)
		cart.PUT("/update/:foodId", d.Cart.UpdateQuantity)
		cart.DELETE("/remove/:foodId", d.Cart.Remove)
		cart.DELETE("", d.Cart.Clear)
		cart.POST("/merge", d.Cart.Merge)
	}

	orders := api.Group("/orders", authed)
	{
		orders.POST("", d.Order.Create)
		orders.GET("", d.Order.List)
		orders.GET("/stats", d.Order.Stats)
		orders.GET("/:id", d.Order.Get)
		orders.PATCH("/:id/status", staff, d.Order.UpdateStatus)
		orders.PATCH("/:id/cancel", d.Order.Cancel)
	}

	payments := api.Group("/payments")
	{
		payments.POST("/create-order", authed, d.Payment.CreateOrder)
		payments.POST("/verify", authed, d.Payment.Verify)
		payments.POST("/failure", authed, d.Payment.Failure)
		payments.GET("/:id", authed, d.Payment.Get)
		payments.POST("/webhook", d.Payment.Webhook) // signature-authenticated
	}

	// owner dashboard and menu management
	manage := api.Group("/manage", staff)
	{
		manage.GET("/restaurant", d.Restaurant.Mine)
		manage.PATCH("/restaurants/:id/open", d.Restaurant.SetOpen)
		manage.POST("/restaurants/:id/foods", d.Restaurant.CreateFood)
		manage.PUT("/foods/:foodId", d.Restaurant.UpdateFood)
		manage.PATCH("/foods/:foodId/availability", d.Restaurant.SetFoodAvailable)
	}

	// back office: direct user and restaurant management
	backoffice := api.Group("/admin", admin)
	{
		backoffice.POST("/users", d.Admin.CreateUser)
		backoffice.GET("/users", d.Admin.ListUsers)
		backoffice.DELETE("/users/:id", d.Admin.DeleteUser)
		backoffice.GET("/restaurants", d.Admin.ListRestaurants)
		backoffice.POST("/restaurants", d.Admin.CreateRestaurant)
		backoffice.PUT("/restaurants/:id", d.Admin.UpdateRestaurant)
		backoffice.DELETE("/restaurants/:id", d.Admin.DeleteRestaurant)
	}

	api.POST("/restaurant-applications", d.Applications.Apply)
	apps := api.Group("/admin/restaurant-applications", admin)
	{
		apps.GET("", d.Applications.List)
		apps.POST("/:id/approve", d.Applications.Approve)
		apps.POST("/:id/reject", d.Applications.Reject)
	}

	r.GET("/ws/orders", middlewares.WSAuthMiddleware(d.Config.JWTSecret, d.Tokens), d.OrderSocket.HandleWebSocket)
}
