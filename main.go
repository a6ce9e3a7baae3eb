package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/configs"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/controllers"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/external/mail"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/external/razorpay"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/pkg/logging"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/pkg/shutdown"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/repository"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/routes"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/services"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/stream"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/ws"

	"github.com/gin-gonic/gin"
)

const housekeepingInterval = time.Hour

func main() {
	log := logging.New()
	cfg := configs.LoadConfig()

	configs.ConnectionDB(cfg.DBSource)
	configs.SetupDatabase()
	if err := configs.SeedAdmin(cfg); err != nil {
		log.Error("admin seed failed", "error", err)
		os.Exit(1)
	}
	if err := configs.SeedCategories(); err != nil {
		log.Error("category seed failed", "error", err)
		os.Exit(1)
	}

	db := configs.DB()

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	restRepo := repository.NewRestaurantRepository(db)
	foodRepo := repository.NewFoodRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	payRepo := repository.NewPaymentRepository(db)
	appRepo := repository.NewRestaurantApplicationRepository(db)

	mailer := mail.NewMailer(cfg.MailAPIKey, cfg.MailFrom)
	gateway := razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	access := services.NewAccessService(restRepo)
	cartSvc := services.NewCartService(db, cartRepo, foodRepo, restRepo)
	orderSvc := services.NewOrderService(db, orderRepo, restRepo, userRepo, foodRepo, cartRepo, access)
	paySvc := services.NewPaymentService(db, payRepo, cartRepo, restRepo, userRepo, orderSvc,
		gateway, mailer, cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayWebhookSecret, log)
	authSvc := services.NewAuthService(db, userRepo, tokenRepo, cartSvc, mailer, cfg.JWTSecret, cfg.JWTTTL, log)
	restSvc := services.NewRestaurantService(restRepo, foodRepo, access)
	appSvc := services.NewRestaurantApplicationService(db, appRepo, userRepo, restRepo)
	adminSvc := services.NewAdminService(db, userRepo, restRepo, foodRepo)

	hub := ws.NewOrderHub(log)
	go hub.Run()

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	watcher := stream.NewWatcher(orderRepo, hub, log)
	go watcher.Run(ctx)

	// sqlite has no TTL indexes; expire carts, tokens and pending
	// registrations from here instead
	go func() {
		ticker := time.NewTicker(housekeepingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				now := time.Now()
				if err := cartSvc.PurgeExpired(now); err != nil {
					log.Warn("cart purge failed", "error", err)
				}
				authSvc.PurgeExpired(now)
			}
		}
	}()

	r := gin.Default()
	routes.Setup(r, routes.Deps{
		Config:       cfg,
		Tokens:       tokenRepo,
		Admin:        controllers.NewAdminController(adminSvc),
		Auth:         controllers.NewAuthController(authSvc),
		Cart:         controllers.NewCartController(cartSvc),
		Order:        controllers.NewOrderController(orderSvc),
		Payment:      controllers.NewPaymentController(paySvc),
		Restaurant:   controllers.NewRestaurantController(restSvc),
		Applications: controllers.NewRestaurantApplicationController(appSvc),
		OrderSocket:  ws.NewOrderSocket(hub, access),
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("server listening", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
