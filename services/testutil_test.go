package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/entity"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	// one named in-memory database per test; cache=shared keeps it alive
	// across the pool's connections
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&entity.User{}, &entity.TokenBlacklist{}, &entity.OtpCode{},
		&entity.Category{}, &entity.Restaurant{}, &entity.Food{},
		&entity.Cart{}, &entity.CartItem{},
		&entity.Order{}, &entity.OrderItem{}, &entity.OrderEvent{},
		&entity.Payment{},
		&entity.RestaurantApplication{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

type fixture struct {
	db       *gorm.DB
	carts    *CartService
	orders   *OrderService
	access   *AccessService
	userRepo *repository.UserRepository
	cartRepo *repository.CartRepository
	restRepo *repository.RestaurantRepository
	foodRepo *repository.FoodRepository
	ordRepo  *repository.OrderRepository
	payRepo  *repository.PaymentRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testDB(t)

	userRepo := repository.NewUserRepository(db)
	restRepo := repository.NewRestaurantRepository(db)
	foodRepo := repository.NewFoodRepository(db)
	cartRepo := repository.NewCartRepository(db)
	ordRepo := repository.NewOrderRepository(db)
	payRepo := repository.NewPaymentRepository(db)

	access := NewAccessService(restRepo)
	carts := NewCartService(db, cartRepo, foodRepo, restRepo)
	orders := NewOrderService(db, ordRepo, restRepo, userRepo, foodRepo, cartRepo, access)

	return &fixture{
		db: db, carts: carts, orders: orders, access: access,
		userRepo: userRepo, cartRepo: cartRepo, restRepo: restRepo,
		foodRepo: foodRepo, ordRepo: ordRepo, payRepo: payRepo,
	}
}

func (f *fixture) user(t *testing.T, role string) *entity.User {
	t.Helper()
	var cnt int64
	f.db.Model(&entity.User{}).Count(&cnt)
	u := &entity.User{
		Name:     fmt.Sprintf("User %d", cnt+1),
		Email:    fmt.Sprintf("user%d@test.local", cnt+1),
		Password: "x",
		Phone:    "9876543210",
		Address:  "12 Test Street",
		Role:     role,
	}
	if err := f.db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (f *fixture) restaurant(t *testing.T, ownerID uint, code string) *entity.Restaurant {
	t.Helper()
	r := &entity.Restaurant{
		Name:    "Resto " + code,
		Code:    code,
		Address: "1 Food Lane",
		IsOpen:  true, IsActive: true,
		OwnerID: ownerID,
	}
	if err := f.db.Create(r).Error; err != nil {
		t.Fatalf("create restaurant: %v", err)
	}
	return r
}

func (f *fixture) food(t *testing.T, restID uint, name string, price float64) *entity.Food {
	t.Helper()
	fd := &entity.Food{Name: name, Price: price, IsAvailable: true, RestaurantID: restID}
	if err := f.db.Create(fd).Error; err != nil {
		t.Fatalf("create food: %v", err)
	}
	return fd
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeGateway returns canned order ids and records calls.
type fakeGateway struct {
	orders []int64 // amounts received, minor units
	fail   bool
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, _, _ string, _ map[string]string) (string, error) {
	if g.fail {
		return "", fmt.Errorf("gateway down")
	}
	g.orders = append(g.orders, amount)
	return fmt.Sprintf("order_fake_%d", len(g.orders)), nil
}

// fakeMailer records sends; set fail to simulate delivery errors.
type fakeMailer struct {
	sent []string // recipient addresses
	fail bool
}

func (m *fakeMailer) Send(to, _, _ string) error {
	if m.fail {
		return fmt.Errorf("smtp down")
	}
	m.sent = append(m.sent, to)
	return nil
}
