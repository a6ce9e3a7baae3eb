package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/entity"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/pkg/apperr"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/repository"
)

func (f *fixture) placeCODOrder(t *testing.T, customer *entity.User, food *entity.Food, qty int) *entity.Order {
	t.Helper()
	id := repository.Identity{UserID: customer.ID}
	if _, err := f.carts.Add(id, &AddIn{FoodID: food.ID, Quantity: qty}); err != nil {
		t.Fatalf("cart add: %v", err)
	}
	order, err := f.orders.Create(customer.ID, &CreateOrderIn{
		CustomerName:    customer.Name,
		CustomerPhone:   "9876543210",
		CustomerAddress: customer.Address,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func TestOrderNumberSequencePerRestaurantPerDay(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleRestaurant)
	rest := f.restaurant(t, owner.ID, "R007")
	food := f.food(t, rest.ID, "Pulao", 120)
	customer := f.user(t, entity.RoleCustomer)

	now := time.Now()
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	prefix := fmt.Sprintf("R007%d%02d", weekday, now.Day())

	for i := 1; i <= 3; i++ {
		order := f.placeCODOrder(t, customer, food, 1)
		want := fmt.Sprintf("%s%02d", prefix, i)
		if order.OrderNumber != want {
			t.Errorf("order %d number = %q, want %q", i, order.OrderNumber, want)
		}
	}

	// a second restaurant starts its own sequence
	rest2 := f.restaurant(t, owner.ID, "R008")
	food2 := f.food(t, rest2.ID, "Korma", 140)
	order := f.placeCODOrder(t, customer, food2, 1)
	want := fmt.Sprintf("R008%d%02d01", weekday, now.Day())
	if order.OrderNumber != want {
		t.Errorf("second restaurant number = %q, want %q", order.OrderNumber, want)
	}
}

func TestCODOrderSnapshotsCartAndClearsIt(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleRestaurant)
	rest := f.restaurant(t, owner.ID, "R001")
	food := f.food(t, rest.ID, "Butter Naan", 45)
	customer := f.user(t, entity.RoleCustomer)

	order := f.placeCODOrder(t, customer, food, 4)

	if order.TotalAmount != 180 {
		t.Errorf("TotalAmount = %v, want 180", order.TotalAmount)
	}
	if order.Status != entity.OrderPending || order.PaymentMethod != entity.PaymentMethodCOD {
		t.Errorf("status=%s method=%s", order.Status, order.PaymentMethod)
	}
	if len(order.Items) != 1 || order.Items[0].Price != 45 || order.Items[0].Name != "Butter Naan" {
		t.Errorf("items not snapshotted: %+v", order.Items)
	}

	cart, err := f.carts.Get(repository.Identity{UserID: customer.ID})
	if err != nil {
		t.Fatalf("Get cart: %v", err)
	}
	if len(cart.Items) != 0 || cart.TotalAmount != 0 {
		t.Errorf("cart not cleared after order")
	}

	// later menu edits must not touch the billed price
	food.Price = 99
	if err := f.foodRepo.Update(food); err != nil {
		t.Fatalf("reprice: %v", err)
	}
	got, err := f.ordRepo.Get(order.ID)
	if err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if got.Items[0].Price != 45 {
		t.Errorf("order item price changed to %v", got.Items[0].Price)
	}
}

func TestCODOrderBillsCurrentMenuPrice(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleRestaurant)
	rest := f.restaurant(t, owner.ID, "R001")
	food := f.food(t, rest.ID, "Masala Dosa", 100)
	customer := f.user(t, entity.RoleCustomer)

	id := repository.Identity{UserID: customer.ID}
	if _, err := f.carts.Add(id, &AddIn{FoodID: food.ID, Quantity: 2}); err != nil {
		t.Fatalf("cart add: %v", err)
	}

	// the menu is repriced between add-to-cart and placement
	food.Price = 150
	if err := f.foodRepo.Update(food); err != nil {
		t.Fatalf("reprice: %v", err)
	}

	order, err := f.orders.Create(customer.ID, &CreateOrderIn{
		CustomerName: customer.Name, CustomerPhone: "9876543210", CustomerAddress: customer.Address,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.TotalAmount != 300 {
		t.Errorf("TotalAmount = %v, want 300 at the current price", order.TotalAmount)
	}
	if len(order.Items) != 1 || order.Items[0].Price != 150 {
		t.Errorf("items billed at %+v, want the current price 150", order.Items)
	}
}

func TestOrderCreateFromExplicitItems(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleRestaurant)
	rest := f.restaurant(t, owner.ID, "R001")
	dosa := f.food(t, rest.ID, "Dosa", 80)
	idli := f.food(t, rest.ID, "Idli", 40)
	customer := f.user(t, entity.RoleCustomer)

	order, err := f.orders.Create(customer.ID, &CreateOrderIn{
		CustomerName: customer.Name, CustomerPhone: "9876543210", CustomerAddress: customer.Address,
		RestaurantID: rest.ID,
		Items: []OrderItemIn{
			{FoodID: dosa.ID, Quantity: 2},
			{FoodID: idli.ID, Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.TotalAmount != 280 {
		t.Errorf("TotalAmount = %v, want 280", order.TotalAmount)
	}
	if len(order.Items) != 2 {
		t.Errorf("items = %+v", order.Items)
	}
}

func TestOrderCreateRejectsMixedRestaurants(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleRestaurant)
	rest1 := f.restaurant(t, owner.ID, "R001")
	rest2 := f.restaurant(t, owner.ID, "R002")
	dosa := f.food(t, rest1.ID, "Dosa", 80)
	pizza := f.food(t, rest2.ID, "Pizza", 200)
	customer := f.user(t, entity.RoleCustomer)

	_, err := f.orders.Create(customer.ID, &CreateOrderIn{
		CustomerName: "x", CustomerPhone: "9876543210", CustomerAddress: "y",
		Items: []OrderItemIn{
			{FoodID: dosa.ID, Quantity: 1},
			{FoodID: pizza.ID, Quantity: 1},
		},
	})
	if !apperr.Is(err, apperr.Validation) {
		t.Fatalf("expected Validation, got %v", err)
	}

	// an unknown food id is rejected too
	_, err = f.orders.Create(customer.ID, &CreateOrderIn{
		CustomerName: "x", CustomerPhone: "9876543210", CustomerAddress: "y",
		Items:        []OrderItemIn{{FoodID: 9999, Quantity: 1}},
	})
	if !apperr.Is(err, apperr.Validation) {
		t.Fatalf("unknown food: expected Validation, got %v", err)
	}
}

func TestOrderCreateEmptyCart(t *testing.T) {
	f := newFixture(t)
	customer := f.user(t, entity.RoleCustomer)

	_, err := f.orders.Create(customer.ID, &CreateOrderIn{
		CustomerName: "x", CustomerPhone: "9876543210", CustomerAddress: "y",
	})
	if !apperr.Is(err, apperr.Validation) {
		t.Fatalf("expected Validation, got %v", err)
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleRestaurant)
	rest := f.restaurant(t, owner.ID, "R001")
	food := f.food(t, rest.ID, "Fried Rice", 110)
	customer := f.user(t, entity.RoleCustomer)
	order := f.placeCODOrder(t, customer, food, 1)

	// skipping a step is rejected
	if _, err := f.orders.UpdateStatus(entity.RoleRestaurant, owner.ID, order.ID, entity.OrderReady); !apperr.Is(err, apperr.Conflict) {
		t.Errorf("pending->ready: expected Conflict, got %v", err)
	}

	for _, next := range []string{entity.OrderConfirmed, entity.OrderPreparing, entity.OrderReady, entity.OrderDelivered} {
		got, err := f.orders.UpdateStatus(entity.RoleRestaurant, owner.ID, order.ID, next)
		if err != nil {
			t.Fatalf("-> %s: %v", next, err)
		}
		if got.Status != next {
			t.Errorf("status = %s, want %s", got.Status, next)
		}
	}

	// delivered is terminal
	if _, err := f.orders.UpdateStatus(entity.RoleRestaurant, owner.ID, order.ID, entity.OrderConfirmed); !apperr.Is(err, apperr.Conflict) {
		t.Errorf("delivered->confirmed: expected Conflict, got %v", err)
	}

	// customers cannot drive the kitchen lifecycle
	order2 := f.placeCODOrder(t, customer, food, 1)
	if _, err := f.orders.UpdateStatus(entity.RoleCustomer, customer.ID, order2.ID, entity.OrderConfirmed); !apperr.Is(err, apperr.Forbidden) {
		t.Errorf("customer update: expected Forbidden, got %v", err)
	}
}

func TestOrderUpdateStatusWrongRestaurant(t *testing.T) {
	f := newFixture(t)
	ownerA := f.user(t, entity.RoleRestaurant)
	ownerB := f.user(t, entity.RoleRestaurant)
	restA := f.restaurant(t, ownerA.ID, "R001")
	f.restaurant(t, ownerB.ID, "R002")
	food := f.food(t, restA.ID, "Shahi Paneer", 170)
	customer := f.user(t, entity.RoleCustomer)
	order := f.placeCODOrder(t, customer, food, 1)

	if _, err := f.orders.UpdateStatus(entity.RoleRestaurant, ownerB.ID, order.ID, entity.OrderConfirmed); !apperr.Is(err, apperr.Forbidden) {
		t.Fatalf("cross-restaurant update: expected Forbidden, got %v", err)
	}

	// admin bypasses ownership
	if _, err := f.orders.UpdateStatus(entity.RoleAdmin, 999, order.ID, entity.OrderConfirmed); err != nil {
		t.Fatalf("admin update: %v", err)
	}
}

func TestOrderCancelRules(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleRestaurant)
	rest := f.restaurant(t, owner.ID, "R001")
	food := f.food(t, rest.ID, "Pav Bhaji", 95)
	customer := f.user(t, entity.RoleCustomer)

	// customer can cancel while pending, and the reason lands in notes
	order := f.placeCODOrder(t, customer, food, 1)
	got, err := f.orders.Cancel(entity.RoleCustomer, customer.ID, order.ID, &CancelIn{Reason: "ordered by mistake"})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Status != entity.OrderCancelled {
		t.Errorf("status = %s", got.Status)
	}
	if got.Notes != "Cancelled: ordered by mistake" {
		t.Errorf("notes = %q", got.Notes)
	}

	// once preparing, the customer is locked out but staff are not
	order = f.placeCODOrder(t, customer, food, 1)
	f.orders.UpdateStatus(entity.RoleRestaurant, owner.ID, order.ID, entity.OrderConfirmed)
	f.orders.UpdateStatus(entity.RoleRestaurant, owner.ID, order.ID, entity.OrderPreparing)

	if _, err := f.orders.Cancel(entity.RoleCustomer, customer.ID, order.ID, nil); !apperr.Is(err, apperr.Conflict) {
		t.Errorf("customer cancel of preparing order: expected Conflict, got %v", err)
	}
	if _, err := f.orders.Cancel(entity.RoleRestaurant, owner.ID, order.ID, &CancelIn{Reason: "out of stock"}); err != nil {
		t.Errorf("staff cancel of preparing order: %v", err)
	}

	// a foreign customer can neither view nor cancel
	stranger := f.user(t, entity.RoleCustomer)
	order = f.placeCODOrder(t, customer, food, 1)
	if _, err := f.orders.Cancel(entity.RoleCustomer, stranger.ID, order.ID, nil); !apperr.Is(err, apperr.Forbidden) {
		t.Errorf("stranger cancel: expected Forbidden, got %v", err)
	}
}

func TestOrderListScopedByRole(t *testing.T) {
	f := newFixture(t)
	ownerA := f.user(t, entity.RoleRestaurant)
	ownerB := f.user(t, entity.RoleRestaurant)
	restA := f.restaurant(t, ownerA.ID, "R001")
	restB := f.restaurant(t, ownerB.ID, "R002")
	foodA := f.food(t, restA.ID, "Uttapam", 70)
	foodB := f.food(t, restB.ID, "Manchurian", 130)
	cust1 := f.user(t, entity.RoleCustomer)
	cust2 := f.user(t, entity.RoleCustomer)

	f.placeCODOrder(t, cust1, foodA, 1)
	f.placeCODOrder(t, cust1, foodB, 1)
	f.placeCODOrder(t, cust2, foodB, 2)

	cases := []struct {
		role   string
		userID uint
		want   int
	}{
		{entity.RoleCustomer, cust1.ID, 2},
		{entity.RoleCustomer, cust2.ID, 1},
		{entity.RoleRestaurant, ownerA.ID, 1},
		{entity.RoleRestaurant, ownerB.ID, 2},
		{entity.RoleAdmin, 1, 3},
	}
	for _, tc := range cases {
		out, err := f.orders.ListForActor(tc.role, tc.userID, ListOrdersIn{})
		if err != nil {
			t.Fatalf("%s/%d: %v", tc.role, tc.userID, err)
		}
		if len(out.Orders) != tc.want || out.Total != int64(tc.want) {
			t.Errorf("%s/%d: got %d orders (total %d), want %d", tc.role, tc.userID, len(out.Orders), out.Total, tc.want)
		}
	}

	// an owner with no restaurants sees nothing, not everything
	lonely := f.user(t, entity.RoleRestaurant)
	out, err := f.orders.ListForActor(entity.RoleRestaurant, lonely.ID, ListOrdersIn{})
	if err != nil {
		t.Fatalf("lonely owner: %v", err)
	}
	if out.Total != 0 {
		t.Errorf("owner without restaurants sees %d orders", out.Total)
	}
}

func TestOrderStatsToday(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleRestaurant)
	rest := f.restaurant(t, owner.ID, "R001")
	food := f.food(t, rest.ID, "Chole", 85)
	customer := f.user(t, entity.RoleCustomer)

	f.placeCODOrder(t, customer, food, 1)
	order := f.placeCODOrder(t, customer, food, 2)
	f.orders.Cancel(entity.RoleCustomer, customer.ID, order.ID, nil)

	out, err := f.orders.StatsToday(entity.RoleRestaurant, owner.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if out.TotalOrders != 2 {
		t.Errorf("TotalOrders = %d, want 2", out.TotalOrders)
	}
	counts := map[string]int64{}
	for _, sc := range out.ByStatus {
		counts[sc.Status] = sc.Count
	}
	if counts[entity.OrderPending] != 1 || counts[entity.OrderCancelled] != 1 {
		t.Errorf("ByStatus = %v", counts)
	}
	// COD orders are unpaid, so revenue stays zero
	if out.Revenue != 0 {
		t.Errorf("Revenue = %v, want 0", out.Revenue)
	}
}

func TestOrderChangeFeedRecordsEveryWrite(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleRestaurant)
	rest := f.restaurant(t, owner.ID, "R001")
	food := f.food(t, rest.ID, "Jalebi", 55)
	customer := f.user(t, entity.RoleCustomer)

	order := f.placeCODOrder(t, customer, food, 1)
	f.orders.UpdateStatus(entity.RoleRestaurant, owner.ID, order.ID, entity.OrderConfirmed)

	events, err := f.ordRepo.PendingEvents(10)
	if err != nil {
		t.Fatalf("pending events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Kind != entity.OrderEventInsert || events[0].Status != entity.OrderPending {
		t.Errorf("event 0 = %+v", events[0])
	}
	if events[1].Kind != entity.OrderEventUpdate || events[1].Status != entity.OrderConfirmed {
		t.Errorf("event 1 = %+v", events[1])
	}

	if err := f.ordRepo.MarkEventProcessed(events[0].ID, time.Now()); err != nil {
		t.Fatalf("mark processed: %v", err)
	}
	events, _ = f.ordRepo.PendingEvents(10)
	if len(events) != 1 {
		t.Errorf("processed event still pending")
	}
}
