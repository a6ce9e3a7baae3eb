package stream

import (
	"testing"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/entity"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/repository"
)

func testView() *repository.OrderView {
	o := &entity.Order{
		OrderNumber:  "R00131501",
		CustomerID:   7,
		RestaurantID: 3,
		CustomerName: "Asha",
		TotalAmount:  250,
		Status:       entity.OrderPending,
	}
	o.ID = 42
	return &repository.OrderView{Order: o, RestaurantName: "Spice Hub", OwnerID: 9}
}

func rooms(ns []Notification, event string) map[string]bool {
	out := map[string]bool{}
	for _, n := range ns {
		if n.Event == event {
			out[n.Room] = true
		}
	}
	return out
}

func TestNotificationsNewOrder(t *testing.T) {
	evt := entity.OrderEvent{OrderID: 42, Kind: entity.OrderEventInsert, Status: entity.OrderPending}
	ns := Notifications(evt, testView())

	got := rooms(ns, "newOrder")
	for _, want := range []string{"restaurant_3", "restaurant_owner_9", "admin"} {
		if !got[want] {
			t.Errorf("newOrder missing room %s (got %v)", want, got)
		}
	}
	if got["customer_7"] {
		t.Error("newOrder should not go to the customer room")
	}
	if len(ns) != 3 {
		t.Errorf("%d notifications, want 3", len(ns))
	}

	payload := ns[0].Payload
	if payload["orderNumber"] != "R00131501" || payload["restaurantName"] != "Spice Hub" {
		t.Errorf("payload = %v", payload)
	}
}

func TestNotificationsStatusUpdate(t *testing.T) {
	evt := entity.OrderEvent{OrderID: 42, Kind: entity.OrderEventUpdate, Status: entity.OrderPreparing}
	ns := Notifications(evt, testView())

	got := rooms(ns, "orderStatusUpdate")
	for _, want := range []string{"customer_7", "restaurant_3", "admin"} {
		if !got[want] {
			t.Errorf("orderStatusUpdate missing room %s (got %v)", want, got)
		}
	}
	if len(rooms(ns, "orderCancelled")) != 0 {
		t.Error("non-cancel update emitted orderCancelled")
	}

	// the status in the payload is the event's, not the possibly newer row's
	if ns[0].Payload["status"] != entity.OrderPreparing {
		t.Errorf("status = %v", ns[0].Payload["status"])
	}
}

func TestNotificationsCancellation(t *testing.T) {
	evt := entity.OrderEvent{OrderID: 42, Kind: entity.OrderEventUpdate, Status: entity.OrderCancelled}
	ns := Notifications(evt, testView())

	updates := rooms(ns, "orderStatusUpdate")
	cancels := rooms(ns, "orderCancelled")
	if len(updates) != 3 || len(cancels) != 3 {
		t.Errorf("updates=%v cancels=%v", updates, cancels)
	}
	for room := range updates {
		if !cancels[room] {
			t.Errorf("room %s got the update but not the cancel frame", room)
		}
	}
}
