package stream

import (
	"context"
	"log/slog"
	"time"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/entity"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/repository"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/ws"
)

const (
	restartBackoff = 5 * time.Second
	pollInterval   = 500 * time.Millisecond
	batchSize      = 100
)

// Watcher tails the order change feed and pushes websocket frames. Events
// are appended in the same transaction as the order write, so the feed sees
// every change exactly once; delivery to sockets is at-least-once (an event
// is only marked processed after the emit).
type Watcher struct {
	Orders *repository.OrderRepository
	Hub    *ws.OrderHub
	Log    *slog.Logger
}

func NewWatcher(orders *repository.OrderRepository, hub *ws.OrderHub, log *slog.Logger) *Watcher {
	return &Watcher{Orders: orders, Hub: hub, Log: log}
}

// Run tails the feed until ctx is cancelled, restarting with a fixed
// backoff after any failure.
func (w *Watcher) Run(ctx context.Context) {
	for {
		err := w.tail(ctx)
		if ctx.Err() != nil {
			return
		}
		w.Log.Error("order stream stopped, restarting", "backoff", restartBackoff.String(), "error", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(restartBackoff):
		}
	}
}

func (w *Watcher) tail(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			events, err := w.Orders.PendingEvents(batchSize)
			if err != nil {
				return err
			}
			for _, evt := range events {
				if err := w.dispatch(evt); err != nil {
					w.Log.Warn("order event dispatch failed", "eventId", evt.ID, "error", err)
					continue
				}
				if err := w.Orders.MarkEventProcessed(evt.ID, time.Now()); err != nil {
					return err
				}
			}
		}
	}
}

func (w *Watcher) dispatch(evt entity.OrderEvent) error {
	view, err := w.Orders.GetView(evt.OrderID)
	if err != nil {
		return err
	}
	for _, n := range Notifications(evt, view) {
		w.Hub.Emit(n.Room, n.Event, n.Payload)
	}
	return nil
}

// Notification is one frame addressed to one room.
type Notification struct {
	Room    string
	Event   string
	Payload map[string]any
}

// Notifications computes the fan-out for a single change-feed event. Pure so
// the routing rules are directly testable.
//
// New orders go to the kitchen, the owner dashboard and the admin console.
// Status updates additionally reach the customer; cancellations carry an
// extra orderCancelled frame on top of the regular status update.
func Notifications(evt entity.OrderEvent, view *repository.OrderView) []Notification {
	o := view.Order

	var out []Notification
	switch evt.Kind {
	case entity.OrderEventInsert:
		payload := map[string]any{
			"orderId":        o.ID,
			"orderNumber":    o.OrderNumber,
			"restaurantId":   o.RestaurantID,
			"restaurantName": view.RestaurantName,
			"customerName":   o.CustomerName,
			"totalAmount":    o.TotalAmount,
			"status":         o.Status,
			"itemCount":      len(o.Items),
			"createdAt":      o.CreatedAt,
		}
		for _, room := range []string{
			ws.RestaurantRoom(o.RestaurantID),
			ws.OwnerRoom(view.OwnerID),
			ws.AdminRoom(),
		} {
			out = append(out, Notification{Room: room, Event: "newOrder", Payload: payload})
		}

	case entity.OrderEventUpdate:
		payload := map[string]any{
			"orderId":      o.ID,
			"orderNumber":  o.OrderNumber,
			"restaurantId": o.RestaurantID,
			"status":       evt.Status,
			"updatedAt":    o.UpdatedAt,
		}
		rooms := []string{
			ws.CustomerRoom(o.CustomerID),
			ws.RestaurantRoom(o.RestaurantID),
			ws.AdminRoom(),
		}
		for _, room := range rooms {
			out = append(out, Notification{Room: room, Event: "orderStatusUpdate", Payload: payload})
		}
		if evt.Status == entity.OrderCancelled {
			for _, room := range rooms {
				out = append(out, Notification{Room: room, Event: "orderCancelled", Payload: payload})
			}
		}
	}
	return out
}
