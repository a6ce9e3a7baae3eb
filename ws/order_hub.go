package ws

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// Room name helpers. Order events fan out to the restaurant's kitchen
// display, the owner's dashboard, the customer, and the admin console.
func AdminRoom() string                { return "admin" }
func CustomerRoom(userID uint) string  { return fmt.Sprintf("customer_%d", userID) }
func RestaurantRoom(restID uint) string {
	return fmt.Sprintf("restaurant_%d", restID)
}
func OwnerRoom(ownerID uint) string {
	return fmt.Sprintf("restaurant_owner_%d", ownerID)
}

// Frame is the wire shape for every push: an event name plus its payload.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type Subscription struct {
	Conn *websocket.Conn
	Room string
}

type BroadcastMessage struct {
	Room  string
	Frame Frame
}

// OrderHub fans order events out to named rooms. One connection may sit in
// several rooms at once (a restaurant owner joins their owner room plus
// each restaurant room).
type OrderHub struct {
	clients    map[string]map[*websocket.Conn]bool
	broadcast  chan BroadcastMessage
	register   chan Subscription
	unregister chan Subscription
	closed     chan *websocket.Conn
	mu         sync.Mutex
	log        *slog.Logger
}

func NewOrderHub(log *slog.Logger) *OrderHub {
	return &OrderHub{
		clients:    make(map[string]map[*websocket.Conn]bool),
		broadcast:  make(chan BroadcastMessage),
		register:   make(chan Subscription),
		unregister: make(chan Subscription),
		closed:     make(chan *websocket.Conn),
		log:        log,
	}
}

func (h *OrderHub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			if h.clients[sub.Room] == nil {
				h.clients[sub.Room] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.Room][sub.Conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub.Room][sub.Conn]; ok {
				delete(h.clients[sub.Room], sub.Conn)
			}
			h.mu.Unlock()

		case conn := <-h.closed:
			// drop the connection from every room it joined
			h.mu.Lock()
			for room, conns := range h.clients {
				if _, ok := conns[conn]; ok {
					delete(conns, conn)
				}
				if len(conns) == 0 {
					delete(h.clients, room)
				}
			}
			h.mu.Unlock()
			conn.Close()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[msg.Room] {
				if err := conn.WriteJSON(msg.Frame); err != nil {
					h.log.Warn("ws write failed", "room", msg.Room, "error", err)
					conn.Close()
					delete(h.clients[msg.Room], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Emit publishes a frame to one room; safe from any goroutine.
func (h *OrderHub) Emit(room, event string, data any) {
	h.broadcast <- BroadcastMessage{Room: room, Frame: Frame{Event: event, Data: data}}
}

// Join subscribes an already-upgraded connection to a room.
func (h *OrderHub) Join(conn *websocket.Conn, room string) {
	h.register <- Subscription{Conn: conn, Room: room}
}

// Drop removes the connection from all rooms and closes it.
func (h *OrderHub) Drop(conn *websocket.Conn) {
	h.closed <- conn
}
