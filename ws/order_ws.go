package ws

import (
	"encoding/json"
	"net/http"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/entity"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/services"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// OrderSocket upgrades authenticated clients and joins them to the rooms
// their role entitles them to.
type OrderSocket struct {
	Hub    *OrderHub
	Access *services.AccessService
}

func NewOrderSocket(hub *OrderHub, access *services.AccessService) *OrderSocket {
	return &OrderSocket{Hub: hub, Access: access}
}

// WS route: /ws/orders. Auth runs in middleware before this.
func (s *OrderSocket) HandleWebSocket(c *gin.Context) {
	userID := utils.CurrentUserID(c)
	role := utils.CurrentRole(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Hub.log.Warn("ws upgrade failed", "error", err)
		return
	}

	// role-based auto-join
	switch role {
	case entity.RoleAdmin:
		s.Hub.Join(conn, AdminRoom())
	case entity.RoleCustomer:
		s.Hub.Join(conn, CustomerRoom(userID))
	case entity.RoleRestaurant:
		s.Hub.Join(conn, OwnerRoom(userID))
		ids, err := s.Access.RestaurantIDsForOwner(userID)
		if err == nil {
			for _, id := range ids {
				s.Hub.Join(conn, RestaurantRoom(id))
			}
		}
	}

	conn.WriteJSON(Frame{Event: "connected", Data: gin.H{"userId": userID, "role": role}})

	go s.listen(conn, userID, role)
}

// listen handles client frames; the only one supported is joinRestaurant,
// which restaurant users send to follow a specific kitchen. Ownership is
// re-checked against the database, never the token.
func (s *OrderSocket) listen(conn *websocket.Conn, userID uint, role string) {
	defer s.Hub.Drop(conn)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var payload struct {
			Event        string `json:"event"`
			RestaurantID uint   `json:"restaurantId"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			continue
		}

		if payload.Event == "joinRestaurant" && payload.RestaurantID != 0 {
			allowed := role == entity.RoleAdmin
			if role == entity.RoleRestaurant {
				owns, err := s.Access.OwnsRestaurant(userID, payload.RestaurantID)
				allowed = err == nil && owns
			}
			if !allowed {
				conn.WriteJSON(Frame{Event: "error", Data: gin.H{"message": "not your restaurant"}})
				continue
			}
			s.Hub.Join(conn, RestaurantRoom(payload.RestaurantID))
			conn.WriteJSON(Frame{Event: "joined", Data: gin.H{"restaurantId": payload.RestaurantID}})
		}
	}
}
