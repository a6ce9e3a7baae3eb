package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/entity"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/pkg/apperr"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/repository"

	"gorm.io/gorm"
)

type OrderService struct {
	DB        *gorm.DB
	OrderRepo *repository.OrderRepository
	RestRepo  *repository.RestaurantRepository
	UserRepo  *repository.UserRepository
	FoodRepo  *repository.FoodRepository
	CartRepo  *repository.CartRepository
	Access    *AccessService
}

func NewOrderService(db *gorm.DB, or *repository.OrderRepository, rr *repository.RestaurantRepository,
	ur *repository.UserRepository, fr *repository.FoodRepository, cr *repository.CartRepository,
	access *AccessService) *OrderService {
	return &OrderService{DB: db, OrderRepo: or, RestRepo: rr, UserRepo: ur, FoodRepo: fr, CartRepo: cr, Access: access}
}

// allocateOrderNumber builds {restaurantCode}{isoWeekday}{dayOfMonth}{seq},
// where seq restarts at 01 per restaurant per calendar day. Must run inside
// the order-creating transaction so the count and the insert are atomic.
func (s *OrderService) allocateOrderNumber(tx *gorm.DB, rest *entity.Restaurant, now time.Time) (string, error) {
	count, err := s.OrderRepo.CountForRestaurantToday(tx, rest.ID, now)
	if err != nil {
		return "", err
	}
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7 // ISO: Sunday is 7
	}
	return fmt.Sprintf("%s%d%02d%02d", rest.Code, weekday, now.Day(), count+1), nil
}

func unavailableNames(items []entity.CartItem) []string {
	var names []string
	for _, it := range items {
		if !it.Food.IsAvailable {
			names = append(names, it.Food.Name)
		}
	}
	return names
}

type OrderItemIn struct {
	FoodID   uint `json:"foodId" binding:"required"`
	Quantity int  `json:"quantity" binding:"required"`
}

type CreateOrderIn struct {
	CustomerName    string        `json:"customerName" binding:"required"`
	CustomerPhone   string        `json:"customerPhone" binding:"required"`
	CustomerAddress string        `json:"customerAddress" binding:"required"`
	PaymentMethod   string        `json:"paymentMethod"`
	RestaurantID    uint          `json:"restaurantId"`
	Items           []OrderItemIn `json:"items"`
}

// Create places a cash-on-delivery order, either from an explicit item list
// or from the customer's cart. Direct placement always bills the current
// menu price, not whatever the cart captured at add time; only the payment
// path (CreateFromSnapshot) freezes prices.
func (s *OrderService) Create(userID uint, in *CreateOrderIn) (*entity.Order, error) {
	if in.PaymentMethod == "" {
		in.PaymentMethod = entity.PaymentMethodCOD
	}
	if in.PaymentMethod != entity.PaymentMethodCOD {
		return nil, apperr.New(apperr.Validation, "online orders must go through the payment flow")
	}

	requested := in.Items
	if len(requested) == 0 {
		cart, err := s.CartRepo.FindActive(repository.Identity{UserID: userID})
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && len(cart.Items) == 0) {
			return nil, apperr.New(apperr.Validation, "cart is empty")
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "error creating order", err)
		}
		for _, it := range cart.Items {
			requested = append(requested, OrderItemIn{FoodID: it.FoodID, Quantity: it.Quantity})
		}
	}

	ids := make([]uint, 0, len(requested))
	for _, rq := range requested {
		if rq.Quantity < 1 {
			return nil, apperr.New(apperr.Validation, "quantity must be at least 1")
		}
		ids = append(ids, rq.FoodID)
	}
	foods, err := s.FoodRepo.FindByIDs(ids)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error creating order", err)
	}
	foodByID := make(map[uint]*entity.Food, len(foods))
	for i := range foods {
		foodByID[foods[i].ID] = &foods[i]
	}

	var restID uint
	var unavailable []string
	for _, rq := range requested {
		food, ok := foodByID[rq.FoodID]
		if !ok {
			return nil, apperr.Newf(apperr.Validation, "food %d not found", rq.FoodID)
		}
		if restID == 0 {
			restID = food.RestaurantID
		} else if food.RestaurantID != restID {
			return nil, apperr.New(apperr.Validation, "all items must belong to a single restaurant")
		}
		if !food.IsAvailable {
			unavailable = append(unavailable, food.Name)
		}
	}
	if in.RestaurantID != 0 && in.RestaurantID != restID {
		return nil, apperr.New(apperr.Validation, "items do not belong to the requested restaurant")
	}
	if len(unavailable) > 0 {
		return nil, apperr.Newf(apperr.Unavailable, "no longer available: %s", strings.Join(unavailable, ", "))
	}

	rest, err := s.RestRepo.FindByID(restID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error creating order", err)
	}
	if !rest.IsOpen {
		return nil, apperr.New(apperr.Unavailable, "restaurant is currently closed")
	}

	var order *entity.Order
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		number, err := s.allocateOrderNumber(tx, rest, now)
		if err != nil {
			return err
		}

		order = &entity.Order{
			OrderNumber:     number,
			CustomerID:      userID,
			RestaurantID:    rest.ID,
			CustomerName:    in.CustomerName,
			CustomerPhone:   in.CustomerPhone,
			CustomerAddress: in.CustomerAddress,
			Status:          entity.OrderPending,
			PaymentStatus:   entity.PaymentStatusPending,
			PaymentMethod:   entity.PaymentMethodCOD,
		}
		for _, rq := range requested {
			food := foodByID[rq.FoodID]
			order.Items = append(order.Items, entity.OrderItem{
				FoodID:   rq.FoodID,
				Name:     food.Name,
				Price:    food.Price,
				Quantity: rq.Quantity,
			})
			order.TotalAmount += food.Price * float64(rq.Quantity)
		}
		if err := s.OrderRepo.Create(tx, order); err != nil {
			return err
		}

		// all reads go through tx; sqlite holds the write lock here
		var cart entity.Cart
		err = tx.Where("user_id = ? AND is_active = ?", userID, true).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.CartRepo.ClearItems(tx, cart.ID); err != nil {
			return err
		}
		cart.RestaurantID = nil
		cart.TotalAmount = 0
		cart.ItemCount = 0
		cart.ExpiresAt = now.Add(cart.TTL())
		return s.CartRepo.SaveTotals(tx, &cart)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error creating order", err)
	}
	return order, nil
}

// CreateFromSnapshot materialises an order from a completed payment's frozen
// cart. Runs inside the caller's transaction so the payment claim and the
// order insert commit together.
func (s *OrderService) CreateFromSnapshot(tx *gorm.DB, p *entity.Payment, customer *entity.User, now time.Time) (*entity.Order, error) {
	var rest entity.Restaurant
	if err := tx.First(&rest, p.RestaurantID).Error; err != nil {
		return nil, err
	}

	number, err := s.allocateOrderNumber(tx, &rest, now)
	if err != nil {
		return nil, err
	}

	order := &entity.Order{
		OrderNumber:     number,
		CustomerID:      customer.ID,
		RestaurantID:    rest.ID,
		CustomerName:    customer.Name,
		CustomerPhone:   p.CartData.CustomerPhone,
		CustomerAddress: customer.Address,
		TotalAmount:     p.CartData.TotalAmount,
		Status:          entity.OrderPending,
		PaymentID:       &p.ID,
		PaymentStatus:   entity.PaymentStatusPaid,
		PaymentMethod:   entity.PaymentMethodOnline,
	}
	for _, it := range p.CartData.Items {
		order.Items = append(order.Items, entity.OrderItem{
			FoodID:   it.FoodID,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
		})
	}
	if err := s.OrderRepo.Create(tx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetForActor fetches an order and checks the caller may see it.
func (s *OrderService) GetForActor(role string, userID, orderID uint) (*entity.Order, error) {
	order, err := s.OrderRepo.Get(orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "order not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error fetching order", err)
	}
	if err := s.Access.AuthorizeOrder(role, userID, order, ActionViewOrder); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus moves an order one step along the lifecycle. The write is
// guarded on the status the caller saw, so two concurrent updates cannot
// both win.
func (s *OrderService) UpdateStatus(role string, userID, orderID uint, newStatus string) (*entity.Order, error) {
	if !entity.ValidOrderStatus(newStatus) {
		return nil, apperr.Newf(apperr.Validation, "invalid status %q", newStatus)
	}
	if newStatus == entity.OrderCancelled {
		return nil, apperr.New(apperr.Validation, "use the cancel endpoint to cancel an order")
	}

	order, err := s.OrderRepo.Get(orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "order not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error updating order status", err)
	}
	if err := s.Access.AuthorizeOrder(role, userID, order, ActionUpdateStatus); err != nil {
		return nil, err
	}
	if !canTransition(order.Status, newStatus) {
		return nil, apperr.Newf(apperr.Conflict, "cannot move order from %s to %s", order.Status, newStatus)
	}

	var claimed bool
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		claimed, err = s.OrderRepo.UpdateStatusGuard(tx, order.ID, order.Status, newStatus)
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error updating order status", err)
	}
	if !claimed {
		return nil, apperr.New(apperr.Conflict, "order status changed concurrently, please retry")
	}
	order.Status = newStatus
	return order, nil
}

type CancelIn struct {
	Reason string `json:"reason"`
}

// Cancel applies the role-dependent cancellation window and appends the
// reason to the order notes.
func (s *OrderService) Cancel(role string, userID, orderID uint, in *CancelIn) (*entity.Order, error) {
	order, err := s.OrderRepo.Get(orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "order not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error cancelling order", err)
	}
	if err := s.Access.AuthorizeOrder(role, userID, order, ActionCancelOrder); err != nil {
		return nil, err
	}

	switch role {
	case entity.RoleCustomer:
		if !customerCancellable(order.Status) {
			return nil, apperr.Newf(apperr.Conflict, "order can no longer be cancelled (status: %s)", order.Status)
		}
	default:
		if !staffCancellable(order.Status) {
			return nil, apperr.Newf(apperr.Conflict, "order can no longer be cancelled (status: %s)", order.Status)
		}
	}

	notes := order.Notes
	if in != nil && in.Reason != "" {
		if notes != "" {
			notes += "\n"
		}
		notes += "Cancelled: " + in.Reason
	}

	var claimed bool
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		claimed, err = s.OrderRepo.CancelGuard(tx, order.ID, order.Status, notes)
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error cancelling order", err)
	}
	if !claimed {
		return nil, apperr.New(apperr.Conflict, "order status changed concurrently, please retry")
	}
	order.Status = entity.OrderCancelled
	order.Notes = notes
	return order, nil
}

type ListOrdersIn struct {
	Status string
	Date   *time.Time
	Page   int
	Limit  int
}

type ListOrdersOut struct {
	Orders []entity.Order `json:"orders"`
	Total  int64          `json:"total"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
}

// filterForActor builds the role scope every list/stats query runs under.
// Restaurant users see their owned restaurants' orders, customers their own,
// admins everything.
func (s *OrderService) filterForActor(role string, userID uint) (repository.ListFilter, error) {
	var f repository.ListFilter
	switch role {
	case entity.RoleCustomer:
		f.CustomerID = userID
	case entity.RoleRestaurant:
		ids, err := s.Access.RestaurantIDsForOwner(userID)
		if err != nil {
			return f, apperr.Wrap(apperr.Internal, "ownership lookup failed", err)
		}
		f.HasOwnerScope = true
		f.RestaurantIDs = ids
	case entity.RoleAdmin:
		// unscoped
	default:
		return f, apperr.New(apperr.Forbidden, "access denied")
	}
	return f, nil
}

func (s *OrderService) ListForActor(role string, userID uint, in ListOrdersIn) (*ListOrdersOut, error) {
	f, err := s.filterForActor(role, userID)
	if err != nil {
		return nil, err
	}
	f.Status = in.Status
	f.Date = in.Date
	f.Page = in.Page
	f.Limit = in.Limit

	orders, total, err := s.OrderRepo.List(f)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error listing orders", err)
	}
	if orders == nil {
		orders = []entity.Order{}
	}
	page, limit := in.Page, in.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return &ListOrdersOut{Orders: orders, Total: total, Page: page, Limit: limit}, nil
}

type StatsOut struct {
	TotalOrders  int64                    `json:"totalOrders"`
	Revenue      float64                  `json:"revenue"`
	ByStatus     []repository.StatusCount `json:"byStatus"`
	GeneratedFor string                   `json:"date"`
}

// StatsToday summarises today's orders for dashboards, scoped like listing.
func (s *OrderService) StatsToday(role string, userID uint) (*StatsOut, error) {
	f, err := s.filterForActor(role, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	byStatus, revenue, total, err := s.OrderRepo.StatsToday(f, now)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error computing order stats", err)
	}
	if byStatus == nil {
		byStatus = []repository.StatusCount{}
	}
	return &StatsOut{
		TotalOrders:  total,
		Revenue:      revenue,
		ByStatus:     byStatus,
		GeneratedFor: now.Format("2006-01-02"),
	}, nil
}
