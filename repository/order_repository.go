package repository

import (
	"time"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/entity"

	"gorm.io/gorm"
)

type OrderRepository struct{ DB *gorm.DB }

func NewOrderRepository(db *gorm.DB) *OrderRepository { return &OrderRepository{DB: db} }

// Create persists the order and appends the insert event to the change feed
// in the same transaction.
func (r *OrderRepository) Create(tx *gorm.DB, o *entity.Order) error {
	if err := tx.Create(o).Error; err != nil {
		return err
	}
	return r.AppendEvent(tx, o.ID, entity.OrderEventInsert, o.Status)
}

func (r *OrderRepository) Get(orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.Preload("Items").First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// CountForRestaurantToday feeds the per-restaurant-per-day order number
// sequence; the day window resets at local midnight.
func (r *OrderRepository) CountForRestaurantToday(tx *gorm.DB, restID uint, now time.Time) (int64, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var cnt int64
	err := tx.Model(&entity.Order{}).
		Where("restaurant_id = ? AND created_at >= ? AND created_at < ?", restID, dayStart, dayEnd).
		Count(&cnt).Error
	return cnt, err
}

// UpdateStatusGuard transitions status only when the current status still
// matches; reports whether the row was claimed. The update event is appended
// in the same transaction so the change feed sees exactly one row per write.
func (r *OrderRepository) UpdateStatusGuard(tx *gorm.DB, orderID uint, from, to string) (bool, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, r.AppendEvent(tx, orderID, entity.OrderEventUpdate, to)
}

// CancelGuard is UpdateStatusGuard plus the notes append.
func (r *OrderRepository) CancelGuard(tx *gorm.DB, orderID uint, from, notes string) (bool, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(map[string]any{"status": entity.OrderCancelled, "notes": notes})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, r.AppendEvent(tx, orderID, entity.OrderEventUpdate, entity.OrderCancelled)
}

// ListFilter scopes list/stats queries by role.
type ListFilter struct {
	CustomerID    uint   // customers: only their own
	RestaurantIDs []uint // restaurant users: owned restaurants; nil slice with HasOwnerScope means none
	HasOwnerScope bool
	Status        string
	Date          *time.Time
	Page          int
	Limit         int
}

func (r *OrderRepository) applyFilter(q *gorm.DB, f ListFilter) *gorm.DB {
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.HasOwnerScope {
		q = q.Where("restaurant_id IN ?", f.RestaurantIDs)
	}
	if f.Status != "" && f.Status != "all" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Date != nil {
		dayStart := time.Date(f.Date.Year(), f.Date.Month(), f.Date.Day(), 0, 0, 0, 0, f.Date.Location())
		q = q.Where("created_at >= ? AND created_at < ?", dayStart, dayStart.Add(24*time.Hour))
	}
	return q
}

func (r *OrderRepository) List(f ListFilter) ([]entity.Order, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}

	var total int64
	if err := r.applyFilter(r.DB.Model(&entity.Order{}), f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []entity.Order
	err := r.applyFilter(r.DB.Model(&entity.Order{}), f).
		Preload("Items").
		Order("created_at DESC").
		Limit(f.Limit).Offset((f.Page - 1) * f.Limit).
		Find(&out).Error
	return out, total, err
}

type StatusCount struct {
	Status      string  `json:"status"`
	Count       int64   `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
}

// StatsToday aggregates today's orders by status plus paid revenue, scoped
// by the same role filter as List.
func (r *OrderRepository) StatsToday(f ListFilter, now time.Time) ([]StatusCount, float64, int64, error) {
	day := now
	f.Date = &day
	f.Status = ""

	var byStatus []StatusCount
	err := r.applyFilter(r.DB.Model(&entity.Order{}), f).
		Select("status, COUNT(*) AS count, SUM(total_amount) AS total_amount").
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, 0, 0, err
	}

	var revenue float64
	err = r.applyFilter(r.DB.Model(&entity.Order{}), f).
		Where("payment_status = ?", entity.PaymentStatusPaid).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenue).Error
	if err != nil {
		return nil, 0, 0, err
	}

	var total int64
	if err := r.applyFilter(r.DB.Model(&entity.Order{}), f).Count(&total).Error; err != nil {
		return nil, 0, 0, err
	}
	return byStatus, revenue, total, nil
}

// ---- change feed ----

func (r *OrderRepository) AppendEvent(tx *gorm.DB, orderID uint, kind, status string) error {
	return tx.Create(&entity.OrderEvent{OrderID: orderID, Kind: kind, Status: status}).Error
}

func (r *OrderRepository) PendingEvents(limit int) ([]entity.OrderEvent, error) {
	var out []entity.OrderEvent
	err := r.DB.Where("processed_at IS NULL").Order("id").Limit(limit).Find(&out).Error
	return out, err
}

func (r *OrderRepository) MarkEventProcessed(eventID uint, now time.Time) error {
	return r.DB.Model(&entity.OrderEvent{}).Where("id = ?", eventID).
		Update("processed_at", now).Error
}

// OrderView is the joined shape the watcher needs to compute rooms.
type OrderView struct {
	Order          *entity.Order
	RestaurantName string
	OwnerID        uint
}

func (r *OrderRepository) GetView(orderID uint) (*OrderView, error) {
	o, err := r.Get(orderID)
	if err != nil {
		return nil, err
	}
	var rest entity.Restaurant
	if err := r.DB.First(&rest, o.RestaurantID).Error; err != nil {
		return nil, err
	}
	return &OrderView{Order: o, RestaurantName: rest.Name, OwnerID: rest.OwnerID}, nil
}
