package repository

import (
	"errors"
	"time"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/entity"

	"gorm.io/gorm"
)

type CartRepository struct{ DB *gorm.DB }

func NewCartRepository(db *gorm.DB) *CartRepository { return &CartRepository{DB: db} }

// Identity selects a cart: exactly one of UserID or SessionID is set.
type Identity struct {
	UserID    uint
	SessionID string
}

func (id Identity) Valid() bool {
	return (id.UserID != 0) != (id.SessionID != "")
}

func (r *CartRepository) scope(q *gorm.DB, id Identity) *gorm.DB {
	if id.UserID != 0 {
		return q.Where("user_id = ? AND is_active = ?", id.UserID, true)
	}
	return q.Where("session_id = ? AND is_active = ?", id.SessionID, true)
}

// FindActive returns the active cart with items and foods preloaded, or
// gorm.ErrRecordNotFound.
func (r *CartRepository) FindActive(id Identity) (*entity.Cart, error) {
	var c entity.Cart
	err := r.scope(r.DB, id).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id") }).
		Preload("Items.Food").
		Preload("Restaurant").
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CartRepository) GetOrCreate(id Identity) (*entity.Cart, error) {
	c, err := r.FindActive(id)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	c = &entity.Cart{IsActive: true}
	if id.UserID != 0 {
		uid := id.UserID
		c.UserID = &uid
	} else {
		c.SessionID = id.SessionID
	}
	c.ExpiresAt = time.Now().Add(c.TTL())
	if err := r.DB.Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// IncrementQuantity bumps an existing line atomically so concurrent adds to
// the same cart cannot lose updates.
func (r *CartRepository) IncrementQuantity(tx *gorm.DB, itemID uint, by int) error {
	return tx.Model(&entity.CartItem{}).Where("id = ?", itemID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", by)).Error
}

func (r *CartRepository) SetQuantity(tx *gorm.DB, itemID uint, qty int) error {
	return tx.Model(&entity.CartItem{}).Where("id = ?", itemID).
		UpdateColumn("quantity", qty).Error
}

func (r *CartRepository) AddItem(tx *gorm.DB, item *entity.CartItem) error {
	return tx.Create(item).Error
}

func (r *CartRepository) RemoveItem(tx *gorm.DB, cartID, foodID uint) error {
	return tx.Unscoped().Where("cart_id = ? AND food_id = ?", cartID, foodID).
		Delete(&entity.CartItem{}).Error
}

func (r *CartRepository) RemoveItems(tx *gorm.DB, cartID uint, foodIDs []uint) error {
	if len(foodIDs) == 0 {
		return nil
	}
	return tx.Unscoped().Where("cart_id = ? AND food_id IN ?", cartID, foodIDs).
		Delete(&entity.CartItem{}).Error
}

func (r *CartRepository) ClearItems(tx *gorm.DB, cartID uint) error {
	return tx.Unscoped().Where("cart_id = ?", cartID).Delete(&entity.CartItem{}).Error
}

// SaveTotals persists the recomputed derived fields and the restaurant pin.
func (r *CartRepository) SaveTotals(tx *gorm.DB, c *entity.Cart) error {
	return tx.Model(&entity.Cart{}).Where("id = ?", c.ID).Updates(map[string]any{
		"restaurant_id": c.RestaurantID,
		"total_amount":  c.TotalAmount,
		"item_count":    c.ItemCount,
		"expires_at":    c.ExpiresAt,
	}).Error
}

func (r *CartRepository) Deactivate(tx *gorm.DB, cartID uint) error {
	return tx.Model(&entity.Cart{}).Where("id = ?", cartID).Update("is_active", false).Error
}

// Reown converts a guest cart into the user's cart on login.
func (r *CartRepository) Reown(tx *gorm.DB, cartID, userID uint) error {
	return tx.Model(&entity.Cart{}).Where("id = ?", cartID).Updates(map[string]any{
		"user_id":    userID,
		"session_id": "",
		"expires_at": time.Now().Add(entity.UserCartTTL),
	}).Error
}

// DeleteExpired purges carts past their TTL; called from the housekeeping
// loop since sqlite has no TTL index.
func (r *CartRepository) DeleteExpired(now time.Time) error {
	var ids []uint
	if err := r.DB.Model(&entity.Cart{}).Where("expires_at < ?", now).Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := r.DB.Unscoped().Where("cart_id IN ?", ids).Delete(&entity.CartItem{}).Error; err != nil {
		return err
	}
	return r.DB.Unscoped().Where("id IN ?", ids).Delete(&entity.Cart{}).Error
}
