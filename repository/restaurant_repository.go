package repository

import (
	"github.com/Abhiram-Sandhe/TakeAwayBackend/entity"

	"gorm.io/gorm"
)

type RestaurantRepository struct{ DB *gorm.DB }

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{DB: db}
}

func (r *RestaurantRepository) Create(tx *gorm.DB, rest *entity.Restaurant) error {
	return tx.Create(rest).Error
}

func (r *RestaurantRepository) FindByID(id uint) (*entity.Restaurant, error) {
	var rest entity.Restaurant
	if err := r.DB.First(&rest, id).Error; err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *RestaurantRepository) List(onlyActive bool) ([]entity.Restaurant, error) {
	var out []entity.Restaurant
	q := r.DB.Order("name")
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&out).Error
	return out, err
}

// ListWithOwner loads the owner rows too; the admin console shows who runs
// each restaurant.
func (r *RestaurantRepository) ListWithOwner() ([]entity.Restaurant, error) {
	var out []entity.Restaurant
	err := r.DB.Preload("Owner").Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *RestaurantRepository) Save(rest *entity.Restaurant) error {
	return r.DB.Save(rest).Error
}

func (r *RestaurantRepository) Delete(tx *gorm.DB, restID uint) error {
	return tx.Delete(&entity.Restaurant{}, restID).Error
}

// IDsForOwner is the owner->restaurant index every ownership check resolves
// through. Never trust a restaurant id from a token claim.
func (r *RestaurantRepository) IDsForOwner(userID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&entity.Restaurant{}).Where("owner_id = ?", userID).Pluck("id", &ids).Error
	return ids, err
}

func (r *RestaurantRepository) IsOwnedBy(restID, userID uint) (bool, error) {
	var cnt int64
	err := r.DB.Model(&entity.Restaurant{}).
		Where("id = ? AND owner_id = ?", restID, userID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *RestaurantRepository) SetOpen(restID uint, open bool) error {
	return r.DB.Model(&entity.Restaurant{}).Where("id = ?", restID).Update("is_open", open).Error
}

func (r *RestaurantRepository) UpdateCode(tx *gorm.DB, restID uint, code string) error {
	return tx.Model(&entity.Restaurant{}).Where("id = ?", restID).Update("code", code).Error
}
