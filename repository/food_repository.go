package repository

import (
	"github.com/Abhiram-Sandhe/TakeAwayBackend/entity"

	"gorm.io/gorm"
)

type FoodRepository struct{ DB *gorm.DB }

func NewFoodRepository(db *gorm.DB) *FoodRepository { return &FoodRepository{DB: db} }

// FindWithRestaurant loads the food and its restaurant in one go; cart adds
// need both the availability flag and the open flag.
func (r *FoodRepository) FindWithRestaurant(id uint) (*entity.Food, error) {
	var f entity.Food
	if err := r.DB.Preload("Restaurant").First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FoodRepository) FindByIDs(ids []uint) ([]entity.Food, error) {
	var out []entity.Food
	err := r.DB.Where("id IN ?", ids).Find(&out).Error
	return out, err
}

func (r *FoodRepository) ListForRestaurant(restID uint) ([]entity.Food, error) {
	var out []entity.Food
	err := r.DB.Where("restaurant_id = ?", restID).Order("name").Find(&out).Error
	return out, err
}

func (r *FoodRepository) ListCategories() ([]entity.Category, error) {
	var out []entity.Category
	err := r.DB.Order("name").Find(&out).Error
	return out, err
}

func (r *FoodRepository) Create(f *entity.Food) error {
	return r.DB.Create(f).Error
}

func (r *FoodRepository) Update(f *entity.Food) error {
	return r.DB.Save(f).Error
}

func (r *FoodRepository) DeleteForRestaurant(tx *gorm.DB, restID uint) error {
	return tx.Where("restaurant_id = ?", restID).Delete(&entity.Food{}).Error
}

func (r *FoodRepository) SetAvailable(foodID uint, available bool) error {
	return r.DB.Model(&entity.Food{}).Where("id = ?", foodID).Update("is_available", available).Error
}
