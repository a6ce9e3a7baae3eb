package repository

import (
	"github.com/Abhiram-Sandhe/TakeAwayBackend/entity"

	"gorm.io/gorm"
)

type RestaurantApplicationRepository struct{ DB *gorm.DB }

func NewRestaurantApplicationRepository(db *gorm.DB) *RestaurantApplicationRepository {
	return &RestaurantApplicationRepository{DB: db}
}

func (r *RestaurantApplicationRepository) Create(app *entity.RestaurantApplication) error {
	return r.DB.Create(app).Error
}

func (r *RestaurantApplicationRepository) FindByID(id uint) (*entity.RestaurantApplication, error) {
	var app entity.RestaurantApplication
	if err := r.DB.First(&app, id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *RestaurantApplicationRepository) List(status string, page, limit int) ([]entity.RestaurantApplication, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	q := r.DB.Model(&entity.RestaurantApplication{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []entity.RestaurantApplication
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&out).Error
	return out, total, err
}

// HasOpenApplication blocks duplicate submissions for an email that is
// already pending or approved.
func (r *RestaurantApplicationRepository) HasOpenApplication(email string) (bool, error) {
	var cnt int64
	err := r.DB.Model(&entity.RestaurantApplication{}).
		Where("owner_email = ? AND status IN ?", email, []string{entity.ApplicationPending, entity.ApplicationApproved}).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *RestaurantApplicationRepository) Save(tx *gorm.DB, app *entity.RestaurantApplication) error {
	return tx.Save(app).Error
}
