package repository

import (
	"time"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/entity"

	"gorm.io/gorm"
)

type TokenRepository struct{ DB *gorm.DB }

func NewTokenRepository(db *gorm.DB) *TokenRepository { return &TokenRepository{DB: db} }

func (r *TokenRepository) Blacklist(token string, userID uint, expiresAt time.Time) error {
	return r.DB.Create(&entity.TokenBlacklist{Token: token, UserID: userID, ExpiresAt: expiresAt}).Error
}

func (r *TokenRepository) IsBlacklisted(token string) (bool, error) {
	var cnt int64
	err := r.DB.Model(&entity.TokenBlacklist{}).Where("token = ?", token).Count(&cnt).Error
	return cnt > 0, err
}

func (r *TokenRepository) DeleteExpired(now time.Time) error {
	return r.DB.Unscoped().Where("expires_at < ?", now).Delete(&entity.TokenBlacklist{}).Error
}

// ---- pending registrations (OTP) ----

func (r *TokenRepository) SaveOtp(o *entity.OtpCode) error {
	// one pending registration per email
	if err := r.DB.Unscoped().Where("email = ?", o.Email).Delete(&entity.OtpCode{}).Error; err != nil {
		return err
	}
	return r.DB.Create(o).Error
}

func (r *TokenRepository) FindOtp(email string) (*entity.OtpCode, error) {
	var o entity.OtpCode
	if err := r.DB.Where("email = ?", email).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *TokenRepository) DeleteOtp(tx *gorm.DB, id uint) error {
	return tx.Unscoped().Delete(&entity.OtpCode{}, id).Error
}

func (r *TokenRepository) DeleteExpiredOtps(now time.Time) error {
	return r.DB.Unscoped().Where("expires_at < ?", now).Delete(&entity.OtpCode{}).Error
}
