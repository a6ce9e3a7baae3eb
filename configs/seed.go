package configs

import (
	"github.com/Abhiram-Sandhe/TakeAwayBackend/entity"

	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin makes sure there is always one admin account to review
// restaurant applications with.
func SeedAdmin(cfg *Config) error {
	var count int64
	if err := db.Model(&entity.User{}).Where("role = ?", entity.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := entity.User{
		Name:     "Administrator",
		Email:    cfg.AdminEmail,
		Password: string(hash),
		Role:     entity.RoleAdmin,
	}
	return db.Create(&admin).Error
}

func SeedCategories() error {
	var count int64
	if err := db.Model(&entity.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	names := []string{"North Indian", "South Indian", "Chinese", "Fast Food", "Desserts", "Beverages"}
	for _, n := range names {
		if err := db.Create(&entity.Category{Name: n}).Error; err != nil {
			return err
		}
	}
	return nil
}
