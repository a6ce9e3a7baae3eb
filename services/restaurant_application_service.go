package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/entity"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/pkg/apperr"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RestaurantApplicationService struct {
	DB       *gorm.DB
	AppRepo  *repository.RestaurantApplicationRepository
	UserRepo *repository.UserRepository
	RestRepo *repository.RestaurantRepository
}

func NewRestaurantApplicationService(db *gorm.DB, ar *repository.RestaurantApplicationRepository,
	ur *repository.UserRepository, rr *repository.RestaurantRepository) *RestaurantApplicationService {
	return &RestaurantApplicationService{DB: db, AppRepo: ar, UserRepo: ur, RestRepo: rr}
}

type ApplyIn struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address" binding:"required"`
	Phone       string `json:"phone"`
	Cuisine     string `json:"cuisine"`
	Image       string `json:"image"`

	OwnerName     string `json:"ownerName" binding:"required"`
	OwnerEmail    string `json:"ownerEmail" binding:"required,email"`
	OwnerPhone    string `json:"ownerPhone"`
	OwnerPassword string `json:"ownerPassword" binding:"required,min=6"`
}

// Apply records a restaurant application. The password is hashed at submit
// time so the plaintext is never stored anywhere.
func (s *RestaurantApplicationService) Apply(in *ApplyIn) (*entity.RestaurantApplication, error) {
	email := strings.ToLower(strings.TrimSpace(in.OwnerEmail))

	exists, err := s.UserRepo.EmailExists(email)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error submitting application", err)
	}
	if exists {
		return nil, apperr.New(apperr.Conflict, "an account with this email already exists")
	}

	open, err := s.AppRepo.HasOpenApplication(email)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error submitting application", err)
	}
	if open {
		return nil, apperr.New(apperr.Conflict, "an application for this email is already on file")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.OwnerPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error submitting application", err)
	}

	cuisine := in.Cuisine
	if cuisine == "" {
		cuisine = "General"
	}
	app := &entity.RestaurantApplication{
		Name:          in.Name,
		Description:   in.Description,
		Address:       in.Address,
		Phone:         in.Phone,
		Cuisine:       cuisine,
		Image:         in.Image,
		OwnerName:     in.OwnerName,
		OwnerEmail:    email,
		OwnerPhone:    in.OwnerPhone,
		OwnerPassword: string(hash),
		Status:        entity.ApplicationPending,
	}
	if err := s.AppRepo.Create(app); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error submitting application", err)
	}
	return app, nil
}

type ListApplicationsOut struct {
	Applications []entity.RestaurantApplication `json:"applications"`
	Total        int64                          `json:"total"`
}

func (s *RestaurantApplicationService) List(status string, page, limit int) (*ListApplicationsOut, error) {
	apps, total, err := s.AppRepo.List(status, page, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error listing applications", err)
	}
	if apps == nil {
		apps = []entity.RestaurantApplication{}
	}
	return &ListApplicationsOut{Applications: apps, Total: total}, nil
}

// Approve creates the owner user and the restaurant atomically and stamps
// the back-references on the application. The restaurant code, used as the
// order number prefix, is derived from the new restaurant id.
func (s *RestaurantApplicationService) Approve(adminID, appID uint, notes string) (*entity.RestaurantApplication, error) {
	app, err := s.AppRepo.FindByID(appID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "application not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error approving application", err)
	}
	if app.Status != entity.ApplicationPending {
		return nil, apperr.Newf(apperr.Conflict, "application already %s", app.Status)
	}

	exists, err := s.UserRepo.EmailExists(app.OwnerEmail)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error approving application", err)
	}
	if exists {
		return nil, apperr.New(apperr.Conflict, "an account with this email already exists")
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		owner := &entity.User{
			Name:     app.OwnerName,
			Email:    app.OwnerEmail,
			Password: app.OwnerPassword,
			Phone:    app.OwnerPhone,
			Role:     entity.RoleRestaurant,
		}
		if err := s.UserRepo.Create(tx, owner); err != nil {
			return err
		}

		rest := &entity.Restaurant{
			Name:        app.Name,
			Description: app.Description,
			Address:     app.Address,
			Phone:       app.Phone,
			Cuisine:     app.Cuisine,
			Image:       app.Image,
			IsOpen:      true,
			IsActive:    true,
			OwnerID:     owner.ID,
		}
		if err := s.RestRepo.Create(tx, rest); err != nil {
			return err
		}
		if err := s.RestRepo.UpdateCode(tx, rest.ID, fmt.Sprintf("R%03d", rest.ID)); err != nil {
			return err
		}

		now := time.Now()
		app.Status = entity.ApplicationApproved
		app.AdminNotes = notes
		app.ReviewedByID = &adminID
		app.ReviewedAt = &now
		app.CreatedUserID = &owner.ID
		app.CreatedRestaurantID = &rest.ID
		return s.AppRepo.Save(tx, app)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error approving application", err)
	}
	return app, nil
}

func (s *RestaurantApplicationService) Reject(adminID, appID uint, notes string) (*entity.RestaurantApplication, error) {
	app, err := s.AppRepo.FindByID(appID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "application not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error rejecting application", err)
	}
	if app.Status != entity.ApplicationPending {
		return nil, apperr.Newf(apperr.Conflict, "application already %s", app.Status)
	}

	now := time.Now()
	app.Status = entity.ApplicationRejected
	app.AdminNotes = notes
	app.ReviewedByID = &adminID
	app.ReviewedAt = &now
	if err := s.AppRepo.Save(s.DB, app); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error rejecting application", err)
	}
	return app, nil
}
