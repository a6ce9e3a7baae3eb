package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/entity"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/pkg/apperr"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminService covers the back-office operations: managing accounts directly
// and managing restaurants outside the application workflow.
type AdminService struct {
	DB       *gorm.DB
	UserRepo *repository.UserRepository
	RestRepo *repository.RestaurantRepository
	FoodRepo *repository.FoodRepository
}

func NewAdminService(db *gorm.DB, ur *repository.UserRepository,
	rr *repository.RestaurantRepository, fr *repository.FoodRepository) *AdminService {
	return &AdminService{DB: db, UserRepo: ur, RestRepo: rr, FoodRepo: fr}
}

type CreateUserIn struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
	Address  string `json:"address"`
}

func (s *AdminService) CreateUser(in *CreateUserIn) (*entity.User, error) {
	switch in.Role {
	case entity.RoleCustomer, entity.RoleRestaurant, entity.RoleAdmin:
	default:
		return nil, apperr.Newf(apperr.Validation, "invalid role %q", in.Role)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	exists, err := s.UserRepo.EmailExists(email)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error creating user", err)
	}
	if exists {
		return nil, apperr.New(apperr.Conflict, "an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error creating user", err)
	}

	user := &entity.User{
		Name:     in.Name,
		Email:    email,
		Password: string(hash),
		Phone:    in.Phone,
		Address:  in.Address,
		Role:     in.Role,
	}
	if err := s.UserRepo.Create(s.DB, user); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error creating user", err)
	}
	return user, nil
}

func (s *AdminService) ListUsers() ([]entity.User, error) {
	users, err := s.UserRepo.List()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error listing users", err)
	}
	if users == nil {
		users = []entity.User{}
	}
	return users, nil
}

// DeleteUser removes the account; a restaurant owner takes their restaurants
// and menus with them.
func (s *AdminService) DeleteUser(userID uint) error {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.NotFound, "user not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.Internal, "error deleting user", err)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if user.Role == entity.RoleRestaurant {
			// all reads go through tx; sqlite holds the write lock here
			var ids []uint
			if err := tx.Model(&entity.Restaurant{}).Where("owner_id = ?", user.ID).Pluck("id", &ids).Error; err != nil {
				return err
			}
			for _, id := range ids {
				if err := s.FoodRepo.DeleteForRestaurant(tx, id); err != nil {
					return err
				}
				if err := s.RestRepo.Delete(tx, id); err != nil {
					return err
				}
			}
		}
		return s.UserRepo.Delete(tx, user.ID)
	})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "error deleting user", err)
	}
	return nil
}

// AdminRestaurantOut exposes the owner that the public shape hides.
type AdminRestaurantOut struct {
	entity.Restaurant
	Owner entity.User `json:"owner"`
}

func (s *AdminService) ListRestaurants() ([]AdminRestaurantOut, error) {
	rests, err := s.RestRepo.ListWithOwner()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error listing restaurants", err)
	}
	out := make([]AdminRestaurantOut, 0, len(rests))
	for _, r := range rests {
		out = append(out, AdminRestaurantOut{Restaurant: r, Owner: r.Owner})
	}
	return out, nil
}

type AdminCreateRestaurantIn struct {
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

// CreateRestaurant is the direct path that skips the application queue: the
// owner account and the restaurant are created together, same as an
// approval.
func (s *AdminService) CreateRestaurant(in *AdminCreateRestaurantIn) (*entity.Restaurant, error) {
	email := strings.ToLower(strings.TrimSpace(in.OwnerEmail))
	exists, err := s.UserRepo.EmailExists(email)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error creating restaurant", err)
	}
	if exists {
		return nil, apperr.New(apperr.Conflict, "an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.OwnerPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error creating restaurant", err)
	}

	cuisine := in.Cuisine
	if cuisine == "" {
		cuisine = "General"
	}

	var rest *entity.Restaurant
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		owner := &entity.User{
			Name:     in.OwnerName,
			Email:    email,
			Password: string(hash),
			Phone:    in.OwnerPhone,
			Role:     entity.RoleRestaurant,
		}
		if err := s.UserRepo.Create(tx, owner); err != nil {
			return err
		}

		rest = &entity.Restaurant{
			Name:        in.Name,
			Description: in.Description,
			Address:     in.Address,
			Phone:       in.Phone,
			Cuisine:     cuisine,
			Image:       in.Image,
			IsOpen:      true,
			IsActive:    true,
			OwnerID:     owner.ID,
		}
		if err := s.RestRepo.Create(tx, rest); err != nil {
			return err
		}
		rest.Code = fmt.Sprintf("R%03d", rest.ID)
		return s.RestRepo.UpdateCode(tx, rest.ID, rest.Code)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error creating restaurant", err)
	}
	return rest, nil
}

type AdminUpdateRestaurantIn struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address" binding:"required"`
	Phone       string `json:"phone"`
	Cuisine     string `json:"cuisine"`
	Image       string `json:"image"`
}

func (s *AdminService) UpdateRestaurant(restID uint, in *AdminUpdateRestaurantIn) (*entity.Restaurant, error) {
	rest, err := s.RestRepo.FindByID(restID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "restaurant not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error updating restaurant", err)
	}

	rest.Name = in.Name
	rest.Description = in.Description
	rest.Address = in.Address
	rest.Phone = in.Phone
	rest.Image = in.Image
	if in.Cuisine != "" {
		rest.Cuisine = in.Cuisine
	}
	if err := s.RestRepo.Save(rest); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error updating restaurant", err)
	}
	return rest, nil
}

// DeleteRestaurant removes the restaurant and its menu. The owner account
// stays; they can apply again.
func (s *AdminService) DeleteRestaurant(restID uint) error {
	_, err := s.RestRepo.FindByID(restID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.NotFound, "restaurant not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.Internal, "error deleting restaurant", err)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.FoodRepo.DeleteForRestaurant(tx, restID); err != nil {
			return err
		}
		return s.RestRepo.Delete(tx, restID)
	})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "error deleting restaurant", err)
	}
	return nil
}
