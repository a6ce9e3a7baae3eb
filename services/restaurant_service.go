package services

import (
	"errors"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/entity"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/pkg/apperr"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/repository"

	"gorm.io/gorm"
)

type RestaurantService struct {
	RestRepo *repository.RestaurantRepository
	FoodRepo *repository.FoodRepository
	Access   *AccessService
}

func NewRestaurantService(rr *repository.RestaurantRepository, fr *repository.FoodRepository, access *AccessService) *RestaurantService {
	return &RestaurantService{RestRepo: rr, FoodRepo: fr, Access: access}
}

func (s *RestaurantService) List() ([]entity.Restaurant, error) {
	out, err := s.RestRepo.List(true)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error listing restaurants", err)
	}
	if out == nil {
		out = []entity.Restaurant{}
	}
	return out, nil
}

func (s *RestaurantService) Get(id uint) (*entity.Restaurant, error) {
	rest, err := s.RestRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "restaurant not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error fetching restaurant", err)
	}
	return rest, nil
}

func (s *RestaurantService) Menu(restID uint) ([]entity.Food, error) {
	if _, err := s.Get(restID); err != nil {
		return nil, err
	}
	foods, err := s.FoodRepo.ListForRestaurant(restID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error fetching menu", err)
	}
	if foods == nil {
		foods = []entity.Food{}
	}
	return foods, nil
}

func (s *RestaurantService) Categories() ([]entity.Category, error) {
	cats, err := s.FoodRepo.ListCategories()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error fetching categories", err)
	}
	if cats == nil {
		cats = []entity.Category{}
	}
	return cats, nil
}

// MineFirst returns the caller's first owned restaurant; the dashboard uses
// it as the default context.
func (s *RestaurantService) MineFirst(userID uint) (*entity.Restaurant, error) {
	ids, err := s.Access.RestaurantIDsForOwner(userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "ownership lookup failed", err)
	}
	if len(ids) == 0 {
		return nil, apperr.New(apperr.NotFound, "no restaurant linked to this account")
	}
	return s.Get(ids[0])
}

func (s *RestaurantService) SetOpen(role string, userID, restID uint, open bool) (*entity.Restaurant, error) {
	rest, err := s.Get(restID)
	if err != nil {
		return nil, err
	}
	if err := s.Access.AuthorizeRestaurant(role, userID, restID, ActionOpenClose); err != nil {
		return nil, err
	}
	if err := s.RestRepo.SetOpen(restID, open); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error updating restaurant", err)
	}
	rest.IsOpen = open
	return rest, nil
}

type FoodIn struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Image       string  `json:"image"`
	CategoryID  uint    `json:"categoryId"`
	IsAvailable *bool   `json:"isAvailable"`
}

func (s *RestaurantService) CreateFood(role string, userID, restID uint, in *FoodIn) (*entity.Food, error) {
	if _, err := s.Get(restID); err != nil {
		return nil, err
	}
	if err := s.Access.AuthorizeRestaurant(role, userID, restID, ActionManageFood); err != nil {
		return nil, err
	}

	food := &entity.Food{
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		Image:        in.Image,
		CategoryID:   in.CategoryID,
		RestaurantID: restID,
		IsAvailable:  true,
	}
	if in.IsAvailable != nil {
		food.IsAvailable = *in.IsAvailable
	}
	if err := s.FoodRepo.Create(food); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error creating food item", err)
	}
	return food, nil
}

func (s *RestaurantService) UpdateFood(role string, userID, foodID uint, in *FoodIn) (*entity.Food, error) {
	food, err := s.FoodRepo.FindWithRestaurant(foodID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "food item not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error updating food item", err)
	}
	if err := s.Access.AuthorizeRestaurant(role, userID, food.RestaurantID, ActionManageFood); err != nil {
		return nil, err
	}

	food.Name = in.Name
	food.Description = in.Description
	food.Price = in.Price
	food.Image = in.Image
	if in.CategoryID != 0 {
		food.CategoryID = in.CategoryID
	}
	if in.IsAvailable != nil {
		food.IsAvailable = *in.IsAvailable
	}
	if err := s.FoodRepo.Update(food); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error updating food item", err)
	}
	return food, nil
}

func (s *RestaurantService) SetFoodAvailable(role string, userID, foodID uint, available bool) (*entity.Food, error) {
	food, err := s.FoodRepo.FindWithRestaurant(foodID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "food item not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error updating food item", err)
	}
	if err := s.Access.AuthorizeRestaurant(role, userID, food.RestaurantID, ActionManageFood); err != nil {
		return nil, err
	}
	if err := s.FoodRepo.SetAvailable(foodID, available); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error updating food item", err)
	}
	food.IsAvailable = available
	return food, nil
}
