package services

import (
	"errors"
	"time"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/entity"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/pkg/apperr"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/repository"

	"gorm.io/gorm"
)

type CartService struct {
	DB       *gorm.DB
	CartRepo *repository.CartRepository
	FoodRepo *repository.FoodRepository
	RestRepo *repository.RestaurantRepository
}

func NewCartService(db *gorm.DB, cr *repository.CartRepository, fr *repository.FoodRepository, rr *repository.RestaurantRepository) *CartService {
	return &CartService{DB: db, CartRepo: cr, FoodRepo: fr, RestRepo: rr}
}

// Get never 404s: an unknown identity gets an empty synthetic cart so the
// frontend can always render. Stored carts are healed of items whose food
// went unavailable or whose restaurant closed.
func (s *CartService) Get(id repository.Identity) (*entity.Cart, error) {
	cart, err := s.CartRepo.FindActive(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.emptyCart(id), nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error fetching cart", err)
	}
	if err := s.healCart(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) emptyCart(id repository.Identity) *entity.Cart {
	c := &entity.Cart{Items: []entity.CartItem{}, IsActive: true}
	if id.UserID != 0 {
		uid := id.UserID
		c.UserID = &uid
	} else {
		c.SessionID = id.SessionID
	}
	return c
}

// healCart drops lines whose food is unavailable or whose restaurant has
// closed and persists the filtered cart when anything changed.
func (s *CartService) healCart(cart *entity.Cart) error {
	if len(cart.Items) == 0 {
		return nil
	}

	restaurantOpen := true
	if cart.RestaurantID != nil {
		rest, err := s.RestRepo.FindByID(*cart.RestaurantID)
		if err == nil {
			restaurantOpen = rest.IsOpen
			cart.Restaurant = rest
		}
	}

	var keep []entity.CartItem
	var removed []uint
	for _, it := range cart.Items {
		if restaurantOpen && it.Food.ID != 0 && it.Food.IsAvailable {
			keep = append(keep, it)
		} else {
			removed = append(removed, it.FoodID)
		}
	}
	if len(removed) == 0 {
		return nil
	}

	cart.Items = keep
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.CartRepo.RemoveItems(tx, cart.ID, removed); err != nil {
			return err
		}
		s.recalc(cart)
		return s.CartRepo.SaveTotals(tx, cart)
	})
}

// recalc recomputes the derived fields; called before every persist.
func (s *CartService) recalc(cart *entity.Cart) {
	var total float64
	var count int
	for _, it := range cart.Items {
		total += it.Price * float64(it.Quantity)
		count += it.Quantity
	}
	cart.TotalAmount = total
	cart.ItemCount = count
	if len(cart.Items) == 0 {
		cart.RestaurantID = nil
	} else if cart.RestaurantID == nil {
		rid := cart.Items[0].RestaurantID
		cart.RestaurantID = &rid
	}
	cart.ExpiresAt = time.Now().Add(cart.TTL())
}

type AddIn struct {
	FoodID              uint   `json:"foodId" binding:"required"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"specialInstructions"`
}

func (s *CartService) Add(id repository.Identity, in *AddIn) (*entity.Cart, error) {
	if in.Quantity <= 0 {
		in.Quantity = 1
	}

	food, err := s.FoodRepo.FindWithRestaurant(in.FoodID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "food item not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error adding item to cart", err)
	}
	if !food.IsAvailable {
		return nil, apperr.New(apperr.Unavailable, "food item is not available")
	}
	if !food.Restaurant.IsOpen {
		return nil, apperr.New(apperr.Unavailable, "restaurant is currently closed")
	}

	cart, err := s.CartRepo.GetOrCreate(id)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error adding item to cart", err)
	}

	// one restaurant per cart; hand both ids back so the caller can offer
	// "clear cart and switch"
	if cart.RestaurantID != nil && *cart.RestaurantID != food.RestaurantID {
		return nil, apperr.WithMeta(
			apperr.New(apperr.Conflict, "you can only order from one restaurant at a time"),
			map[string]any{
				"differentRestaurant": true,
				"currentRestaurant":   *cart.RestaurantID,
				"newRestaurant":       food.RestaurantID,
			})
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var existing *entity.CartItem
		for i := range cart.Items {
			if cart.Items[i].FoodID == food.ID {
				existing = &cart.Items[i]
				break
			}
		}
		if existing != nil {
			// atomic field-level increment, not read-modify-write
			if err := s.CartRepo.IncrementQuantity(tx, existing.ID, in.Quantity); err != nil {
				return err
			}
			existing.Quantity += in.Quantity
		} else {
			item := entity.CartItem{
				CartID:              cart.ID,
				FoodID:              food.ID,
				RestaurantID:        food.RestaurantID,
				Quantity:            in.Quantity,
				Price:               food.Price,
				SpecialInstructions: in.SpecialInstructions,
			}
			if err := s.CartRepo.AddItem(tx, &item); err != nil {
				return err
			}
			item.Food = *food
			cart.Items = append(cart.Items, item)
		}

		rid := food.RestaurantID
		cart.RestaurantID = &rid
		s.recalc(cart)
		return s.CartRepo.SaveTotals(tx, cart)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error adding item to cart", err)
	}
	if err := s.healCart(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) UpdateQuantity(id repository.Identity, foodID uint, qty int) (*entity.Cart, error) {
	if qty < 1 {
		return nil, apperr.New(apperr.Validation, "quantity must be at least 1")
	}

	cart, err := s.CartRepo.FindActive(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "cart not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error updating cart item", err)
	}

	var item *entity.CartItem
	for i := range cart.Items {
		if cart.Items[i].FoodID == foodID {
			item = &cart.Items[i]
			break
		}
	}
	if item == nil {
		return nil, apperr.New(apperr.NotFound, "item not found in cart")
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.CartRepo.SetQuantity(tx, item.ID, qty); err != nil {
			return err
		}
		item.Quantity = qty
		s.recalc(cart)
		return s.CartRepo.SaveTotals(tx, cart)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error updating cart item", err)
	}
	if err := s.healCart(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) Remove(id repository.Identity, foodID uint) (*entity.Cart, error) {
	cart, err := s.CartRepo.FindActive(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "cart not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error removing item from cart", err)
	}

	var keep []entity.CartItem
	for _, it := range cart.Items {
		if it.FoodID != foodID {
			keep = append(keep, it)
		}
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.CartRepo.RemoveItem(tx, cart.ID, foodID); err != nil {
			return err
		}
		cart.Items = keep
		s.recalc(cart)
		return s.CartRepo.SaveTotals(tx, cart)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error removing item from cart", err)
	}
	if err := s.healCart(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear is idempotent: clearing a missing cart is a success.
func (s *CartService) Clear(id repository.Identity) (*entity.Cart, error) {
	cart, err := s.CartRepo.FindActive(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.emptyCart(id), nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error clearing cart", err)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.CartRepo.ClearItems(tx, cart.ID); err != nil {
			return err
		}
		cart.Items = nil
		s.recalc(cart)
		return s.CartRepo.SaveTotals(tx, cart)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error clearing cart", err)
	}
	return cart, nil
}

func (s *CartService) Count(id repository.Identity) (int, error) {
	cart, err := s.CartRepo.FindActive(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, apperr.Wrap(apperr.Internal, "error fetching cart count", err)
	}
	return cart.ItemCount, nil
}

// Merge folds a guest cart into the user's cart on login. An empty user
// cart is replaced by re-owning the guest cart; carts pinned to different
// restaurants keep the user cart and deactivate the guest one so that two
// restaurants are never silently mixed; same restaurant sums lines by food.
func (s *CartService) Merge(sessionID string, userID uint) (*entity.Cart, string, error) {
	guest, err := s.CartRepo.FindActive(repository.Identity{SessionID: sessionID})
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && len(guest.Items) == 0) {
		cart, gerr := s.Get(repository.Identity{UserID: userID})
		if gerr != nil {
			return nil, "", gerr
		}
		return cart, "no guest cart to merge", nil
	}
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Internal, "error merging carts", err)
	}

	user, err := s.CartRepo.FindActive(repository.Identity{UserID: userID})
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && len(user.Items) == 0) {
		err = s.DB.Transaction(func(tx *gorm.DB) error {
			if user != nil && user.ID != 0 {
				if err := s.CartRepo.Deactivate(tx, user.ID); err != nil {
					return err
				}
			}
			return s.CartRepo.Reown(tx, guest.ID, userID)
		})
		if err != nil {
			return nil, "", apperr.Wrap(apperr.Internal, "error merging carts", err)
		}
		merged, gerr := s.Get(repository.Identity{UserID: userID})
		if gerr != nil {
			return nil, "", gerr
		}
		return merged, "guest cart converted to user cart", nil
	}
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Internal, "error merging carts", err)
	}

	if guest.RestaurantID != nil && user.RestaurantID != nil && *guest.RestaurantID != *user.RestaurantID {
		if err := s.CartRepo.Deactivate(s.DB, guest.ID); err != nil {
			return nil, "", apperr.Wrap(apperr.Internal, "error merging carts", err)
		}
		return user, "kept existing user cart; guest cart had items from a different restaurant", nil
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, gi := range guest.Items {
			var existing *entity.CartItem
			for i := range user.Items {
				if user.Items[i].FoodID == gi.FoodID {
					existing = &user.Items[i]
					break
				}
			}
			if existing != nil {
				if err := s.CartRepo.IncrementQuantity(tx, existing.ID, gi.Quantity); err != nil {
					return err
				}
				existing.Quantity += gi.Quantity
			} else {
				item := entity.CartItem{
					CartID:              user.ID,
					FoodID:              gi.FoodID,
					RestaurantID:        gi.RestaurantID,
					Quantity:            gi.Quantity,
					Price:               gi.Price,
					SpecialInstructions: gi.SpecialInstructions,
				}
				if err := s.CartRepo.AddItem(tx, &item); err != nil {
					return err
				}
				item.Food = gi.Food
				user.Items = append(user.Items, item)
			}
		}
		if user.RestaurantID == nil {
			user.RestaurantID = guest.RestaurantID
		}
		s.recalc(user)
		if err := s.CartRepo.SaveTotals(tx, user); err != nil {
			return err
		}
		return s.CartRepo.Deactivate(tx, guest.ID)
	})
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Internal, "error merging carts", err)
	}
	return user, "carts merged successfully", nil
}

// PurgeExpired is called from the housekeeping loop.
func (s *CartService) PurgeExpired(now time.Time) error {
	return s.CartRepo.DeleteExpired(now)
}
