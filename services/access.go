package services

import (
	"github.com/Abhiram-Sandhe/TakeAwayBackend/entity"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/pkg/apperr"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/repository"
)

type Action string

const (
	ActionViewOrder    Action = "order.view"
	ActionUpdateStatus Action = "order.update_status"
	ActionCancelOrder  Action = "order.cancel"
	ActionManageFood   Action = "food.manage"
	ActionOpenClose    Action = "restaurant.open_close"
)

// policy says, per role and action, whether the action is allowed at all and
// whether it additionally requires owning the target. Admin bypasses
// ownership everywhere.
var policy = map[string]map[Action]struct{ allowed, needsOwnership bool }{
	entity.RoleCustomer: {
		ActionViewOrder:   {true, true},
		ActionCancelOrder: {true, true},
	},
	entity.RoleRestaurant: {
		ActionViewOrder:    {true, true},
		ActionUpdateStatus: {true, true},
		ActionCancelOrder:  {true, true},
		ActionManageFood:   {true, true},
		ActionOpenClose:    {true, true},
	},
	entity.RoleAdmin: {
		ActionViewOrder:    {true, false},
		ActionUpdateStatus: {true, false},
		ActionCancelOrder:  {true, false},
		ActionManageFood:   {true, false},
		ActionOpenClose:    {true, false},
	},
}

// AccessService is the single place that answers "may actor X touch Y".
// Restaurant ownership is always resolved through the owner index in the
// restaurants table, never from token claims, so a stale token cannot grant
// access after a reassignment.
type AccessService struct {
	RestRepo *repository.RestaurantRepository
}

func NewAccessService(rr *repository.RestaurantRepository) *AccessService {
	return &AccessService{RestRepo: rr}
}

func (s *AccessService) RestaurantIDsForOwner(userID uint) ([]uint, error) {
	return s.RestRepo.IDsForOwner(userID)
}

func (s *AccessService) OwnsRestaurant(userID, restID uint) (bool, error) {
	return s.RestRepo.IsOwnedBy(restID, userID)
}

// AuthorizeOrder checks the policy table and, when ownership is required,
// resolves it against the order's customer or owning restaurant.
func (s *AccessService) AuthorizeOrder(role string, userID uint, o *entity.Order, action Action) error {
	p, ok := policy[role][action]
	if !ok || !p.allowed {
		return apperr.New(apperr.Forbidden, "access denied")
	}
	if !p.needsOwnership {
		return nil
	}

	switch role {
	case entity.RoleCustomer:
		if o.CustomerID != userID {
			return apperr.New(apperr.Forbidden, "access denied: not your order")
		}
	case entity.RoleRestaurant:
		owns, err := s.OwnsRestaurant(userID, o.RestaurantID)
		if err != nil {
			return apperr.Wrap(apperr.Internal, "ownership lookup failed", err)
		}
		if !owns {
			return apperr.New(apperr.Forbidden, "access denied: not your restaurant's order")
		}
	default:
		return apperr.New(apperr.Forbidden, "access denied")
	}
	return nil
}

// AuthorizeRestaurant is the same gate for restaurant/food mutations.
func (s *AccessService) AuthorizeRestaurant(role string, userID, restID uint, action Action) error {
	p, ok := policy[role][action]
	if !ok || !p.allowed {
		return apperr.New(apperr.Forbidden, "access denied")
	}
	if !p.needsOwnership {
		return nil
	}
	owns, err := s.OwnsRestaurant(userID, restID)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "ownership lookup failed", err)
	}
	if !owns {
		return apperr.New(apperr.Forbidden, "access denied: not your restaurant")
	}
	return nil
}
