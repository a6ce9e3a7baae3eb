package services

import (
	"testing"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/entity"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/pkg/apperr"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/repository"
)

func TestCartGetUnknownIdentityReturnsEmptyCart(t *testing.T) {
	f := newFixture(t)

	cart, err := f.carts.Get(repository.Identity{SessionID: "ghost-session"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(cart.Items) != 0 || cart.TotalAmount != 0 || cart.ItemCount != 0 {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}

func TestCartAddRecomputesTotals(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleRestaurant)
	rest := f.restaurant(t, owner.ID, "R001")
	dosa := f.food(t, rest.ID, "Masala Dosa", 80)
	idli := f.food(t, rest.ID, "Idli", 40)

	id := repository.Identity{SessionID: "guest-1"}
	if _, err := f.carts.Add(id, &AddIn{FoodID: dosa.ID, Quantity: 2}); err != nil {
		t.Fatalf("add dosa: %v", err)
	}
	cart, err := f.carts.Add(id, &AddIn{FoodID: idli.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("add idli: %v", err)
	}

	if cart.TotalAmount != 2*80+3*40 {
		t.Errorf("TotalAmount = %v, want 280", cart.TotalAmount)
	}
	if cart.ItemCount != 5 {
		t.Errorf("ItemCount = %d, want 5", cart.ItemCount)
	}
	if cart.RestaurantID == nil || *cart.RestaurantID != rest.ID {
		t.Errorf("cart not pinned to restaurant %d", rest.ID)
	}

	// adding the same food again merges into the existing line
	cart, err = f.carts.Add(id, &AddIn{FoodID: dosa.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("re-add dosa: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Errorf("expected 2 lines, got %d", len(cart.Items))
	}
	if cart.ItemCount != 6 || cart.TotalAmount != 3*80+3*40 {
		t.Errorf("after merge: count=%d total=%v", cart.ItemCount, cart.TotalAmount)
	}
}

func TestCartRejectsSecondRestaurant(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleRestaurant)
	restA := f.restaurant(t, owner.ID, "R001")
	restB := f.restaurant(t, owner.ID, "R002")
	foodA := f.food(t, restA.ID, "Paneer Tikka", 150)
	foodB := f.food(t, restB.ID, "Chow Mein", 120)

	id := repository.Identity{SessionID: "guest-2"}
	if _, err := f.carts.Add(id, &AddIn{FoodID: foodA.ID, Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}

	_, err := f.carts.Add(id, &AddIn{FoodID: foodB.ID, Quantity: 1})
	if !apperr.Is(err, apperr.Conflict) {
		t.Fatalf("expected Conflict, got %v", err)
	}
	meta := apperr.MetaOf(err)
	if meta["currentRestaurant"] != restA.ID || meta["newRestaurant"] != restB.ID {
		t.Errorf("conflict meta = %v", meta)
	}

	// the cart must be untouched by the failed add
	cart, err := f.carts.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(cart.Items) != 1 || cart.TotalAmount != 150 {
		t.Errorf("cart changed after rejected add: %+v", cart)
	}
}

func TestCartUpdateAndRemove(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleRestaurant)
	rest := f.restaurant(t, owner.ID, "R001")
	food := f.food(t, rest.ID, "Biryani", 200)

	id := repository.Identity{SessionID: "guest-3"}
	if _, err := f.carts.Add(id, &AddIn{FoodID: food.ID, Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := f.carts.UpdateQuantity(id, food.ID, 0); !apperr.Is(err, apperr.Validation) {
		t.Errorf("quantity 0: expected Validation, got %v", err)
	}

	cart, err := f.carts.UpdateQuantity(id, food.ID, 4)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if cart.ItemCount != 4 || cart.TotalAmount != 800 {
		t.Errorf("after update: count=%d total=%v", cart.ItemCount, cart.TotalAmount)
	}

	cart, err = f.carts.Remove(id, food.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(cart.Items) != 0 || cart.RestaurantID != nil {
		t.Errorf("removing last item should unpin the restaurant: %+v", cart)
	}
}

func TestCartHealsUnavailableItems(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleRestaurant)
	rest := f.restaurant(t, owner.ID, "R001")
	keep := f.food(t, rest.ID, "Thali", 180)
	gone := f.food(t, rest.ID, "Kulfi", 60)

	id := repository.Identity{SessionID: "guest-4"}
	if _, err := f.carts.Add(id, &AddIn{FoodID: keep.ID, Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := f.carts.Add(id, &AddIn{FoodID: gone.ID, Quantity: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := f.foodRepo.SetAvailable(gone.ID, false); err != nil {
		t.Fatalf("set unavailable: %v", err)
	}

	cart, err := f.carts.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].FoodID != keep.ID {
		t.Fatalf("expected only the available item, got %d items", len(cart.Items))
	}
	if cart.TotalAmount != 180 || cart.ItemCount != 1 {
		t.Errorf("totals not recomputed after healing: total=%v count=%d", cart.TotalAmount, cart.ItemCount)
	}

	// healing persisted, not just filtered in the response
	again, _ := f.carts.Get(id)
	if len(again.Items) != 1 {
		t.Errorf("healing was not persisted")
	}
}

func TestCartMergeGuestIntoEmptyUserCart(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleRestaurant)
	rest := f.restaurant(t, owner.ID, "R001")
	food := f.food(t, rest.ID, "Samosa", 25)
	customer := f.user(t, entity.RoleCustomer)

	guest := repository.Identity{SessionID: "guest-5"}
	if _, err := f.carts.Add(guest, &AddIn{FoodID: food.ID, Quantity: 3}); err != nil {
		t.Fatalf("add: %v", err)
	}

	cart, _, err := f.carts.Merge("guest-5", customer.ID)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if cart.UserID == nil || *cart.UserID != customer.ID {
		t.Errorf("merged cart not owned by user")
	}
	if cart.ItemCount != 3 || cart.TotalAmount != 75 {
		t.Errorf("merged totals: count=%d total=%v", cart.ItemCount, cart.TotalAmount)
	}

	// the guest identity no longer resolves to an active cart
	guestCart, err := f.carts.Get(guest)
	if err != nil {
		t.Fatalf("Get guest: %v", err)
	}
	if len(guestCart.Items) != 0 {
		t.Errorf("guest cart still active after merge")
	}
}

func TestCartMergeSameRestaurantSumsLines(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleRestaurant)
	rest := f.restaurant(t, owner.ID, "R001")
	food := f.food(t, rest.ID, "Vada Pav", 30)
	other := f.food(t, rest.ID, "Bhel", 50)
	customer := f.user(t, entity.RoleCustomer)

	if _, err := f.carts.Add(repository.Identity{UserID: customer.ID}, &AddIn{FoodID: food.ID, Quantity: 1}); err != nil {
		t.Fatalf("user add: %v", err)
	}
	guest := repository.Identity{SessionID: "guest-6"}
	if _, err := f.carts.Add(guest, &AddIn{FoodID: food.ID, Quantity: 2}); err != nil {
		t.Fatalf("guest add: %v", err)
	}
	if _, err := f.carts.Add(guest, &AddIn{FoodID: other.ID, Quantity: 1}); err != nil {
		t.Fatalf("guest add: %v", err)
	}

	cart, _, err := f.carts.Merge("guest-6", customer.ID)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(cart.Items))
	}
	if cart.ItemCount != 4 || cart.TotalAmount != 3*30+50 {
		t.Errorf("merged totals: count=%d total=%v", cart.ItemCount, cart.TotalAmount)
	}
}

func TestCartMergeConflictKeepsUserCart(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleRestaurant)
	restA := f.restaurant(t, owner.ID, "R001")
	restB := f.restaurant(t, owner.ID, "R002")
	foodA := f.food(t, restA.ID, "Dal Makhani", 160)
	foodB := f.food(t, restB.ID, "Momos", 90)
	customer := f.user(t, entity.RoleCustomer)

	if _, err := f.carts.Add(repository.Identity{UserID: customer.ID}, &AddIn{FoodID: foodA.ID, Quantity: 1}); err != nil {
		t.Fatalf("user add: %v", err)
	}
	guest := repository.Identity{SessionID: "guest-7"}
	if _, err := f.carts.Add(guest, &AddIn{FoodID: foodB.ID, Quantity: 1}); err != nil {
		t.Fatalf("guest add: %v", err)
	}

	cart, msg, err := f.carts.Merge("guest-7", customer.ID)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if msg == "carts merged successfully" {
		t.Errorf("expected conflict message, got %q", msg)
	}
	if len(cart.Items) != 1 || cart.Items[0].FoodID != foodA.ID {
		t.Errorf("user cart should be kept unchanged, got %+v", cart.Items)
	}

	// guest cart is gone either way
	guestCart, _ := f.carts.Get(guest)
	if len(guestCart.Items) != 0 {
		t.Errorf("guest cart still active after conflicting merge")
	}
}
