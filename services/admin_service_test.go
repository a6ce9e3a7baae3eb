package services

import (
	"testing"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/entity"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/pkg/apperr"

	"golang.org/x/crypto/bcrypt"
)

func newAdminFixture(t *testing.T) (*fixture, *AdminService) {
	t.Helper()
	f := newFixture(t)
	return f, NewAdminService(f.db, f.userRepo, f.restRepo, f.foodRepo)
}

func TestAdminCreateUser(t *testing.T) {
	_, svc := newAdminFixture(t)

	user, err := svc.CreateUser(&CreateUserIn{
		Name: "Ravi", Email: "Ravi@Test.Local", Phone: "9876543210",
		Password: "secret123", Role: entity.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Email != "ravi@test.local" {
		t.Errorf("email not normalised: %q", user.Email)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")) != nil {
		t.Error("password not hashed")
	}

	// duplicate email
	_, err = svc.CreateUser(&CreateUserIn{
		Name: "Other", Email: "ravi@test.local", Phone: "9876543211",
		Password: "secret123", Role: entity.RoleCustomer,
	})
	if !apperr.Is(err, apperr.Conflict) {
		t.Errorf("duplicate email: expected Conflict, got %v", err)
	}

	// made-up role
	_, err = svc.CreateUser(&CreateUserIn{
		Name: "Bad", Email: "bad@test.local", Phone: "9876543212",
		Password: "secret123", Role: "superuser",
	})
	if !apperr.Is(err, apperr.Validation) {
		t.Errorf("invalid role: expected Validation, got %v", err)
	}

	users, err := svc.ListUsers()
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("%d users listed, want 1", len(users))
	}
}

func TestAdminDeleteOwnerCascadesRestaurant(t *testing.T) {
	f, svc := newAdminFixture(t)
	owner := f.user(t, entity.RoleRestaurant)
	rest := f.restaurant(t, owner.ID, "R001")
	f.food(t, rest.ID, "Samosa", 20)

	if err := svc.DeleteUser(owner.ID); err != nil {
		t.Fatalf("delete owner: %v", err)
	}

	var rests, foods int64
	f.db.Model(&entity.Restaurant{}).Count(&rests)
	f.db.Model(&entity.Food{}).Count(&foods)
	if rests != 0 || foods != 0 {
		t.Errorf("owned restaurant not cascaded: %d restaurants, %d foods left", rests, foods)
	}

	if err := svc.DeleteUser(owner.ID); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("second delete: expected NotFound, got %v", err)
	}
}

func TestAdminDeleteCustomerKeepsRestaurants(t *testing.T) {
	f, svc := newAdminFixture(t)
	owner := f.user(t, entity.RoleRestaurant)
	f.restaurant(t, owner.ID, "R001")
	customer := f.user(t, entity.RoleCustomer)

	if err := svc.DeleteUser(customer.ID); err != nil {
		t.Fatalf("delete customer: %v", err)
	}
	var rests int64
	f.db.Model(&entity.Restaurant{}).Count(&rests)
	if rests != 1 {
		t.Errorf("unrelated restaurant deleted")
	}
}

func TestAdminCreateRestaurantDirectly(t *testing.T) {
	f, svc := newAdminFixture(t)

	rest, err := svc.CreateRestaurant(&AdminCreateRestaurantIn{
		Name: "Spice Hub", Address: "9 Market Road",
		OwnerName: "Meera", OwnerEmail: "meera@test.local", OwnerPassword: "secret123",
	})
	if err != nil {
		t.Fatalf("create restaurant: %v", err)
	}
	if rest.Code == "" {
		t.Error("no code allocated")
	}
	if !rest.IsOpen || !rest.IsActive {
		t.Errorf("restaurant created closed: open=%v active=%v", rest.IsOpen, rest.IsActive)
	}

	// the owner account exists with the restaurant role and can resolve
	// ownership
	owner, err := f.userRepo.FindByEmail("meera@test.local")
	if err != nil {
		t.Fatalf("owner account missing: %v", err)
	}
	if owner.Role != entity.RoleRestaurant {
		t.Errorf("owner role = %q", owner.Role)
	}
	ids, err := f.access.RestaurantIDsForOwner(owner.ID)
	if err != nil || len(ids) != 1 || ids[0] != rest.ID {
		t.Errorf("ownership index = %v (%v)", ids, err)
	}

	// an existing account blocks the direct path, same as applications
	_, err = svc.CreateRestaurant(&AdminCreateRestaurantIn{
		Name: "Another", Address: "10 Market Road",
		OwnerName: "Meera", OwnerEmail: "meera@test.local", OwnerPassword: "secret123",
	})
	if !apperr.Is(err, apperr.Conflict) {
		t.Errorf("duplicate owner email: expected Conflict, got %v", err)
	}
}

func TestAdminUpdateAndDeleteRestaurant(t *testing.T) {
	f, svc := newAdminFixture(t)
	owner := f.user(t, entity.RoleRestaurant)
	rest := f.restaurant(t, owner.ID, "R001")
	food := f.food(t, rest.ID, "Chaat", 50)

	updated, err := svc.UpdateRestaurant(rest.ID, &AdminUpdateRestaurantIn{
		Name: "Renamed", Address: "2 New Lane", Cuisine: "Fusion",
	})
	if err != nil {
		t.Fatalf("update restaurant: %v", err)
	}
	if updated.Name != "Renamed" || updated.Cuisine != "Fusion" {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.Code != "R001" {
		t.Errorf("code changed on update: %q", updated.Code)
	}

	if err := svc.DeleteRestaurant(rest.ID); err != nil {
		t.Fatalf("delete restaurant: %v", err)
	}
	var foods int64
	f.db.Model(&entity.Food{}).Where("id = ?", food.ID).Count(&foods)
	if foods != 0 {
		t.Errorf("menu survived restaurant deletion")
	}
	if err := svc.DeleteRestaurant(rest.ID); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("second delete: expected NotFound, got %v", err)
	}

	// the owner account stays
	if _, err := f.userRepo.FindByID(owner.ID); err != nil {
		t.Errorf("owner account deleted with restaurant: %v", err)
	}
}
