package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Abhiram-Sandhe/TakeAwayBackend/entity"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/external/mail"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/pkg/apperr"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/repository"
	"github.com/Abhiram-Sandhe/TakeAwayBackend/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const otpTTL = 10 * time.Minute

type AuthService struct {
	DB        *gorm.DB
	UserRepo  *repository.UserRepository
	TokenRepo *repository.TokenRepository
	CartSvc   *CartService
	Mail      mail.Sender
	JWTSecret string
	JWTTTL    time.Duration
	Log       *slog.Logger
}

func NewAuthService(db *gorm.DB, ur *repository.UserRepository, tr *repository.TokenRepository,
	carts *CartService, sender mail.Sender, jwtSecret string, jwtTTL time.Duration, log *slog.Logger) *AuthService {
	return &AuthService{
		DB: db, UserRepo: ur, TokenRepo: tr, CartSvc: carts, Mail: sender,
		JWTSecret: jwtSecret, JWTTTL: jwtTTL, Log: log,
	}
}

type RegisterIn struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func generateOtp() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	n := int(b[0])<<16 | int(b[1])<<8 | int(b[2])
	return fmt.Sprintf("%06d", n%1000000), nil
}

// Register stores a pending registration and mails the OTP. No user row
// exists until the code is verified; if the mail cannot be sent the whole
// registration fails so the caller knows to retry.
func (s *AuthService) Register(in *RegisterIn) error {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	exists, err := s.UserRepo.EmailExists(email)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "error registering user", err)
	}
	if exists {
		return apperr.New(apperr.Conflict, "an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "error registering user", err)
	}

	code, err := generateOtp()
	if err != nil {
		return apperr.Wrap(apperr.Internal, "error registering user", err)
	}

	if err := s.Mail.Send(email, "Verify your email", mail.OtpHTML(code)); err != nil {
		return apperr.Wrap(apperr.External, "could not send verification email, please try again", err)
	}

	otp := &entity.OtpCode{
		Email:        email,
		Code:         code,
		Name:         in.Name,
		PasswordHash: string(hash),
		Phone:        in.Phone,
		Address:      in.Address,
		ExpiresAt:    time.Now().Add(otpTTL),
	}
	if err := s.TokenRepo.SaveOtp(otp); err != nil {
		return apperr.Wrap(apperr.Internal, "error registering user", err)
	}
	return nil
}

type VerifyOtpIn struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

type AuthOut struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

// VerifyOtp turns a pending registration into a real user and signs them in.
func (s *AuthService) VerifyOtp(in *VerifyOtpIn) (*AuthOut, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	otp, err := s.TokenRepo.FindOtp(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "no pending registration for this email")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error verifying code", err)
	}
	if time.Now().After(otp.ExpiresAt) {
		return nil, apperr.New(apperr.Validation, "verification code expired, please register again")
	}
	if otp.Code != in.Code {
		return nil, apperr.New(apperr.Validation, "invalid verification code")
	}

	user := &entity.User{
		Name:     otp.Name,
		Email:    otp.Email,
		Password: otp.PasswordHash,
		Phone:    otp.Phone,
		Address:  otp.Address,
		Role:     entity.RoleCustomer,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.UserRepo.Create(tx, user); err != nil {
			return err
		}
		return s.TokenRepo.DeleteOtp(tx, otp.ID)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error verifying code", err)
	}

	token, err := utils.GenerateToken(user.ID, user.Role, s.JWTSecret, s.JWTTTL)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error signing in", err)
	}
	return &AuthOut{Token: token, User: user}, nil
}

type LoginIn struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	SessionID string `json:"sessionId"` // guest cart to merge, optional
}

type LoginOut struct {
	Token        string       `json:"token"`
	User         *entity.User `json:"user"`
	Cart         *entity.Cart `json:"cart,omitempty"`
	MergeMessage string       `json:"mergeMessage,omitempty"`
}

// Login authenticates and, when a guest session id rides along, merges the
// guest cart into the user's cart.
func (s *AuthService) Login(in *LoginIn) (*LoginOut, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	user, err := s.UserRepo.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.Validation, "invalid email or password")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error signing in", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return nil, apperr.New(apperr.Validation, "invalid email or password")
	}

	token, err := utils.GenerateToken(user.ID, user.Role, s.JWTSecret, s.JWTTTL)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error signing in", err)
	}

	out := &LoginOut{Token: token, User: user}
	if in.SessionID != "" && user.Role == entity.RoleCustomer {
		cart, msg, err := s.CartSvc.Merge(in.SessionID, user.ID)
		if err != nil {
			// login still succeeds; the guest cart stays recoverable
			s.Log.Warn("cart merge on login failed", "userId", user.ID, "error", err)
		} else {
			out.Cart = cart
			out.MergeMessage = msg
		}
	}
	return out, nil
}

// Logout blacklists the presented token until its natural expiry.
func (s *AuthService) Logout(token string, userID uint) error {
	claims, err := utils.ParseToken(token, s.JWTSecret)
	if err != nil {
		return apperr.New(apperr.Validation, "invalid token")
	}
	expiresAt := time.Now().Add(s.JWTTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.TokenRepo.Blacklist(token, userID, expiresAt); err != nil {
		return apperr.Wrap(apperr.Internal, "error signing out", err)
	}
	return nil
}

func (s *AuthService) Me(userID uint) (*entity.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error fetching profile", err)
	}
	return user, nil
}

// PurgeExpired clears expired blacklist entries and stale pending
// registrations; called from the housekeeping loop.
func (s *AuthService) PurgeExpired(now time.Time) {
	if err := s.TokenRepo.DeleteExpired(now); err != nil {
		s.Log.Warn("token blacklist purge failed", "error", err)
	}
	if err := s.TokenRepo.DeleteExpiredOtps(now); err != nil {
		s.Log.Warn("otp purge failed", "error", err)
	}
}
