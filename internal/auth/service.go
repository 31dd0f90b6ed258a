package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"credops-backend/internal/emails"
	"credops-backend/internal/models"
	"credops-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetTokenPrefix = "password_reset:"
const resetTokenTTL = time.Hour

// LoginInput for login request body.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput for register request body.
type RegisterInput struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionUserShape is the object stored in session and returned by /me.
type SessionUserShape struct {
	UserID   string `json:"user_id"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	PhotoURL string `json:"photo_url"`
}

// UserFinder abstracts user lookup by email+password (production GORM or test doubles).
type UserFinder interface {
	FindByEmailAndPassword(email, password string) (*models.User, error)
}

// GormUserFinder implements UserFinder using GORM and bcrypt.
type GormUserFinder struct{ DB *gorm.DB }

func (g *GormUserFinder) FindByEmailAndPassword(email, password string) (*models.User, error) {
	return LoginUser(g.DB, LoginInput{Email: email, Password: password})
}

// LoginUser finds user by email and verifies password. Returns user for session or error.
func LoginUser(db *gorm.DB, input LoginInput) (*models.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrEmailPasswordRequired
	}
	var u models.User
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(input.Email))).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidEmail
		}
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, ErrInvalidEmail
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	return &u, nil
}

// RegisterUser validates the input, hashes the password and creates the user.
func RegisterUser(db *gorm.DB, input RegisterInput) (*models.User, error) {
	input.Fullname = strings.TrimSpace(input.Fullname)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if !validation.IsValidFullname(input.Fullname) {
		return nil, ErrInvalidFullname
	}
	if !validation.IsValidEmail(input.Email) {
		return nil, ErrInvalidEmailFormat
	}
	if !validation.IsValidPassword(input.Password) {
		return nil, ErrWeakPassword
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := models.User{
		Fullname:     input.Fullname,
		Email:        input.Email,
		PasswordHash: string(hash),
	}
	if err := db.Create(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// VerifyUser validates the session user and returns the shape for /me.
func VerifyUser(sessionUser interface{}) (*SessionUserShape, error) {
	if sessionUser == nil {
		return nil, ErrNotAuthenticated
	}
	m, ok := sessionUser.(map[string]interface{})
	if !ok {
		return nil, ErrNotAuthenticated
	}
	userID, _ := m["user_id"].(string)
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	return &SessionUserShape{
		UserID:   userID,
		Fullname: str(m["fullname"]),
		Email:    str(m["email"]),
		PhotoURL: str(m["photo_url"]),
	}, nil
}

func str(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// ProfileInput for profile update body. Empty fields are left untouched.
type ProfileInput struct {
	Fullname string `json:"fullname"`
	PhotoURL string `json:"photo_url"`
}

// UpdateProfile changes fullname and/or photo URL of the user.
func UpdateProfile(db *gorm.DB, userID uuid.UUID, input ProfileInput) (*models.User, error) {
	var u models.User
	if err := db.Where("user_id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if input.Fullname != "" {
		input.Fullname = strings.TrimSpace(input.Fullname)
		if !validation.IsValidFullname(input.Fullname) {
			return nil, ErrInvalidFullname
		}
		u.Fullname = input.Fullname
	}
	if input.PhotoURL != "" {
		u.PhotoURL = input.PhotoURL
	}
	if err := db.Save(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// ChangePassword verifies the current password and stores the new one.
func ChangePassword(db *gorm.DB, userID uuid.UUID, current, newPassword string) error {
	var u models.User
	if err := db.Where("user_id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)); err != nil {
		return ErrIncorrectPassword
	}
	if !validation.IsValidPassword(newPassword) {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return db.Model(&u).Update("password_hash", string(hash)).Error
}

// ResetService handles the password reset flow. Tokens live in Redis with a
// one hour TTL, one key per token.
type ResetService struct {
	DB      *gorm.DB
	Rdb     *redis.Client
	Mail    emails.Sender
	BaseURL string
}

// RequestPasswordReset issues a token for the account and mails the reset
// link. Unknown emails return ErrUserNotFound so the handler can decide what
// to disclose.
func (s *ResetService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	var u models.User
	if err := s.DB.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	token := uuid.New().String()
	if err := s.Rdb.Set(ctx, resetTokenPrefix+token, u.UserID.String(), resetTokenTTL).Err(); err != nil {
		return err
	}

	if s.Mail != nil {
		link := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(s.BaseURL, "/"), token)
		if err := s.Mail.SendPasswordReset(ctx, u.Email, link); err != nil {
			return err
		}
	}
	return nil
}

// ResetPassword consumes the token and sets the new password.
func (s *ResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.Rdb.Get(ctx, resetTokenPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrInvalidResetToken
		}
		return err
	}
	if !validation.IsValidPassword(newPassword) {
		return ErrWeakPassword
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return ErrInvalidResetToken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	res := s.DB.Model(&models.User{}).Where("user_id = ?", uid).Update("password_hash", string(hash))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	// Token is single use.
	return s.Rdb.Del(ctx, resetTokenPrefix+token).Err()
}
