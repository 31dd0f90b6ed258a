package auth

import (
	"context"
	"errors"

	"credops-backend/internal/emails"
	"credops-backend/internal/middleware"
	"credops-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	DB         *gorm.DB
	UserFinder UserFinder
	Rdb        *redis.Client
	Config     middleware.SessionConfig
	Mail       emails.Sender
	Notifier   *Notifier
	Reset      *ResetService
}

// Register POST /api/v1/auth/register — validate, create user, open session,
// send the welcome email.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	user, err := RegisterUser(h.DB, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidFullname),
			errors.Is(err, ErrInvalidEmailFormat),
			errors.Is(err, ErrWeakPassword),
			errors.Is(err, ErrEmailTaken):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	sessionID := h.openSession(c, user.UserID.String(), user.Fullname, user.Email, user.PhotoURL)
	if sessionID == "" {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	if h.Mail != nil {
		if err := h.Mail.SendWelcome(context.Background(), user.Email, user.Fullname); err != nil {
			log.Warn().Err(err).Str("email", user.Email).Msg("welcome email failed")
		}
	}
	if h.Notifier != nil {
		h.Notifier.Notify(Event{Type: EventLogin, UserID: user.UserID.String(), Email: user.Email})
	}

	return response.SuccessCreated(c, "Account created successfully", fiber.Map{
		"user": sessionShape(user.UserID.String(), user.Fullname, user.Email, user.PhotoURL),
	}, nil)
}

// Login POST /api/v1/auth/login — authenticate, create session, track it in
// Redis, set cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	if h.UserFinder == nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	var req LoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}
	if req.Email == "" || req.Password == "" {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}

	user, err := h.UserFinder.FindByEmailAndPassword(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailPasswordRequired):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrIncorrectPassword):
			return response.Error(c, err.Error(), fiber.StatusUnauthorized, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	sessionID := h.openSession(c, user.UserID.String(), user.Fullname, user.Email, user.PhotoURL)
	if sessionID == "" {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	if h.Notifier != nil {
		h.Notifier.Notify(Event{Type: EventLogin, UserID: user.UserID.String(), Email: user.Email})
	}

	return response.Success(c, "Login successful", fiber.Map{
		"user": sessionShape(user.UserID.String(), user.Fullname, user.Email, user.PhotoURL),
	}, nil)
}

// openSession regenerates the session id, stores the user in the session,
// tracks the session id under the user's set and sets the cookie. Returns ""
// when Redis tracking fails.
func (h *Handlers) openSession(c *fiber.Ctx, userID, fullname, email, photoURL string) string {
	sessionID := middleware.RegenerateSessionID(c)

	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:   userID,
		Fullname: fullname,
		Email:    email,
		PhotoURL: photoURL,
	})

	if err := h.Rdb.SAdd(context.Background(), userSessionsPrefix+userID, sessionID).Err(); err != nil {
		return ""
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = sessionID
	c.Cookie(&cookie)
	return sessionID
}

func sessionShape(userID, fullname, email, photoURL string) fiber.Map {
	return fiber.Map{
		"user_id":   userID,
		"fullname":  fullname,
		"email":     email,
		"photo_url": photoURL,
	}
}

// Me GET /api/v1/auth/me — return current session user.
func (h *Handlers) Me(c *fiber.Ctx) error {
	sessionUser := middleware.GetUser(c)

	user, err := VerifyUser(sessionUser)
	if err != nil {
		return response.Error(c, "Not authenticated", fiber.StatusUnauthorized, nil)
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": user}, nil)
}

// Logout DELETE /api/v1/auth/logout — drop session tracking, delete the
// session key, clear the cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	sessionUser := middleware.GetUser(c)

	ctx := context.Background()

	var userID, email string
	if m, ok := sessionUser.(map[string]interface{}); ok {
		userID, _ = m["user_id"].(string)
		email, _ = m["email"].(string)
	}
	if userID != "" && sessionID != "" {
		_ = h.Rdb.SRem(ctx, userSessionsPrefix+userID, sessionID).Err()
	}
	if sessionID != "" {
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
	}

	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	if h.Notifier != nil && userID != "" {
		h.Notifier.Notify(Event{Type: EventLogout, UserID: userID, Email: email})
	}

	return response.Success(c, "Logged out successfully", nil, nil)
}

// UpdateProfile PATCH /api/v1/auth/profile — fullname and/or photo URL.
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	user, err := VerifyUser(middleware.GetUser(c))
	if err != nil {
		return response.Error(c, "Not authenticated", fiber.StatusUnauthorized, nil)
	}
	uid, err := uuid.Parse(user.UserID)
	if err != nil {
		return response.Error(c, "Not authenticated", fiber.StatusUnauthorized, nil)
	}

	var req ProfileInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	updated, err := UpdateProfile(h.DB, uid, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidFullname):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case errors.Is(err, ErrUserNotFound):
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		default:
			return response.Error(c, "Failed to update profile", fiber.StatusInternalServerError, nil)
		}
	}

	// Keep the session copy in sync with the record.
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:   updated.UserID.String(),
		Fullname: updated.Fullname,
		Email:    updated.Email,
		PhotoURL: updated.PhotoURL,
	})

	return response.Success(c, "Profile updated successfully", fiber.Map{
		"user": sessionShape(updated.UserID.String(), updated.Fullname, updated.Email, updated.PhotoURL),
	}, nil)
}

// PasswordChangeRequest body for PATCH /password.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword PATCH /api/v1/auth/password.
func (h *Handlers) ChangePassword(c *fiber.Ctx) error {
	user, err := VerifyUser(middleware.GetUser(c))
	if err != nil {
		return response.Error(c, "Not authenticated", fiber.StatusUnauthorized, nil)
	}
	uid, err := uuid.Parse(user.UserID)
	if err != nil {
		return response.Error(c, "Not authenticated", fiber.StatusUnauthorized, nil)
	}

	var req PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return response.Error(c, "Current and new passwords are required", fiber.StatusBadRequest, nil)
	}

	if err := ChangePassword(h.DB, uid, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, ErrIncorrectPassword), errors.Is(err, ErrWeakPassword):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case errors.Is(err, ErrUserNotFound):
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		default:
			return response.Error(c, "Failed to change password", fiber.StatusInternalServerError, nil)
		}
	}
	return response.Success(c, "Password changed successfully", nil, nil)
}

// PasswordResetRequest body for POST /password-reset.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// RequestPasswordReset POST /api/v1/auth/password-reset — issue a token and
// mail the link. Unknown emails get the same response so accounts cannot be
// enumerated.
func (h *Handlers) RequestPasswordReset(c *fiber.Ctx) error {
	var req PasswordResetRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return response.Error(c, "Email is required", fiber.StatusBadRequest, nil)
	}

	if err := h.Reset.RequestPasswordReset(c.Context(), req.Email); err != nil && !errors.Is(err, ErrUserNotFound) {
		log.Error().Err(err).Msg("password reset request failed")
		return response.Error(c, "Failed to request password reset", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "If the email is registered, a reset link has been sent", nil, nil)
}

// PasswordResetConfirm body for POST /password-reset/confirm.
type PasswordResetConfirm struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ConfirmPasswordReset POST /api/v1/auth/password-reset/confirm.
func (h *Handlers) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req PasswordResetConfirm
	if err := c.BodyParser(&req); err != nil || req.Token == "" || req.NewPassword == "" {
		return response.Error(c, "Token and new password are required", fiber.StatusBadRequest, nil)
	}

	if err := h.Reset.ResetPassword(c.Context(), req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, ErrInvalidResetToken), errors.Is(err, ErrWeakPassword):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		default:
			return response.Error(c, "Failed to reset password", fiber.StatusInternalServerError, nil)
		}
	}
	return response.Success(c, "Password reset successfully", nil, nil)
}
