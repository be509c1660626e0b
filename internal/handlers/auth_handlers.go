package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/rhanierex/Gym-Management/internal/membership"
	"github.com/rhanierex/Gym-Management/internal/middleware"
	"github.com/rhanierex/Gym-Management/internal/models"
)

const (
	sessionTTL        = 24 * time.Hour
	minPasswordLength = 6
)

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

type registerAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type profileRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// RegisterAdmin creates the one admin account. Refused once any admin
// exists; afterwards credentials change through the profile endpoints.
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	var req registerAdminRequest
	if err := c.Bind(&req); err != nil {
		return &membership.ValidationError{Field: "body", Reason: "malformed request body"}
	}
	if req.Username == "" {
		return &membership.ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if len(req.Password) < minPasswordLength {
		return &membership.ValidationError{Field: "password", Reason: "must be at least 6 characters"}
	}

	var count int64
	if err := h.db.WithContext(c.Request().Context()).Model(&models.AdminUser{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return &membership.ConflictError{Op: "an admin account already exists"}
	}

	admin := models.AdminUser{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Role:     "admin",
	}
	if err := admin.SetPassword(req.Password); err != nil {
		return err
	}
	if err := h.db.WithContext(c.Request().Context()).Create(&admin).Error; err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, admin)
}

// Login verifies credentials and sets the session cookie
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return &membership.ValidationError{Field: "body", Reason: "malformed request body"}
	}

	var admin models.AdminUser
	err := h.db.WithContext(c.Request().Context()).
		Where("username = ?", req.Username).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !admin.CheckPassword(req.Password)) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}
	if err != nil {
		return err
	}

	now := time.Now()
	admin.LastLogin = &now
	h.db.WithContext(c.Request().Context()).Model(&admin).Update("last_login", now)

	token, err := middleware.NewSessionToken(admin, sessionTTL)
	if err != nil {
		return err
	}
	c.SetCookie(middleware.SessionCookie(token, int(sessionTTL.Seconds())))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  admin,
	})
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(middleware.SessionCookie("", -1))
	return c.JSON(http.StatusOK, ok("logged out"))
}

func (h *AuthHandler) currentAdmin(c echo.Context) (*models.AdminUser, error) {
	userID, _ := c.Get("userID").(uint)

	var admin models.AdminUser
	err := h.db.WithContext(c.Request().Context()).First(&admin, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "session user no longer exists")
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// Profile returns the signed-in admin account
func (h *AuthHandler) Profile(c echo.Context) error {
	admin, err := h.currentAdmin(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, admin)
}

// UpdateProfile changes the admin's display name and email
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return &membership.ValidationError{Field: "body", Reason: "malformed request body"}
	}

	admin, err := h.currentAdmin(c)
	if err != nil {
		return err
	}

	admin.FullName = req.FullName
	admin.Email = req.Email
	if err := h.db.WithContext(c.Request().Context()).Save(admin).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, admin)
}

// ChangePassword rotates the admin password after verifying the current one
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return &membership.ValidationError{Field: "body", Reason: "malformed request body"}
	}
	if len(req.NewPassword) < minPasswordLength {
		return &membership.ValidationError{Field: "new_password", Reason: "must be at least 6 characters"}
	}

	admin, err := h.currentAdmin(c)
	if err != nil {
		return err
	}
	if !admin.CheckPassword(req.CurrentPassword) {
		return echo.NewHTTPError(http.StatusUnauthorized, "current password is incorrect")
	}

	if err := admin.SetPassword(req.NewPassword); err != nil {
		return err
	}
	if err := h.db.WithContext(c.Request().Context()).Save(admin).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("password updated"))
}
