// auth.go - Registration, login and user management

package handlers

import (
	"net/http"

	"hotel-bookings-backend/middleware"
	"hotel-bookings-backend/services"

	"github.com/gin-gonic/gin"
)

// RegisterInput is the body of POST /auth/register and POST /auth/users.
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"` // Login name, must be a valid address
	Password string `json:"password" binding:"required"`    // Plain text, hashed before storage
}

type LoginInput struct { // Body of POST /auth/login
	Email    string `json:"email" binding:"required"`    // Email (required)
	Password string `json:"password" binding:"required"` // Password (required)
}

// UserUpdateInput is a partial update; omitted fields are left alone.
type UserUpdateInput struct {
	Email    *string `json:"email" binding:"omitempty,email"`    // New email, nil keeps the old one
	Password *string `json:"password" binding:"omitempty,min=1"` // New password, nil keeps the old one
}

// Register creates an account and answers 201 with {id, email}.
func (h *Handler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil { // Parse JSON input
		badRequest(c, err) // Return 400 if invalid
		return
	}
	user, err := h.Users.Register(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login checks the credentials, sets the access_token cookie and returns the
// same token in the body.
func (h *Handler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	token, _, err := h.Users.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		RespondError(c, err)
		return
	}
	h.setTokenCookie(c, token, int(h.TokenTTL.Seconds())) // Cookie lives as long as the token
	c.JSON(http.StatusOK, gin.H{"access_token": token})    // Return token
}

// Logout expires the access_token cookie.
func (h *Handler) Logout(c *gin.Context) {
	h.setTokenCookie(c, "", -1) // Negative max age deletes the cookie
	c.Status(http.StatusNoContent)
}

// Me returns the user TokenAuth resolved.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// setTokenCookie writes the http-only access_token cookie.
func (h *Handler) setTokenCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, value, maxAge, "/", "", h.CookieSecure, true)
}

// ListUsers returns every user without password hashes.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser answers 404 for unknown ids.
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.Users.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser applies a partial update and answers 202.
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input UserUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.Users.Update(c.Request.Context(), id, services.UserUpdate{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, user)
}

// DeleteUser removes the user and their bookings.
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Users.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
