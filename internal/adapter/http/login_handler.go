package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/megatonytrader/express-entregas-zap/configs"
	"github.com/megatonytrader/express-entregas-zap/internal/security"
	"github.com/megatonytrader/express-entregas-zap/internal/usecase"
)

type AuthHandler struct {
	cfg      configs.Config
	accounts usecase.AccountRepo
}

func NewAuthHandler(cfg configs.Config, accounts usecase.AccountRepo) *AuthHandler {
	return &AuthHandler{cfg: cfg, accounts: accounts}
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies the credentials and the role and issues a bearer token.
// Only role=admin sessions are issued at all: a valid password with any
// other role is rejected the same way as a bad password, so the endpoint
// does not leak which accounts exist.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	acc, err := h.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	if !security.CheckPassword(acc.PasswordHash, req.Password) || acc.Role != "admin" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  h.cfg.Security.Issuer,
		"aud":  h.cfg.Security.Audience,
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"exp":  now.Add(h.cfg.Security.TTL).Unix(),
		"sub":  acc.UserID,
		"role": acc.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.Security.JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": signed,
		"token_type":   "Bearer",
		"expires_in":   int(h.cfg.Security.TTL.Seconds()),
	})
}

type changePasswordReq struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// ChangePassword lets the logged-in admin rotate their own password. The
// current password must check out even though the session is already
// authenticated.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	userID, _ := c.Value("user_id").(string)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	acc, err := h.accounts.GetByID(ctx, userID)
	if err != nil {
		notFoundOr500(c, err, "load account")
		return
	}
	if !security.CheckPassword(acc.PasswordHash, req.CurrentPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	hash, err := security.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	if err := h.accounts.UpdatePassword(ctx, userID, hash); err != nil {
		notFoundOr500(c, err, "update password")
		return
	}
	c.Status(http.StatusNoContent)
}
