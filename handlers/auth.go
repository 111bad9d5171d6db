package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/AhmadFauzanZW/wilopo-cargo/auth"
	"github.com/AhmadFauzanZW/wilopo-cargo/config"
	"github.com/AhmadFauzanZW/wilopo-cargo/middleware"
	"github.com/AhmadFauzanZW/wilopo-cargo/models"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	cfg       *config.Config
	users     *models.UserStore
	notifier  *Notifier
	loginRate *middleware.RateLimiter
}

func NewAuthHandler(cfg *config.Config, users *models.UserStore, notifier *Notifier, loginRate *middleware.RateLimiter) *AuthHandler {
	return &AuthHandler{cfg: cfg, users: users, notifier: notifier, loginRate: loginRate}
}

// Register обрабатывает POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		Password    string `json:"password" binding:"required,min=6"`
		FullName    string `json:"full_name" binding:"required"`
		CompanyName string `json:"company_name"`
		Phone       string `json:"phone"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Проверяем, не занят ли email
	if _, err := h.users.FindByEmail(c.Request.Context(), req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
		return
	} else if !errors.Is(err, models.ErrNotFound) {
		log.Printf("❌ Ошибка проверки email: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error during registration"})
		return
	}

	user, err := h.users.Create(c.Request.Context(), req.Email, req.Password, req.FullName, req.CompanyName, req.Phone)
	if err != nil {
		log.Printf("❌ Ошибка создания пользователя: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error during registration"})
		return
	}

	accessToken, refreshToken, err := auth.GenerateTokenPair(h.cfg, user.ID, user.Email, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate tokens"})
		return
	}

	// Приветственное уведомление + письмо, не блокируем ответ
	go h.notifier.NotifyNewUser(user)

	c.JSON(http.StatusCreated, gin.H{
		"user":          user,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// Login обрабатывает POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Лимит попыток входа по IP
	if h.loginRate.Limit(c.ClientIP()) {
		log.Printf("⚠️ Превышен лимит попыток входа с IP %s", c.ClientIP())
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts, try again later"})
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if !models.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	accessToken, refreshToken, err := auth.GenerateTokenPair(h.cfg, user.ID, user.Email, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":           user.ID,
			"email":        user.Email,
			"full_name":    user.FullName,
			"company_name": user.CompanyName,
			"phone":        user.Phone,
			"role":         user.Role,
		},
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// Me обрабатывает GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID.(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Refresh обрабатывает POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accessToken, refreshToken, err := auth.RefreshTokens(h.cfg, req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}
