package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/victorgraciaweb/greelow-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		FullName string `json:"full_name" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("invalid request body"))
		return
	}
	user, accessToken, refreshToken, err := ah.authService.Register(c.Request.Context(), req.Email, req.FullName, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) || errors.Is(err, services.ErrInvalidCredentials) {
			RespondError(c, http.StatusBadRequest, "registration_failed", err)
			return
		}
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user":          user,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    int(ah.authService.GetAccessTTL().Seconds()),
	})
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("invalid request body"))
		return
	}
	user, accessToken, refreshToken, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			RespondError(c, http.StatusUnauthorized, "invalid_credentials", err)
			return
		}
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"user":          user,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    int(ah.authService.GetAccessTTL().Seconds()),
	})
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("invalid request body"))
		return
	}
	accessToken, refreshToken, err := ah.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			RespondError(c, http.StatusUnauthorized, "invalid_token", err)
			return
		}
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    int(ah.authService.GetAccessTTL().Seconds()),
	})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.Logout(c.Request.Context()); err != nil {
		RespondError(c, http.StatusBadRequest, "logout_failed", err)
		return
	}
	RespondOK(c, gin.H{"message": "logged out successfully"})
}
