package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulalivre/aulalivre/internal/api/dto"
	ierr "github.com/aulalivre/aulalivre/internal/errors"
	"github.com/aulalivre/aulalivre/internal/logger"
	"github.com/aulalivre/aulalivre/internal/service"
)

type AuthHandler struct {
	service service.AuthService
	log     *logger.Logger
}

func NewAuthHandler(service service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{service: service, log: log}
}

func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debugw("failed to bind login request", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	result, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		UserID: result.UserID,
		Role:   result.Role,
		Token:  result.Token,
	})
}
