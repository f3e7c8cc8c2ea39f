package handler

import (
	"net/http"

	"execution-os/internal/logger"
	"execution-os/internal/middleware"
	"execution-os/internal/model"
	"execution-os/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth   *service.AuthService
	tokens *middleware.TokenIssuer
}

func NewAuthHandler(auth *service.AuthService, tokens *middleware.TokenIssuer) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	u, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, u)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}

	u, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warn("login.failed", "email", req.Email)
		fail(c, err)
		return
	}

	logger.Info("login.ok", "uid", u.ID)
	h.respondWithToken(c, http.StatusOK, u)
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.auth.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	h.respondWithToken(c, http.StatusOK, u)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, u *model.User) {
	token, err := h.tokens.Issue(u.ID, u.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(status, model.AuthResponse{Token: token, User: service.UserView(u)})
}
