package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/internal/service"
)

type AuthHandler struct {
	Users *service.UserService
}

func (h *AuthHandler) Register(r *gin.Engine) {
	r.POST("/api/register", h.register)
	r.POST("/api/login", h.login)
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// @Summary Create an account
// @Tags auth
// @Accept json
// @Param body body registerRequest true "credentials"
// @Success 200 {object} map[string]string
// @Router /api/register [post]
func (h *AuthHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if err := h.Users.Register(c.Request.Context(), req.Username, req.Email, req.Password); err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, gin.H{"username": req.Username}, nil)
}

// @Summary Log in and receive a token
// @Tags auth
// @Accept json
// @Param body body loginRequest true "credentials"
// @Success 200 {object} service.LoginResult
// @Router /api/login [post]
func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	result, err := h.Users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, result, nil)
}
