package auth

import (
	"net/http"

	"evcharge/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/user/login", h.LoginUser)
	rg.POST("/admin/login", h.LoginAdmin)
}

func (h *Handler) RegisterUserRoutes(rg *gin.RouterGroup) {
	rg.POST("/user/verify-plate", h.VerifyPlate)
}

func (h *Handler) LoginUser(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Email and password are required")
		return
	}

	token, email, err := h.service.LoginUser(req.Email, req.Password)
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Email and password are required")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue token")
		}
		return
	}

	response.Success(c, http.StatusOK, LoginResponse{
		Token: token,
		User:  map[string]string{"email": email},
	})
}

func (h *Handler) LoginAdmin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Email and password are required")
		return
	}

	token, err := h.service.LoginAdmin(req.Email, req.Password)
	if err != nil {
		switch err {
		case ErrCredentials:
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Admin authentication failed")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue token")
		}
		return
	}

	response.Success(c, http.StatusOK, LoginResponse{
		Token: token,
		Admin: map[string]string{"email": req.Email},
	})
}

func (h *Handler) VerifyPlate(c *gin.Context) {
	var req VerifyPlateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Plate is required")
		return
	}

	response.Success(c, http.StatusOK, VerifyPlateResponse{
		Registered: h.service.VerifyPlate(req.Plate),
	})
}
