package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/memocorner/repair-desk/internal/model"
	xhttp "github.com/memocorner/repair-desk/pkg/http"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *model.User, error)
}

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func RegisterAuthRoutes(e *router.Group, h *AuthHandler) {
	e.POST("/login", h.Login)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (h *AuthHandler) Login(ctx *xhttp.RequestCtx) {
	var req loginRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	token, user, err := h.svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, loginResponse{Token: token, User: user})
}
