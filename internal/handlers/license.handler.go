package handlers

import (
	"errors"
	"time"

	"github.com/fasthttp/router"
	"github.com/memocorner/repair-desk/internal/license"
	xhttp "github.com/memocorner/repair-desk/pkg/http"
)

type LicenseHandler struct {
	svc *license.Service
}

func NewLicenseHandler(svc *license.Service) *LicenseHandler {
	return &LicenseHandler{svc: svc}
}

func RegisterLicenseRoutes(e *router.Group, h *LicenseHandler) {
	e.GET("/", h.GetStatus)
	e.POST("/generate", h.Generate)
	e.POST("/activate", h.Activate)
}

type generateLicenseRequest struct {
	Client string `json:"client" validate:"required"`
	Kind   string `json:"kind"`
}

type activateLicenseRequest struct {
	Code string `json:"code" validate:"required"`
}

func (h *LicenseHandler) GetStatus(ctx *xhttp.RequestCtx) {
	writeJSON(ctx, xhttp.StatusOK, map[string]string{"service": "license", "status": "running"})
}

func (h *LicenseHandler) Generate(ctx *xhttp.RequestCtx) {
	var req generateLicenseRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	l, err := h.svc.Generate(req.Client, req.Kind, time.Now().UTC())
	if err != nil {
		writeLicenseError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, l)
}

func (h *LicenseHandler) Activate(ctx *xhttp.RequestCtx) {
	var req activateLicenseRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	l, err := h.svc.Activate(req.Code, time.Now().UTC())
	if err != nil {
		writeLicenseError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, l)
}

func writeLicenseError(ctx *xhttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, license.ErrUnknownCode):
		writeError(ctx, xhttp.StatusNotFound, err.Error())
	case errors.Is(err, license.ErrCodeUsed),
		errors.Is(err, license.ErrCodeExpired):
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
	default:
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
	}
}
