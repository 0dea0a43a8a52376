package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/memocorner/repair-desk/internal/auth"
	"github.com/memocorner/repair-desk/internal/lifecycle"
	xhttp "github.com/memocorner/repair-desk/pkg/http"
)

var validate = validator.New()

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	if err := json.Unmarshal(body, dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

// writeServiceError maps lifecycle errors onto HTTP statuses. Unmapped
// errors are persistence or infrastructure failures and surface as 500.
func writeServiceError(ctx *xhttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrInvalidInput):
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
	case errors.Is(err, lifecycle.ErrNotFound):
		writeError(ctx, xhttp.StatusNotFound, err.Error())
	case errors.Is(err, lifecycle.ErrUnpaidBalance):
		writeError(ctx, xhttp.StatusConflict, err.Error())
	case errors.Is(err, lifecycle.ErrPasscodeMismatch):
		writeError(ctx, xhttp.StatusUnauthorized, err.Error())
	case errors.Is(err, lifecycle.ErrSameStatus),
		errors.Is(err, lifecycle.ErrUnknownStatus),
		errors.Is(err, lifecycle.ErrDeliverySeparate):
		writeError(ctx, xhttp.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, auth.ErrBadCredentials):
		writeError(ctx, xhttp.StatusUnauthorized, err.Error())
	default:
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
	}
}

func pathInt64(ctx *xhttp.RequestCtx, name string) (int64, error) {
	v, _ := ctx.UserValue(name).(string)
	return strconv.ParseInt(v, 10, 64)
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

func parseTime(s string) (time.Time, error) {
	// Accept RFC3339 or YYYY-MM-DD
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func actor(ctx *xhttp.RequestCtx) string {
	if claims := auth.ClaimsFrom(ctx); claims != nil {
		return claims.Username
	}
	return ""
}
