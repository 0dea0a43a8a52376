package auth

import (
	"strings"

	xhttp "github.com/memocorner/repair-desk/pkg/http"
)

const claimsKey = "auth.claims"

// Middleware rejects requests without a valid bearer token and stashes the
// verified claims on the request context for handlers.
func Middleware(tokens *TokenManager, publicPaths ...string) xhttp.MiddlewareFunc {
	public := map[string]bool{}
	for _, p := range publicPaths {
		public[p] = true
	}

	return func(next xhttp.RequestHandler) xhttp.RequestHandler {
		return func(ctx *xhttp.RequestCtx) {
			if public[string(ctx.Path())] {
				next(ctx)
				return
			}

			header := string(ctx.Request.Header.Peek("Authorization"))
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				ctx.Error(xhttp.StatusText(xhttp.StatusUnauthorized), xhttp.StatusUnauthorized)
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				ctx.Error(xhttp.StatusText(xhttp.StatusUnauthorized), xhttp.StatusUnauthorized)
				return
			}

			ctx.SetUserValue(claimsKey, claims)
			next(ctx)
		}
	}
}

// ClaimsFrom returns the verified session claims for a request, or nil when
// the route is public.
func ClaimsFrom(ctx *xhttp.RequestCtx) *Claims {
	claims, _ := ctx.UserValue(claimsKey).(*Claims)
	return claims
}
