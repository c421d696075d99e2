package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/spendwise-backend/api/responses"
	pkgAuth "github.com/angelmondragon/spendwise-backend/pkg/auth"
	"github.com/angelmondragon/spendwise-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/spendwise-backend/pkg/errors"
	"github.com/angelmondragon/spendwise-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the caller's organization scope.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(withScope(r.Context(), logg, claims)))
		})
	}
}

// bearerToken accepts "Bearer <jwt>" or a bare token.
func bearerToken(header string) (string, bool) {
	token := strings.TrimSpace(header)
	if len(token) >= 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token, token != ""
}

func withScope(ctx context.Context, logg *logger.Logger, claims *pkgAuth.AccessTokenClaims) context.Context {
	scope := logger.Scope{OrganizationID: claims.OrganizationID.String()}
	ctx = context.WithValue(ctx, ctxUserID, claims.UserID.String())
	ctx = context.WithValue(ctx, ctxOrganizationID, scope.OrganizationID)
	if claims.BusinessUnitID != nil {
		scope.BusinessUnitID = claims.BusinessUnitID.String()
		ctx = context.WithValue(ctx, ctxBusinessUnitID, scope.BusinessUnitID)
	}
	if logg != nil {
		ctx = logg.WithField(logg.WithScope(ctx, scope), "user_id", claims.UserID.String())
	}
	return ctx
}
