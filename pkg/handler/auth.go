package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/common"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
)

type ctxKey string

const (
	usernameKey ctxKey = "username"
	scopeKey    ctxKey = "scope"

	tokenIssuer = "khetscore"
)

var errInvalidToken = errors.New("invalid token")

// signToken creates an HS256 token whose subject is the username.
func signToken(secret []byte, username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// parseToken validates tokenStr and returns its subject.
func parseToken(secret []byte, tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return "", errInvalidToken
	}
	if claims.Subject == "" {
		return "", errInvalidToken
	}
	return claims.Subject, nil
}

// authenticate extracts the Bearer token and injects the username into the context.
func (a *API) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}
		username, err := parseToken(a.cfg.JWTSecret, strings.TrimPrefix(authz, "Bearer "))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
			return
		}

		if scope := scopeFrom(r); scope != nil {
			scope.WithUser(username)
		}
		ctx := context.WithValue(r.Context(), usernameKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// traceRequest opens a span per request and logs the outcome.
func traceRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		scope := common.StartScope(ctx, r.Method+" "+r.URL.Path,
			attribute.String("http.method", r.Method),
			attribute.String("http.target", r.URL.Path),
		)
		defer scope.Finish()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(context.WithValue(scope.Ctx, scopeKey, scope)))

		scope.SetAttributes(attribute.Int("http.status_code", ww.Status()))
		scope.Log.WithField("status", ww.Status()).
			WithField("duration", time.Since(start).String()).
			Debugf("%s %s", r.Method, r.URL.Path)
	})
}

func usernameFrom(r *http.Request) string {
	username, _ := r.Context().Value(usernameKey).(string)
	return username
}
