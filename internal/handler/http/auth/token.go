package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"docsumm/internal/handler/http/requestid"
	"docsumm/internal/handler/http/respond"
	authservice "docsumm/internal/service/auth"

	"github.com/golang-jwt/jwt/v5"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IssueToken signs an HS256 token for user with the given role and lifetime.
func IssueToken(secret []byte, user, role string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	exp := now.Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user,
		"role": role,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// TokenHandler authenticates a username and password and returns a signed token.
//
//	POST /auth/token {"username": "...", "password": "..."}
//	200 {"token": "...", "expires_at": "..."}
func TokenHandler(authService *authservice.AuthService, secret []byte, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := slog.With(slog.String("request_id", requestid.FromContext(r.Context())))

		fail := func(role, reason string, status int, err error) {
			logger.Warn("authentication failed",
				slog.String("reason", reason),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()))
			recordToken(role, reason, start)
			respond.SafeError(w, status, err)
		}

		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			respond.SafeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
			return
		}

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail("unknown", "invalid_request", http.StatusBadRequest, errors.New("invalid request body"))
			return
		}

		role, err := authService.Authenticate(r.Context(), authservice.Credentials{
			Username: req.Username,
			Password: req.Password,
		})
		if err != nil {
			fail("unknown", "invalid_credentials", http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}

		signed, exp, err := IssueToken(secret, req.Username, role, ttl, start)
		if err != nil {
			logger.Error("token generation failed", slog.String("error", err.Error()))
			fail(role, "signing_failed", http.StatusInternalServerError, err)
			return
		}

		logger.Info("authentication successful",
			slog.String("user", req.Username),
			slog.String("role", role),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		recordToken(role, "issued", start)

		respond.JSON(w, http.StatusOK, tokenResponse{Token: signed, ExpiresAt: exp.UTC()})
	}
}
