package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"Caldera/internal/apperr"
	"Caldera/internal/logger"
	"Caldera/internal/repo"
	"Caldera/internal/validation"
)

const (
	cookieName = "session_token"
	tokenTTL   = 30 * 24 * time.Hour
)

type contextKey string

const userIDKey contextKey = "userID"

// UserID returns the authenticated user set by AuthMiddleware.
func UserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(userIDKey).(int)
	return id, ok && id != 0
}

// WithUserID is what AuthMiddleware stores; handlers under test use it directly.
func WithUserID(ctx context.Context, id int) context.Context {
	ctx = context.WithValue(ctx, userIDKey, id)
	return context.WithValue(ctx, logger.UserIDKey, strconv.Itoa(id))
}

type Authenv struct {
	JWTkey   []byte
	Repo     repo.UserRepository
	Log      *logger.Logger
	Validate *validation.Validator
	// SecureCookie is off only for plain-HTTP development servers.
	SecureCookie bool
}

type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Login    string `json:"login" validate:"required,max=64"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Email    string `json:"email" validate:"required,email"`
}

type IPRateLimiter struct {
	ips map[string]*rate.Limiter
	mu  sync.Mutex
	r   rate.Limit
	b   int
	log *logger.Logger
}

func NewIPRateLimiter(r rate.Limit, b int, log *logger.Logger) *IPRateLimiter {
	if log == nil {
		log = logger.Nop()
	}
	return &IPRateLimiter{
		ips: make(map[string]*rate.Limiter),
		r:   r,
		b:   b,
		log: log,
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, exists := i.ips[ip]
	if !exists {
		limiter = rate.NewLimiter(i.r, i.b)
		i.ips[ip] = limiter
	}
	return limiter
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (i *IPRateLimiter) LimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !i.getLimiter(ip).Allow() {
			i.log.RateLimitExceeded(ip, r.URL.Path)
			apperr.Write(w, apperr.New(apperr.KindTooManyRequests, "Too Many Requests. Try again later."))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// IssueToken signs an HS256 token carrying user_id and login.
func (env *Authenv) IssueToken(userID int, login string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"login":   login,
		"exp":     now.Add(tokenTTL).Unix(),
	})
	return token.SignedString(env.JWTkey)
}

// parseToken returns the user ID of a valid token.
func (env *Authenv) parseToken(raw string) (int, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return env.JWTkey, nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims")
	}
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return 0, errors.New("token has no user")
	}
	if login, ok := claims["login"].(string); !ok || login == "" {
		return 0, errors.New("token has no login")
	}
	return int(id), nil
}

// bearer reads the session cookie, then an Authorization: Bearer header.
func bearer(r *http.Request) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func (env *Authenv) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearer(r)
		if raw == "" {
			apperr.Write(w, apperr.Unauthorized("Unauthorized"))
			return
		}
		id, err := env.parseToken(raw)
		if err != nil {
			env.log().Debug("token rejected", "error", err.Error())
			apperr.Write(w, apperr.Unauthorized("Unauthorized"))
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
	})
}

func (env *Authenv) log() *logger.Logger {
	if env.Log == nil {
		return logger.Nop()
	}
	return env.Log
}

func (env *Authenv) validator() *validation.Validator {
	if env.Validate == nil {
		env.Validate = validation.New()
	}
	return env.Validate
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// addCookie sets the session cookie and returns the same token for API clients.
func (env *Authenv) addCookie(w http.ResponseWriter, userID int, login string) (tokenResponse, error) {
	now := time.Now()
	tokenString, err := env.IssueToken(userID, login, now)
	if err != nil {
		return tokenResponse{}, err
	}
	expiration := now.Add(tokenTTL)
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    tokenString,
		Expires:  expiration,
		Path:     "/",
		HttpOnly: true,
		Secure:   env.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return tokenResponse{Token: tokenString, ExpiresAt: expiration.Unix()}, nil
}

func (env *Authenv) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		apperr.Write(w, apperr.BadRequest("Invalid request payload"))
		return false
	}
	if err := env.validator().Struct(dst); err != nil {
		apperr.Write(w, err)
		return false
	}
	return true
}

func (env *Authenv) respond(w http.ResponseWriter, status int, body tokenResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (env *Authenv) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !env.decode(w, r, &req) {
		return
	}
	req.Login = strings.TrimSpace(req.Login)
	req.Email = strings.TrimSpace(req.Email)

	hashed, err := HashPassword(req.Password)
	if err != nil {
		apperr.Write(w, apperr.Wrap(apperr.KindInternal, "Error hashing password", err))
		return
	}
	id, err := env.Repo.CreateUser(r.Context(), req.Login, req.Email, hashed)
	if errors.Is(err, repo.ErrDuplicateLogin) {
		env.log().AuthEvent("register", req.Email, false, "duplicate login")
		apperr.Write(w, apperr.Conflict("User already exists"))
		return
	}
	if err != nil {
		env.log().DatabaseError("create user", err)
		apperr.Write(w, apperr.Wrap(apperr.KindInternal, "Database error", err))
		return
	}

	body, err := env.addCookie(w, id, req.Login)
	if err != nil {
		apperr.Write(w, apperr.Wrap(apperr.KindInternal, "Error issuing token", err))
		return
	}
	env.log().AuthEvent("register", req.Email, true, "")
	env.respond(w, http.StatusCreated, body)
}

func (env *Authenv) AuthHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !env.decode(w, r, &req) {
		return
	}
	req.Login = strings.TrimSpace(req.Login)

	id, storedHash, err := env.Repo.GetByLogin(r.Context(), req.Login)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		env.log().DatabaseError("get user", err)
		apperr.Write(w, apperr.Wrap(apperr.KindInternal, "Database error", err))
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(req.Password)) != nil {
		env.log().AuthEvent("login", req.Login, false, "invalid credentials")
		apperr.Write(w, apperr.Unauthorized("Invalid login or password"))
		return
	}

	body, err := env.addCookie(w, id, req.Login)
	if err != nil {
		apperr.Write(w, apperr.Wrap(apperr.KindInternal, "Error issuing token", err))
		return
	}
	env.log().AuthEvent("login", req.Login, true, "")
	env.respond(w, http.StatusOK, body)
}
