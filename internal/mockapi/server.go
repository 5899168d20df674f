package mockapi

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Messages returned by the mock, in the backend's locale.
const (
	MsgRegistered         = "Usuario registrado. Revisa tu correo para verificar tu cuenta"
	MsgEmailTaken         = "El email ya está registrado"
	MsgInvalidData        = "Datos inválidos"
	MsgBadCredentials     = "Credenciales inválidas"
	MsgNotVerified        = "Debes verificar tu email antes de iniciar sesión"
	MsgLoggedIn           = "Inicio de sesión exitoso"
	MsgVerified           = "Email verificado correctamente"
	MsgBadCode            = "Código de verificación inválido"
	MsgAlreadyVerified    = "El email ya fue verificado"
	MsgCodeResent         = "Código reenviado correctamente"
	MsgResetRequested     = "Si el email está registrado, recibirás un enlace de recuperación"
	MsgBadResetToken      = "Token inválido o expirado"
	MsgPasswordReset      = "Contraseña restablecida correctamente"
	MsgMethodNotAllowed   = "Método no permitido"
	MsgNotFound           = "Recurso no encontrado"
	expirationLayout      = "2006-01-02 15:04:05"
	defaultTokenTTL       = 24 * time.Hour
	defaultRememberTTL    = 30 * 24 * time.Hour
	defaultResetTokenTTL  = time.Hour
	verificationCodeDigit = 6
)

// Options configure a Server. The zero value is usable.
type Options struct {
	// Secret signs login tokens. A random secret is generated when empty.
	Secret []byte
	// TokenTTL is the token lifetime without "recordar"; RememberTTL with it.
	TokenTTL    time.Duration
	RememberTTL time.Duration
	// ResetTokenTTL bounds how long a reset link works.
	ResetTokenTTL time.Duration
	// ResetLinkBase, when set, is logged with "?token=" appended as the link
	// a real backend would mail.
	ResetLinkBase string
	// Now replaces the clock in tests.
	Now    func() time.Time
	Logger zerolog.Logger
}

type user struct {
	ID           int
	FullName     string
	Email        string
	Phone        string
	PasswordHash string
	Verified     bool
	Code         string
}

type resetGrant struct {
	email   string
	expires time.Time
}

// Server is the in-memory backend. It is safe for concurrent use.
type Server struct {
	opts     Options
	hasher   hasher
	validate *validator.Validate
	router   chi.Router

	mu     sync.Mutex
	users  map[string]*user
	resets map[string]resetGrant
	nextID int
}

// New returns a Server with its routes mounted.
func New(opts Options) *Server {
	if len(opts.Secret) == 0 {
		opts.Secret = []byte(uuid.NewString())
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = defaultTokenTTL
	}
	if opts.RememberTTL <= 0 {
		opts.RememberTTL = defaultRememberTTL
	}
	if opts.ResetTokenTTL <= 0 {
		opts.ResetTokenTTL = defaultResetTokenTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		opts:     opts,
		hasher:   newHasher(),
		validate: newValidator(),
		users:    make(map[string]*user),
		resets:   make(map[string]resetGrant),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.logRequests)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register.php", s.handleRegister)
		r.Post("/login.php", s.handleLogin)
		r.Post("/verify-email.php", s.handleVerifyEmail)
		r.Post("/resend-verification.php", s.handleResend)
		r.Post("/forgot-password.php", s.handleForgotPassword)
		r.Post("/reset-password.php", s.handleResetPassword)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, reply{Message: MsgMethodNotAllowed})
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, reply{Message: MsgNotFound})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.opts.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.opts.Logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", r.Header.Get("X-Request-ID")).
			Int("status", ww.Status()).
			Dur("elapsed", s.opts.Now().Sub(start)).
			Msg("mock request")
	})
}

// PendingCode returns the verification code of an unverified account.
func (s *Server) PendingCode(email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[normalizeEmail(email)]
	if !ok || u.Verified {
		return "", false
	}
	return u.Code, true
}

// ResetToken returns the newest live reset token issued for email.
func (s *Server) ResetToken(email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = normalizeEmail(email)
	var (
		token  string
		newest time.Time
	)
	now := s.opts.Now()
	for t, g := range s.resets {
		if g.email == email && g.expires.After(now) && g.expires.After(newest) {
			token, newest = t, g.expires
		}
	}
	return token, token != ""
}

// Verified reports whether the account behind email confirmed its address.
func (s *Server) Verified(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[normalizeEmail(email)]
	return ok && u.Verified
}

// Seed adds a verified account directly, for demos and tests.
func (s *Server) Seed(fullName, email, phone, password string) error {
	hash, err := s.hasher.hash(password)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := normalizeEmail(email)
	if _, exists := s.users[key]; exists {
		return errors.New(MsgEmailTaken)
	}
	s.nextID++
	s.users[key] = &user{ID: s.nextID, FullName: fullName, Email: key, Phone: phone, PasswordHash: hash, Verified: true}
	return nil
}

// TokenClaims are the claims of a login token.
type TokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// ParseToken verifies a token issued by this server.
func (s *Server) ParseToken(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.opts.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.opts.Now))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *Server) issueToken(u *user, ttl time.Duration) (string, time.Time, error) {
	now := s.opts.Now()
	exp := now.Add(ttl)
	claims := TokenClaims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.opts.Secret)
	return signed, exp, err
}

type reply struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body reply) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// decode reads a JSON body into v and validates it. On failure it writes the
// error reply and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, reply{Message: MsgInvalidData})
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeJSON(w, http.StatusBadRequest, reply{Message: MsgInvalidData})
		return false
	}
	return true
}

func newCode(digits int) (string, error) {
	var b strings.Builder
	b.Grow(digits)
	ten := big.NewInt(10)
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

// newResetToken returns 32 random bytes, base64url encoded.
func newResetToken() string {
	var raw [32]byte
	_, _ = rand.Read(raw[:])
	return base64.RawURLEncoding.EncodeToString(raw[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
