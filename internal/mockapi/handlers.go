package mockapi

import (
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"
)

var mobilePattern = regexp.MustCompile(`^9\d{8}$`)

// newValidator registers utf16min, a minimum length in UTF-16 code units as
// the web client measures passwords.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("utf16min", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && len(utf16.Encode([]rune(fl.Field().String()))) >= n
	})
	return v
}

type registerBody struct {
	FullName string `json:"nombre_completo" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"telefono" validate:"required"`
	Password string `json:"password" validate:"required,utf16min=6"`
}

type loginBody struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"recordar"`
}

type verifyBody struct {
	Email string `json:"email" validate:"required"`
	Code  string `json:"codigo" validate:"required,len=6,numeric"`
}

type emailBody struct {
	Email string `json:"email" validate:"required,email"`
}

type resetBody struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,utf16min=6"`
}

type userView struct {
	ID       int    `json:"id"`
	FullName string `json:"nombre_completo"`
	Email    string `json:"email"`
	Phone    string `json:"telefono"`
}

type loginView struct {
	Token      string   `json:"token"`
	User       userView `json:"usuario"`
	Expiration string   `json:"expiracion"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body registerBody
	if !s.decode(w, r, &body) {
		return
	}
	if !mobilePattern.MatchString(body.Phone) {
		writeJSON(w, http.StatusBadRequest, reply{Message: MsgInvalidData})
		return
	}

	hash, err := s.hasher.hash(body.Password)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, reply{Message: err.Error()})
		return
	}
	code, err := newCode(verificationCodeDigit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, reply{Message: err.Error()})
		return
	}

	key := normalizeEmail(body.Email)
	s.mu.Lock()
	if _, exists := s.users[key]; exists {
		s.mu.Unlock()
		writeJSON(w, http.StatusConflict, reply{Message: MsgEmailTaken})
		return
	}
	s.nextID++
	s.users[key] = &user{
		ID:           s.nextID,
		FullName:     body.FullName,
		Email:        key,
		Phone:        body.Phone,
		PasswordHash: hash,
		Code:         code,
	}
	s.mu.Unlock()

	s.opts.Logger.Info().Str("email", key).Str("code", code).Msg("verification code issued")
	writeJSON(w, http.StatusCreated, reply{Success: true, Message: MsgRegistered})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginBody
	if !s.decode(w, r, &body) {
		return
	}

	s.mu.Lock()
	u, ok := s.users[normalizeEmail(body.Email)]
	var snapshot user
	if ok {
		snapshot = *u
	}
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusUnauthorized, reply{Message: MsgBadCredentials})
		return
	}
	match, err := s.hasher.verify(body.Password, snapshot.PasswordHash)
	if err != nil || !match {
		writeJSON(w, http.StatusUnauthorized, reply{Message: MsgBadCredentials})
		return
	}
	if !snapshot.Verified {
		writeJSON(w, http.StatusForbidden, reply{Message: MsgNotVerified})
		return
	}

	ttl := s.opts.TokenTTL
	if body.Remember {
		ttl = s.opts.RememberTTL
	}
	token, exp, err := s.issueToken(&snapshot, ttl)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, reply{Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, reply{
		Success: true,
		Message: MsgLoggedIn,
		Data: loginView{
			Token: token,
			User: userView{
				ID:       snapshot.ID,
				FullName: snapshot.FullName,
				Email:    snapshot.Email,
				Phone:    snapshot.Phone,
			},
			Expiration: exp.Format(expirationLayout),
		},
	})
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var body verifyBody
	if !s.decode(w, r, &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[normalizeEmail(body.Email)]
	switch {
	case !ok:
		writeJSON(w, http.StatusBadRequest, reply{Message: MsgBadCode})
	case u.Verified:
		writeJSON(w, http.StatusConflict, reply{Message: MsgAlreadyVerified})
	case u.Code != body.Code:
		writeJSON(w, http.StatusBadRequest, reply{Message: MsgBadCode})
	default:
		u.Verified = true
		u.Code = ""
		writeJSON(w, http.StatusOK, reply{Success: true, Message: MsgVerified})
	}
}

func (s *Server) handleResend(w http.ResponseWriter, r *http.Request) {
	var body emailBody
	if !s.decode(w, r, &body) {
		return
	}
	code, err := newCode(verificationCodeDigit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, reply{Message: err.Error()})
		return
	}

	key := normalizeEmail(body.Email)
	s.mu.Lock()
	u, ok := s.users[key]
	switch {
	case !ok:
		s.mu.Unlock()
		writeJSON(w, http.StatusNotFound, reply{Message: MsgBadCredentials})
		return
	case u.Verified:
		s.mu.Unlock()
		writeJSON(w, http.StatusConflict, reply{Message: MsgAlreadyVerified})
		return
	}
	u.Code = code
	s.mu.Unlock()

	s.opts.Logger.Info().Str("email", key).Str("code", code).Msg("verification code reissued")
	writeJSON(w, http.StatusOK, reply{Success: true, Message: MsgCodeResent})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body emailBody
	if !s.decode(w, r, &body) {
		return
	}

	key := normalizeEmail(body.Email)
	s.mu.Lock()
	if _, ok := s.users[key]; ok {
		token := newResetToken()
		s.resets[token] = resetGrant{email: key, expires: s.opts.Now().Add(s.opts.ResetTokenTTL)}
		ev := s.opts.Logger.Info().Str("email", key).Str("token", token)
		if s.opts.ResetLinkBase != "" {
			ev = ev.Str("link", s.opts.ResetLinkBase+"?token="+url.QueryEscape(token))
		}
		ev.Msg("reset token issued")
	}
	s.mu.Unlock()

	// same answer whether or not the account exists
	writeJSON(w, http.StatusOK, reply{Success: true, Message: MsgResetRequested})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var body resetBody
	if !s.decode(w, r, &body) {
		return
	}
	hash, err := s.hasher.hash(body.Password)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, reply{Message: err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	grant, ok := s.resets[body.Token]
	if !ok || !grant.expires.After(s.opts.Now()) {
		delete(s.resets, body.Token)
		writeJSON(w, http.StatusBadRequest, reply{Message: MsgBadResetToken})
		return
	}
	u, ok := s.users[grant.email]
	if !ok {
		delete(s.resets, body.Token)
		writeJSON(w, http.StatusBadRequest, reply{Message: MsgBadResetToken})
		return
	}

	u.PasswordHash = hash
	for t, g := range s.resets {
		if g.email == grant.email {
			delete(s.resets, t)
		}
	}
	writeJSON(w, http.StatusOK, reply{Success: true, Message: MsgPasswordReset})
}
