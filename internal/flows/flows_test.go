package flows

import (
	"context"
	"errors"
	"testing"

	"github.com/MrEthical07/goAuthFlow/api"
	"github.com/MrEthical07/goAuthFlow/session"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errNotReady   = errors.New("not ready")
	errRequired   = errors.New("required")
	errEmail      = errors.New("email")
	errTerms      = errors.New("terms")
	errShort      = errors.New("short")
	errPhone      = errors.New("phone")
	errMismatch   = errors.New("mismatch")
	errIncomplete = errors.New("incomplete")
	errToken      = errors.New("token")
	errConn       = errors.New("conn")
	errPersist    = errors.New("persist")
)

var testErrors = FormErrors{
	EngineNotReady:   errNotReady,
	FieldRequired:    errRequired,
	EmailInvalid:     errEmail,
	TermsNotAccepted: errTerms,
	PasswordTooShort: errShort,
	PhoneInvalid:     errPhone,
	PasswordMismatch: errMismatch,
	CodeIncomplete:   errIncomplete,
	TokenMissing:     errToken,
	Connection:       errConn,
	Persist:          errPersist,
}

func ok(data string) api.Result {
	r := api.Result{Response: api.Response{Success: true}}
	if data != "" {
		r.Response.Data = []byte(data)
	}
	return r
}

func validRegisterForm() RegisterForm {
	return RegisterForm{
		FullName:      gofakeit.Name(),
		Email:         gofakeit.Email(),
		Phone:         "912345678",
		Password:      gofakeit.Password(true, true, true, false, false, 10),
		TermsAccepted: true,
	}
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("912345678"))
	assert.False(t, ValidPhone("812345678"))
	assert.False(t, ValidPhone("91234567"))
	assert.False(t, ValidPhone("9123456789"))
	assert.False(t, ValidPhone("9l2345678"))
}

func TestRegisterValidationNeverCallsBackend(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RegisterForm)
		want   error
	}{
		{"terms", func(f *RegisterForm) { f.TermsAccepted = false }, errTerms},
		{"short password", func(f *RegisterForm) { f.Password = "12345" }, errShort},
		{"phone prefix", func(f *RegisterForm) { f.Phone = "812345678" }, errPhone},
		{"phone length", func(f *RegisterForm) { f.Phone = "91234567" }, errPhone},
		{"missing name", func(f *RegisterForm) { f.FullName = "" }, errRequired},
		{"bad email", func(f *RegisterForm) { f.Email = "not-an-email" }, errEmail},
		{"terms before password", func(f *RegisterForm) { f.TermsAccepted = false; f.Password = "1" }, errTerms},
		{"password before phone", func(f *RegisterForm) { f.Password = "1"; f.Phone = "1" }, errShort},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			deps := RegisterDeps{
				Register: func(context.Context, api.RegisterRequest) api.Result {
					calls++
					return ok("")
				},
				SetPendingEmail: func(context.Context, string) error { return nil },
				Errors:          testErrors,
			}
			form := validRegisterForm()
			tc.mutate(&form)

			_, err := RunRegister(context.Background(), form, deps)
			assert.ErrorIs(t, err, tc.want)
			assert.Zero(t, calls)
		})
	}
}

func TestRegisterPersistsPendingEmail(t *testing.T) {
	store := session.NewMemoryStore()
	form := validRegisterForm()

	var sent api.RegisterRequest
	res, err := RunRegister(context.Background(), form, RegisterDeps{
		Register: func(_ context.Context, req api.RegisterRequest) api.Result {
			sent = req
			r := ok("")
			r.Response.Message = "Revisa tu correo"
			return r
		},
		SetPendingEmail: func(ctx context.Context, email string) error {
			return session.SetPendingEmail(ctx, store, email)
		},
		Errors: testErrors,
	})
	require.NoError(t, err)
	assert.Equal(t, RegisterResult{Email: form.Email, Message: "Revisa tu correo"}, res)
	assert.Equal(t, form.Phone, sent.Phone)
	assert.Equal(t, form.FullName, sent.FullName)

	pending, err := session.PendingEmail(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, form.Email, pending)
}

func TestRegisterRejectionUsesFallback(t *testing.T) {
	pendingSet := false
	_, err := RunRegister(context.Background(), validRegisterForm(), RegisterDeps{
		Register: func(context.Context, api.RegisterRequest) api.Result {
			return api.Result{Response: api.Response{Success: false}}
		},
		SetPendingEmail: func(context.Context, string) error { pendingSet = true; return nil },
		Fallback:        "Error al registrar usuario",
		Errors:          testErrors,
	})

	var rej *RejectedError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "Error al registrar usuario", rej.Message)
	assert.Equal(t, api.KindNone, rej.Kind)
	assert.False(t, pendingSet)
}

func TestRegisterPanickingCallBecomesConnectionError(t *testing.T) {
	_, err := RunRegister(context.Background(), validRegisterForm(), RegisterDeps{
		Register: func(context.Context, api.RegisterRequest) api.Result {
			panic("boom")
		},
		SetPendingEmail: func(context.Context, string) error { return nil },
		Errors:          testErrors,
	})
	assert.ErrorIs(t, err, errConn)
}

func TestRegisterPersistFailure(t *testing.T) {
	_, err := RunRegister(context.Background(), validRegisterForm(), RegisterDeps{
		Register:        func(context.Context, api.RegisterRequest) api.Result { return ok("") },
		SetPendingEmail: func(context.Context, string) error { return session.ErrStoreUnavailable },
		Errors:          testErrors,
	})
	assert.ErrorIs(t, err, errPersist)
	assert.ErrorIs(t, err, session.ErrStoreUnavailable)
}

func TestLoginStoresExactValues(t *testing.T) {
	store := session.NewMemoryStore()
	deps := LoginDeps{
		Login: func(context.Context, api.LoginRequest) api.Result {
			return ok(`{"token":"t","usuario":{"id": 7, "nombre": "Ana"},"expiracion":"2099-01-01"}`)
		},
		SaveLogin: func(ctx context.Context, s session.Session) error {
			return session.SaveLogin(ctx, store, s)
		},
		Errors: testErrors,
	}

	sess, err := RunLogin(context.Background(), LoginForm{Email: "ana@example.com", Password: "secreto"}, deps)
	require.NoError(t, err)
	assert.Equal(t, "t", sess.Token)

	ctx := context.Background()
	token, _, _ := store.Get(ctx, session.KeyAuthToken)
	user, _, _ := store.Get(ctx, session.KeyUserData)
	exp, _, _ := store.Get(ctx, session.KeyTokenExpiration)
	assert.Equal(t, "t", token)
	assert.Equal(t, `{"id":7,"nombre":"Ana"}`, user)
	assert.Equal(t, "2099-01-01", exp)
}

func TestLoginDerivesExpirationFromToken(t *testing.T) {
	var saved session.Session
	_, err := RunLogin(context.Background(), LoginForm{Email: "ana@example.com", Password: "x"}, LoginDeps{
		Login: func(context.Context, api.LoginRequest) api.Result {
			return ok(`{"token":"a.b.c","usuario":{"id":1}}`)
		},
		SaveLogin: func(_ context.Context, s session.Session) error { saved = s; return nil },
		ExpirationFromToken: func(token string) (string, bool) {
			assert.Equal(t, "a.b.c", token)
			return "2030-01-01T00:00:00Z", true
		},
		Errors: testErrors,
	})
	require.NoError(t, err)
	assert.Equal(t, "2030-01-01T00:00:00Z", saved.Expiration)
}

func TestLoginMissingDataIsConnectionError(t *testing.T) {
	saved := false
	_, err := RunLogin(context.Background(), LoginForm{Email: "ana@example.com", Password: "x"}, LoginDeps{
		Login:     func(context.Context, api.LoginRequest) api.Result { return ok("") },
		SaveLogin: func(context.Context, session.Session) error { saved = true; return nil },
		Errors:    testErrors,
	})
	assert.ErrorIs(t, err, errConn)
	assert.False(t, saved)
}

func TestLoginRequiredFields(t *testing.T) {
	calls := 0
	deps := LoginDeps{
		Login:     func(context.Context, api.LoginRequest) api.Result { calls++; return ok("") },
		SaveLogin: func(context.Context, session.Session) error { return nil },
		Errors:    testErrors,
	}
	_, err := RunLogin(context.Background(), LoginForm{Email: "ana@example.com"}, deps)
	assert.ErrorIs(t, err, errRequired)
	_, err = RunLogin(context.Background(), LoginForm{Password: "x"}, deps)
	assert.ErrorIs(t, err, errRequired)
	assert.Zero(t, calls)
}

func TestVerifyEmailValidation(t *testing.T) {
	calls := 0
	deps := VerifyEmailDeps{
		VerifyEmail:       func(context.Context, api.VerifyEmailRequest) api.Result { calls++; return ok("") },
		ClearPendingEmail: func(context.Context) error { return nil },
		Errors:            testErrors,
	}
	for _, code := range []string{"", "12345", "12a456", "-12345", "1234567"} {
		_, err := RunVerifyEmail(context.Background(), VerifyEmailForm{Code: code, Email: "a@b.co"}, deps)
		assert.ErrorIs(t, err, errIncomplete, code)
	}
	assert.Zero(t, calls)
}

func TestVerifyEmailClearsPending(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, session.SetPendingEmail(ctx, store, "a@b.co"))

	var sent api.VerifyEmailRequest
	_, err := RunVerifyEmail(ctx, VerifyEmailForm{Code: "123456", Email: "a@b.co"}, VerifyEmailDeps{
		VerifyEmail: func(_ context.Context, req api.VerifyEmailRequest) api.Result { sent = req; return ok("") },
		ClearPendingEmail: func(ctx context.Context) error {
			return session.ClearPendingEmail(ctx, store)
		},
		Errors: testErrors,
	})
	require.NoError(t, err)
	assert.Equal(t, api.VerifyEmailRequest{Email: "a@b.co", Code: "123456"}, sent)
	pending, err := session.PendingEmail(ctx, store)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestResendNotice(t *testing.T) {
	msg, err := RunResendVerification(context.Background(), "a@b.co", ResendDeps{
		ResendVerification: func(context.Context, string) api.Result { return ok("") },
		SuccessFallback:    "Código reenviado",
		Errors:             testErrors,
	})
	require.NoError(t, err)
	assert.Equal(t, "Código reenviado", msg)

	_, err = RunResendVerification(context.Background(), "a@b.co", ResendDeps{
		ResendVerification: func(context.Context, string) api.Result {
			return api.Result{Response: api.Response{Message: api.ConnectionErrorMessage}, Kind: api.KindTransport}
		},
		Errors: testErrors,
	})
	var rej *RejectedError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, api.ConnectionErrorMessage, rej.Message)
	assert.Equal(t, api.KindTransport, rej.Kind)
	assert.ErrorIs(t, err, errConn)
}

func TestResetPasswordValidationOrder(t *testing.T) {
	calls := 0
	deps := ResetPasswordDeps{
		ResetPassword: func(context.Context, api.ResetPasswordRequest) api.Result { calls++; return ok("") },
		Errors:        testErrors,
	}
	cases := []struct {
		form ResetPasswordForm
		want error
	}{
		{ResetPasswordForm{Token: "", Password: "1", Confirm: "2"}, errToken},
		{ResetPasswordForm{Token: "tok", Password: "123", Confirm: "456"}, errShort},
		{ResetPasswordForm{Token: "tok", Password: "123456", Confirm: "1234567"}, errMismatch},
	}
	for _, tc := range cases {
		_, err := RunResetPassword(context.Background(), tc.form, deps)
		assert.ErrorIs(t, err, tc.want)
	}
	assert.Zero(t, calls)

	_, err := RunResetPassword(context.Background(), ResetPasswordForm{Token: "tok", Password: "123456", Confirm: "123456"}, deps)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestPasswordLengthCountsUTF16Units(t *testing.T) {
	assert.Equal(t, 6, UTF16Len("😀😀😀"))
	assert.Equal(t, 6, UTF16Len("contra"))
	assert.Equal(t, 5, UTF16Len("ñandú"))

	calls := 0
	deps := ResetPasswordDeps{
		ResetPassword: func(context.Context, api.ResetPasswordRequest) api.Result { calls++; return ok("") },
		Errors:        testErrors,
	}
	_, err := RunResetPassword(context.Background(), ResetPasswordForm{Token: "tok", Password: "😀😀😀", Confirm: "😀😀😀"}, deps)
	require.NoError(t, err)
	_, err = RunResetPassword(context.Background(), ResetPasswordForm{Token: "tok", Password: "😀😀", Confirm: "😀😀"}, deps)
	assert.ErrorIs(t, err, errShort)
	assert.Equal(t, 1, calls)

	form := validRegisterForm()
	form.Password = "ñandú"
	_, err = RunRegister(context.Background(), form, RegisterDeps{
		Register:        func(context.Context, api.RegisterRequest) api.Result { return ok("") },
		SetPendingEmail: func(context.Context, string) error { return nil },
		Errors:          testErrors,
	})
	assert.ErrorIs(t, err, errShort)
}

func TestForgotPasswordRejection(t *testing.T) {
	_, err := RunForgotPassword(context.Background(), EmailForm{Email: "a@b.co"}, ForgotPasswordDeps{
		ForgotPassword: func(context.Context, string) api.Result {
			return api.Result{Response: api.Response{Message: "Email no registrado"}}
		},
		Fallback: "Error al enviar el correo de recuperación",
		Errors:   testErrors,
	})
	var rej *RejectedError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "Email no registrado", rej.Message)
}

func TestHooksReceiveOutcome(t *testing.T) {
	var metrics []int
	var events []bool
	m := OutcomeMetrics{Success: 1, Rejected: 2, Invalid: 3, Failed: 4}
	hooks := Hooks{
		MetricInc: func(id int) { metrics = append(metrics, id) },
		EmitAudit: func(_ context.Context, _ string, success bool, _ string, _ error, _ func() map[string]string) {
			events = append(events, success)
		},
	}
	deps := ForgotPasswordDeps{
		ForgotPassword: func(context.Context, string) api.Result { return ok("") },
		Metrics:        m,
		Errors:         testErrors,
		Hooks:          hooks,
	}
	_, _ = RunForgotPassword(context.Background(), EmailForm{Email: "a@b.co"}, deps)
	_, _ = RunForgotPassword(context.Background(), EmailForm{}, deps)
	deps.ForgotPassword = func(context.Context, string) api.Result { return api.Result{} }
	_, _ = RunForgotPassword(context.Background(), EmailForm{Email: "a@b.co"}, deps)
	deps.ForgotPassword = func(context.Context, string) api.Result { return api.Result{Kind: api.KindDecode} }
	_, _ = RunForgotPassword(context.Background(), EmailForm{Email: "a@b.co"}, deps)

	assert.Equal(t, []int{1, 3, 2, 4}, metrics)
	assert.Equal(t, []bool{true, false, false, false}, events)
}

func TestEngineNotReady(t *testing.T) {
	_, err := RunLogin(context.Background(), LoginForm{}, LoginDeps{Errors: testErrors})
	assert.ErrorIs(t, err, errNotReady)
	assert.ErrorIs(t, RunLogout(context.Background(), LogoutDeps{Errors: testErrors}), errNotReady)
	assert.False(t, New(Deps{}).Initialized())
}
