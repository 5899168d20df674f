package goAuthFlow

import (
	"errors"

	"github.com/MrEthical07/goAuthFlow/api"
	"github.com/MrEthical07/goAuthFlow/internal/flows"
	"github.com/MrEthical07/goAuthFlow/session"
)

// Validation errors. Their text is what a screen shows inline.
var (
	// ErrFieldRequired is returned when a required form field is empty.
	ErrFieldRequired = errors.New("Por favor completa todos los campos")
	// ErrEmailInvalid is returned when an email field is not an address.
	ErrEmailInvalid = errors.New("Por favor ingresa un email válido")
	// ErrTermsNotAccepted is returned when registering without accepting the terms.
	ErrTermsNotAccepted = errors.New("Debes aceptar los términos y condiciones")
	// ErrPasswordTooShort is returned for passwords under six characters.
	ErrPasswordTooShort = errors.New("La contraseña debe tener al menos 6 caracteres")
	// ErrPhoneInvalid is returned when the phone is not nine digits starting with 9.
	ErrPhoneInvalid = errors.New("El teléfono debe tener 9 dígitos y comenzar con 9")
	// ErrPasswordMismatch is returned when the confirmation differs from the password.
	ErrPasswordMismatch = errors.New("Las contraseñas no coinciden")
	// ErrCodeIncomplete is returned when fewer than six code digits are entered.
	ErrCodeIncomplete = errors.New("Por favor ingresa el código completo")
	// ErrTokenMissing is returned when the reset screen was opened without a token.
	ErrTokenMissing = errors.New("Token inválido o faltante")
)

// ErrConnection is shown whenever a submit could not complete: transport or
// parse failures, a panic in the call path, or a storage failure.
var ErrConnection = errors.New(api.ConnectionErrorMessage)

var (
	// ErrBusy is returned when a submit is attempted while one is in flight.
	ErrBusy = errors.New("operation already in progress")
	// ErrCompleted is returned by screens that already succeeded and are
	// waiting for their timed navigation.
	ErrCompleted = errors.New("screen already completed")
	// ErrClosed is returned by controllers after Close.
	ErrClosed = errors.New("controller closed")
	// ErrEngineNotReady is returned when an Engine was not built by Builder.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrSessionPersist wraps session store failures.
	ErrSessionPersist = errors.New("session could not be persisted")
	// ErrBuilderUsed is returned when Build is called twice.
	ErrBuilderUsed = errors.New("builder already used")
	// ErrRedisRequired is returned when the redis session backend is selected
	// without a client.
	ErrRedisRequired = errors.New("redis client required for the redis session backend")
	// ErrNoSession is returned by Engine.Session when nobody is logged in.
	ErrNoSession = session.ErrNoSession
)

// RejectedError is a backend answer with success false. Its text is the
// backend message, or the screen fallback when the backend sent none.
type RejectedError = flows.RejectedError

var displayed = []error{
	ErrFieldRequired,
	ErrEmailInvalid,
	ErrTermsNotAccepted,
	ErrPasswordTooShort,
	ErrPhoneInvalid,
	ErrPasswordMismatch,
	ErrCodeIncomplete,
	ErrTokenMissing,
}

// DisplayMessage returns the inline text a screen shows for err. Unknown
// errors map to the connection message.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}
	var rej *RejectedError
	if errors.As(err, &rej) {
		return rej.Message
	}
	for _, known := range displayed {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return ErrConnection.Error()
}

func flowErrors() flows.FormErrors {
	return flows.FormErrors{
		EngineNotReady:   ErrEngineNotReady,
		FieldRequired:    ErrFieldRequired,
		EmailInvalid:     ErrEmailInvalid,
		TermsNotAccepted: ErrTermsNotAccepted,
		PasswordTooShort: ErrPasswordTooShort,
		PhoneInvalid:     ErrPhoneInvalid,
		PasswordMismatch: ErrPasswordMismatch,
		CodeIncomplete:   ErrCodeIncomplete,
		TokenMissing:     ErrTokenMissing,
		Connection:       ErrConnection,
		Persist:          ErrSessionPersist,
	}
}
