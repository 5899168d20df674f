package goAuthFlow

// Fallback messages shown when the backend rejects a request without a message.
const (
	FallbackRegister       = "Error al registrar usuario"
	FallbackLogin          = "Error al iniciar sesión"
	FallbackVerifyEmail    = "Código de verificación inválido"
	FallbackResend         = "Error al reenviar el código"
	FallbackForgotPassword = "Error al enviar el correo de recuperación"
	FallbackResetPassword  = "Error al restablecer la contraseña"
)

// Confirmation messages carried to the login screen.
const (
	ConfirmEmailVerified = "Email verificado correctamente. Ya puedes iniciar sesión"
	ConfirmPasswordReset = "Contraseña restablecida correctamente. Ya puedes iniciar sesión"
	// NoticeCodeResent is the resend notice when the backend sends no message.
	NoticeCodeResent = "Código reenviado correctamente"
)
