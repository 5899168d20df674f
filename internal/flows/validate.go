package flows

import (
	"errors"
	"regexp"
	"strconv"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"
)

const (
	tagMobile   = "pe_mobile"
	tagDigits   = "digits"
	tagUTF16Min = "utf16min"
)

var (
	mobilePattern = regexp.MustCompile(`^9\d{8}$`)
	digitsPattern = regexp.MustCompile(`^[0-9]+$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation(tagMobile, func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation(tagDigits, func(fl validator.FieldLevel) bool {
		return digitsPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation(tagUTF16Min, func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && UTF16Len(fl.Field().String()) >= n
	})
	return v
}

// UTF16Len counts s in UTF-16 code units, the unit browsers use for a
// string's length. Characters outside the BMP count twice.
func UTF16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// ValidPhone reports whether phone is a nine-digit mobile number starting with 9.
func ValidPhone(phone string) bool {
	return mobilePattern.MatchString(phone)
}

// RegisterForm is the data entered on the register screen.
type RegisterForm struct {
	FullName      string `validate:"required"`
	Email         string `validate:"required,email"`
	Phone         string `validate:"required,pe_mobile"`
	Password      string `validate:"required,utf16min=6"`
	TermsAccepted bool   `validate:"eq=true"`
}

// LoginForm is the data entered on the login screen.
type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	Remember bool
}

// VerifyEmailForm is the joined code plus the email being verified.
type VerifyEmailForm struct {
	Code  string `validate:"required,len=6,digits"`
	Email string `validate:"required"`
}

// EmailForm is the single-field form of the forgot password and resend actions.
type EmailForm struct {
	Email string `validate:"required,email"`
}

// ResetPasswordForm is the data entered on the reset password screen.
type ResetPasswordForm struct {
	Token    string `validate:"required"`
	Password string `validate:"required,utf16min=6"`
	Confirm  string `validate:"required,eqfield=Password"`
}

// check maps one failed rule to the error shown for it. A form's checks are
// listed in the order their failures take precedence.
type check struct {
	field string
	tag   string
	err   func(FormErrors) error
}

func required(e FormErrors) error { return e.FieldRequired }

var registerChecks = []check{
	{"FullName", "required", required},
	{"Email", "required", required},
	{"Phone", "required", required},
	{"Password", "required", required},
	{"Email", "email", func(e FormErrors) error { return e.EmailInvalid }},
	{"TermsAccepted", "eq", func(e FormErrors) error { return e.TermsNotAccepted }},
	{"Password", tagUTF16Min, func(e FormErrors) error { return e.PasswordTooShort }},
	{"Phone", tagMobile, func(e FormErrors) error { return e.PhoneInvalid }},
}

var loginChecks = []check{
	{"Email", "required", required},
	{"Password", "required", required},
	{"Email", "email", func(e FormErrors) error { return e.EmailInvalid }},
}

var verifyChecks = []check{
	{"Code", "required", func(e FormErrors) error { return e.CodeIncomplete }},
	{"Code", "len", func(e FormErrors) error { return e.CodeIncomplete }},
	{"Code", tagDigits, func(e FormErrors) error { return e.CodeIncomplete }},
	{"Email", "required", required},
}

var emailChecks = []check{
	{"Email", "required", required},
	{"Email", "email", func(e FormErrors) error { return e.EmailInvalid }},
}

var resetChecks = []check{
	{"Token", "required", func(e FormErrors) error { return e.TokenMissing }},
	{"Password", "required", required},
	{"Confirm", "required", required},
	{"Password", tagUTF16Min, func(e FormErrors) error { return e.PasswordTooShort }},
	{"Confirm", "eqfield", func(e FormErrors) error { return e.PasswordMismatch }},
}

// checkForm validates form and returns the error of the highest-precedence
// failed rule along with its "Field.tag" name. The error is nil when the form
// is valid.
func checkForm(form any, checks []check, errs FormErrors) (string, error) {
	err := validate.Struct(form)
	if err == nil {
		return "", nil
	}

	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return "validator", errs.EngineNotReady
	}

	best := len(checks)
	for _, f := range failures {
		for i, c := range checks {
			if i < best && c.field == f.StructField() && c.tag == f.Tag() {
				best = i
				break
			}
		}
	}
	if best == len(checks) {
		return failures[0].StructField() + "." + failures[0].Tag(), errs.FieldRequired
	}
	return checks[best].field + "." + checks[best].tag, checks[best].err(errs)
}
