package user

import (
	"fmt"
	"net/mail"
	"strings"
)

const OTPLength = 6

// Validator - интерфейс для валидации входных данных авторизации
type Validator interface {
	ValidateEmail(email string) error
	ValidateCode(code string) error
}

type OTPValidator struct {
	codeLen int
}

func NewOTPValidator() *OTPValidator {
	return &OTPValidator{codeLen: OTPLength}
}

// ValidateEmail принимает только голый адрес, без имени и угловых скобок
func (v *OTPValidator) ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return invalid("email is required")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return invalid("Invalid email address")
	}
	return nil
}

func (v *OTPValidator) ValidateCode(code string) error {
	if len(code) != v.codeLen {
		return invalid(fmt.Sprintf("OTP must be %d digits", v.codeLen))
	}
	return nil
}

func invalid(msg string) error {
	return &DomainError{Err: ErrInvalidInput, Message: msg}
}
