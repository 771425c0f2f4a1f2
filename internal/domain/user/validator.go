package user

import (
	"fmt"
	"net/mail"
	"unicode"
)

const (
	MinLoginLen    = 3
	MaxLoginLen    = 32
	MinPasswordLen = 8
)

// Validator - интерфейс для валидации пользовательских данных
type Validator interface {
	ValidateRegister(username, email, password string) error
	ValidateLogin(login string) error
	ValidatePassword(password string) error
}

type PasswordValidator struct {
	requireSpecialChar bool
	requireDigit       bool
	requireUpper       bool
	requireLetter      bool
}

type ValidatorOption func(*PasswordValidator)

// Strict требует в пароле заглавную букву и спецсимвол.
func Strict() ValidatorOption {
	return func(v *PasswordValidator) {
		v.requireUpper = true
		v.requireSpecialChar = true
	}
}

// NewPasswordValidator создает новый валидатор. По умолчанию пароль должен
// содержать букву и цифру.
func NewPasswordValidator(opts ...ValidatorOption) *PasswordValidator {
	v := &PasswordValidator{
		requireDigit:  true,
		requireLetter: true,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateRegister валидирует данные для регистрации
func (v *PasswordValidator) ValidateRegister(username, email, password string) error {
	if err := v.ValidateLogin(username); err != nil {
		return fmt.Errorf("username validation failed: %w", err)
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("email validation failed: invalid address %q", email)
	}

	if err := v.ValidatePassword(password); err != nil {
		return fmt.Errorf("password validation failed: %w", err)
	}

	return nil
}

// ValidateLogin валидирует имя пользователя
func (v *PasswordValidator) ValidateLogin(login string) error {
	if len(login) < MinLoginLen {
		return fmt.Errorf("login must be at least %d characters", MinLoginLen)
	}

	if len(login) > MaxLoginLen {
		return fmt.Errorf("login must be at most %d characters", MaxLoginLen)
	}

	for _, r := range login {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' && r != '.' {
			return fmt.Errorf("login can only contain letters, digits, '_', '-', '.'")
		}
	}

	return nil
}

// ValidatePassword валидирует пароль
func (v *PasswordValidator) ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}

	var hasLetter, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
			hasLetter = true
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if v.requireLetter && !hasLetter {
		return fmt.Errorf("password must contain at least one letter")
	}

	if v.requireUpper && !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}

	if v.requireDigit && !hasDigit {
		return fmt.Errorf("password must contain at least one digit")
	}

	if v.requireSpecialChar && !hasSpecial {
		return fmt.Errorf("password must contain at least one special character")
	}

	return nil
}
