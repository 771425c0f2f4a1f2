package user

import (
	"keepnotes/internal/domain/item"
	"keepnotes/internal/domain/user"
)

type registerInput struct {
	Body user.RegisterRequest
}

type loginInput struct {
	Body user.LoginRequest
}

type refreshInput struct {
	Body user.RefreshRequest
}

type logoutInput struct {
	Body *user.RefreshRequest `required:"false"`
}

type changePasswordInput struct {
	Body user.ChangePasswordRequest
}

type authOutput struct {
	Body user.AuthResponse
}

type meOutput struct {
	Body user.MeResponse
}

type messageOutput struct {
	Body item.Message
}
