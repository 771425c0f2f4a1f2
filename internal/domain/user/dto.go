package user

import "time"

// Profile — публичное представление пользователя.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type RegisterRequest struct {
	Username string `json:"username" minLength:"3" maxLength:"32" doc:"Имя пользователя"`
	Email    string `json:"email" format:"email" doc:"Электронная почта"`
	Password string `json:"password" minLength:"8" doc:"Пароль"`
}

type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername" minLength:"1" doc:"Имя пользователя или почта"`
	Password        string `json:"password" minLength:"1" doc:"Пароль"`
}

// AuthResponse — ответ на вход, регистрацию и обновление токена.
// Токен доступа приходит в accessToken; поле token оставлено для
// серверов, которые используют старое имя.
type AuthResponse struct {
	Token        string  `json:"token,omitempty"`
	AccessToken  string  `json:"accessToken,omitempty"`
	RefreshToken string  `json:"refreshToken,omitempty"`
	User         Profile `json:"user"`
	Message      string  `json:"message,omitempty"`
}

// Access возвращает токен доступа из любого из двух полей.
func (r AuthResponse) Access() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.Token
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken,omitempty" doc:"Refresh-токен, выданный при входе"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" minLength:"1"`
	NewPassword     string `json:"newPassword" minLength:"8"`
}

type MeResponse struct {
	User Profile `json:"user"`
}
