package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expiry читает срок действия access-токена без проверки подписи: ключ
// есть только у сервера, клиенту срок нужен лишь для отображения.
func Expiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expiry возвращает срок действия текущего access-токена.
func (s *Session) Expiry() (time.Time, bool) {
	return Expiry(s.Token())
}
