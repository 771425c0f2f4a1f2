// Package session хранит учетные данные текущего пользователя и сообщает
// подписчикам о завершении сессии.
package session

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/slog"
)

// Session — явный контекст аутентификации. Init вызывается после успешного
// входа, Teardown — при выходе или когда сервер отверг токен.
type Session struct {
	mu         sync.RWMutex
	store      Store
	tokens     Tokens
	onTeardown []func()
	log        *slog.Logger
}

// New восстанавливает сессию из store, если она там есть.
func New(store Store, log *slog.Logger) *Session {
	s := &Session{store: store, log: log}

	t, err := store.Load()
	switch {
	case err == nil:
		s.tokens = t
	case errors.Is(err, ErrNoSession):
	default:
		log.Warn("Не удалось загрузить сессию", slog.Any("error", err))
	}
	return s
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.Access
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.Refresh
}

func (s *Session) Login() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.Login
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Init начинает сессию и сохраняет токены.
func (s *Session) Init(t Tokens) error {
	if t.Access == "" {
		return fmt.Errorf("init session: empty access token")
	}

	s.mu.Lock()
	s.tokens = t
	s.mu.Unlock()

	if err := s.store.Save(t); err != nil {
		return fmt.Errorf("init session: %w", err)
	}
	s.log.Debug("Сессия начата", slog.String("login", t.Login))
	return nil
}

// Rotate заменяет токены после refresh, сохраняя логин.
// Пустой refresh оставляет прежний.
func (s *Session) Rotate(access, refresh string) error {
	s.mu.Lock()
	if s.tokens.Access == "" {
		s.mu.Unlock()
		return ErrNoSession
	}
	s.tokens.Access = access
	if refresh != "" {
		s.tokens.Refresh = refresh
	}
	t := s.tokens
	s.mu.Unlock()

	if err := s.store.Save(t); err != nil {
		return fmt.Errorf("rotate session: %w", err)
	}
	return nil
}

// OnTeardown регистрирует функцию, вызываемую при завершении сессии.
func (s *Session) OnTeardown(fn func()) {
	s.mu.Lock()
	s.onTeardown = append(s.onTeardown, fn)
	s.mu.Unlock()
}

// Teardown сбрасывает токены, удаляет их из store и вызывает подписчиков.
// Идемпотентна: подписчики вызываются при каждом вызове.
func (s *Session) Teardown(reason string) error {
	s.mu.Lock()
	s.tokens = Tokens{}
	callbacks := append([]func(){}, s.onTeardown...)
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}

	s.log.Info("Сессия завершена", slog.String("reason", reason))

	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("teardown session: %w", err)
	}
	return nil
}
