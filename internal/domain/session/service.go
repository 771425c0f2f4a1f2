package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

type Servicer interface {
	Issue(ctx context.Context, userID string) (Tokens, error)
	Validate(ctx context.Context, access string) (Claims, error)
	Refresh(ctx context.Context, refresh string) (Tokens, error)
	Revoke(ctx context.Context, sessionID string) error
	RevokeAll(ctx context.Context, userID string) (int, error)
}

type Options struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Service struct {
	repo Repository
	opts Options
	log  *slog.Logger
	now  func() time.Time
}

func NewService(repo Repository, opts Options, log *slog.Logger) *Service {
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = 15 * time.Minute
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = 30 * 24 * time.Hour
	}
	return &Service{
		repo: repo,
		opts: opts,
		log:  log,
		now:  time.Now,
	}
}

// Issue открывает новую сессию пользователя.
func (s *Service) Issue(ctx context.Context, userID string) (Tokens, error) {
	refresh, hash, err := newRefreshToken()
	if err != nil {
		return Tokens{}, err
	}

	now := s.now()
	sess := Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		RefreshHash: hash,
		ExpiresAt:   now.Add(s.opts.RefreshTTL),
		CreatedAt:   now,
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return Tokens{}, fmt.Errorf("save session: %w", err)
	}

	access, exp, err := s.sign(sess, now)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{Access: access, Refresh: refresh, ExpiresAt: exp}, nil
}

// Validate проверяет подпись и срок токена доступа и то, что его сессия
// не отозвана.
func (s *Service) Validate(ctx context.Context, access string) (Claims, error) {
	var rc jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(access, &rc, func(*jwt.Token) (any, error) {
		return s.opts.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sess, err := s.repo.Get(ctx, rc.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Claims{}, ErrInvalidToken
		}
		return Claims{}, err
	}
	if sess.Revoked || sess.UserID != rc.Subject {
		return Claims{}, ErrInvalidToken
	}
	return Claims{UserID: rc.Subject, SessionID: rc.ID}, nil
}

// Refresh обменивает refresh-токен на новую пару. Старый refresh-токен
// после этого недействителен.
func (s *Service) Refresh(ctx context.Context, refresh string) (Tokens, error) {
	sess, err := s.repo.FindByRefresh(ctx, hashToken(refresh))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Tokens{}, ErrInvalidToken
		}
		return Tokens{}, err
	}
	now := s.now()
	if !sess.Active(now) {
		return Tokens{}, ErrInvalidToken
	}

	next, hash, err := newRefreshToken()
	if err != nil {
		return Tokens{}, err
	}
	sess.RefreshHash = hash
	sess.ExpiresAt = now.Add(s.opts.RefreshTTL)
	if err := s.repo.Rotate(ctx, sess.ID, hash, sess.ExpiresAt); err != nil {
		return Tokens{}, fmt.Errorf("rotate session: %w", err)
	}

	access, exp, err := s.sign(sess, now)
	if err != nil {
		return Tokens{}, err
	}
	s.log.Debug("session refreshed", slog.String("session_id", sess.ID))
	return Tokens{Access: access, Refresh: next, ExpiresAt: exp}, nil
}

func (s *Service) Revoke(ctx context.Context, sessionID string) error {
	return s.repo.Revoke(ctx, sessionID)
}

func (s *Service) RevokeAll(ctx context.Context, userID string) (int, error) {
	n, err := s.repo.RevokeAll(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.log.Info("sessions revoked", slog.String("user_id", userID), slog.Int("count", n))
	return n, nil
}

func (s *Service) sign(sess Session, now time.Time) (string, time.Time, error) {
	exp := now.Add(s.opts.AccessTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        sess.ID,
		Subject:   sess.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString(s.opts.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

func newRefreshToken() (token, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generate token: %w", err)
	}
	token = base64.RawURLEncoding.EncodeToString(b)
	return token, hashToken(token), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
