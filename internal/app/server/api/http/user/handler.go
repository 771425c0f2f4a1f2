package user

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"keepnotes/internal/app/server/api/http/middleware/auth"
	"keepnotes/internal/domain/item"
	"keepnotes/internal/domain/session"
	"keepnotes/internal/domain/user"
)

type Handler struct {
	service user.Servicer
	session session.Servicer
	log     *slog.Logger
	public  huma.Middlewares
	private huma.Middlewares
}

// NewHandler создает обработчик /auth. public применяются к входу и
// регистрации, private — к операциям, требующим токена.
func NewHandler(service user.Servicer, session session.Servicer, log *slog.Logger, public, private huma.Middlewares) *Handler {
	return &Handler{
		service: service,
		session: session,
		log:     log.With(slog.String("component", "auth_handler")),
		public:  public,
		private: private,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.registerOp(), h.register)
	huma.Register(api, h.loginOp(), h.login)
	huma.Register(api, h.refreshOp(), h.refresh)
	huma.Register(api, h.logoutOp(), h.logout)
	huma.Register(api, h.logoutAllOp(), h.logoutAll)
	huma.Register(api, h.meOp(), h.me)
	huma.Register(api, h.changePasswordOp(), h.changePassword)
}

func (h *Handler) register(ctx context.Context, input *registerInput) (*authOutput, error) {
	u, err := h.service.Register(ctx, input.Body)
	if err != nil {
		return nil, h.userError(err)
	}
	return h.issue(ctx, u, "Регистрация прошла успешно")
}

func (h *Handler) login(ctx context.Context, input *loginInput) (*authOutput, error) {
	u, err := h.service.Authenticate(ctx, input.Body.EmailOrUsername, input.Body.Password)
	if err != nil {
		return nil, h.userError(err)
	}
	return h.issue(ctx, u, "")
}

func (h *Handler) issue(ctx context.Context, u user.User, msg string) (*authOutput, error) {
	tokens, err := h.session.Issue(ctx, u.ID)
	if err != nil {
		h.log.Error("issue session", slog.String("user_id", u.ID), slog.Any("error", err))
		return nil, huma.Error500InternalServerError("failed to create session")
	}
	return &authOutput{Body: user.AuthResponse{
		AccessToken:  tokens.Access,
		RefreshToken: tokens.Refresh,
		User:         u.Profile(),
		Message:      msg,
	}}, nil
}

func (h *Handler) refresh(ctx context.Context, input *refreshInput) (*authOutput, error) {
	if input.Body.RefreshToken == "" {
		return nil, huma.Error401Unauthorized("refresh token required")
	}
	tokens, err := h.session.Refresh(ctx, input.Body.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidToken) {
			return nil, huma.Error401Unauthorized("invalid or expired refresh token")
		}
		h.log.Error("refresh session", slog.Any("error", err))
		return nil, huma.Error500InternalServerError("failed to refresh session")
	}
	return &authOutput{Body: user.AuthResponse{
		AccessToken:  tokens.Access,
		RefreshToken: tokens.Refresh,
	}}, nil
}

func (h *Handler) logout(ctx context.Context, _ *logoutInput) (*messageOutput, error) {
	claims, ok := auth.GetClaims(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("unauthorized")
	}
	if err := h.session.Revoke(ctx, claims.SessionID); err != nil && !errors.Is(err, session.ErrNotFound) {
		h.log.Error("revoke session", slog.Any("error", err))
		return nil, huma.Error500InternalServerError("failed to end session")
	}
	return &messageOutput{Body: item.Message{Message: "Выход выполнен"}}, nil
}

func (h *Handler) logoutAll(ctx context.Context, _ *logoutInput) (*messageOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("unauthorized")
	}
	if _, err := h.session.RevokeAll(ctx, userID); err != nil {
		h.log.Error("revoke sessions", slog.Any("error", err))
		return nil, huma.Error500InternalServerError("failed to end sessions")
	}
	return &messageOutput{Body: item.Message{Message: "Все сессии завершены"}}, nil
}

func (h *Handler) me(ctx context.Context, _ *struct{}) (*meOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("unauthorized")
	}
	u, err := h.service.Get(ctx, userID)
	if err != nil {
		return nil, h.userError(err)
	}
	return &meOutput{Body: user.MeResponse{User: u.Profile()}}, nil
}

func (h *Handler) changePassword(ctx context.Context, input *changePasswordInput) (*messageOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("unauthorized")
	}
	if err := h.service.ChangePassword(ctx, userID, input.Body.CurrentPassword, input.Body.NewPassword); err != nil {
		if errors.Is(err, user.ErrInvalidAuth) {
			return nil, huma.Error400BadRequest("current password is incorrect")
		}
		return nil, h.userError(err)
	}
	return &messageOutput{Body: item.Message{Message: "Пароль изменен"}}, nil
}

func (h *Handler) userError(err error) error {
	switch {
	case errors.Is(err, user.ErrInvalidAuth):
		return huma.Error401Unauthorized("invalid credentials")
	case errors.Is(err, user.ErrAlreadyExists):
		return huma.Error409Conflict("user already exists")
	case errors.Is(err, user.ErrInvalidInput):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, user.ErrNotFound):
		return huma.Error404NotFound("user not found")
	}
	h.log.Error("user operation", slog.Any("error", err))
	return huma.Error500InternalServerError("internal error")
}
