package auth

import "context"

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Register(ctx context.Context, req RegisterRequest) (*UserView, error)
	Me(ctx context.Context, userID string) (*UserView, error)
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error
}
