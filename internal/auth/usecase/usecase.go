package usecase

import (
	authdomain "notetube-backend/internal/auth/domain"
	authdto "notetube-backend/internal/auth/dto"
)

type AuthUsecase interface {
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	RefreshToken(refreshToken string) (*authdto.TokenResponse, error)
	Logout(refreshToken string) error
	ValidateToken(tokenString string) (*authdomain.User, error)
	UpdateProfile(userID string, req *authdto.UpdateProfileRequest) (*authdomain.User, error)
	ChangePassword(userID string, req *authdto.ChangePasswordRequest) error
}
