package repository

import authdomain "notetube-backend/internal/auth/domain"

// UserRepository is the persistence boundary for users and refresh tokens.
// Lookups return (nil, nil) when the row does not exist.
type UserRepository interface {
	Create(user *authdomain.User) error
	FindByEmail(email string) (*authdomain.User, error)
	FindByID(id string) (*authdomain.User, error)
	Update(user *authdomain.User) error

	SaveRefreshToken(token *authdomain.RefreshToken) error
	FindRefreshToken(token string) (*authdomain.RefreshToken, error)
	DeleteRefreshToken(token string) error
}
