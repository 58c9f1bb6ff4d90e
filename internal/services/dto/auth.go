package dto

import "jobnest_backend/internal/models"

// RegisterRequest - запрос регистрации
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"omitempty,max=128"`
	Avatar   string `json:"avatar" validate:"omitempty,max=512"`
}

// LoginRequest - запрос входа
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse - ответ на вход
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// RegisterResponse - ответ на регистрацию
type RegisterResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}
