package user

import (
	domain "studentloan-backend/internal/domain/user"
)

type RegisterInput struct {
	FullName string
	Email    string
	Phone    string
	Password string
	Status   domain.Status // empty means STUDENT
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}
