package auth

import (
	"errors"
	"strings"
)

func ValidateRegisterUser(req *RegisterUserRequest) error {
	if !strings.Contains(req.Email, "@") {
		return errors.New("a valid email is required")
	}
	if len(req.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return errors.New("first and last name are required")
	}
	return nil
}

func ValidateRegisterOwner(req *RegisterOwnerRequest) error {
	if !strings.Contains(req.Email, "@") {
		return errors.New("a valid email is required")
	}
	if len(req.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}
