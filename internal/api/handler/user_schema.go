package handler

import "github.com/99minutos/todo-system/internal/core/domain"

// credentialsRequest is the body of POST /users and POST /users/login.
// Fields other than email and password are ignored.
type credentialsRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password"`
}

// userResponse is the only public view of a user.
type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email}
}
