package http

import (
	"encoding/json"
	"net/http"

	"flavorfi/internal/adapter/logger"
	"flavorfi/internal/interfaces"
)

type AuthHandler struct {
	service interfaces.AuthService
	logger  logger.Logger
}

func NewAuthHandler(service interfaces.AuthService, logger logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type loginResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

type profileResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, err := h.service.Register(r.Context(), interfaces.RegisterCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondMessage(w, http.StatusCreated, "User created successfully")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Login(r.Context(), interfaces.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{
		User: userResponse{
			UserID: result.User.ID,
			Name:   result.User.Name,
			Email:  result.User.Email,
			Role:   string(result.User.Role),
		},
		Token: result.Token,
	})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Missing or invalid authorization header")
		return
	}

	user, err := h.service.Profile(r.Context(), caller.UserID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profileResponse{
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	})
}
