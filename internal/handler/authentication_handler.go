package handler

import (
	"net/http"

	"social-app/internal/model"
	"social-app/internal/model/requestresponse"
	"social-app/internal/ports"
	"social-app/internal/util"
)

type AuthenticationHandler struct {
	ports.AuthenticationService
}

func NewAuthenticationHandler(authenticationService ports.AuthenticationService) *AuthenticationHandler {
	return &AuthenticationHandler{authenticationService}
}

// Signup godoc
// @Summary Регистрация пользователя
// @Description Создаёт пользователя и отправляет код подтверждения на почту
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.SignupRequest true "Тело запроса"
// @Success 201 {object} requestresponse.SignupResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректные данные или слабый пароль"
// @Failure 409 {object} requestresponse.ErrorResponse "Почта уже занята"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/auth/signup [post]
func (h *AuthenticationHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if req.FirstName == "" || req.Email == "" || req.Password == "" {
		util.HandleError(w, "first_name, email и password обязательны", http.StatusBadRequest)
		return
	}
	if req.Password != req.ConfirmPassword {
		util.HandleError(w, "пароли не совпадают", http.StatusBadRequest)
		return
	}

	user, err := h.AuthenticationService.Signup(r.Context(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		util.WriteError(w, err)
		return
	}

	resp := requestresponse.SignupResponse{}
	resp.Response.UUID = user.UUID
	resp.Response.Email = user.Email
	writeJSON(w, http.StatusCreated, resp)
}

// ConfirmEmail godoc
// @Summary Подтверждение почты
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.ConfirmEmailRequest true "Почта и код"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Неверный или просроченный код"
// @Router /api/auth/confirm-email [post]
func (h *AuthenticationHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.ConfirmEmailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if req.Email == "" || req.OTP == "" {
		util.HandleError(w, "email и otp обязательны", http.StatusBadRequest)
		return
	}

	if err := h.AuthenticationService.ConfirmEmail(r.Context(), req.Email, req.OTP); err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: "почта подтверждена"})
}

// ResendConfirmEmail godoc
// @Summary Повторная отправка кода подтверждения
// @Description Новый код заменяет прежний
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.ResendConfirmEmailRequest true "Почта"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 404 {object} requestresponse.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} requestresponse.ErrorResponse "Почта уже подтверждена"
// @Failure 429 {object} requestresponse.ErrorResponse "Слишком много запросов"
// @Router /api/auth/resend-confirm-email [post]
func (h *AuthenticationHandler) ResendConfirmEmail(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.ResendConfirmEmailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if req.Email == "" {
		util.HandleError(w, "email обязателен", http.StatusBadRequest)
		return
	}

	if err := h.AuthenticationService.ResendConfirmEmail(r.Context(), req.Email); err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: "код отправлен"})
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Выдаёт пару токенов. Префикс tokenType нужно указывать в заголовке Authorization
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LoginRequest true "Тело запроса" example({"email": "ivan@example.com", "password": "P@ssw0rd123"})
// @Success 200 {object} requestresponse.TokensResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Неверная почта или пароль"
// @Failure 403 {object} requestresponse.ErrorResponse "Аккаунт заморожен"
// @Failure 429 {object} requestresponse.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if req.Email == "" || req.Password == "" {
		util.HandleError(w, "email и password обязательны", http.StatusBadRequest)
		return
	}

	tokens, err := h.AuthenticationService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestresponse.TokensResponse{Response: *tokens})
}

// Refresh godoc
// @Summary Обновление токенов
// @Description Принимает refresh токен в заголовке Authorization, старый токен отзывается
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Refresh токен" default(Bearer <refresh_token>)
// @Success 200 {object} requestresponse.TokensResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse "Токен отозван или устарел"
// @Router /api/auth/refresh [post]
func (h *AuthenticationHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}

	tokens, err := h.AuthenticationService.Refresh(r.Context(), session)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestresponse.TokensResponse{Response: *tokens})
}

// Logout godoc
// @Summary Выход из системы
// @Description flag=only отзывает текущую сессию, flag=all завершает все сессии пользователя
// @Tags Authentication
// @Accept json
// @Produce json
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param body body requestresponse.LogoutRequest true "Флаг выхода"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Router /api/auth/logout [post]
func (h *AuthenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req requestresponse.LogoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if req.Flag == "" {
		req.Flag = model.LogoutOnly
	}

	if err := h.AuthenticationService.Logout(r.Context(), session, req.Flag); err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: "выход выполнен"})
}

// ForgotPassword godoc
// @Summary Код для сброса пароля
// @Description Отвечает одинаково для существующей и несуществующей почты
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.ForgotPasswordRequest true "Почта"
// @Success 200 {object} requestresponse.MessageResponse
// @Router /api/auth/forgot-password [post]
func (h *AuthenticationHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.ForgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if req.Email == "" {
		util.HandleError(w, "email обязателен", http.StatusBadRequest)
		return
	}

	if err := h.AuthenticationService.ForgotPassword(r.Context(), req.Email); err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: "если почта зарегистрирована, код отправлен"})
}

// ResetPassword godoc
// @Summary Сброс пароля по коду
// @Description После сброса все ранее выданные токены перестают действовать
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.ResetPasswordRequest true "Почта, код и новый пароль"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Router /api/auth/reset-password [post]
func (h *AuthenticationHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.ResetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if req.Email == "" || req.OTP == "" || req.Password == "" {
		util.HandleError(w, "email, otp и password обязательны", http.StatusBadRequest)
		return
	}
	if req.Password != req.ConfirmPassword {
		util.HandleError(w, "пароли не совпадают", http.StatusBadRequest)
		return
	}

	if err := h.AuthenticationService.ResetPassword(r.Context(), req.Email, req.OTP, req.Password); err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: "пароль изменён"})
}

// Me godoc
// @Summary Текущий пользователь
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.CurrentUserResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Router /api/auth/me [get]
func (h *AuthenticationHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	resp := requestresponse.CurrentUserResponse{}
	resp.Response.UserUUID = user.UUID
	resp.Response.Role = user.Role
	writeJSON(w, http.StatusOK, resp)
}
