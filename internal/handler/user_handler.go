package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"social-app/internal/model/requestresponse"
	"social-app/internal/ports"
	"social-app/internal/util"
)

// selfAlias : вместо uuid можно передать me
const selfAlias = "me"

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func targetUUID(r *http.Request) string {
	id := chi.URLParam(r, "uuid")
	if id == selfAlias {
		return ""
	}
	return id
}

// GetUser godoc
// @Summary Профиль пользователя
// @Tags Users
// @Produce json
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID пользователя или me"
// @Success 200 {object} requestresponse.UserResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/users/{uuid} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	requester, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := h.userService.GetProfile(r.Context(), requester, targetUUID(r))
	if err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestresponse.UserResponse{Data: user})
}

// ChangeRole godoc
// @Summary Изменение роли
// @Description Только superAdmin. Новая роль начинает действовать после повторного входа
// @Tags Users
// @Accept json
// @Produce json
// @Param Authorization header string true "Access токен" default(Admin <access_token>)
// @Param uuid path string true "UUID пользователя"
// @Param body body requestresponse.ChangeRoleRequest true "Новая роль"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Router /api/users/{uuid}/role [put]
func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req requestresponse.ChangeRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if err := h.userService.ChangeRole(r.Context(), actor, chi.URLParam(r, "uuid"), req.Role); err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: "роль изменена"})
}

// Freeze godoc
// @Summary Заморозка аккаунта
// @Description Пользователь замораживает себя (uuid=me), администратор может заморозить другого
// @Tags Users
// @Accept json
// @Produce json
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID пользователя или me"
// @Param body body requestresponse.FreezeRequest false "Причина"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Router /api/users/{uuid}/freeze [post]
func (h *UserHandler) Freeze(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req requestresponse.FreezeRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			return
		}
	}

	if err := h.userService.Freeze(r.Context(), actor, targetUUID(r), req.Reason); err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: "аккаунт заморожен"})
}

// Unfreeze godoc
// @Summary Разморозка аккаунта
// @Description Доступна замороженному пользователю, если он замораживал себя сам
// @Tags Users
// @Produce json
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID пользователя или me"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Router /api/users/{uuid}/unfreeze [post]
func (h *UserHandler) Unfreeze(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.userService.Unfreeze(r.Context(), actor, targetUUID(r)); err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: "аккаунт разморожен"})
}

// DeleteUser godoc
// @Summary Удаление замороженного аккаунта
// @Tags Users
// @Produce json
// @Param Authorization header string true "Access токен" default(Admin <access_token>)
// @Param uuid path string true "UUID пользователя"
// @Success 204
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/users/{uuid} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(r.Context(), actor, chi.URLParam(r, "uuid")); err != nil {
		util.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AvatarUploadURL godoc
// @Summary Ссылка для загрузки аватара
// @Tags Users
// @Accept json
// @Produce json
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param uuid path string true "me или собственный UUID"
// @Param body body requestresponse.AvatarRequest true "Имя и тип файла"
// @Success 200 {object} requestresponse.AvatarResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Router /api/users/{uuid}/avatar [post]
func (h *UserHandler) AvatarUploadURL(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if target := targetUUID(r); target != "" && target != user.UUID {
		util.HandleError(w, "аватар можно менять только себе", http.StatusForbidden)
		return
	}
	var req requestresponse.AvatarRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	url, key, err := h.userService.AvatarUploadURL(r.Context(), user, req.Filename, req.ContentType)
	if err != nil {
		util.WriteError(w, err)
		return
	}

	resp := requestresponse.AvatarResponse{}
	resp.Response.URL = url
	resp.Response.Key = key
	writeJSON(w, http.StatusOK, resp)
}

// GetAvatar godoc
// @Summary Аватар пользователя
// @Tags Users
// @Produce octet-stream
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID пользователя или me"
// @Success 200 {file} binary
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/users/{uuid}/avatar [get]
func (h *UserHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	requester, ok := currentUser(w, r)
	if !ok {
		return
	}

	body, contentType, err := h.userService.OpenAvatar(r.Context(), requester, targetUUID(r))
	if err != nil {
		util.WriteError(w, err)
		return
	}
	defer body.Close()

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		log.Warn().Err(err).Msg("[UserHandler] аватар передан не полностью")
	}
}

// Block godoc
// @Summary Блокировка пользователя
// @Tags Users
// @Produce json
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID пользователя"
// @Success 200 {object} requestresponse.MessageResponse
// @Router /api/users/{uuid}/block [post]
func (h *UserHandler) Block(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.userService.Block(r.Context(), user, chi.URLParam(r, "uuid")); err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: "пользователь заблокирован"})
}

// Unblock godoc
// @Summary Разблокировка пользователя
// @Tags Users
// @Produce json
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID пользователя"
// @Success 200 {object} requestresponse.MessageResponse
// @Router /api/users/{uuid}/block [delete]
func (h *UserHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.userService.Unblock(r.Context(), user, chi.URLParam(r, "uuid")); err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: "пользователь разблокирован"})
}
