package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"social-app/internal/model"
	"social-app/internal/model/requestresponse"
	"social-app/internal/ports"
	"social-app/internal/util"
)

type FriendHandler struct {
	friendService ports.FriendService
}

func NewFriendHandler(friendService ports.FriendService) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

// SendRequest godoc
// @Summary Заявка в друзья
// @Tags Friends
// @Produce json
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID получателя"
// @Success 201 {object} requestresponse.FriendRequestResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.ErrorResponse
// @Router /api/friends/{uuid} [post]
func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	sender, ok := currentUser(w, r)
	if !ok {
		return
	}

	request, err := h.friendService.SendRequest(r.Context(), sender, chi.URLParam(r, "uuid"))
	if err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, requestresponse.FriendRequestResponse{Data: request})
}

// ListRequests godoc
// @Summary Входящие заявки
// @Tags Friends
// @Produce json
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Success 200 {array} model.FriendRequest
// @Router /api/friends/requests [get]
func (h *FriendHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	requests, err := h.friendService.ListRequests(r.Context(), user)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	if requests == nil {
		requests = []*model.FriendRequest{}
	}
	writeJSON(w, http.StatusOK, requests)
}

// AcceptRequest godoc
// @Summary Принять заявку
// @Tags Friends
// @Produce json
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID заявки"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/friends/requests/{uuid}/accept [post]
func (h *FriendHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.friendService.AcceptRequest(r.Context(), user, chi.URLParam(r, "uuid")); err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: "заявка принята"})
}

// RejectRequest godoc
// @Summary Отклонить заявку
// @Tags Friends
// @Produce json
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID заявки"
// @Success 200 {object} requestresponse.MessageResponse
// @Router /api/friends/requests/{uuid}/reject [post]
func (h *FriendHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.friendService.RejectRequest(r.Context(), user, chi.URLParam(r, "uuid")); err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: "заявка отклонена"})
}

// RemoveFriend godoc
// @Summary Удалить из друзей
// @Tags Friends
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID друга"
// @Success 204
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/friends/{uuid} [delete]
func (h *FriendHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.friendService.RemoveFriend(r.Context(), user, chi.URLParam(r, "uuid")); err != nil {
		util.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
