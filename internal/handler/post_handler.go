package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"social-app/internal/model"
	"social-app/internal/model/requestresponse"
	"social-app/internal/ports"
	"social-app/internal/security"
	"social-app/internal/util"
)

type PostHandler struct {
	postService    ports.PostService
	commentService ports.CommentService
}

func NewPostHandler(postService ports.PostService, commentService ports.CommentService) *PostHandler {
	return &PostHandler{postService: postService, commentService: commentService}
}

// CreatePost godoc
// @Summary Создание поста
// @Description JSON тело или multipart форма: поле data с JSON и файлы в поле files
// @Tags Posts
// @Accept json,mpfd
// @Produce json
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param data formData string false "requestresponse.CreatePostRequest в JSON"
// @Param files formData file false "Вложения"
// @Success 201 {object} requestresponse.PostResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse "Отмеченный пользователь не найден"
// @Router /api/posts [post]
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	author, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req requestresponse.CreatePostRequest
	files, closeFiles, err := decodeForm(w, r, &req)
	if err != nil {
		return
	}
	defer closeFiles()

	post, err := h.postService.CreatePost(r.Context(), author, &model.PostDraft{
		Content:         req.Content,
		Availability:    req.Availability,
		AllowComment:    req.AllowComment,
		Tags:            req.Tags,
		SpecificFriends: req.SpecificFriends,
	}, files)
	if err != nil {
		util.WriteError(w, err)
		return
	}

	resp := requestresponse.PostResponse{}
	resp.Data.Post = post
	writeJSON(w, http.StatusCreated, resp)
}

// UpdatePost godoc
// @Summary Изменение поста
// @Description Только автор. tags и specific_friends добавляются, removed_* удаляются
// @Tags Posts
// @Accept json,mpfd
// @Produce json
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID поста"
// @Param data formData string false "requestresponse.UpdatePostRequest в JSON"
// @Param files formData file false "Новые вложения"
// @Success 200 {object} requestresponse.PostResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Router /api/posts/{uuid} [patch]
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	author, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req requestresponse.UpdatePostRequest
	files, closeFiles, err := decodeForm(w, r, &req)
	if err != nil {
		return
	}
	defer closeFiles()

	post, err := h.postService.UpdatePost(r.Context(), author, chi.URLParam(r, "uuid"), &model.PostPatch{
		Content:               req.Content,
		Availability:          req.Availability,
		AllowComment:          req.AllowComment,
		RemoveAttachments:     req.RemoveAttachments,
		AddTags:               req.Tags,
		RemoveTags:            req.RemoveTags,
		AddSpecificFriends:    req.SpecificFriends,
		RemoveSpecificFriends: req.RemoveSpecificFriends,
	}, files)
	if err != nil {
		util.WriteError(w, err)
		return
	}

	resp := requestresponse.PostResponse{}
	resp.Data.Post = post
	writeJSON(w, http.StatusOK, resp)
}

// LikePost godoc
// @Summary Лайк поста
// @Tags Posts
// @Accept json
// @Produce json
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID поста"
// @Param body body requestresponse.LikeRequest true "like или unlike"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/posts/{uuid}/like [post]
func (h *PostHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req requestresponse.LikeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if err := h.postService.LikePost(r.Context(), user, chi.URLParam(r, "uuid"), req.Action); err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: "готово"})
}

// ListPosts godoc
// @Summary Лента постов
// @Description Без токена возвращаются только публичные посты
// @Tags Posts
// @Produce json
// @Param Authorization header string false "Access токен" default(Bearer <access_token>)
// @Param cursor query string false "next_cursor предыдущей страницы"
// @Param limit query int false "Размер страницы, до 50"
// @Success 200 {object} requestresponse.ListPostsResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Router /api/posts [get]
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	requester := security.UserFromContext(r.Context())

	posts, next, err := h.postService.ListPosts(r.Context(), requester, r.URL.Query().Get("cursor"), queryInt(r, "limit"))
	if err != nil {
		util.WriteError(w, err)
		return
	}

	resp := requestresponse.ListPostsResponse{Count: len(posts)}
	resp.Data.Posts = posts
	resp.Data.NextCursor = next
	writeJSON(w, http.StatusOK, resp)
}

// GetPost godoc
// @Summary Пост по UUID
// @Tags Posts
// @Produce json
// @Param Authorization header string false "Access токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID поста"
// @Success 200 {object} requestresponse.PostResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/posts/{uuid} [get]
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	requester := security.UserFromContext(r.Context())

	post, urls, err := h.postService.GetPost(r.Context(), requester, chi.URLParam(r, "uuid"))
	if err != nil {
		util.WriteError(w, err)
		return
	}

	resp := requestresponse.PostResponse{}
	resp.Data.Post = post
	resp.Data.AttachmentURLs = urls
	writeJSON(w, http.StatusOK, resp)
}

// FreezePost godoc
// @Summary Заморозка поста
// @Tags Posts
// @Produce json
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID поста"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Router /api/posts/{uuid}/freeze [post]
func (h *PostHandler) FreezePost(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.postService.FreezePost(r.Context(), actor, chi.URLParam(r, "uuid")); err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: "пост заморожен"})
}

// UnfreezePost godoc
// @Summary Разморозка поста
// @Tags Posts
// @Produce json
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID поста"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Router /api/posts/{uuid}/unfreeze [post]
func (h *PostHandler) UnfreezePost(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.postService.UnfreezePost(r.Context(), actor, chi.URLParam(r, "uuid")); err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: "пост разморожен"})
}

// DeletePost godoc
// @Summary Удаление поста вместе с комментариями и файлами
// @Tags Posts
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID поста"
// @Success 204
// @Failure 403 {object} requestresponse.ErrorResponse
// @Router /api/posts/{uuid} [delete]
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.postService.DeletePost(r.Context(), actor, chi.URLParam(r, "uuid")); err != nil {
		util.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateComment godoc
// @Summary Комментарий к посту
// @Tags Comments
// @Accept json,mpfd
// @Produce json
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID поста"
// @Param data formData string false "requestresponse.CreateCommentRequest в JSON"
// @Param files formData file false "Вложения"
// @Success 201 {object} requestresponse.CommentResponse
// @Failure 403 {object} requestresponse.ErrorResponse "Комментарии отключены"
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/posts/{uuid}/comments [post]
func (h *PostHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	author, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req requestresponse.CreateCommentRequest
	files, closeFiles, err := decodeForm(w, r, &req)
	if err != nil {
		return
	}
	defer closeFiles()

	comment, err := h.commentService.CreateComment(r.Context(), author, chi.URLParam(r, "uuid"), req.Content, req.ParentUUID, req.Tags, files)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, requestresponse.CommentResponse{Data: comment})
}

// ListComments godoc
// @Summary Комментарии поста
// @Tags Comments
// @Produce json
// @Param Authorization header string false "Access токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID поста"
// @Success 200 {object} requestresponse.ListCommentsResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/posts/{uuid}/comments [get]
func (h *PostHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentService.ListComments(r.Context(), security.UserFromContext(r.Context()), chi.URLParam(r, "uuid"))
	if err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestresponse.ListCommentsResponse{Data: comments})
}

// GetComment godoc
// @Summary Комментарий по UUID
// @Description Комментарий виден тем, кому виден его пост
// @Tags Comments
// @Produce json
// @Param Authorization header string false "Access токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID комментария"
// @Success 200 {object} requestresponse.CommentResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/comments/{uuid} [get]
func (h *PostHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	comment, err := h.commentService.GetComment(r.Context(), security.UserFromContext(r.Context()), chi.URLParam(r, "uuid"))
	if err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestresponse.CommentResponse{Data: comment})
}

// UpdateComment godoc
// @Summary Изменение комментария
// @Description Только автор. tags добавляются, removed_* удаляются
// @Tags Comments
// @Accept json,mpfd
// @Produce json
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID комментария"
// @Param data formData string false "requestresponse.UpdateCommentRequest в JSON"
// @Param files formData file false "Новые вложения"
// @Success 200 {object} requestresponse.CommentResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Router /api/comments/{uuid} [patch]
func (h *PostHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	author, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req requestresponse.UpdateCommentRequest
	files, closeFiles, err := decodeForm(w, r, &req)
	if err != nil {
		return
	}
	defer closeFiles()

	comment, err := h.commentService.UpdateComment(r.Context(), author, chi.URLParam(r, "uuid"), &model.CommentPatch{
		Content:           req.Content,
		RemoveAttachments: req.RemoveAttachments,
		AddTags:           req.Tags,
		RemoveTags:        req.RemoveTags,
	}, files)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestresponse.CommentResponse{Data: comment})
}

// DeleteComment godoc
// @Summary Удаление комментария с ответами
// @Description Автор комментария, автор поста или администратор
// @Tags Comments
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID комментария"
// @Success 204
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/comments/{uuid} [delete]
func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.commentService.DeleteComment(r.Context(), actor, chi.URLParam(r, "uuid")); err != nil {
		util.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FreezeComment godoc
// @Summary Заморозка комментария
// @Tags Comments
// @Produce json
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID комментария"
// @Success 200 {object} requestresponse.MessageResponse
// @Router /api/comments/{uuid}/freeze [post]
func (h *PostHandler) FreezeComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.commentService.FreezeComment(r.Context(), actor, chi.URLParam(r, "uuid")); err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: "комментарий заморожен"})
}

// UnfreezeComment godoc
// @Summary Разморозка комментария
// @Tags Comments
// @Produce json
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID комментария"
// @Success 200 {object} requestresponse.MessageResponse
// @Router /api/comments/{uuid}/unfreeze [post]
func (h *PostHandler) UnfreezeComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.commentService.UnfreezeComment(r.Context(), actor, chi.URLParam(r, "uuid")); err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: "комментарий разморожен"})
}
