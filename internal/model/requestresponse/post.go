package requestresponse

import "social-app/internal/model"

// CreatePostRequest : поле data multipart формы или json тело без файлов
type CreatePostRequest struct {
	Content         string             `json:"content" example:"первый пост"`
	Availability    model.Availability `json:"availability,omitempty" example:"public"`
	AllowComment    model.AllowComment `json:"allow_comment,omitempty" example:"allow"`
	Tags            []string           `json:"tags,omitempty"`
	SpecificFriends []string           `json:"specific_friends,omitempty"`
}

// UpdatePostRequest : изменения поста, списки добавляются и удаляются как множества
type UpdatePostRequest struct {
	Content               *string             `json:"content,omitempty" example:"обновлённый текст"`
	Availability          *model.Availability `json:"availability,omitempty" example:"friends"`
	AllowComment          *model.AllowComment `json:"allow_comment,omitempty" example:"deny"`
	RemoveAttachments     []string            `json:"removed_attachments,omitempty"`
	Tags                  []string            `json:"tags,omitempty"`
	RemoveTags            []string            `json:"removed_tags,omitempty"`
	SpecificFriends       []string            `json:"specific_friends,omitempty"`
	RemoveSpecificFriends []string            `json:"removed_specific_friends,omitempty"`
}

// LikeRequest : like или unlike
type LikeRequest struct {
	Action model.LikeAction `json:"action" example:"like"`
}

// PostResponse : пост с presigned ссылками на вложения
type PostResponse struct {
	Data struct {
		Post           *model.Post `json:"post"`
		AttachmentURLs []string    `json:"attachment_urls,omitempty"`
	} `json:"data"`
}

// ListPostsResponse : страница постов
type ListPostsResponse struct {
	Data struct {
		Posts      []*model.Post `json:"posts"`
		NextCursor string        `json:"next_cursor,omitempty"`
	} `json:"data"`
	Count int `json:"count" example:"10"`
}

// CreateCommentRequest : комментарий или ответ на комментарий
type CreateCommentRequest struct {
	Content    string   `json:"content" example:"отличный пост"`
	ParentUUID *string  `json:"parent,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// UpdateCommentRequest : изменения комментария, вложения и отметки меняются как множества
type UpdateCommentRequest struct {
	Content           *string  `json:"content,omitempty" example:"исправленный текст"`
	RemoveAttachments []string `json:"removed_attachments,omitempty"`
	Tags              []string `json:"tags,omitempty"`
	RemoveTags        []string `json:"removed_tags,omitempty"`
}

// CommentResponse : созданный комментарий
type CommentResponse struct {
	Data *model.Comment `json:"data"`
}

// ListCommentsResponse : комментарии поста
type ListCommentsResponse struct {
	Data []*model.Comment `json:"data"`
}
