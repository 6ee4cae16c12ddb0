package ports

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"social-app/internal/model"
)

// PostRepository : SQL слой постов
type PostRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, post *model.Post) error
	FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string, includeFrozen bool) (*model.Post, error)
	FindVisible(ctx context.Context, exec sqlx.ExtContext, uuid string, conditions []model.VisibilityCondition) (*model.Post, error)
	ListVisible(ctx context.Context, exec sqlx.ExtContext, conditions []model.VisibilityCondition, cursor string, limit int) ([]*model.Post, string, error)
	Update(ctx context.Context, exec sqlx.ExtContext, uuid, authorUUID string, patch *model.PostPatch) (*model.Post, error)
	SetLike(ctx context.Context, exec sqlx.ExtContext, uuid, userUUID string, action model.LikeAction) error
	Freeze(ctx context.Context, exec sqlx.ExtContext, uuid, by string, at time.Time) error
	Unfreeze(ctx context.Context, exec sqlx.ExtContext, uuid, by string, at time.Time) error
	Delete(ctx context.Context, exec sqlx.ExtContext, uuid string) error
	BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error)
}

// CommentRepository : SQL слой комментариев
type CommentRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, comment *model.Comment) error
	FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string, includeFrozen bool) (*model.Comment, error)
	ListByPost(ctx context.Context, exec sqlx.ExtContext, postUUID string, includeFrozen bool) ([]*model.Comment, error)
	Freeze(ctx context.Context, exec sqlx.ExtContext, uuid, by string, at time.Time) error
	Unfreeze(ctx context.Context, exec sqlx.ExtContext, uuid, by string, at time.Time) error
	Update(ctx context.Context, exec sqlx.ExtContext, uuid, authorUUID string, patch *model.CommentPatch) (*model.Comment, error)
	Delete(ctx context.Context, exec sqlx.ExtContext, uuid string) ([]string, error)
	DeleteByPost(ctx context.Context, exec sqlx.ExtContext, postUUID string) ([]string, error)
}

type PostService interface {
	CreatePost(ctx context.Context, author *model.User, draft *model.PostDraft, files []model.Upload) (*model.Post, error)
	UpdatePost(ctx context.Context, author *model.User, uuid string, patch *model.PostPatch, files []model.Upload) (*model.Post, error)
	LikePost(ctx context.Context, user *model.User, uuid string, action model.LikeAction) error
	ListPosts(ctx context.Context, requester *model.User, cursor string, limit int) ([]*model.Post, string, error)
	GetPost(ctx context.Context, requester *model.User, uuid string) (*model.Post, []string, error)
	FreezePost(ctx context.Context, actor *model.User, uuid string) error
	UnfreezePost(ctx context.Context, actor *model.User, uuid string) error
	DeletePost(ctx context.Context, actor *model.User, uuid string) error
}

type CommentService interface {
	CreateComment(ctx context.Context, author *model.User, postUUID string, content string, parentUUID *string, tags []string, files []model.Upload) (*model.Comment, error)
	GetComment(ctx context.Context, requester *model.User, uuid string) (*model.Comment, error)
	UpdateComment(ctx context.Context, author *model.User, uuid string, patch *model.CommentPatch, files []model.Upload) (*model.Comment, error)
	DeleteComment(ctx context.Context, actor *model.User, uuid string) error
	ListComments(ctx context.Context, requester *model.User, postUUID string) ([]*model.Comment, error)
	FreezeComment(ctx context.Context, actor *model.User, uuid string) error
	UnfreezeComment(ctx context.Context, actor *model.User, uuid string) error
}
