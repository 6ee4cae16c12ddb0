package service

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"social-app/config"
	"social-app/internal/model"
	"social-app/internal/ports"
	"social-app/internal/util"
)

type CommentService struct {
	comments ports.CommentRepository
	posts    ports.PostRepository
	users    ports.UserRepository
	storage  ports.S3Storage
	db       sqlx.ExtContext
	now      func() time.Time
}

func NewCommentService(
	comments ports.CommentRepository,
	posts ports.PostRepository,
	users ports.UserRepository,
	storage ports.S3Storage,
	db *config.Database,
) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		users:    users,
		storage:  storage,
		db:       db,
		now:      time.Now,
	}
}

// CreateComment : комментировать можно только видимый пост с разрешёнными комментариями
func (s *CommentService) CreateComment(
	ctx context.Context,
	author *model.User,
	postUUID string,
	content string,
	parentUUID *string,
	tags []string,
	files []model.Upload,
) (*model.Comment, error) {
	if content == "" && len(files) == 0 {
		return nil, util.NewBadRequest("комментарий должен содержать текст или вложения")
	}

	post, err := findVisiblePost(ctx, s.posts, s.db, author, postUUID)
	if err != nil {
		return nil, err
	}
	if post.AllowComment == model.CommentsDenied {
		return nil, util.NewForbidden("комментарии к посту отключены")
	}

	if parentUUID != nil && *parentUUID != "" {
		parent, err := s.comments.FindByUUID(ctx, s.db, *parentUUID, false)
		if err != nil {
			return nil, fmt.Errorf("[CommentService] ошибка получения родительского комментария: %w", err)
		}
		if parent.PostUUID != postUUID {
			return nil, util.NewBadRequest("родительский комментарий относится к другому посту")
		}
	} else {
		parentUUID = nil
	}

	tags = uniqueStrings(tags)
	if err := ensureUsersExist(ctx, s.users, s.db, tags); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		UUID:       uuid.NewString(),
		PostUUID:   postUUID,
		AuthorUUID: author.UUID,
		ParentUUID: parentUUID,
		Content:    content,
		Tags:       tags,
	}

	keys, err := uploadFiles(ctx, s.storage, commentFolder(post, comment.UUID), files)
	if err != nil {
		return nil, err
	}
	comment.Attachments = keys

	if err := s.comments.Create(ctx, s.db, comment); err != nil {
		cleanupFiles(ctx, s.storage, keys)
		return nil, fmt.Errorf("[CommentService] ошибка создания комментария: %w", err)
	}
	return comment, nil
}

// GetComment : комментарий виден тем, кому виден его пост
func (s *CommentService) GetComment(ctx context.Context, requester *model.User, commentUUID string) (*model.Comment, error) {
	includeFrozen := requester != nil && isAdmin(requester)
	comment, err := s.comments.FindByUUID(ctx, s.db, commentUUID, includeFrozen)
	if err != nil {
		return nil, fmt.Errorf("[CommentService] ошибка получения комментария: %w", err)
	}
	if _, err := findVisiblePost(ctx, s.posts, s.db, requester, comment.PostUUID); err != nil {
		return nil, err
	}
	return comment, nil
}

// UpdateComment : менять комментарий может только автор, пока он не заморожен
func (s *CommentService) UpdateComment(
	ctx context.Context,
	author *model.User,
	commentUUID string,
	patch *model.CommentPatch,
	files []model.Upload,
) (*model.Comment, error) {
	existing, err := s.comments.FindByUUID(ctx, s.db, commentUUID, false)
	if err != nil {
		return nil, fmt.Errorf("[CommentService] ошибка получения комментария: %w", err)
	}
	if existing.AuthorUUID != author.UUID {
		return nil, ownerError("комментарий")
	}

	post, err := s.posts.FindByUUID(ctx, s.db, existing.PostUUID, false)
	if err != nil {
		return nil, fmt.Errorf("[CommentService] ошибка получения поста: %w", err)
	}

	patch.AddTags = uniqueStrings(patch.AddTags)
	if err := ensureUsersExist(ctx, s.users, s.db, patch.AddTags); err != nil {
		return nil, err
	}

	patch.RemoveAttachments = intersect(patch.RemoveAttachments, existing.Attachments)
	content := existing.Content
	if patch.Content != nil {
		content = *patch.Content
	}
	if content == "" && len(files) == 0 && len(applySet(existing.Attachments, nil, patch.RemoveAttachments)) == 0 {
		return nil, util.NewBadRequest("комментарий должен содержать текст или вложения")
	}

	keys, err := uploadFiles(ctx, s.storage, commentFolder(post, existing.UUID), files)
	if err != nil {
		return nil, err
	}
	patch.AddAttachments = keys

	updated, err := s.comments.Update(ctx, s.db, commentUUID, author.UUID, patch)
	if err != nil {
		cleanupFiles(ctx, s.storage, keys)
		return nil, fmt.Errorf("[CommentService] ошибка обновления комментария: %w", err)
	}

	cleanupFiles(ctx, s.storage, patch.RemoveAttachments)
	return updated, nil
}

// DeleteComment : автор комментария, автор поста или администратор, ответы удаляются вместе с ним
func (s *CommentService) DeleteComment(ctx context.Context, actor *model.User, commentUUID string) error {
	comment, err := s.comments.FindByUUID(ctx, s.db, commentUUID, true)
	if err != nil {
		return fmt.Errorf("[CommentService] ошибка получения комментария: %w", err)
	}
	post, err := s.posts.FindByUUID(ctx, s.db, comment.PostUUID, true)
	if err != nil {
		return fmt.Errorf("[CommentService] ошибка получения поста: %w", err)
	}
	if comment.AuthorUUID != actor.UUID && post.AuthorUUID != actor.UUID && !isAdmin(actor) {
		return ownerError("комментарий")
	}

	keys, err := s.comments.Delete(ctx, s.db, commentUUID)
	if err != nil {
		return fmt.Errorf("[CommentService] ошибка удаления комментария: %w", err)
	}

	cleanupFiles(ctx, s.storage, keys)
	return nil
}

// ListComments : администраторы видят и замороженные комментарии
func (s *CommentService) ListComments(ctx context.Context, requester *model.User, postUUID string) ([]*model.Comment, error) {
	if _, err := findVisiblePost(ctx, s.posts, s.db, requester, postUUID); err != nil {
		return nil, err
	}

	includeFrozen := requester != nil && isAdmin(requester)
	comments, err := s.comments.ListByPost(ctx, s.db, postUUID, includeFrozen)
	if err != nil {
		return nil, fmt.Errorf("[CommentService] ошибка получения комментариев: %w", err)
	}
	return comments, nil
}

func (s *CommentService) FreezeComment(ctx context.Context, actor *model.User, commentUUID string) error {
	comment, err := s.comments.FindByUUID(ctx, s.db, commentUUID, false)
	if err != nil {
		return fmt.Errorf("[CommentService] ошибка получения комментария: %w", err)
	}
	if comment.AuthorUUID != actor.UUID && !isAdmin(actor) {
		return ownerError("комментарий")
	}
	if err := s.comments.Freeze(ctx, s.db, commentUUID, actor.UUID, s.now().UTC()); err != nil {
		return fmt.Errorf("[CommentService] ошибка заморозки комментария: %w", err)
	}
	return nil
}

func (s *CommentService) UnfreezeComment(ctx context.Context, actor *model.User, commentUUID string) error {
	comment, err := s.comments.FindByUUID(ctx, s.db, commentUUID, true)
	if err != nil {
		return fmt.Errorf("[CommentService] ошибка получения комментария: %w", err)
	}
	if !isAdmin(actor) {
		if comment.AuthorUUID != actor.UUID || comment.FreezedBy == nil || *comment.FreezedBy != actor.UUID {
			return util.NewForbidden("комментарий заморожен администратором")
		}
	}
	if err := s.comments.Unfreeze(ctx, s.db, commentUUID, actor.UUID, s.now().UTC()); err != nil {
		return fmt.Errorf("[CommentService] ошибка разморозки комментария: %w", err)
	}
	return nil
}

func commentFolder(post *model.Post, commentUUID string) string {
	return path.Join(postFolder(post), "comments", commentUUID)
}
