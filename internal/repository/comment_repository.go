package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"social-app/config"
	"social-app/internal/model"
	"social-app/internal/util"
)

const commentColumns = `uuid, post_uuid, author_uuid, parent_uuid, content, attachments, likes, tags,
	freezed_at, freezed_by, restored_at, restored_by, created_at, updated_at`

type CommentRepository struct {
	*config.Database
}

func NewCommentRepository(database *config.Database) *CommentRepository {
	return &CommentRepository{database}
}

func (r *CommentRepository) Create(ctx context.Context, exec sqlx.ExtContext, comment *model.Comment) error {
	query := `
		INSERT INTO comments (uuid, post_uuid, author_uuid, parent_uuid, content, attachments, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := exec.QueryRowxContext(ctx, query,
		comment.UUID, comment.PostUUID, comment.AuthorUUID, comment.ParentUUID, comment.Content,
		pq.Array(comment.Attachments), pq.Array(comment.Tags),
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return util.LogError("[CommentRepo] ошибка вставки комментария", err)
	}
	return nil
}

func (r *CommentRepository) FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string, includeFrozen bool) (*model.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE uuid = $1` + frozenFilter(includeFrozen)
	var comment model.Comment
	err := sqlx.GetContext(ctx, exec, &comment, query, uuid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("комментарий не найден", err)
	}
	if err != nil {
		return nil, util.LogError("[CommentRepo] не удалось получить комментарий", err)
	}
	return &comment, nil
}

// ListByPost : комментарии поста в порядке создания
func (r *CommentRepository) ListByPost(ctx context.Context, exec sqlx.ExtContext, postUUID string, includeFrozen bool) ([]*model.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE post_uuid = $1` + frozenFilter(includeFrozen) + ` ORDER BY created_at ASC`
	var comments []*model.Comment
	if err := sqlx.SelectContext(ctx, exec, &comments, query, postUUID); err != nil {
		return nil, util.LogError("[CommentRepo] не удалось получить комментарии", err)
	}
	return comments, nil
}

func (r *CommentRepository) Freeze(ctx context.Context, exec sqlx.ExtContext, uuid, by string, at time.Time) error {
	query := `
		UPDATE comments
		SET freezed_at = $3, freezed_by = $2, restored_at = NULL, restored_by = NULL, updated_at = $3
		WHERE uuid = $1 AND freezed_at IS NULL
	`
	return execAffecting(ctx, exec, "[CommentRepo] не удалось заморозить комментарий", "комментарий не найден или уже заморожен", query, uuid, by, at)
}

func (r *CommentRepository) Unfreeze(ctx context.Context, exec sqlx.ExtContext, uuid, by string, at time.Time) error {
	query := `
		UPDATE comments
		SET freezed_at = NULL, freezed_by = NULL, restored_at = $3, restored_by = $2, updated_at = $3
		WHERE uuid = $1 AND freezed_at IS NOT NULL
	`
	return execAffecting(ctx, exec, "[CommentRepo] не удалось разморозить комментарий", "комментарий не найден или не заморожен", query, uuid, by, at)
}

// Update : меняет незамороженный комментарий автора
func (r *CommentRepository) Update(ctx context.Context, exec sqlx.ExtContext, uuid, authorUUID string, patch *model.CommentPatch) (*model.Comment, error) {
	query := `
		UPDATE comments c
		SET content = COALESCE($3, c.content),
		    attachments = ` + setUnionDifference("c.attachments", "$4", "$5") + `,
		    tags = ` + setUnionDifference("c.tags", "$6", "$7") + `,
		    updated_at = NOW()
		WHERE c.uuid = $1 AND c.author_uuid = $2 AND c.freezed_at IS NULL
		RETURNING ` + commentColumns

	var comment model.Comment
	err := sqlx.GetContext(ctx, exec, &comment, query,
		uuid, authorUUID, patch.Content,
		pq.Array(nonNil(patch.AddAttachments)), pq.Array(nonNil(patch.RemoveAttachments)),
		pq.Array(nonNil(patch.AddTags)), pq.Array(nonNil(patch.RemoveTags)),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("комментарий не найден", err)
	}
	if err != nil {
		return nil, util.LogError("[CommentRepo] не удалось обновить комментарий", err)
	}
	return &comment, nil
}

// Delete : удаляет комментарий вместе со всей веткой ответов и возвращает ключи их вложений
func (r *CommentRepository) Delete(ctx context.Context, exec sqlx.ExtContext, uuid string) ([]string, error) {
	query := `
		WITH RECURSIVE thread AS (
			SELECT uuid FROM comments WHERE uuid = $1
			UNION ALL
			SELECT c.uuid FROM comments c JOIN thread t ON c.parent_uuid = t.uuid
		)
		DELETE FROM comments WHERE uuid IN (SELECT uuid FROM thread)
		RETURNING attachments
	`
	var attachments []pq.StringArray
	if err := sqlx.SelectContext(ctx, exec, &attachments, query, uuid); err != nil {
		return nil, util.LogError("[CommentRepo] не удалось удалить комментарий", err)
	}
	if len(attachments) == 0 {
		return nil, notFound("комментарий не найден", sql.ErrNoRows)
	}

	var keys []string
	for _, list := range attachments {
		keys = append(keys, list...)
	}
	return keys, nil
}

// DeleteByPost : удаляет все комментарии поста и возвращает ключи их вложений в S3
func (r *CommentRepository) DeleteByPost(ctx context.Context, exec sqlx.ExtContext, postUUID string) ([]string, error) {
	var attachments []pq.StringArray
	err := sqlx.SelectContext(ctx, exec, &attachments, `DELETE FROM comments WHERE post_uuid = $1 RETURNING attachments`, postUUID)
	if err != nil {
		return nil, util.LogError("[CommentRepo] не удалось удалить комментарии поста", err)
	}

	var keys []string
	for _, list := range attachments {
		keys = append(keys, list...)
	}
	return keys, nil
}
