package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"social-app/config"
	"social-app/internal/model"
	"social-app/internal/util"
)

const postColumns = `p.uuid, p.author_uuid, p.content, p.attachments, p.allow_comment, p.availability,
	p.specific_friends, p.tags, p.likes, p.assets_folder_id, p.freezed_at, p.freezed_by,
	p.restored_at, p.restored_by, p.created_at, p.updated_at`

type PostRepository struct {
	*config.Database
}

func NewPostRepository(database *config.Database) *PostRepository {
	return &PostRepository{database}
}

// Create : сохраняет новый пост
func (r *PostRepository) Create(ctx context.Context, exec sqlx.ExtContext, post *model.Post) error {
	query := `
		INSERT INTO posts (uuid, author_uuid, content, attachments, allow_comment, availability,
		                   specific_friends, tags, assets_folder_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := exec.QueryRowxContext(ctx, query,
		post.UUID, post.AuthorUUID, post.Content, pq.Array(post.Attachments), post.AllowComment,
		post.Availability, pq.Array(post.SpecificFriends), pq.Array(post.Tags), post.AssetsFolderID,
	).Scan(&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return util.LogError("[PostRepo] ошибка вставки поста", err)
	}
	return nil
}

// FindByUUID : пост без учёта видимости, для автора и администраторов
func (r *PostRepository) FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string, includeFrozen bool) (*model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts p WHERE p.uuid = $1` + frozenFilter(includeFrozen)
	return r.getOne(ctx, exec, query, uuid)
}

// FindVisible : пост, если он виден по одному из условий
func (r *PostRepository) FindVisible(ctx context.Context, exec sqlx.ExtContext, uuid string, conditions []model.VisibilityCondition) (*model.Post, error) {
	clause, args := visibilityClause(conditions, 2)
	query := `SELECT ` + postColumns + ` FROM posts p WHERE p.uuid = $1 AND p.freezed_at IS NULL AND ` + clause
	return r.getOne(ctx, exec, query, append([]interface{}{uuid}, args...)...)
}

// ListVisible : лента видимых постов, от новых к старым, cursor = created_at|uuid последнего поста
func (r *PostRepository) ListVisible(ctx context.Context, exec sqlx.ExtContext, conditions []model.VisibilityCondition, cursor string, limit int) ([]*model.Post, string, error) {
	position, err := parseCursor(cursor)
	if err != nil {
		return nil, "", err
	}

	clause, args := visibilityClause(conditions, 3)
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		WHERE p.freezed_at IS NULL AND (p.created_at, p.uuid) < ($1, $2) AND %s
		ORDER BY p.created_at DESC, p.uuid DESC
		LIMIT $%d
	`, postColumns, clause, len(args)+3)

	queryArgs := append([]interface{}{position.CreatedAt, position.UUID}, args...)
	queryArgs = append(queryArgs, limit+1) // +1 для проверки наличия следующей страницы

	var posts []*model.Post
	if err := sqlx.SelectContext(ctx, exec, &posts, query, queryArgs...); err != nil {
		return nil, "", util.LogError("[PostRepo] не удалось получить список постов", err)
	}

	var nextCursor string
	if len(posts) > limit {
		posts = posts[:limit]
		last := posts[len(posts)-1]
		nextCursor = pageCursor{CreatedAt: last.CreatedAt, UUID: last.UUID}.String()
	}
	return posts, nextCursor, nil
}

// Update : меняет пост автора, списки обновляются как множества
func (r *PostRepository) Update(ctx context.Context, exec sqlx.ExtContext, uuid, authorUUID string, patch *model.PostPatch) (*model.Post, error) {
	query := `
		UPDATE posts p
		SET content = COALESCE($3, p.content),
		    availability = COALESCE($4, p.availability),
		    allow_comment = COALESCE($5, p.allow_comment),
		    attachments = ` + setUnionDifference("p.attachments", "$6", "$7") + `,
		    tags = ` + setUnionDifference("p.tags", "$8", "$9") + `,
		    specific_friends = ` + setUnionDifference("p.specific_friends", "$10", "$11") + `,
		    updated_at = NOW()
		WHERE p.uuid = $1 AND p.author_uuid = $2 AND p.freezed_at IS NULL
		RETURNING ` + postColumns

	return r.getOne(ctx, exec, query,
		uuid, authorUUID, patch.Content, patch.Availability, patch.AllowComment,
		pq.Array(nonNil(patch.AddAttachments)), pq.Array(nonNil(patch.RemoveAttachments)),
		pq.Array(nonNil(patch.AddTags)), pq.Array(nonNil(patch.RemoveTags)),
		pq.Array(nonNil(patch.AddSpecificFriends)), pq.Array(nonNil(patch.RemoveSpecificFriends)),
	)
}

// SetLike : like добавляет пользователя в likes, unlike убирает
func (r *PostRepository) SetLike(ctx context.Context, exec sqlx.ExtContext, uuid, userUUID string, action model.LikeAction) error {
	query := `UPDATE posts SET likes = array_remove(likes, $2::text) WHERE uuid = $1 AND freezed_at IS NULL`
	if action == model.ActionLike {
		query = `
			UPDATE posts SET likes = array_append(array_remove(likes, $2::text), $2::text)
			WHERE uuid = $1 AND freezed_at IS NULL
		`
	}
	return execAffecting(ctx, exec, "[PostRepo] не удалось обновить лайки", "пост не найден", query, uuid, userUUID)
}

func (r *PostRepository) Freeze(ctx context.Context, exec sqlx.ExtContext, uuid, by string, at time.Time) error {
	query := `
		UPDATE posts
		SET freezed_at = $3, freezed_by = $2, restored_at = NULL, restored_by = NULL, updated_at = $3
		WHERE uuid = $1 AND freezed_at IS NULL
	`
	return execAffecting(ctx, exec, "[PostRepo] не удалось заморозить пост", "пост не найден или уже заморожен", query, uuid, by, at)
}

func (r *PostRepository) Unfreeze(ctx context.Context, exec sqlx.ExtContext, uuid, by string, at time.Time) error {
	query := `
		UPDATE posts
		SET freezed_at = NULL, freezed_by = NULL, restored_at = $3, restored_by = $2, updated_at = $3
		WHERE uuid = $1 AND freezed_at IS NOT NULL
	`
	return execAffecting(ctx, exec, "[PostRepo] не удалось разморозить пост", "пост не найден или не заморожен", query, uuid, by, at)
}

func (r *PostRepository) Delete(ctx context.Context, exec sqlx.ExtContext, uuid string) error {
	return execAffecting(ctx, exec, "[PostRepo] не удалось удалить пост", "пост не найден", `DELETE FROM posts WHERE uuid = $1`, uuid)
}

func (r *PostRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	return beginTX(ctx, r.Database)
}

func (r *PostRepository) getOne(ctx context.Context, exec sqlx.ExtContext, query string, args ...interface{}) (*model.Post, error) {
	var post model.Post
	err := sqlx.GetContext(ctx, exec, &post, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("пост не найден", err)
	}
	if err != nil {
		return nil, util.LogError("[PostRepo] не удалось получить пост", err)
	}
	return &post, nil
}

// setUnionDifference : (column \ remove) ∪ add без дубликатов
func setUnionDifference(column, add, remove string) string {
	return fmt.Sprintf(
		`ARRAY(SELECT v FROM unnest(%[1]s) AS v WHERE NOT (v = ANY(%[3]s::text[])) UNION SELECT unnest(%[2]s::text[]))`,
		column, add, remove,
	)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
