package service

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"social-app/config"
	"social-app/internal/model"
	"social-app/internal/ports"
	"social-app/internal/security"
	"social-app/internal/util"
)

type PostService struct {
	posts      ports.PostRepository
	comments   ports.CommentRepository
	users      ports.UserRepository
	storage    ports.S3Storage
	db         sqlx.ExtContext
	presignTTL time.Duration
	now        func() time.Time
}

func NewPostService(
	posts ports.PostRepository,
	comments ports.CommentRepository,
	users ports.UserRepository,
	storage ports.S3Storage,
	db *config.Database,
	presignTTL time.Duration,
) *PostService {
	return &PostService{
		posts:      posts,
		comments:   comments,
		users:      users,
		storage:    storage,
		db:         db,
		presignTTL: presignTTL,
		now:        time.Now,
	}
}

// CreatePost : вложения кладутся в users/{author}/posts/{assetsFolder}
func (s *PostService) CreatePost(ctx context.Context, author *model.User, draft *model.PostDraft, files []model.Upload) (*model.Post, error) {
	if draft.Content == "" && len(files) == 0 {
		return nil, util.NewBadRequest("пост должен содержать текст или вложения")
	}
	if draft.Availability == "" {
		draft.Availability = model.AvailabilityPublic
	}
	if !draft.Availability.Valid() {
		return nil, util.NewBadRequest("неизвестное значение availability")
	}
	if draft.AllowComment == "" {
		draft.AllowComment = model.CommentsAllowed
	}

	tags := uniqueStrings(draft.Tags)
	if err := s.ensureUsersExist(ctx, tags); err != nil {
		return nil, err
	}

	var specificFriends []string
	if draft.Availability == model.AvailabilitySpecificFriends {
		specificFriends = uniqueStrings(draft.SpecificFriends)
		if len(specificFriends) == 0 {
			return nil, util.NewBadRequest("для specificFriends нужен список друзей")
		}
		if err := ensureFriends(author, specificFriends); err != nil {
			return nil, err
		}
	}

	post := &model.Post{
		UUID:            uuid.NewString(),
		AuthorUUID:      author.UUID,
		Content:         draft.Content,
		AllowComment:    draft.AllowComment,
		Availability:    draft.Availability,
		SpecificFriends: specificFriends,
		Tags:            tags,
		AssetsFolderID:  uuid.NewString(),
	}

	keys, err := s.uploadAll(ctx, postFolder(post), files)
	if err != nil {
		return nil, err
	}
	post.Attachments = keys

	if err := s.posts.Create(ctx, s.db, post); err != nil {
		s.cleanup(ctx, keys)
		return nil, fmt.Errorf("[PostService] ошибка создания поста: %w", err)
	}
	return post, nil
}

// UpdatePost : менять пост может только автор
func (s *PostService) UpdatePost(ctx context.Context, author *model.User, postUUID string, patch *model.PostPatch, files []model.Upload) (*model.Post, error) {
	existing, err := s.posts.FindByUUID(ctx, s.db, postUUID, false)
	if err != nil {
		return nil, fmt.Errorf("[PostService] ошибка получения поста: %w", err)
	}
	if existing.AuthorUUID != author.UUID {
		return nil, ownerError("пост")
	}

	if patch.Availability != nil && !patch.Availability.Valid() {
		return nil, util.NewBadRequest("неизвестное значение availability")
	}
	patch.AddTags = uniqueStrings(patch.AddTags)
	if err := s.ensureUsersExist(ctx, patch.AddTags); err != nil {
		return nil, err
	}
	patch.AddSpecificFriends = uniqueStrings(patch.AddSpecificFriends)
	if err := ensureFriends(author, patch.AddSpecificFriends); err != nil {
		return nil, err
	}

	availability := existing.Availability
	if patch.Availability != nil {
		availability = *patch.Availability
	}
	friends := applySet(existing.SpecificFriends, patch.AddSpecificFriends, patch.RemoveSpecificFriends)
	if availability == model.AvailabilitySpecificFriends && len(friends) == 0 {
		return nil, util.NewBadRequest("для specificFriends нужен список друзей")
	}

	patch.RemoveAttachments = intersect(patch.RemoveAttachments, existing.Attachments)
	content := existing.Content
	if patch.Content != nil {
		content = *patch.Content
	}
	if content == "" && len(files) == 0 && len(applySet(existing.Attachments, nil, patch.RemoveAttachments)) == 0 {
		return nil, util.NewBadRequest("пост должен содержать текст или вложения")
	}

	keys, err := s.uploadAll(ctx, postFolder(existing), files)
	if err != nil {
		return nil, err
	}
	patch.AddAttachments = keys

	updated, err := s.posts.Update(ctx, s.db, postUUID, author.UUID, patch)
	if err != nil {
		s.cleanup(ctx, keys)
		return nil, fmt.Errorf("[PostService] ошибка обновления поста: %w", err)
	}

	s.cleanup(ctx, patch.RemoveAttachments)
	return updated, nil
}

func (s *PostService) LikePost(ctx context.Context, user *model.User, postUUID string, action model.LikeAction) error {
	if action != model.ActionLike && action != model.ActionUnlike {
		return util.NewBadRequest("action должен быть like или unlike")
	}
	if _, err := s.visiblePost(ctx, user, postUUID); err != nil {
		return err
	}
	if err := s.posts.SetLike(ctx, s.db, postUUID, user.UUID, action); err != nil {
		return fmt.Errorf("[PostService] ошибка обновления лайка: %w", err)
	}
	return nil
}

// ListPosts : лента с учётом видимости, requester может быть nil
func (s *PostService) ListPosts(ctx context.Context, requester *model.User, cursor string, limit int) ([]*model.Post, string, error) {
	posts, next, err := s.posts.ListVisible(ctx, s.db, security.BuildVisibilityPredicate(requester), cursor, limitOrDefault(limit))
	if err != nil {
		return nil, "", fmt.Errorf("[PostService] ошибка получения ленты: %w", err)
	}
	return posts, next, nil
}

// GetPost : пост и pre-signed ссылки на вложения в том же порядке
func (s *PostService) GetPost(ctx context.Context, requester *model.User, postUUID string) (*model.Post, []string, error) {
	post, err := s.visiblePost(ctx, requester, postUUID)
	if err != nil {
		return nil, nil, err
	}

	urls := make([]string, len(post.Attachments))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, key := range post.Attachments {
		i, key := i, key
		group.Go(func() error {
			url, err := s.storage.GeneratePresignedGetURL(groupCtx, key, s.presignTTL)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, fmt.Errorf("[PostService] ошибка генерации ссылок: %w", err)
	}
	return post, urls, nil
}

// FreezePost : автор или администратор
func (s *PostService) FreezePost(ctx context.Context, actor *model.User, postUUID string) error {
	post, err := s.posts.FindByUUID(ctx, s.db, postUUID, false)
	if err != nil {
		return fmt.Errorf("[PostService] ошибка получения поста: %w", err)
	}
	if post.AuthorUUID != actor.UUID && !isAdmin(actor) {
		return ownerError("пост")
	}
	if err := s.posts.Freeze(ctx, s.db, postUUID, actor.UUID, s.now().UTC()); err != nil {
		return fmt.Errorf("[PostService] ошибка заморозки поста: %w", err)
	}
	return nil
}

// UnfreezePost : администратор, или автор, если замораживал сам
func (s *PostService) UnfreezePost(ctx context.Context, actor *model.User, postUUID string) error {
	post, err := s.posts.FindByUUID(ctx, s.db, postUUID, true)
	if err != nil {
		return fmt.Errorf("[PostService] ошибка получения поста: %w", err)
	}
	if !isAdmin(actor) {
		if post.AuthorUUID != actor.UUID || post.FreezedBy == nil || *post.FreezedBy != actor.UUID {
			return util.NewForbidden("пост заморожен администратором")
		}
	}
	if err := s.posts.Unfreeze(ctx, s.db, postUUID, actor.UUID, s.now().UTC()); err != nil {
		return fmt.Errorf("[PostService] ошибка разморозки поста: %w", err)
	}
	return nil
}

// DeletePost : удаляет пост с комментариями в одной транзакции, затем файлы из S3
func (s *PostService) DeletePost(ctx context.Context, actor *model.User, postUUID string) error {
	post, err := s.posts.FindByUUID(ctx, s.db, postUUID, true)
	if err != nil {
		return fmt.Errorf("[PostService] ошибка получения поста: %w", err)
	}
	if post.AuthorUUID != actor.UUID && !isAdmin(actor) {
		return ownerError("пост")
	}

	exec, commit, rollback, err := s.posts.BeginTX(ctx)
	if err != nil {
		return fmt.Errorf("[PostService] не удалось начать транзакцию: %w", err)
	}
	defer func() { _ = rollback() }()

	commentKeys, err := s.comments.DeleteByPost(ctx, exec, postUUID)
	if err != nil {
		return fmt.Errorf("[PostService] ошибка удаления комментариев: %w", err)
	}
	if err := s.posts.Delete(ctx, exec, postUUID); err != nil {
		return fmt.Errorf("[PostService] ошибка удаления поста: %w", err)
	}
	if err := commit(); err != nil {
		return util.LogError("[PostService] не удалось закоммитить транзакцию", err)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		keys, err := s.storage.ListObjects(groupCtx, postFolder(post)+"/")
		if err != nil {
			return err
		}
		return s.storage.DeleteObjects(groupCtx, keys)
	})
	group.Go(func() error {
		return s.storage.DeleteObjects(groupCtx, commentKeys)
	})
	if err := group.Wait(); err != nil {
		log.Warn().Err(err).Str("post", postUUID).Msg("[PostService] файлы поста удалены не полностью")
	}
	return nil
}

func (s *PostService) visiblePost(ctx context.Context, requester *model.User, postUUID string) (*model.Post, error) {
	return findVisiblePost(ctx, s.posts, s.db, requester, postUUID)
}

// findVisiblePost : автор видит свой пост при любой availability
func findVisiblePost(ctx context.Context, posts ports.PostRepository, db sqlx.ExtContext, requester *model.User, postUUID string) (*model.Post, error) {
	post, err := posts.FindVisible(ctx, db, postUUID, security.BuildVisibilityPredicate(requester))
	if err == nil {
		return post, nil
	}
	if requester == nil || !util.IsKind(err, util.KindNotFound) {
		return nil, fmt.Errorf("[PostService] ошибка получения поста: %w", err)
	}

	own, ownErr := posts.FindByUUID(ctx, db, postUUID, false)
	if ownErr != nil || own.AuthorUUID != requester.UUID {
		return nil, fmt.Errorf("[PostService] ошибка получения поста: %w", err)
	}
	return own, nil
}

func (s *PostService) ensureUsersExist(ctx context.Context, uuids []string) error {
	return ensureUsersExist(ctx, s.users, s.db, uuids)
}

func ensureUsersExist(ctx context.Context, users ports.UserRepository, db sqlx.ExtContext, uuids []string) error {
	if len(uuids) == 0 {
		return nil
	}
	count, err := users.CountByUUIDs(ctx, db, uuids, false)
	if err != nil {
		return fmt.Errorf("[Users] ошибка проверки пользователей: %w", err)
	}
	if count != len(uuids) {
		return util.NewNotFound("некоторые отмеченные пользователи не найдены")
	}
	return nil
}

// uploadAll : параллельная загрузка, при ошибке уже загруженные файлы удаляются
func (s *PostService) uploadAll(ctx context.Context, folder string, files []model.Upload) ([]string, error) {
	return uploadFiles(ctx, s.storage, folder, files)
}

func (s *PostService) cleanup(ctx context.Context, keys []string) {
	cleanupFiles(ctx, s.storage, keys)
}

func uploadFiles(ctx context.Context, storage ports.S3Storage, folder string, files []model.Upload) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	keys := make([]string, len(files))
	uploaded := make([]bool, len(files))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		keys[i] = path.Join(folder, uuid.NewString()+path.Ext(file.Filename))
		group.Go(func() error {
			if err := storage.PutObject(groupCtx, keys[i], file.Body, file.ContentType, file.Size); err != nil {
				return err
			}
			uploaded[i] = true
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		var done []string
		for i, ok := range uploaded {
			if ok {
				done = append(done, keys[i])
			}
		}
		cleanupFiles(ctx, storage, done)
		return nil, fmt.Errorf("[Storage] ошибка загрузки вложений: %w", err)
	}
	return keys, nil
}

func cleanupFiles(ctx context.Context, storage ports.S3Storage, keys []string) {
	if len(keys) == 0 {
		return
	}
	if err := storage.DeleteObjects(ctx, keys); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("[Storage] не удалось удалить файлы")
	}
}

func postFolder(post *model.Post) string {
	return path.Join(userFolder(post.AuthorUUID), "posts", post.AssetsFolderID)
}

func ensureFriends(author *model.User, uuids []string) error {
	for _, id := range uuids {
		if !author.IsFriend(id) {
			return util.NewBadRequest("specificFriends может содержать только друзей автора")
		}
	}
	return nil
}

// applySet : (values \ remove) ∪ add
func applySet(values, add, remove []string) []string {
	removed := make(map[string]struct{}, len(remove))
	for _, v := range remove {
		removed[v] = struct{}{}
	}
	result := make([]string, 0, len(values)+len(add))
	for _, v := range values {
		if _, ok := removed[v]; !ok {
			result = append(result, v)
		}
	}
	return uniqueStrings(append(result, add...))
}

func intersect(values, allowed []string) []string {
	set := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		set[v] = struct{}{}
	}
	var result []string
	for _, v := range values {
		if _, ok := set[v]; ok {
			result = append(result, v)
		}
	}
	return result
}
