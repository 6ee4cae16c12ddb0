package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-app/internal/model"
	"social-app/internal/security"
	"social-app/internal/util"
)

type postFixture struct {
	svc      *PostService
	posts    *MockPostRepository
	comments *MockCommentRepository
	users    *MockUserRepository
	storage  *MockS3Storage
}

func newTestPostService() *postFixture {
	f := &postFixture{
		posts:    new(MockPostRepository),
		comments: new(MockCommentRepository),
		users:    new(MockUserRepository),
		storage:  new(MockS3Storage),
	}
	f.svc = NewPostService(f.posts, f.comments, f.users, f.storage, nil, time.Minute)
	f.svc.now = fixedNow
	return f
}

func TestCreatePost_Validation(t *testing.T) {
	ctx := context.Background()
	author := &model.User{UUID: "author", Friends: []string{"friend"}}

	tests := []struct {
		name  string
		draft model.PostDraft
		kind  util.ErrorKind
	}{
		{name: "empty", draft: model.PostDraft{}, kind: util.KindBadRequest},
		{name: "unknown availability", draft: model.PostDraft{Content: "hi", Availability: "everyone"}, kind: util.KindBadRequest},
		{name: "specific friends without list", draft: model.PostDraft{Content: "hi", Availability: model.AvailabilitySpecificFriends}, kind: util.KindBadRequest},
		{
			name:  "specific friends outside friend list",
			draft: model.PostDraft{Content: "hi", Availability: model.AvailabilitySpecificFriends, SpecificFriends: []string{"stranger"}},
			kind:  util.KindBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestPostService()
			draft := tt.draft
			_, err := f.svc.CreatePost(ctx, author, &draft, nil)
			assert.True(t, util.IsKind(err, tt.kind), "got %v", err)
			f.posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreatePost_UnknownTaggedUser(t *testing.T) {
	ctx := context.Background()
	f := newTestPostService()
	f.users.On("CountByUUIDs", ctx, mock.Anything, []string{"u1", "u2"}, false).Return(1, nil)

	_, err := f.svc.CreatePost(ctx, &model.User{UUID: "author"}, &model.PostDraft{Content: "hi", Tags: []string{"u1", "u2", "u1"}}, nil)
	assert.True(t, util.IsKind(err, util.KindNotFound))
}

func TestCreatePost_UploadsAttachments(t *testing.T) {
	ctx := context.Background()
	f := newTestPostService()
	author := &model.User{UUID: "author"}
	files := []model.Upload{
		{Filename: "a.png", ContentType: "image/png", Size: 3, Body: strings.NewReader("abc")},
		{Filename: "b.jpg", ContentType: "image/jpeg", Size: 3, Body: strings.NewReader("def")},
	}

	f.storage.On("PutObject", mock.Anything, mock.AnythingOfType("string"), mock.Anything, mock.Anything, int64(3)).Return(nil)
	f.posts.On("Create", ctx, mock.Anything, mock.Anything).Return(nil)

	post, err := f.svc.CreatePost(ctx, author, &model.PostDraft{}, files)
	require.NoError(t, err)
	assert.Equal(t, model.AvailabilityPublic, post.Availability)
	assert.Equal(t, model.CommentsAllowed, post.AllowComment)
	require.Len(t, post.Attachments, 2)
	for _, key := range post.Attachments {
		assert.True(t, strings.HasPrefix(key, "users/author/posts/"+post.AssetsFolderID+"/"), key)
	}
	assert.True(t, strings.HasSuffix(post.Attachments[0], ".png"))
	assert.True(t, strings.HasSuffix(post.Attachments[1], ".jpg"))
}

func TestCreatePost_RepositoryFailureRemovesUploads(t *testing.T) {
	ctx := context.Background()
	f := newTestPostService()
	files := []model.Upload{{Filename: "a.png", ContentType: "image/png", Size: 1, Body: strings.NewReader("a")}}

	f.storage.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.posts.On("Create", ctx, mock.Anything, mock.Anything).Return(errors.New("db down"))
	f.storage.On("DeleteObjects", ctx, mock.MatchedBy(func(keys []string) bool { return len(keys) == 1 })).Return(nil)

	_, err := f.svc.CreatePost(ctx, &model.User{UUID: "author"}, &model.PostDraft{}, files)
	assert.Error(t, err)
	f.storage.AssertExpectations(t)
}

func TestGetPost_UsesRequesterVisibility(t *testing.T) {
	ctx := context.Background()
	f := newTestPostService()
	requester := &model.User{UUID: "me", Friends: []string{"f1"}}
	post := &model.Post{UUID: "p1", AuthorUUID: "f1", Attachments: []string{"k1", "k2"}}

	f.posts.On("FindVisible", ctx, mock.Anything, "p1", security.BuildVisibilityPredicate(requester)).Return(post, nil)
	f.storage.On("GeneratePresignedGetURL", mock.Anything, "k1", time.Minute).Return("url1", nil)
	f.storage.On("GeneratePresignedGetURL", mock.Anything, "k2", time.Minute).Return("url2", nil)

	got, urls, err := f.svc.GetPost(ctx, requester, "p1")
	require.NoError(t, err)
	assert.Equal(t, post, got)
	assert.Equal(t, []string{"url1", "url2"}, urls)
}

func TestGetPost_AuthorSeesOwnSpecificFriendsPost(t *testing.T) {
	ctx := context.Background()
	f := newTestPostService()
	author := &model.User{UUID: "me"}
	post := &model.Post{UUID: "p1", AuthorUUID: "me", Availability: model.AvailabilitySpecificFriends}

	f.posts.On("FindVisible", ctx, mock.Anything, "p1", mock.Anything).Return(nil, util.NewNotFound("пост не найден"))
	f.posts.On("FindByUUID", ctx, mock.Anything, "p1", false).Return(post, nil)

	got, urls, err := f.svc.GetPost(ctx, author, "p1")
	require.NoError(t, err)
	assert.Equal(t, post, got)
	assert.Empty(t, urls)
}

func TestGetPost_AnonymousHidden(t *testing.T) {
	ctx := context.Background()
	f := newTestPostService()

	f.posts.On("FindVisible", ctx, mock.Anything, "p1", security.BuildVisibilityPredicate(nil)).Return(nil, util.NewNotFound("пост не найден"))

	_, _, err := f.svc.GetPost(ctx, nil, "p1")
	assert.True(t, util.IsKind(err, util.KindNotFound))
	f.posts.AssertNotCalled(t, "FindByUUID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListPosts_ClampsLimit(t *testing.T) {
	ctx := context.Background()
	f := newTestPostService()
	f.posts.On("ListVisible", ctx, mock.Anything, security.BuildVisibilityPredicate(nil), "", 50).Return([]*model.Post{}, "", nil)

	_, _, err := f.svc.ListPosts(ctx, nil, "", 500)
	require.NoError(t, err)
	f.posts.AssertExpectations(t)
}

func TestUpdatePost(t *testing.T) {
	ctx := context.Background()
	author := &model.User{UUID: "author", Friends: []string{"f1"}}
	existing := &model.Post{
		UUID:           "p1",
		AuthorUUID:     "author",
		Content:        "old",
		Availability:   model.AvailabilityPublic,
		Attachments:    []string{"old-key"},
		AssetsFolderID: "folder",
	}

	t.Run("not the author", func(t *testing.T) {
		f := newTestPostService()
		f.posts.On("FindByUUID", ctx, mock.Anything, "p1", false).Return(existing, nil)

		_, err := f.svc.UpdatePost(ctx, &model.User{UUID: "other"}, "p1", &model.PostPatch{}, nil)
		assert.True(t, util.IsKind(err, util.KindForbidden))
	})

	t.Run("switch to specific friends needs a list", func(t *testing.T) {
		f := newTestPostService()
		f.posts.On("FindByUUID", ctx, mock.Anything, "p1", false).Return(existing, nil)
		availability := model.AvailabilitySpecificFriends

		_, err := f.svc.UpdatePost(ctx, author, "p1", &model.PostPatch{Availability: &availability}, nil)
		assert.True(t, util.IsKind(err, util.KindBadRequest))
	})

	t.Run("removed attachments are deleted after update", func(t *testing.T) {
		f := newTestPostService()
		f.posts.On("FindByUUID", ctx, mock.Anything, "p1", false).Return(existing, nil)
		f.posts.On("Update", ctx, mock.Anything, "p1", "author", mock.MatchedBy(func(p *model.PostPatch) bool {
			return len(p.RemoveAttachments) == 1 && p.RemoveAttachments[0] == "old-key"
		})).Return(existing, nil)
		f.storage.On("DeleteObjects", ctx, []string{"old-key"}).Return(nil)

		_, err := f.svc.UpdatePost(ctx, author, "p1", &model.PostPatch{RemoveAttachments: []string{"old-key", "foreign-key"}}, nil)
		require.NoError(t, err)
		f.storage.AssertExpectations(t)
	})
}

func TestDeletePost_RemovesCommentsAndFiles(t *testing.T) {
	ctx := context.Background()
	f := newTestPostService()
	post := &model.Post{UUID: "p1", AuthorUUID: "author", AssetsFolderID: "folder"}

	f.posts.On("FindByUUID", ctx, mock.Anything, "p1", true).Return(post, nil)
	f.posts.On("BeginTX", ctx).Return(nil)
	f.comments.On("DeleteByPost", ctx, mock.Anything, "p1").Return([]string{"c-key"}, nil)
	f.posts.On("Delete", ctx, mock.Anything, "p1").Return(nil)
	f.storage.On("ListObjects", mock.Anything, "users/author/posts/folder/").Return([]string{"p-key"}, nil)
	f.storage.On("DeleteObjects", mock.Anything, []string{"p-key"}).Return(nil)
	f.storage.On("DeleteObjects", mock.Anything, []string{"c-key"}).Return(nil)

	require.NoError(t, f.svc.DeletePost(ctx, &model.User{UUID: "admin", Role: model.RoleAdmin}, "p1"))
	f.storage.AssertExpectations(t)
	f.comments.AssertExpectations(t)
}

func TestUnfreezePost_AdminFrozen(t *testing.T) {
	ctx := context.Background()
	f := newTestPostService()
	admin := "admin"
	frozenAt := fixedNow()
	f.posts.On("FindByUUID", ctx, mock.Anything, "p1", true).
		Return(&model.Post{UUID: "p1", AuthorUUID: "author", FreezedAt: &frozenAt, FreezedBy: &admin}, nil)

	err := f.svc.UnfreezePost(ctx, &model.User{UUID: "author"}, "p1")
	assert.True(t, util.IsKind(err, util.KindForbidden))
}
