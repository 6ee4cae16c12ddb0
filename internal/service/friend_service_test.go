package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-app/internal/model"
	"social-app/internal/util"
)

func newTestFriendService() (*FriendService, *MockFriendRepository, *MockUserRepository) {
	requests := new(MockFriendRepository)
	users := new(MockUserRepository)
	svc := NewFriendService(requests, users, nil)
	svc.now = fixedNow
	return svc, requests, users
}

func TestFriendService_SendRequest(t *testing.T) {
	ctx := context.Background()
	sender := &model.User{UUID: "a"}

	t.Run("blocked by receiver", func(t *testing.T) {
		svc, _, users := newTestFriendService()
		users.On("FindByUUID", ctx, mock.Anything, "b", false).Return(&model.User{UUID: "b", BlockedUsers: []string{"a"}}, nil)

		_, err := svc.SendRequest(ctx, sender, "b")
		assert.True(t, util.IsKind(err, util.KindForbidden))
	})

	t.Run("duplicate request", func(t *testing.T) {
		svc, requests, users := newTestFriendService()
		users.On("FindByUUID", ctx, mock.Anything, "b", false).Return(&model.User{UUID: "b"}, nil)
		requests.On("FindBetween", ctx, mock.Anything, "a", "b").Return(&model.FriendRequest{UUID: "r1"}, nil)

		_, err := svc.SendRequest(ctx, sender, "b")
		assert.True(t, util.IsKind(err, util.KindConflict))
	})

	t.Run("success", func(t *testing.T) {
		svc, requests, users := newTestFriendService()
		users.On("FindByUUID", ctx, mock.Anything, "b", false).Return(&model.User{UUID: "b"}, nil)
		requests.On("FindBetween", ctx, mock.Anything, "a", "b").Return(nil, nil)
		requests.On("Create", ctx, mock.Anything, mock.Anything).Return(nil)

		request, err := svc.SendRequest(ctx, sender, "b")
		require.NoError(t, err)
		assert.Equal(t, model.FriendRequestPending, request.Status)
	})

	t.Run("self", func(t *testing.T) {
		svc, _, _ := newTestFriendService()
		_, err := svc.SendRequest(ctx, sender, "a")
		assert.True(t, util.IsKind(err, util.KindBadRequest))
	})
}

func TestFriendService_AcceptRequest(t *testing.T) {
	ctx := context.Background()
	svc, requests, users := newTestFriendService()
	receiver := &model.User{UUID: "b"}

	requests.On("BeginTX", ctx).Return(nil)
	requests.On("FindPending", ctx, mock.Anything, "r1", "b").
		Return(&model.FriendRequest{UUID: "r1", SenderUUID: "a", ReceiverUUID: "b"}, nil)
	requests.On("MarkAccepted", ctx, mock.Anything, "r1", fixedNow()).Return(nil)
	users.On("AddFriendship", ctx, mock.Anything, "a", "b").Return(nil)

	require.NoError(t, svc.AcceptRequest(ctx, receiver, "r1"))
	requests.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestFriendService_RemoveFriend(t *testing.T) {
	ctx := context.Background()
	svc, requests, users := newTestFriendService()
	user := &model.User{UUID: "a", Friends: []string{"b"}}

	assert.True(t, util.IsKind(svc.RemoveFriend(ctx, user, "c"), util.KindNotFound))

	requests.On("BeginTX", ctx).Return(nil)
	users.On("RemoveFriendship", ctx, mock.Anything, "a", "b").Return(nil)
	requests.On("DeleteBetween", ctx, mock.Anything, "a", "b").Return(nil)

	require.NoError(t, svc.RemoveFriend(ctx, user, "b"))
	users.AssertExpectations(t)
}
