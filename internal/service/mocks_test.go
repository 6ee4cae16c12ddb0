package service

import (
	"context"
	"database/sql"
	"io"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"social-app/internal/model"
	"social-app/internal/security"
)

// ===== MOCKS =====

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error) {
	args := m.Called(ctx, exec, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string, includeFrozen bool) (*model.User, error) {
	args := m.Called(ctx, exec, uuid, includeFrozen)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string, includeFrozen bool) (*model.User, error) {
	args := m.Called(ctx, exec, email, includeFrozen)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) CountByUUIDs(ctx context.Context, exec sqlx.ExtContext, uuids []string, includeFrozen bool) (int, error) {
	args := m.Called(ctx, exec, uuids, includeFrozen)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) ConfirmEmail(ctx context.Context, exec sqlx.ExtContext, uuid string, at time.Time) error {
	return m.Called(ctx, exec, uuid, at).Error(0)
}

func (m *MockUserRepository) SetConfirmEmailOTP(ctx context.Context, exec sqlx.ExtContext, uuid, otpHash string, expiresAt time.Time) error {
	return m.Called(ctx, exec, uuid, otpHash, expiresAt).Error(0)
}

func (m *MockUserRepository) SetResetPasswordOTP(ctx context.Context, exec sqlx.ExtContext, uuid, otpHash string, expiresAt time.Time) error {
	return m.Called(ctx, exec, uuid, otpHash, expiresAt).Error(0)
}

func (m *MockUserRepository) ResetPassword(ctx context.Context, exec sqlx.ExtContext, uuid, passwordHash string, at time.Time) error {
	return m.Called(ctx, exec, uuid, passwordHash, at).Error(0)
}

func (m *MockUserRepository) UpdateChangeCredentialsTime(ctx context.Context, exec sqlx.ExtContext, uuid string, at time.Time) error {
	return m.Called(ctx, exec, uuid, at).Error(0)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, exec sqlx.ExtContext, uuid string, role model.Role, at time.Time) error {
	return m.Called(ctx, exec, uuid, role, at).Error(0)
}

func (m *MockUserRepository) Freeze(ctx context.Context, exec sqlx.ExtContext, uuid, by, reason string, at time.Time, stampCredentials bool) error {
	return m.Called(ctx, exec, uuid, by, reason, at, stampCredentials).Error(0)
}

func (m *MockUserRepository) Unfreeze(ctx context.Context, exec sqlx.ExtContext, uuid, by string, at time.Time) error {
	return m.Called(ctx, exec, uuid, by, at).Error(0)
}

func (m *MockUserRepository) DeleteFrozen(ctx context.Context, exec sqlx.ExtContext, uuid string) (bool, error) {
	args := m.Called(ctx, exec, uuid)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateAvatar(ctx context.Context, exec sqlx.ExtContext, uuid, key string) error {
	return m.Called(ctx, exec, uuid, key).Error(0)
}

func (m *MockUserRepository) AddFriendship(ctx context.Context, exec sqlx.ExtContext, first, second string) error {
	return m.Called(ctx, exec, first, second).Error(0)
}

func (m *MockUserRepository) RemoveFriendship(ctx context.Context, exec sqlx.ExtContext, first, second string) error {
	return m.Called(ctx, exec, first, second).Error(0)
}

func (m *MockUserRepository) Block(ctx context.Context, exec sqlx.ExtContext, uuid, target string) error {
	return m.Called(ctx, exec, uuid, target).Error(0)
}

func (m *MockUserRepository) Unblock(ctx context.Context, exec sqlx.ExtContext, uuid, target string) error {
	return m.Called(ctx, exec, uuid, target).Error(0)
}

type MockRevocationStore struct {
	mock.Mock
}

func (m *MockRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func (m *MockRevocationStore) Revoke(ctx context.Context, token *model.RevokedToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockRevocationStore) Sweep(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockRevokedTokenRepository struct {
	mock.Mock
}

func (m *MockRevokedTokenRepository) Insert(ctx context.Context, exec sqlx.ExtContext, token *model.RevokedToken) error {
	return m.Called(ctx, exec, token).Error(0)
}

func (m *MockRevokedTokenRepository) FindActive(ctx context.Context, exec sqlx.ExtContext, jti string, now time.Time) (*model.RevokedToken, error) {
	args := m.Called(ctx, exec, jti, now)
	if t, ok := args.Get(0).(*model.RevokedToken); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRevokedTokenRepository) DeleteExpired(ctx context.Context, exec sqlx.ExtContext, now time.Time) (int64, error) {
	args := m.Called(ctx, exec, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockRevocationCache struct {
	mock.Mock
}

func (m *MockRevocationCache) MarkRevoked(ctx context.Context, jti string, ttl time.Duration) error {
	return m.Called(ctx, jti, ttl).Error(0)
}

func (m *MockRevocationCache) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) IssueCredentialPair(user *model.User) (*model.TokensPair, *security.Claims, error) {
	args := m.Called(user)

	var tokens *model.TokensPair
	if t := args.Get(0); t != nil {
		tokens = t.(*model.TokensPair)
	}

	var claims *security.Claims
	if c := args.Get(1); c != nil {
		claims = c.(*security.Claims)
	}

	return tokens, claims, args.Error(2)
}

func (m *MockTokenIssuer) RefreshTTL() time.Duration {
	return m.Called().Get(0).(time.Duration)
}

// MockMailer : запоминает последний отправленный код
type MockMailer struct {
	mock.Mock
	lastOTP string
}

func (m *MockMailer) SendConfirmEmail(ctx context.Context, user *model.User, otp string) error {
	m.lastOTP = otp
	return m.Called(ctx, user, otp).Error(0)
}

func (m *MockMailer) SendResetPassword(ctx context.Context, user *model.User, otp string) error {
	m.lastOTP = otp
	return m.Called(ctx, user, otp).Error(0)
}

type MockS3Storage struct {
	mock.Mock
}

func (m *MockS3Storage) PutObject(ctx context.Context, key string, body io.Reader, contentType string, size int64) error {
	return m.Called(ctx, key, body, contentType, size).Error(0)
}

func (m *MockS3Storage) GetObject(ctx context.Context, key string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, key)
	if rc, ok := args.Get(0).(io.ReadCloser); ok {
		return rc, args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

func (m *MockS3Storage) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	if keys, ok := args.Get(0).([]string); ok {
		return keys, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockS3Storage) DeleteObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockS3Storage) DeleteObjects(ctx context.Context, keys []string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *MockS3Storage) GeneratePresignedGetURL(ctx context.Context, key string, expire time.Duration) (string, error) {
	args := m.Called(ctx, key, expire)
	return args.String(0), args.Error(1)
}

func (m *MockS3Storage) GeneratePresignedPutURL(ctx context.Context, key string, expire time.Duration) (string, error) {
	args := m.Called(ctx, key, expire)
	return args.String(0), args.Error(1)
}

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, exec sqlx.ExtContext, post *model.Post) error {
	return m.Called(ctx, exec, post).Error(0)
}

func (m *MockPostRepository) FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string, includeFrozen bool) (*model.Post, error) {
	args := m.Called(ctx, exec, uuid, includeFrozen)
	if p, ok := args.Get(0).(*model.Post); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostRepository) FindVisible(ctx context.Context, exec sqlx.ExtContext, uuid string, conditions []model.VisibilityCondition) (*model.Post, error) {
	args := m.Called(ctx, exec, uuid, conditions)
	if p, ok := args.Get(0).(*model.Post); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostRepository) ListVisible(ctx context.Context, exec sqlx.ExtContext, conditions []model.VisibilityCondition, cursor string, limit int) ([]*model.Post, string, error) {
	args := m.Called(ctx, exec, conditions, cursor, limit)
	if posts, ok := args.Get(0).([]*model.Post); ok {
		return posts, args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

func (m *MockPostRepository) Update(ctx context.Context, exec sqlx.ExtContext, uuid, authorUUID string, patch *model.PostPatch) (*model.Post, error) {
	args := m.Called(ctx, exec, uuid, authorUUID, patch)
	if p, ok := args.Get(0).(*model.Post); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostRepository) SetLike(ctx context.Context, exec sqlx.ExtContext, uuid, userUUID string, action model.LikeAction) error {
	return m.Called(ctx, exec, uuid, userUUID, action).Error(0)
}

func (m *MockPostRepository) Freeze(ctx context.Context, exec sqlx.ExtContext, uuid, by string, at time.Time) error {
	return m.Called(ctx, exec, uuid, by, at).Error(0)
}

func (m *MockPostRepository) Unfreeze(ctx context.Context, exec sqlx.ExtContext, uuid, by string, at time.Time) error {
	return m.Called(ctx, exec, uuid, by, at).Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, exec sqlx.ExtContext, uuid string) error {
	return m.Called(ctx, exec, uuid).Error(0)
}

func (m *MockPostRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	args := m.Called(ctx)
	return &fakeTx{}, func() error { return nil }, func() error { return nil }, args.Error(0)
}

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, exec sqlx.ExtContext, comment *model.Comment) error {
	return m.Called(ctx, exec, comment).Error(0)
}

func (m *MockCommentRepository) FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string, includeFrozen bool) (*model.Comment, error) {
	args := m.Called(ctx, exec, uuid, includeFrozen)
	if c, ok := args.Get(0).(*model.Comment); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, exec sqlx.ExtContext, postUUID string, includeFrozen bool) ([]*model.Comment, error) {
	args := m.Called(ctx, exec, postUUID, includeFrozen)
	if c, ok := args.Get(0).([]*model.Comment); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCommentRepository) Freeze(ctx context.Context, exec sqlx.ExtContext, uuid, by string, at time.Time) error {
	return m.Called(ctx, exec, uuid, by, at).Error(0)
}

func (m *MockCommentRepository) Unfreeze(ctx context.Context, exec sqlx.ExtContext, uuid, by string, at time.Time) error {
	return m.Called(ctx, exec, uuid, by, at).Error(0)
}

func (m *MockCommentRepository) Update(ctx context.Context, exec sqlx.ExtContext, uuid, authorUUID string, patch *model.CommentPatch) (*model.Comment, error) {
	args := m.Called(ctx, exec, uuid, authorUUID, patch)
	if comment, ok := args.Get(0).(*model.Comment); ok {
		return comment, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCommentRepository) Delete(ctx context.Context, exec sqlx.ExtContext, uuid string) ([]string, error) {
	args := m.Called(ctx, exec, uuid)
	if keys, ok := args.Get(0).([]string); ok {
		return keys, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCommentRepository) DeleteByPost(ctx context.Context, exec sqlx.ExtContext, postUUID string) ([]string, error) {
	args := m.Called(ctx, exec, postUUID)
	if keys, ok := args.Get(0).([]string); ok {
		return keys, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockFriendRepository struct {
	mock.Mock
}

func (m *MockFriendRepository) Create(ctx context.Context, exec sqlx.ExtContext, request *model.FriendRequest) error {
	return m.Called(ctx, exec, request).Error(0)
}

func (m *MockFriendRepository) FindBetween(ctx context.Context, exec sqlx.ExtContext, first, second string) (*model.FriendRequest, error) {
	args := m.Called(ctx, exec, first, second)
	if r, ok := args.Get(0).(*model.FriendRequest); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFriendRepository) FindPending(ctx context.Context, exec sqlx.ExtContext, uuid, receiverUUID string) (*model.FriendRequest, error) {
	args := m.Called(ctx, exec, uuid, receiverUUID)
	if r, ok := args.Get(0).(*model.FriendRequest); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFriendRepository) ListPending(ctx context.Context, exec sqlx.ExtContext, receiverUUID string) ([]*model.FriendRequest, error) {
	args := m.Called(ctx, exec, receiverUUID)
	if r, ok := args.Get(0).([]*model.FriendRequest); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFriendRepository) MarkAccepted(ctx context.Context, exec sqlx.ExtContext, uuid string, at time.Time) error {
	return m.Called(ctx, exec, uuid, at).Error(0)
}

func (m *MockFriendRepository) Delete(ctx context.Context, exec sqlx.ExtContext, uuid string) error {
	return m.Called(ctx, exec, uuid).Error(0)
}

func (m *MockFriendRepository) DeleteBetween(ctx context.Context, exec sqlx.ExtContext, first, second string) error {
	return m.Called(ctx, exec, first, second).Error(0)
}

func (m *MockFriendRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	args := m.Called(ctx)
	return &fakeTx{}, func() error { return nil }, func() error { return nil }, args.Error(0)
}

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) FindOneToOne(ctx context.Context, exec sqlx.ExtContext, first, second string) (*model.Chat, error) {
	args := m.Called(ctx, exec, first, second)
	if c, ok := args.Get(0).(*model.Chat); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChatRepository) CreateChat(ctx context.Context, exec sqlx.ExtContext, chat *model.Chat) error {
	return m.Called(ctx, exec, chat).Error(0)
}

func (m *MockChatRepository) AppendMessage(ctx context.Context, exec sqlx.ExtContext, message *model.Message) error {
	return m.Called(ctx, exec, message).Error(0)
}

func (m *MockChatRepository) ListMessages(ctx context.Context, exec sqlx.ExtContext, chatUUID string, limit int) ([]model.Message, error) {
	args := m.Called(ctx, exec, chatUUID, limit)
	if msgs, ok := args.Get(0).([]model.Message); ok {
		return msgs, args.Error(1)
	}
	return nil, args.Error(1)
}

// fakeTx : исполнитель транзакции, который никогда не вызывается напрямую
type fakeTx struct{}

func (f *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (f *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}
func (f *fakeTx) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	return nil, nil
}
func (f *fakeTx) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	return &sqlx.Row{}
}
func (f *fakeTx) BindNamed(query string, arg interface{}) (string, []interface{}, error) {
	return "", nil, nil
}
func (f *fakeTx) DriverName() string         { return "fake" }
func (f *fakeTx) Rebind(query string) string { return query }

func fixedNow() time.Time {
	return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
}
