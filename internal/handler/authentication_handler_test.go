package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-app/internal/model"
	"social-app/internal/model/requestresponse"
	"social-app/internal/security"
	"social-app/internal/util"
)

type MockAuthenticationService struct {
	mock.Mock
}

func (m *MockAuthenticationService) Signup(ctx context.Context, firstName, lastName, email, password string) (*model.User, error) {
	args := m.Called(ctx, firstName, lastName, email, password)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthenticationService) ConfirmEmail(ctx context.Context, email, otp string) error {
	return m.Called(ctx, email, otp).Error(0)
}

func (m *MockAuthenticationService) ResendConfirmEmail(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthenticationService) Login(ctx context.Context, email, password string) (*model.TokensPair, error) {
	args := m.Called(ctx, email, password)
	if t, ok := args.Get(0).(*model.TokensPair); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthenticationService) Refresh(ctx context.Context, session *security.Session) (*model.TokensPair, error) {
	args := m.Called(ctx, session)
	if t, ok := args.Get(0).(*model.TokensPair); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthenticationService) Logout(ctx context.Context, session *security.Session, flag model.LogoutFlag) error {
	return m.Called(ctx, session, flag).Error(0)
}

func (m *MockAuthenticationService) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthenticationService) ResetPassword(ctx context.Context, email, otp, password string) error {
	return m.Called(ctx, email, otp, password).Error(0)
}

func withSession(req *http.Request, session *security.Session) *http.Request {
	return req.WithContext(security.WithSession(req.Context(), session))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) requestresponse.ErrorResponse {
	t.Helper()
	var body requestresponse.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(m *MockAuthenticationService)
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "invalid json",
			body:       "{",
			wantStatus: http.StatusBadRequest,
			wantMsg:    "некорректный JSON",
		},
		{
			name:       "missing password",
			body:       `{"email":"a@b.c"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "email и password обязательны",
		},
		{
			name: "wrong credentials",
			body: `{"email":"a@b.c","password":"x"}`,
			setup: func(m *MockAuthenticationService) {
				m.On("Login", mock.Anything, "a@b.c", "x").Return(nil, util.NewBadRequest("неверная почта или пароль"))
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "неверная почта или пароль",
		},
		{
			name: "frozen",
			body: `{"email":"a@b.c","password":"x"}`,
			setup: func(m *MockAuthenticationService) {
				m.On("Login", mock.Anything, "a@b.c", "x").Return(nil, util.NewForbidden("аккаунт заморожен"))
			},
			wantStatus: http.StatusForbidden,
			wantMsg:    "аккаунт заморожен",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthenticationService)
			if tt.setup != nil {
				tt.setup(svc)
			}
			h := NewAuthenticationHandler(svc)

			rec := httptest.NewRecorder()
			h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, rec).Message)
		})
	}
}

func TestLoginHandler_Success(t *testing.T) {
	svc := new(MockAuthenticationService)
	svc.On("Login", mock.Anything, "a@b.c", "secret").
		Return(&model.TokensPair{AccessToken: "access", RefreshToken: "refresh", TokenType: security.LabelBearer}, nil)
	h := NewAuthenticationHandler(svc)

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@b.c","password":"secret"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp requestresponse.TokensResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "access", resp.Response.AccessToken)
	assert.Equal(t, "Bearer", resp.Response.TokenType)
}

func TestSignupHandler_PasswordMismatch(t *testing.T) {
	svc := new(MockAuthenticationService)
	h := NewAuthenticationHandler(svc)

	body := `{"first_name":"Ivan","email":"a@b.c","password":"P@ssw0rd!","confirm_password":"other"}`
	rec := httptest.NewRecorder()
	h.Signup(rec, httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResendConfirmEmailHandler(t *testing.T) {
	t.Run("missing email", func(t *testing.T) {
		svc := new(MockAuthenticationService)
		h := NewAuthenticationHandler(svc)

		rec := httptest.NewRecorder()
		h.ResendConfirmEmail(rec, httptest.NewRequest(http.MethodPost, "/api/auth/resend-confirm-email", strings.NewReader(`{}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "ResendConfirmEmail", mock.Anything, mock.Anything)
	})

	t.Run("already confirmed", func(t *testing.T) {
		svc := new(MockAuthenticationService)
		svc.On("ResendConfirmEmail", mock.Anything, "a@b.c").Return(util.NewConflict("почта уже подтверждена"))
		h := NewAuthenticationHandler(svc)

		rec := httptest.NewRecorder()
		h.ResendConfirmEmail(rec, httptest.NewRequest(http.MethodPost, "/api/auth/resend-confirm-email", strings.NewReader(`{"email":"a@b.c"}`)))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("sent", func(t *testing.T) {
		svc := new(MockAuthenticationService)
		svc.On("ResendConfirmEmail", mock.Anything, "a@b.c").Return(nil)
		h := NewAuthenticationHandler(svc)

		rec := httptest.NewRecorder()
		h.ResendConfirmEmail(rec, httptest.NewRequest(http.MethodPost, "/api/auth/resend-confirm-email", strings.NewReader(`{"email":"a@b.c"}`)))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestLogoutHandler(t *testing.T) {
	session := &security.Session{User: &model.User{UUID: "u1"}, Claims: &security.Claims{UserID: "u1"}}

	t.Run("defaults to only", func(t *testing.T) {
		svc := new(MockAuthenticationService)
		svc.On("Logout", mock.Anything, session, model.LogoutOnly).Return(nil)
		h := NewAuthenticationHandler(svc)

		req := withSession(httptest.NewRequest(http.MethodPost, "/api/auth/logout", strings.NewReader(`{}`)), session)
		rec := httptest.NewRecorder()
		h.Logout(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unknown flag", func(t *testing.T) {
		svc := new(MockAuthenticationService)
		svc.On("Logout", mock.Anything, session, model.LogoutFlag("some")).Return(util.NewBadRequest("flag должен быть only или all"))
		h := NewAuthenticationHandler(svc)

		req := withSession(httptest.NewRequest(http.MethodPost, "/api/auth/logout", strings.NewReader(`{"flag":"some"}`)), session)
		rec := httptest.NewRecorder()
		h.Logout(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no session", func(t *testing.T) {
		h := NewAuthenticationHandler(new(MockAuthenticationService))
		rec := httptest.NewRecorder()
		h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestMeHandler(t *testing.T) {
	h := NewAuthenticationHandler(new(MockAuthenticationService))
	session := &security.Session{User: &model.User{UUID: "u1", Role: model.RoleAdmin}}

	rec := httptest.NewRecorder()
	h.Me(rec, withSession(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), session))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp requestresponse.CurrentUserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "u1", resp.Response.UserUUID)
	assert.Equal(t, model.RoleAdmin, resp.Response.Role)
}
