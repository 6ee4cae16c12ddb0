package security_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-app/internal/model"
	"social-app/internal/model/requestresponse"
	"social-app/internal/security"
)

func okHandler(t *testing.T, expectUser string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := security.UserFromContext(r.Context())
		if expectUser == "" {
			assert.Nil(t, user)
		} else {
			require.NotNil(t, user)
			assert.Equal(t, expectUser, user.UUID)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func serve(h http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestAuthentication_PutsSessionInContext(t *testing.T) {
	f := newResolverFixture(fixedClock(testNow))
	user := &model.User{UUID: "u1", Role: model.RoleUser}
	f.users.On("FindByUUID", mock.Anything, mock.Anything, "u1", true).Return(user, nil)
	pair, _ := f.login(t, user)

	h := security.Authentication(f.resolver, model.TokenKindAccess, security.SessionOptions{})(okHandler(t, "u1"))

	rr := serve(h, header(pair, pair.AccessToken))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestAuthentication_ErrorStatuses(t *testing.T) {
	f := newResolverFixture(fixedClock(testNow))
	user := &model.User{UUID: "u1", Role: model.RoleUser}
	f.users.On("FindByUUID", mock.Anything, mock.Anything, "u1", true).Return(user, nil)
	pair, claims := f.login(t, user)

	h := security.Authentication(f.resolver, model.TokenKindAccess, security.SessionOptions{})(okHandler(t, "u1"))

	rr := serve(h, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(h, "Bearer not.a.jwt")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	f.revocations[claims.ID] = true
	rr = serve(h, header(pair, pair.AccessToken))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	var body requestresponse.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, http.StatusForbidden, body.Code)
	assert.Equal(t, "токен отозван", body.Message)
}

func TestAuthorization_ForbiddenIsNotAuthenticationFailure(t *testing.T) {
	f := newResolverFixture(fixedClock(testNow))
	user := &model.User{UUID: "b", Role: model.RoleUser}
	f.users.On("FindByUUID", mock.Anything, mock.Anything, "b", true).Return(user, nil)
	pair, _ := f.login(t, user)

	h := security.Authorization(f.resolver, model.TokenKindAccess, model.RoleSuperAdmin)(okHandler(t, "b"))

	rr := serve(h, header(pair, pair.AccessToken))
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "недостаточно прав")
}

func TestAuthorization_AllowsListedRole(t *testing.T) {
	f := newResolverFixture(fixedClock(testNow))
	admin := &model.User{UUID: "a", Role: model.RoleAdmin}
	f.users.On("FindByUUID", mock.Anything, mock.Anything, "a", true).Return(admin, nil)
	pair, _ := f.login(t, admin)

	h := security.Authorization(f.resolver, model.TokenKindAccess, model.RoleAdmin, model.RoleSuperAdmin)(okHandler(t, "a"))

	rr := serve(h, header(pair, pair.AccessToken))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestOptionalAuthentication(t *testing.T) {
	f := newResolverFixture(fixedClock(testNow))
	user := &model.User{UUID: "u1", Role: model.RoleUser}
	f.users.On("FindByUUID", mock.Anything, mock.Anything, "u1", true).Return(user, nil)
	pair, _ := f.login(t, user)

	anonymous := security.OptionalAuthentication(f.resolver, model.TokenKindAccess)(okHandler(t, ""))
	assert.Equal(t, http.StatusNoContent, serve(anonymous, "").Code)

	authenticated := security.OptionalAuthentication(f.resolver, model.TokenKindAccess)(okHandler(t, "u1"))
	assert.Equal(t, http.StatusNoContent, serve(authenticated, header(pair, pair.AccessToken)).Code)
	assert.Equal(t, http.StatusBadRequest, serve(authenticated, "garbage").Code)
}
