package security

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"social-app/internal/metrics"
	"social-app/internal/model"
	"social-app/internal/util"
)

type contextKey string

const sessionContextKey contextKey = "session"

// Authentication : разбирает заголовок Authorization и кладёт Session в контекст запроса
func Authentication(resolver Resolver, kind model.TokenKind, opts SessionOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := resolver.ResolveSession(r.Context(), r.Header.Get("Authorization"), kind, opts)
			if err != nil {
				rejectRequest(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// OptionalAuthentication : без заголовка запрос идёт анонимно, с заголовком проверяется как обычно
func OptionalAuthentication(resolver Resolver, kind model.TokenKind) func(http.Handler) http.Handler {
	strict := Authentication(resolver, kind, SessionOptions{})
	return func(next http.Handler) http.Handler {
		authenticated := strict(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			authenticated.ServeHTTP(w, r)
		})
	}
}

// Authorization : Authentication с последующей проверкой роли
func Authorization(resolver Resolver, kind model.TokenKind, roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		gate := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, _ := SessionFromContext(r.Context())
			if err := Authorize(session, roles...); err != nil {
				rejectRequest(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
		return Authentication(resolver, kind, SessionOptions{})(gate)
	}
}

func rejectRequest(w http.ResponseWriter, r *http.Request, err error) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		metrics.AuthFailuresTotal.WithLabelValues(string(authErr.Kind)).Inc()
		log.Debug().Str("path", r.URL.Path).Str("kind", string(authErr.Kind)).Msg("запрос отклонён")
	}
	util.WriteError(w, err)
}

func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(*Session)
	return session, ok && session != nil
}

// UserFromContext : текущий пользователь или nil для анонимного запроса
func UserFromContext(ctx context.Context) *model.User {
	if session, ok := SessionFromContext(ctx); ok {
		return session.User
	}
	return nil
}
