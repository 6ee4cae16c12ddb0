package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"social-app/internal/metrics"
	"social-app/internal/model"
	"social-app/internal/ports"
	"social-app/internal/security"
	"social-app/internal/util"
)

// authQueryParam : браузерный websocket не умеет ставить заголовки
const authQueryParam = "authorization"

// Gateway : websocket чата, соединение открывается только с действующим access токеном
type Gateway struct {
	resolver security.Resolver
	chats    ports.ChatService
	registry ConnectionRegistry
	upgrader websocket.Upgrader
}

func NewGateway(resolver security.Resolver, chats ports.ChatService, registry ConnectionRegistry, allowedOrigins []string) *Gateway {
	return &Gateway{
		resolver: resolver,
		chats:    chats,
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// originChecker : без заголовка Origin клиент не браузер и пропускается,
// при пустом списке разрешён только тот же хост
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		set[strings.ToLower(strings.TrimRight(origin, "/"))] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if len(set) == 0 {
			parsed, err := url.Parse(origin)
			return err == nil && strings.EqualFold(parsed.Host, r.Host)
		}
		_, ok := set[strings.ToLower(origin)]
		return ok
	}
}

// ServeHTTP godoc
// @Summary Websocket чата
// @Description События sendMessage, successMessage, newMessage и custom_error в формате {"event", "data"}
// @Tags Chat
// @Param Authorization header string false "Access токен" default(Bearer <access_token>)
// @Param authorization query string false "Access токен, если заголовок недоступен"
// @Success 101
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Router /ws [get]
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if header == "" {
		header = r.URL.Query().Get(authQueryParam)
	}

	session, err := g.resolver.ResolveSession(r.Context(), header, model.TokenKindAccess, security.SessionOptions{})
	if err != nil {
		util.WriteError(w, err)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("[Gateway] не удалось открыть websocket")
		return
	}

	client := newClient(r.Context(), conn, session.User)
	g.registry.Add(session.User.UUID, client)
	metrics.WebSocketConnectionsActive.Inc()
	defer func() {
		g.registry.Remove(session.User.UUID, client)
		metrics.WebSocketConnectionsActive.Dec()
	}()

	go client.writePump()
	client.readPump(g.handleFrame)
}

func (g *Gateway) handleFrame(client *Client, frame []byte) {
	var envelope Envelope
	if err := json.Unmarshal(frame, &envelope); err != nil {
		g.replyError(client, util.NewBadRequest("некорректный JSON"))
		return
	}

	switch envelope.Event {
	case EventSendMessage:
		g.sendMessage(client, envelope.Data)
	default:
		g.replyError(client, util.NewBadRequest("неизвестное событие"))
	}
}

func (g *Gateway) sendMessage(client *Client, data json.RawMessage) {
	var payload SendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.To == "" {
		g.replyError(client, util.NewBadRequest("нужны поля to и content"))
		return
	}

	message, err := g.chats.SendMessage(client.ctx, client.user, payload.To, payload.Content)
	if err != nil {
		g.replyError(client, err)
		return
	}

	g.deliver(client.user.UUID, EventSuccessMessage, MessagePayload{Message: message})
	g.deliver(payload.To, EventNewMessage, MessagePayload{Message: message})
}

// deliver : кадр всем живым соединениям пользователя
func (g *Gateway) deliver(userID string, event EventType, data interface{}) {
	frame, err := encode(event, data)
	if err != nil {
		log.Error().Err(err).Msg("[Gateway] ошибка кодирования события")
		return
	}
	for _, connection := range g.registry.Connections(userID) {
		connection.Send(frame)
	}
}

func (g *Gateway) replyError(client *Client, err error) {
	payload := ErrorPayload{Message: "внутренняя ошибка сервера", Code: http.StatusInternalServerError}

	var appErr *util.AppError
	if errors.As(err, &appErr) {
		payload.Code = appErr.StatusCode()
		if payload.Code < http.StatusInternalServerError {
			payload.Message = appErr.PublicMessage()
		}
	}
	if payload.Code >= http.StatusInternalServerError {
		log.Error().Err(err).Str("user", client.user.UUID).Msg("[Gateway] ошибка обработки события")
	}

	frame, encodeErr := encode(EventError, payload)
	if encodeErr != nil {
		return
	}
	client.Send(frame)
}
