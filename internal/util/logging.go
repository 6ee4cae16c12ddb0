package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"social-app/internal/model/requestresponse"
)

var exposeStack atomic.Bool

// ExposeErrorStack : включает поле stack в ответах об ошибках, вне production
func ExposeErrorStack(enabled bool) {
	exposeStack.Store(enabled)
}

func LogError(message string, err error) error {
	log.Error().Err(err).Msg(message)
	return fmt.Errorf("%s: %w", message, err)
}

func HandleError(w http.ResponseWriter, message string, statusCode int) {
	writeErrorBody(w, statusCode, requestresponse.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

type statusCoder interface {
	StatusCode() int
}

type publicMessenger interface {
	PublicMessage() string
}

// WriteError : отвечает клиенту по типу ошибки, неизвестные ошибки становятся 500
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "внутренняя ошибка сервера"

	var coder statusCoder
	if errors.As(err, &coder) {
		status = coder.StatusCode()
	}
	var messenger publicMessenger
	if errors.As(err, &messenger) && status < http.StatusInternalServerError {
		message = messenger.PublicMessage()
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Msg("ошибка обработки запроса")
	}

	body := requestresponse.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}
	if exposeStack.Load() {
		body.Stack = errorChain(err)
	}
	writeErrorBody(w, status, body)
}

func errorChain(err error) []string {
	var chain []string
	for err != nil {
		chain = append(chain, err.Error())
		err = errors.Unwrap(err)
	}
	return chain
}

func writeErrorBody(w http.ResponseWriter, statusCode int, body requestresponse.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("ошибка кодирования ответа")
	}
}
