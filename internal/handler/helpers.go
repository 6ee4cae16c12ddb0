package handler

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"social-app/internal/model"
	"social-app/internal/security"
	"social-app/internal/util"
)

const (
	maxMultipartMemory = 32 << 20
	maxUploadFiles     = 10
	multipartDataField = "data"
	multipartFileField = "files"
)

var errTooManyFiles = errors.New("слишком много файлов в форме")

// decodeJSON : при ошибке сам отвечает клиенту 400
func decodeJSON(w http.ResponseWriter, r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
		return err
	}
	return nil
}

// decodeForm : json тело или multipart форма с json в поле data и файлами в поле files.
// Возвращённый closer закрывает открытые файлы, его нужно вызвать после обработки.
func decodeForm(w http.ResponseWriter, r *http.Request, target interface{}) ([]model.Upload, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, noop, decodeJSON(w, r, target)
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		util.HandleError(w, "некорректная multipart форма", http.StatusBadRequest)
		return nil, noop, err
	}
	if data := r.FormValue(multipartDataField); data != "" {
		if err := json.Unmarshal([]byte(data), target); err != nil {
			util.HandleError(w, "некорректный JSON в поле data", http.StatusBadRequest)
			return nil, noop, err
		}
	}

	headers := r.MultipartForm.File[multipartFileField]
	if len(headers) > maxUploadFiles {
		util.HandleError(w, "слишком много файлов", http.StatusBadRequest)
		return nil, noop, errTooManyFiles
	}

	uploads := make([]model.Upload, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, f := range opened {
			if err := f.Close(); err != nil {
				log.Warn().Err(err).Msg("не удалось закрыть файл формы")
			}
		}
	}
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			closeAll()
			util.HandleError(w, "не удалось прочитать файл", http.StatusBadRequest)
			return nil, noop, err
		}
		opened = append(opened, file)
		uploads = append(uploads, model.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		})
	}
	return uploads, closeAll, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("ошибка кодирования ответа")
	}
}

// currentSession : middleware уже проверил токен, отсутствие сессии значит ошибку маршрутизации
func currentSession(w http.ResponseWriter, r *http.Request) (*security.Session, bool) {
	session, ok := security.SessionFromContext(r.Context())
	if !ok {
		util.HandleError(w, "не авторизован", http.StatusUnauthorized)
		return nil, false
	}
	return session, true
}

func currentUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	session, ok := currentSession(w, r)
	if !ok {
		return nil, false
	}
	return session.User, true
}

func queryInt(r *http.Request, key string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return value
}
