package api

import (
	"errors"
	"fmt"
	"strings"

	"FinSoft/internal/cli/validation"
)

// Сообщения для пользователя, когда сервер не прислал своего.
const (
	MsgServerError   = "Произошла ошибка на сервере"
	MsgNoResponse    = "Нет ответа от сервера. Проверьте подключение."
	MsgRequestFailed = "Не удалось выполнить запрос"
	MsgAuthExpired   = "Сессия истекла. Войдите снова."
)

// ServerError: сервер ответил 4xx/5xx либо 2xx с success=false.
type ServerError struct {
	StatusCode  int
	Message     string
	FieldErrors map[string][]string
}

func (e *ServerError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = MsgServerError
	}
	return fmt.Sprintf("server error %d: %s", e.StatusCode, msg)
}

// NetworkError: ответа не получено (в том числе таймаут).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return "network error"
	}
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RequestError: запрос не удалось собрать до отправки.
type RequestError struct {
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Err != nil:
		return e.Err.Error()
	}
	return e.Message
}

func (e *RequestError) Unwrap() error { return e.Err }

// AuthExpiredError: 401 и обновить токен не удалось; сессия уже очищена.
type AuthExpiredError struct {
	Cause error
}

func (e *AuthExpiredError) Error() string {
	if e.Cause == nil {
		return "auth expired"
	}
	return "auth expired: " + e.Cause.Error()
}

func (e *AuthExpiredError) Unwrap() error { return e.Cause }

// UserMessage returns the text a console should show for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var (
		se *ServerError
		ne *NetworkError
		re *RequestError
		ae *AuthExpiredError
		ve *validation.ValidationError
	)
	switch {
	case errors.As(err, &ae):
		return MsgAuthExpired
	case errors.As(err, &se):
		if strings.TrimSpace(se.Message) != "" {
			return se.Message
		}
		return MsgServerError
	case errors.As(err, &ne):
		return MsgNoResponse
	case errors.As(err, &ve):
		return ve.Error()
	case errors.As(err, &re):
		if re.Message != "" {
			return re.Message
		}
		return MsgRequestFailed
	}
	return err.Error()
}

// StatusCode extracts the HTTP status of a ServerError, 0 otherwise.
func StatusCode(err error) int {
	var se *ServerError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
