package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind はエラーの分類です。レスポンスのステータスコードはこの分類で決まります。
type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindToken          Kind = "token"
	KindAuthorization  Kind = "authorization"
	KindConflict       Kind = "conflict"
	KindInternal       Kind = "internal"
)

// Error は API が返すエラーです。Err は内部向けでクライアントには返しません。
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status は分類に対応する HTTP ステータスを返します。
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication, KindToken:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

var (
	errInvalidInput = &Error{
		Kind:    KindValidation,
		Code:    "INVALID_INPUT",
		Message: "username and password are required",
	}
	errInvalidCredentials = &Error{
		Kind:    KindAuthentication,
		Code:    "INVALID_CREDENTIALS",
		Message: "invalid username or password",
	}
	errUnauthenticated = &Error{
		Kind:    KindAuthentication,
		Code:    "UNAUTHENTICATED",
		Message: "access denied",
	}
	errForbidden = &Error{
		Kind:    KindAuthorization,
		Code:    "FORBIDDEN",
		Message: "unauthorized",
	}
	errUsernameTaken = &Error{
		Kind:    KindConflict,
		Code:    "USERNAME_TAKEN",
		Message: "username is already registered",
	}
)

func internalError(code string, err error) *Error {
	return &Error{
		Kind:    KindInternal,
		Code:    code,
		Message: "internal server error",
		Err:     err,
	}
}

// respondWithError はエラーを {code, message} 形式の JSON で返し、以降のハンドラーを中断します。
func respondWithError(c *gin.Context, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		apiErr = internalError("INTERNAL_ERROR", err)
	}
	c.AbortWithStatusJSON(apiErr.Status(), gin.H{
		"code":    apiErr.Code,
		"message": apiErr.Message,
	})
}
