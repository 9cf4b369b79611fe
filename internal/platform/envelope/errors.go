package envelope

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/validate"
)

// Error is returned by handlers and rendered by ErrorHandler.
type Error struct {
	Status  int
	Message string
	Errors  []validate.FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

func BadRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// Invalid is the 400 answer for rejected input.
func Invalid(errs validate.Errors) *Error {
	return &Error{Status: http.StatusBadRequest, Message: "Données invalides", Errors: errs}
}

// Internal hides err behind msg; the error text is only sent in debug mode.
func Internal(err error, msg string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: msg, Err: err}
}

// ErrorHandler renders handler errors as envelopes. Server errors are logged
// with the request id; their text reaches the client only when debug is set.
func ErrorHandler(logger zerolog.Logger, debug bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp := Response{Success: false}
		status := http.StatusInternalServerError

		var (
			ee    *Error
			he    *echo.HTTPError
			verrs validate.Errors
		)
		switch {
		case errors.As(err, &ee):
			status = ee.Status
			resp.Message = ee.Message
			resp.Errors = ee.Errors
		case errors.As(err, &verrs):
			status = http.StatusBadRequest
			resp.Message = "Données invalides"
			resp.Errors = verrs
		case errors.As(err, &he):
			status = he.Code
			resp.Message = httpMessage(he)
		default:
			resp.Message = "Erreur serveur"
		}

		if status >= http.StatusInternalServerError {
			reqID, _ := c.Get("request_id").(string)
			logger.Error().Err(err).
				Str("request_id", reqID).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", status).
				Msg("request failed")
			if debug {
				resp.Error = err.Error()
			}
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, resp)
		}
		if werr != nil {
			logger.Error().Err(werr).Msg("failed to write error response")
		}
	}
}

func httpMessage(he *echo.HTTPError) string {
	switch he.Code {
	case http.StatusNotFound:
		return "Route non trouvée"
	case http.StatusMethodNotAllowed:
		return "Méthode non autorisée"
	case http.StatusUnauthorized:
		return "Authentification requise"
	case http.StatusForbidden:
		return "Accès refusé"
	case http.StatusRequestEntityTooLarge:
		return "Corps de requête trop volumineux"
	case http.StatusTooManyRequests:
		return "Trop de requêtes, réessayez plus tard"
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return "Le serveur n'a pas répondu à temps"
	}
	if msg, ok := he.Message.(string); ok {
		return msg
	}
	return http.StatusText(he.Code)
}
