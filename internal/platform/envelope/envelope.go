// Package envelope renders every API response as
// {success, message?, data?, count?, total?, errors?, error?}.
package envelope

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/validate"
)

type Response struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Data    interface{}           `json:"data,omitempty"`
	Count   *int                  `json:"count,omitempty"`
	Total   *int                  `json:"total,omitempty"`
	Errors  []validate.FieldError `json:"errors,omitempty"`
	Error   string                `json:"error,omitempty"`
}

func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// Message answers 200 with a message and optional data.
func Message(c echo.Context, msg string, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Success: true, Message: msg, Data: data})
}

func Created(c echo.Context, msg string, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{Success: true, Message: msg, Data: data})
}

// List answers 200 with the items and their count. A nil slice is sent as [].
func List[T any](c echo.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	return c.JSON(http.StatusOK, Response{Success: true, Data: items, Count: &n})
}

// Page is List plus the total number of rows matching the query.
func Page[T any](c echo.Context, items []T, total int) error {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	return c.JSON(http.StatusOK, Response{Success: true, Data: items, Count: &n, Total: &total})
}

// ParamID reads a positive integer path parameter. what names the entity in
// the 400 message, e.g. "incident" gives "ID incident invalide".
func ParamID(c echo.Context, name, what string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, BadRequest("ID " + what + " invalide")
	}
	return id, nil
}
