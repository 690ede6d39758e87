package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

type itemsResponse[T any] struct {
	Items []T `json:"items"`
}

type statusResponse struct {
	Status string `json:"status"`
}
