package common

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// The wire contract existing clients rely on is flat: every failure is
// {"error": "<message>"} and every plain success is {"success": "<message>"}.

func SendError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}

func SendSuccess(c echo.Context, message string) error {
	return c.JSON(200, map[string]string{"success": message})
}

// ParseID parses an integer path parameter. Non-numeric input is treated as
// "no such id" by the callers, never as a parse error.
func ParseID(raw string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}
