package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// A login body carries two short strings; anything larger is rejected
// before the global body limit is reached.
const maxLoginBodyBytes int64 = 4 << 10

// decodeLoginRequest reads a single JSON object holding only the
// LoginRequest fields. The username comes back trimmed, the password as
// sent.
func decodeLoginRequest(c echo.Context) (LoginRequest, error) {
	var req LoginRequest

	mediaType, _, err := mime.ParseMediaType(c.Request().Header.Get(echo.HeaderContentType))
	if err != nil || mediaType != echo.MIMEApplicationJSON {
		return req, echo.NewHTTPError(http.StatusUnsupportedMediaType, msgContentTypeJSONRequired)
	}

	decoder := json.NewDecoder(io.LimitReader(c.Request().Body, maxLoginBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, msgInvalidRequestBody)
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return req, echo.NewHTTPError(http.StatusBadRequest, msgInvalidRequestBody)
	}

	req.Username = strings.TrimSpace(req.Username)
	return req, nil
}
