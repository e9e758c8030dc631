package handler

import (
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"
)

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyError: message})
}

func handleHTTPError(c echo.Context, err error) error {
	if he, ok := err.(*echo.HTTPError); ok {
		msg, _ := he.Message.(string)
		if msg == "" {
			msg = http.StatusText(he.Code)
		}
		return respondError(c, he.Code, msg)
	}

	return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// respondBlob writes body with a Content-Disposition built from disposition
// and filename. Non-ASCII filenames are emitted in RFC 2231 form.
func respondBlob(c echo.Context, contentType, disposition, filename string, body []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition,
		mime.FormatMediaType(disposition, map[string]string{dispositionFilename: filename}))
	return c.Blob(http.StatusOK, contentType, body)
}
