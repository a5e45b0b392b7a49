package api

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	clierrors "github.com/quocvuong92/nimbuscode/internal/errors"
)

// maxErrorBody bounds how much of an unstructured error body is echoed back
const maxErrorBody = 200

// checkStatus maps a non-2xx response onto the error taxonomy.
// 401 and 403 are authentication failures; everything else is an APIError.
func checkStatus(status int, endpoint string, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	msg := errorMessage(body)
	if msg == "" {
		msg = fallbackMessage(status, body)
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return clierrors.NewAuthError(status, msg)
	default:
		return clierrors.NewAPIError(status, endpoint, msg)
	}
}

// errorMessage extracts the provider's message from an error body.
// OpenRouter sends {"error": {"message": ...}}; some upstreams send a bare string.
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	e := gjson.GetBytes(body, "error")
	switch {
	case e.IsObject():
		return strings.TrimSpace(e.Get("message").String())
	case e.Type == gjson.String:
		return strings.TrimSpace(e.String())
	}
	return ""
}

func fallbackMessage(status int, body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" || gjson.ValidBytes(body) {
		return fmt.Sprintf("status code %d", status)
	}
	if len(text) > maxErrorBody {
		cut := maxErrorBody
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}
	return fmt.Sprintf("status code %d: %s", status, text)
}
