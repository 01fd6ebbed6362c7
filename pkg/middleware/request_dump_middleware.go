package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"aptigenius-backend/utilities"
)

// redactedFields never reach the debug log.
var redactedFields = []string{"password", "refreshToken"}

func RequestDumpMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		utilities.Debug(
			"[Request]\n"+
				"\tMethod: %s\n"+
				"\tURL: %s\n"+
				"\tHeaders: %v\n"+
				"\tBody: %s",
			c.Request.Method,
			c.Request.URL.String(),
			dumpHeaders(c.Request.Header),
			redactBody(bodyBytes),
		)

		c.Next()
	}
}

func dumpHeaders(h http.Header) http.Header {
	out := h.Clone()
	if out.Get("Authorization") != "" {
		out.Set("Authorization", "[redacted]")
	}
	return out
}

// redactBody masks sensitive fields at any depth of a JSON body. Bodies that
// are not JSON are replaced by a size note.
func redactBody(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Sprintf("[non-JSON body, %d bytes]", len(body))
	}
	out, err := json.Marshal(redactValue(doc))
	if err != nil {
		return fmt.Sprintf("[unprintable body, %d bytes]", len(body))
	}
	return string(out)
}

func redactValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, val := range t {
			if isRedacted(k) {
				t[k] = "***"
				continue
			}
			t[k] = redactValue(val)
		}
	case []interface{}:
		for i, val := range t {
			t[i] = redactValue(val)
		}
	}
	return v
}

func isRedacted(key string) bool {
	for _, field := range redactedFields {
		if strings.EqualFold(key, field) {
			return true
		}
	}
	return false
}
