// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/vms-backend/internal/i18n"
)

func I18nMiddleware(defaultLang string) gin.HandlerFunc {
	if defaultLang == "" {
		defaultLang = i18n.DefaultLang
	}

	return func(c *gin.Context) {
		lang := defaultLang

		// Handle cases like "id-ID,id;q=0.9,en;q=0.8"
		if header := c.GetHeader("Accept-Language"); header != "" {
			first := strings.TrimSpace(strings.Split(strings.Split(header, ",")[0], ";")[0])
			switch strings.ToLower(first) {
			case "id", "id-id", "in":
				lang = "id"
			case "en", "en-us", "en-gb":
				lang = "en"
			}
		}

		if !i18n.IsSupported(lang) {
			lang = i18n.DefaultLang
		}

		c.Set("lang", lang)
		c.Next()
	}
}
