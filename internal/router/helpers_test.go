// internal/router/helpers_test.go
package router

import (
	"net/http"
	"net/http/httptest"
)

func doWithLanguage(h http.Handler, path, token, lang string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept-Language", lang)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}
