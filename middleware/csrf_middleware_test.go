package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newCSRFRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CSRFMiddleware(false))
	router.GET("/form", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/submit", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func issuedToken(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/form", nil)
	router.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == CSRFCookieName {
			return cookie.Value
		}
	}
	t.Fatal("no CSRF cookie issued")
	return ""
}

func TestCSRF_SafeMethodIssuesCookie(t *testing.T) {
	router := newCSRFRouter()
	token := issuedToken(t, router)
	assert.Len(t, token, csrfTokenLength)
}

func TestCSRF_PostWithoutTokenIsForbidden(t *testing.T) {
	router := newCSRFRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "CSRF token missing or invalid")
}

func TestCSRF_PostWithHeaderToken(t *testing.T) {
	router := newCSRFRouter()
	token := issuedToken(t, router)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: token})
	req.Header.Set(CSRFHeaderName, token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCSRF_PostWithFormFieldToken(t *testing.T) {
	router := newCSRFRouter()
	token := issuedToken(t, router)

	form := url.Values{CSRFFieldName: {token}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: token})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCSRF_PostWithMismatchedTokenIsForbidden(t *testing.T) {
	router := newCSRFRouter()
	token := issuedToken(t, router)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: token})
	req.Header.Set(CSRFHeaderName, "forged-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
