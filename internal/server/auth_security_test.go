package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/futurotec/internal/db"
	"github.com/jonathan/futurotec/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurity_PasswordHashNeverReturned(t *testing.T) {
	ts := newTestServer(t)
	b := newBrowser(ts)

	w := b.do(t, http.MethodPost, "/auth/register", types.CreateUserRequest{
		Name: "Ana", Email: "ana@example.com", Password: "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := strings.ToLower(w.Body.String())
	assert.NotContains(t, body, "password_hash")
	assert.NotContains(t, body, "$2a$")
	assert.NotContains(t, body, "password123")
}

func TestSecurity_GenericErrorMessages(t *testing.T) {
	ts := newTestServer(t)
	b := newBrowser(ts)
	require.Equal(t, http.StatusCreated, b.do(t, http.MethodPost, "/auth/register", types.CreateUserRequest{
		Name: "Ana", Email: "ana@example.com", Password: "password123",
	}).Code)

	wrongPassword := newBrowser(ts).do(t, http.MethodPost, "/auth/login", types.LoginRequest{Email: "ana@example.com", Password: "wrong-password"})
	unknownEmail := newBrowser(ts).do(t, http.MethodPost, "/auth/login", types.LoginRequest{Email: "nobody@example.com", Password: "password123"})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestSecurity_TamperedTokenIsSignedOut(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.sessionFor(t, uuid.New())
	cookie.Value = cookie.Value[:len(cookie.Value)-2] + "xx"

	req := httptest.NewRequest(http.MethodGet, "/jobs.html", nil)
	req.AddCookie(cookie)
	w := ts.serve(req)

	assert.Equal(t, http.StatusFound, w.Code)
}

func TestSecurity_XSS_Prevention(t *testing.T) {
	ts := newTestServer(t)
	evil := ts.store.AddCompany(`<img src=x onerror=alert(1)>`)
	ts.store.AddPosting(db.Posting{Title: `<script>alert("x")</script>`, CompanyID: &evil})

	req := httptest.NewRequest(http.MethodGet, "/jobs.html", nil)
	req.AddCookie(ts.sessionFor(t, uuid.New()))
	w := ts.serve(req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.NotContains(t, w.Body.String(), `<script>alert("x")</script>`)
	assert.NotContains(t, w.Body.String(), `<img src=x`)
	doc := parseHTML(t, w)
	assert.Equal(t, `<script>alert("x")</script>`, doc.Find(".posting-title").Text())
}

func TestSecurity_SessionCookieFlags(t *testing.T) {
	ts := newTestServer(t)

	w := newBrowser(ts).do(t, http.MethodPost, "/auth/register", types.CreateUserRequest{
		Name: "Ana", Email: "ana@example.com", Password: "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}
