package admin

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chinguetti/internal/catalog"
	"chinguetti/internal/session"
	"chinguetti/internal/upstream"
)

func testTokenService() session.TokenService {
	return session.TokenService{
		Secret:   []byte("test-secret"),
		Issuer:   "chinguetti-test",
		Duration: time.Hour,
	}
}

type fixture struct {
	router  *gin.Engine
	tokens  session.TokenService
	baseURL string
}

func newFixture(t *testing.T, upstreamHandler http.Handler) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(upstreamHandler)
	t.Cleanup(srv.Close)

	tokens := testTokenService()
	client := upstream.NewClient(srv.URL, session.NewMemoryTokenStore(""), 2*time.Second)
	sessions := &session.Service{Client: client, Tokens: tokens}
	cat := catalog.NewService(client, 2*time.Second)

	r := gin.New()
	h := NewHandler(sessions, tokens, nil, cat, srv.URL, 2*time.Second)
	h.RegisterRoutes(r.Group("/admin"))

	return &fixture{router: r, tokens: tokens, baseURL: srv.URL}
}

func (f *fixture) sessionFor(t *testing.T, upstreamToken string, offline bool) string {
	t.Helper()
	signed, _, err := f.tokens.Sign("admin", upstreamToken, offline)
	require.NoError(t, err)
	return signed
}

func (f *fixture) do(t *testing.T, method, path, sess string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if sess != "" {
		req.Header.Set("Authorization", "Bearer "+sess)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth-token/", r.URL.Path)
		io.WriteString(w, `{"token":"live-token"}`)
	}))

	w := f.do(t, http.MethodPost, "/admin/login", "",
		strings.NewReader(`{"username":"admin","password":"pw"}`), "application/json")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Session string `json:"session"`
		Offline bool   `json:"offline"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Offline)

	claims, err := f.tokens.Parse(resp.Session)
	require.NoError(t, err)
	assert.Equal(t, "live-token", claims.UpstreamToken)

	var found bool
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			found = true
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, found, "login must set the session cookie")
}

func TestLogin_MissingCredentials(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("upstream must not be called")
	}))

	w := f.do(t, http.MethodPost, "/admin/login", "",
		strings.NewReader(`{"username":"admin"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMutations_RequireSession(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := f.do(t, http.MethodPost, "/admin/entries", "",
		strings.NewReader(`{"title":"x"}`), "application/json")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(t, http.MethodDelete, "/admin/entries/3", "garbage-session", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMutations_OfflineSessionIsReadOnly(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("offline sessions must not reach the upstream")
	}))

	sess := f.sessionFor(t, "", true)
	w := f.do(t, http.MethodPost, "/admin/entries", sess,
		strings.NewReader(`{"title":"x"}`), "application/json")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "للقراءة فقط")
}

func TestCreateEntry_JSONPassthrough(t *testing.T) {
	var gotAuth, gotBody string
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/entries/" {
			t.Fatalf("unexpected upstream path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":501,"title":"كتاب جديد"}`)
	}))

	sess := f.sessionFor(t, "tok-1", false)
	w := f.do(t, http.MethodPost, "/admin/entries", sess,
		strings.NewReader(`{"title":"كتاب جديد","category":1,"published":true}`), "application/json")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	assert.Equal(t, "Token tok-1", gotAuth, "the session's upstream token rides along")
	assert.Contains(t, gotBody, `"title":"كتاب جديد"`)
}

func TestCreateEntry_MultipartForwarded(t *testing.T) {
	var gotContentType string
	var gotForm *multipart.Form
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotForm = r.MultipartForm
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":502,"title":"مخطوطة"}`)
	}))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "مخطوطة"))
	require.NoError(t, mw.WriteField("published", "true"))
	fw, err := mw.CreateFormFile("pdf_file", "scan.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4 test"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	sess := f.sessionFor(t, "tok-1", false)
	w := f.do(t, http.MethodPost, "/admin/entries", sess, &buf, mw.FormDataContentType())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	mt, _, err := mime.ParseMediaType(gotContentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mt)
	require.NotNil(t, gotForm)
	assert.Equal(t, []string{"مخطوطة"}, gotForm.Value["title"])
	assert.Equal(t, []string{"true"}, gotForm.Value["published"], "bools travel as strings")
	require.Len(t, gotForm.File["pdf_file"], 1)
	assert.Equal(t, "scan.pdf", gotForm.File["pdf_file"][0].Filename)
}

func TestUpdateEntry_UpstreamErrorMapped(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"detail":"Not found."}`)
	}))

	sess := f.sessionFor(t, "tok-1", false)
	w := f.do(t, http.MethodPatch, "/admin/entries/999", sess,
		strings.NewReader(`{"title":"x"}`), "application/json")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "العنصر المطلوب غير موجود")
}

func TestDeleteEntry(t *testing.T) {
	var gotMethod, gotPath string
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	sess := f.sessionFor(t, "tok-1", false)
	w := f.do(t, http.MethodDelete, "/admin/entries/77", sess, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/entries/77/", gotPath)
}

func TestValidate_OfflineShortCircuits(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("offline validation must not reach the upstream")
	}))

	sess := f.sessionFor(t, "", true)
	w := f.do(t, http.MethodGet, "/admin/validate", sess, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"offline":true`)
}

type countingCloser struct {
	io.Reader
	closed bool
}

func (c *countingCloser) Close() error { c.closed = true; return nil }

func TestCloseAttachments_ClosesEveryReader(t *testing.T) {
	a := &countingCloser{Reader: strings.NewReader("cover")}
	b := &countingCloser{Reader: strings.NewReader("scan")}
	files := []upstream.Attachment{
		{Field: "image", Filename: "cover.jpg", Reader: a},
		{Field: "pdf_file", Filename: "scan.pdf", Reader: b},
		// a plain reader without Close must not panic
		{Field: "audio_file", Filename: "a.mp3", Reader: strings.NewReader("x")},
	}

	closeAttachments(files)
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}
