package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// memStore is a test-local TokenStore; the real file-backed one lives in
// internal/session, which depends on this package.
type memStore struct{ token string }

func (s *memStore) Load() string            { return s.token }
func (s *memStore) Save(token string) error { s.token = token; return nil }
func (s *memStore) Clear() error            { s.token = ""; return nil }

func newTestClient(t *testing.T, handler http.Handler) (*Client, *memStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := &memStore{}
	return NewClient(srv.URL, tokens, 5*time.Second), tokens
}

func TestDecodeList_EnvelopePrecedence(t *testing.T) {
	cases := []struct {
		name string
		body string
		want []string
	}{
		{"results envelope", `{"results":[{"name":"a"},{"name":"b"}]}`, []string{"a", "b"}},
		{"value envelope", `{"value":[{"name":"c"}]}`, []string{"c"}},
		{"results wins over value", `{"results":[{"name":"r"}],"value":[{"name":"v"}]}`, []string{"r"}},
		{"bare array", `[{"name":"d"}]`, []string{"d"}},
		{"unknown object", `{"other":1}`, nil},
		{"empty body", ``, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out []struct {
				Name string `json:"name"`
			}
			require.NoError(t, decodeList([]byte(tc.body), &out))

			var names []string
			for _, v := range out {
				names = append(names, v.Name)
			}
			require.Equal(t, tc.want, names)
		})
	}
}

func TestGetList_ForbiddenRetriesAnonymously(t *testing.T) {
	var authHeaders []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeaders = append(authHeaders, r.Header.Get("Authorization"))
		if r.Header.Get("Authorization") != "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		io.WriteString(w, `{"results":[{"id":1,"name":"الكتب"}]}`)
	})

	client, tokens := newTestClient(t, handler)
	require.NoError(t, tokens.Save("stale-token"))

	cats, err := client.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
	require.Equal(t, "الكتب", cats[0].Name)

	require.Equal(t, []string{"Token stale-token", ""}, authHeaders)
}

func TestGetList_ForbiddenTwicePropagates(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	client, _ := newTestClient(t, handler)

	_, err := client.Categories(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, ErrPermission)
}

func TestGetOne_UnauthorizedPurgesToken(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail":"invalid token"}`)
	})

	client, tokens := newTestClient(t, handler)
	require.NoError(t, tokens.Save("dead-token"))

	_, err := client.Entry(context.Background(), 7)
	require.ErrorIs(t, err, ErrSessionExpired)
	require.Empty(t, tokens.Load(), "401 must clear the stored token")
}

func TestGetOne_NotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	client, _ := newTestClient(t, handler)

	_, err := client.Entry(context.Background(), 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMutate_ValidationMessagesCombined(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"title":["هذا الحقل مطلوب"],"kind":["قيمة غير صالحة"]}`)
	})

	client, _ := newTestClient(t, handler)

	_, err := client.CreateEntry(context.Background(), Fields{"author": "x"}, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Contains(t, apiErr.Message, "title: هذا الحقل مطلوب")
	require.Contains(t, apiErr.Message, "kind: قيمة غير صالحة")
}

func TestMutate_ForbiddenIsNotRetried(t *testing.T) {
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	})

	client, _ := newTestClient(t, handler)

	err := client.DeleteEntry(context.Background(), 5)
	require.ErrorIs(t, err, ErrPermission)
	require.Equal(t, 1, calls, "writes must not retry anonymously")
}

func TestMutate_MultipartEncoding(t *testing.T) {
	var (
		contentType string
		published   string
		title       string
		fileContent string
	)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		published = r.FormValue("published")
		title = r.FormValue("title")

		f, _, err := r.FormFile("pdf_file")
		require.NoError(t, err)
		b, _ := io.ReadAll(f)
		fileContent = string(b)

		io.WriteString(w, `{"id":11,"title":"x"}`)
	})

	client, _ := newTestClient(t, handler)

	_, err := client.CreateEntry(context.Background(),
		Fields{"title": "مخطوط جديد", "published": true, "slug": nil},
		[]Attachment{{Field: "pdf_file", Filename: "scan.pdf", Reader: strings.NewReader("%PDF-fake")}},
	)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(contentType, "multipart/form-data; boundary="))
	require.Equal(t, "true", published, "booleans go over the wire as literal strings")
	require.Equal(t, "مخطوط جديد", title)
	require.Equal(t, "%PDF-fake", fileContent)
}

func TestMutate_JSONOmitsEmptyFields(t *testing.T) {
	var body string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		io.WriteString(w, `{"id":3}`)
	})

	client, _ := newTestClient(t, handler)

	_, err := client.CreateEntry(context.Background(), Fields{
		"title":  "كتاب",
		"author": "",
		"slug":   nil,
	}, nil)
	require.NoError(t, err)

	require.Contains(t, body, `"title"`)
	require.NotContains(t, body, `"author"`)
	require.NotContains(t, body, `"slug"`)
}

func TestEntriesPage_Envelope(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "20", r.URL.Query().Get("limit"))
		io.WriteString(w, `{"count":45,"next":"p3","previous":"p1","results":[{"id":21,"title":"t"}]}`)
	})

	client, _ := newTestClient(t, handler)

	p, err := client.EntriesPage(context.Background(), EntryQuery{}, 2, 20)
	require.NoError(t, err)
	require.Equal(t, 45, p.Count)
	require.Len(t, p.Results, 1)
	require.Equal(t, 21, p.Results[0].ID)
}

func TestEntriesPage_BareArrayBecomesSinglePage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":1},{"id":2},{"id":3}]`)
	})

	client, _ := newTestClient(t, handler)

	p, err := client.EntriesPage(context.Background(), EntryQuery{}, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 3, p.Count)
	require.Len(t, p.Results, 3)
}

func TestLogin_StoresToken(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth-token/", r.URL.Path)
		io.WriteString(w, `{"token":"fresh-token"}`)
	})

	client, tokens := newTestClient(t, handler)

	require.NoError(t, client.Login(context.Background(), "admin", "secret"))
	require.Equal(t, "fresh-token", tokens.Load())
}

func TestLogout_ClearsTokenEvenWhenServerFails(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	client, tokens := newTestClient(t, handler)
	require.NoError(t, tokens.Save("tok"))

	require.NoError(t, client.Logout(context.Background()))
	require.Empty(t, tokens.Load())
}

func TestClient_TransportErrorIsNotAPIError(t *testing.T) {
	// closed server: connection refused
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, &memStore{}, time.Second)

	_, err := client.Categories(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.False(t, errors.As(err, &apiErr))
}
