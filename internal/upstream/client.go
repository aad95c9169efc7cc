package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"chinguetti/pkg/models"
)

// TokenStore persists the one opaque auth token the catalog API issues.
// Load returns "" when no usable token is stored.
type TokenStore interface {
	Load() string
	Save(token string) error
	Clear() error
}

// Client is the single point of contact with the remote catalog API. It
// attaches the stored token, normalizes the API's list envelopes and retries
// 403 reads anonymously once, so callers see one consistent surface.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Tokens  TokenStore
}

func NewClient(baseURL string, tokens TokenStore, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
		Tokens:  tokens,
	}
}

// EntryQuery mirrors the filter parameters the entries endpoints accept.
type EntryQuery struct {
	Category    int
	Subcategory int
	Kind        int
	EntryType   string
	Search      string
}

func (q EntryQuery) values() url.Values {
	v := url.Values{}
	if q.Category > 0 {
		v.Set("category", strconv.Itoa(q.Category))
	}
	if q.Subcategory > 0 {
		v.Set("subcategory", strconv.Itoa(q.Subcategory))
	}
	if q.Kind > 0 {
		v.Set("kind", strconv.Itoa(q.Kind))
	}
	if q.EntryType != "" {
		v.Set("entry_type", q.EntryType)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, withAuth bool) (int, []byte, error) {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if withAuth {
		if tok := c.Tokens.Load(); tok != "" {
			req.Header.Set("Authorization", "Token "+tok)
		}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, b, nil
}

// getList GETs a list endpoint. A 403 is retried once with the auth header
// stripped: the API grants anonymous read access that a stale or
// insufficient token would otherwise mask.
func (c *Client) getList(ctx context.Context, path string, query url.Values) ([]byte, error) {
	status, body, err := c.do(ctx, http.MethodGet, path, query, nil, "", true)
	if err != nil {
		return nil, err
	}
	if status == http.StatusForbidden {
		status, body, err = c.do(ctx, http.MethodGet, path, query, nil, "", false)
		if err != nil {
			return nil, err
		}
	}
	if status < 200 || status >= 300 {
		return nil, c.statusError(status, body)
	}
	return body, nil
}

// getOne GETs a single resource. No anonymous retry here.
func (c *Client) getOne(ctx context.Context, path string, out any) error {
	status, body, err := c.do(ctx, http.MethodGet, path, nil, nil, "", true)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return c.statusError(status, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// statusError builds the typed error for a non-2xx response; a 401 also
// purges the stored token so the next request starts clean.
func (c *Client) statusError(status int, body []byte) error {
	if status == http.StatusUnauthorized {
		_ = c.Tokens.Clear()
	}
	return newAPIError(status, body)
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	body, err := c.getList(ctx, "/categories/", nil)
	if err != nil {
		return nil, err
	}
	var out []models.Category
	if err := decodeList(body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Subcategories(ctx context.Context) ([]models.Subcategory, error) {
	body, err := c.getList(ctx, "/subcategories/", nil)
	if err != nil {
		return nil, err
	}
	var out []models.Subcategory
	if err := decodeList(body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Kinds(ctx context.Context) ([]models.Kind, error) {
	body, err := c.getList(ctx, "/kinds/", nil)
	if err != nil {
		return nil, err
	}
	var out []models.Kind
	if err := decodeList(body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Entries(ctx context.Context, q EntryQuery) ([]models.Entry, error) {
	body, err := c.getList(ctx, "/entries/", q.values())
	if err != nil {
		return nil, err
	}
	var out []models.Entry
	if err := decodeList(body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EntriesPage requests one page from the server-side pagination envelope.
// No client-side slicing happens here.
func (c *Client) EntriesPage(ctx context.Context, q EntryQuery, page, limit int) (Page, error) {
	v := q.values()
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	body, err := c.getList(ctx, "/entries/", v)
	if err != nil {
		return Page{}, err
	}
	return decodePage(body)
}

// AllEntries walks the server pagination until the envelope reports no
// further page, concatenating every result. A bare-array response counts
// as a single page, so unpaginated deployments cost one request.
func (c *Client) AllEntries(ctx context.Context, q EntryQuery) ([]models.Entry, error) {
	var all []models.Entry
	for page := 1; ; page++ {
		p, err := c.EntriesPage(ctx, q, page, 0)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Results...)
		if p.Next == "" || len(p.Results) == 0 {
			return all, nil
		}
	}
}

func (c *Client) Search(ctx context.Context, term string) ([]models.Entry, error) {
	v := url.Values{}
	v.Set("search", term)
	body, err := c.getList(ctx, "/entries/", v)
	if err != nil {
		return nil, err
	}
	var out []models.Entry
	if err := decodeList(body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Entry(ctx context.Context, id int) (*models.Entry, error) {
	var e models.Entry
	if err := c.getOne(ctx, "/entries/"+strconv.Itoa(id)+"/", &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) Category(ctx context.Context, id int) (*models.Category, error) {
	var cat models.Category
	if err := c.getOne(ctx, "/categories/"+strconv.Itoa(id)+"/", &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) Subcategory(ctx context.Context, id int) (*models.Subcategory, error) {
	var sub models.Subcategory
	if err := c.getOne(ctx, "/subcategories/"+strconv.Itoa(id)+"/", &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a token at the auth-token endpoint and
// persists it.
func (c *Client) Login(ctx context.Context, username, password string) error {
	payload, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	status, body, err := c.do(ctx, http.MethodPost, "/auth-token/", nil, bytes.NewReader(payload), "application/json", false)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return newAPIError(status, body)
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	if resp.Token == "" {
		return fmt.Errorf("login response missing token")
	}
	return c.Tokens.Save(resp.Token)
}

// Logout tells the server to invalidate the token, then clears local state
// regardless of whether that call worked.
func (c *Client) Logout(ctx context.Context) error {
	_, _, _ = c.do(ctx, http.MethodPost, "/logout/", nil, nil, "", true)
	return c.Tokens.Clear()
}
