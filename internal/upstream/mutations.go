package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"

	"chinguetti/pkg/models"
)

// Fields is the mutable field set of a create/update call. Nil values and
// empty strings are omitted from the request body; the admin forms send
// only what the editor actually filled in.
type Fields map[string]any

// Attachment is one uploaded file (cover image or PDF) sent alongside the
// entry fields.
type Attachment struct {
	Field    string
	Filename string
	Reader   io.Reader
}

// mutate issues a write. With attachments present the transport switches to
// multipart form encoding and the Content-Type header is left for the
// runtime to fill in with the boundary; otherwise a JSON body is sent.
// 403 is NOT retried anonymously on writes.
func (c *Client) mutate(ctx context.Context, method, path string, fields Fields, files []Attachment, out any) error {
	var (
		body        io.Reader
		contentType string
		err         error
	)
	if len(files) > 0 {
		body, contentType, err = encodeMultipart(fields, files)
	} else if fields != nil {
		body, contentType, err = encodeJSON(fields)
	}
	if err != nil {
		return err
	}

	status, respBody, err := c.do(ctx, method, path, nil, body, contentType, true)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return c.statusError(status, respBody)
	}
	if out != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}

func encodeJSON(fields Fields) (io.Reader, string, error) {
	clean := make(map[string]any, len(fields))
	for k, v := range fields {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		clean[k] = v
	}
	b, err := json.Marshal(clean)
	if err != nil {
		return nil, "", fmt.Errorf("encode fields: %w", err)
	}
	return bytes.NewReader(b), "application/json", nil
}

func encodeMultipart(fields Fields, files []Attachment) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, name := range names {
		v := fields[name]
		if v == nil {
			continue
		}
		s := formValue(v)
		if s == "" {
			continue
		}
		if err := w.WriteField(name, s); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", name, err)
		}
	}

	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %s: %w", f.Field, err)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return nil, "", fmt.Errorf("copy file %s: %w", f.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// formValue stringifies a field for form encoding. Booleans become the
// literal strings "true"/"false", matching what the API expects.
func formValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func (c *Client) CreateEntry(ctx context.Context, fields Fields, files []Attachment) (*models.Entry, error) {
	var e models.Entry
	if err := c.mutate(ctx, http.MethodPost, "/entries/", fields, files, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) UpdateEntry(ctx context.Context, id int, fields Fields, files []Attachment) (*models.Entry, error) {
	var e models.Entry
	if err := c.mutate(ctx, http.MethodPatch, "/entries/"+strconv.Itoa(id)+"/", fields, files, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) DeleteEntry(ctx context.Context, id int) error {
	return c.mutate(ctx, http.MethodDelete, "/entries/"+strconv.Itoa(id)+"/", nil, nil, nil)
}

func (c *Client) CreateCategory(ctx context.Context, fields Fields) (*models.Category, error) {
	var cat models.Category
	if err := c.mutate(ctx, http.MethodPost, "/categories/", fields, nil, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id int, fields Fields) (*models.Category, error) {
	var cat models.Category
	if err := c.mutate(ctx, http.MethodPatch, "/categories/"+strconv.Itoa(id)+"/", fields, nil, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int) error {
	return c.mutate(ctx, http.MethodDelete, "/categories/"+strconv.Itoa(id)+"/", nil, nil, nil)
}

func (c *Client) CreateSubcategory(ctx context.Context, fields Fields) (*models.Subcategory, error) {
	var sub models.Subcategory
	if err := c.mutate(ctx, http.MethodPost, "/subcategories/", fields, nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (c *Client) UpdateSubcategory(ctx context.Context, id int, fields Fields) (*models.Subcategory, error) {
	var sub models.Subcategory
	if err := c.mutate(ctx, http.MethodPatch, "/subcategories/"+strconv.Itoa(id)+"/", fields, nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (c *Client) DeleteSubcategory(ctx context.Context, id int) error {
	return c.mutate(ctx, http.MethodDelete, "/subcategories/"+strconv.Itoa(id)+"/", nil, nil, nil)
}
