// Package admin is the session-gated console surface: login against the
// upstream API and CRUD on entries, categories and subcategories proxied
// through it.
package admin

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"chinguetti/internal/catalog"
	"chinguetti/internal/events"
	"chinguetti/internal/session"
	"chinguetti/internal/upstream"
)

type Handler struct {
	Sessions *session.Service
	Tokens   session.TokenService
	Hub      *events.Hub
	Catalog  *catalog.Service

	// template for per-session clients; the token comes from the claims
	BaseURL     string
	HTTPTimeout time.Duration
}

func NewHandler(sessions *session.Service, tokens session.TokenService, hub *events.Hub, cat *catalog.Service, baseURL string, timeout time.Duration) *Handler {
	return &Handler{
		Sessions:    sessions,
		Tokens:      tokens,
		Hub:         hub,
		Catalog:     cat,
		BaseURL:     baseURL,
		HTTPTimeout: timeout,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.login)

	authed := rg.Group("")
	authed.Use(session.AuthMiddleware(h.Tokens))
	authed.POST("/logout", h.logout)
	authed.GET("/validate", h.validate)

	authed.POST("/entries", h.createEntry)
	authed.PATCH("/entries/:id", h.updateEntry)
	authed.PUT("/entries/:id", h.updateEntry)
	authed.DELETE("/entries/:id", h.deleteEntry)

	authed.POST("/categories", h.createCategory)
	authed.PATCH("/categories/:id", h.updateCategory)
	authed.DELETE("/categories/:id", h.deleteCategory)

	authed.POST("/subcategories", h.createSubcategory)
	authed.PATCH("/subcategories/:id", h.updateSubcategory)
	authed.DELETE("/subcategories/:id", h.deleteSubcategory)
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "بيانات الدخول مطلوبة"})
		return
	}
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "اسم المستخدم وكلمة المرور مطلوبان"})
		return
	}

	res, err := h.Sessions.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		status, msg := mapUpstreamError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.SetCookie(session.CookieName, res.Session, int(time.Until(res.ExpiresAt).Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"session":    res.Session,
		"expires_at": res.ExpiresAt.UTC().Format(time.RFC3339),
		"offline":    res.Offline,
	})
}

func (h *Handler) logout(c *gin.Context) {
	_ = h.Sessions.Logout(c.Request.Context())
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (h *Handler) validate(c *gin.Context) {
	claims := session.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false})
		return
	}
	if claims.Offline {
		c.JSON(http.StatusOK, gin.H{"valid": true, "offline": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": h.Sessions.ValidateToken(c.Request.Context())})
}

// clientFor builds a request-scoped upstream client carrying the session's
// token. Offline sessions get no client: they are read-only.
func (h *Handler) clientFor(c *gin.Context) *upstream.Client {
	claims := session.MustGetClaims(c)
	if claims == nil || claims.Offline {
		c.JSON(http.StatusForbidden, gin.H{"error": "الجلسة الحالية للقراءة فقط"})
		return nil
	}
	return upstream.NewClient(h.BaseURL, session.NewMemoryTokenStore(claims.UpstreamToken), h.HTTPTimeout)
}

// entryInput extracts the mutation fields and attachments from either a
// JSON body or a multipart admin form. Attachment readers stay open for
// the upstream call; the caller releases them with closeAttachments.
func entryInput(c *gin.Context) (upstream.Fields, []upstream.Attachment, error) {
	if c.ContentType() != "multipart/form-data" {
		var fields upstream.Fields
		if err := c.ShouldBindJSON(&fields); err != nil {
			return nil, nil, err
		}
		return fields, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, err
	}

	fields := make(upstream.Fields, len(form.Value))
	for name, vals := range form.Value {
		if len(vals) > 0 {
			fields[name] = vals[0]
		}
	}

	var attachments []upstream.Attachment
	for name, headers := range form.File {
		if len(headers) == 0 {
			continue
		}
		f, err := headers[0].Open()
		if err != nil {
			closeAttachments(attachments)
			return nil, nil, err
		}
		attachments = append(attachments, upstream.Attachment{
			Field:    name,
			Filename: headers[0].Filename,
			Reader:   f,
		})
	}
	return fields, attachments, nil
}

func closeAttachments(files []upstream.Attachment) {
	for _, f := range files {
		if closer, ok := f.Reader.(io.Closer); ok {
			_ = closer.Close()
		}
	}
}

func (h *Handler) createEntry(c *gin.Context) {
	client := h.clientFor(c)
	if client == nil {
		return
	}

	fields, files, err := entryInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "تعذر قراءة بيانات النموذج"})
		return
	}
	defer closeAttachments(files)

	e, err := client.CreateEntry(c.Request.Context(), fields, files)
	if err != nil {
		status, msg := mapUpstreamError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	h.broadcast(c, events.TypeEntryCreated, e.ID, e.Title)
	c.JSON(http.StatusCreated, e)
}

func (h *Handler) updateEntry(c *gin.Context) {
	client := h.clientFor(c)
	if client == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "معرف غير صالح"})
		return
	}

	fields, files, err := entryInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "تعذر قراءة بيانات النموذج"})
		return
	}
	defer closeAttachments(files)

	e, err := client.UpdateEntry(c.Request.Context(), id, fields, files)
	if err != nil {
		status, msg := mapUpstreamError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	h.broadcast(c, events.TypeEntryUpdated, e.ID, e.Title)
	c.JSON(http.StatusOK, e)
}

func (h *Handler) deleteEntry(c *gin.Context) {
	client := h.clientFor(c)
	if client == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "معرف غير صالح"})
		return
	}

	if err := client.DeleteEntry(c.Request.Context(), id); err != nil {
		status, msg := mapUpstreamError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	h.broadcast(c, events.TypeEntryDeleted, id, "")
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) createCategory(c *gin.Context) {
	client := h.clientFor(c)
	if client == nil {
		return
	}

	var fields upstream.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "تعذر قراءة بيانات النموذج"})
		return
	}

	cat, err := client.CreateCategory(c.Request.Context(), fields)
	if err != nil {
		status, msg := mapUpstreamError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *Handler) updateCategory(c *gin.Context) {
	client := h.clientFor(c)
	if client == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "معرف غير صالح"})
		return
	}

	var fields upstream.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "تعذر قراءة بيانات النموذج"})
		return
	}

	cat, err := client.UpdateCategory(c.Request.Context(), id, fields)
	if err != nil {
		status, msg := mapUpstreamError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *Handler) deleteCategory(c *gin.Context) {
	client := h.clientFor(c)
	if client == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "معرف غير صالح"})
		return
	}

	if err := client.DeleteCategory(c.Request.Context(), id); err != nil {
		status, msg := mapUpstreamError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) createSubcategory(c *gin.Context) {
	client := h.clientFor(c)
	if client == nil {
		return
	}

	var fields upstream.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "تعذر قراءة بيانات النموذج"})
		return
	}

	sub, err := client.CreateSubcategory(c.Request.Context(), fields)
	if err != nil {
		status, msg := mapUpstreamError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	// every listing card reads the cached subcategory list
	h.Catalog.InvalidateSubcategories()
	c.JSON(http.StatusCreated, sub)
}

func (h *Handler) updateSubcategory(c *gin.Context) {
	client := h.clientFor(c)
	if client == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "معرف غير صالح"})
		return
	}

	var fields upstream.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "تعذر قراءة بيانات النموذج"})
		return
	}

	sub, err := client.UpdateSubcategory(c.Request.Context(), id, fields)
	if err != nil {
		status, msg := mapUpstreamError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	h.Catalog.InvalidateSubcategories()
	c.JSON(http.StatusOK, sub)
}

func (h *Handler) deleteSubcategory(c *gin.Context) {
	client := h.clientFor(c)
	if client == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "معرف غير صالح"})
		return
	}

	if err := client.DeleteSubcategory(c.Request.Context(), id); err != nil {
		status, msg := mapUpstreamError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	h.Catalog.InvalidateSubcategories()
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) broadcast(c *gin.Context, eventType string, entryID int, title string) {
	if h.Hub == nil {
		return
	}
	claims := session.MustGetClaims(c)
	username := ""
	if claims != nil {
		username = claims.Username
	}
	h.Hub.Broadcast(events.EntryEvent{
		Type:     eventType,
		EntryID:  entryID,
		Title:    title,
		Username: username,
		At:       time.Now().UTC(),
	})
}

// mapUpstreamError turns a client error into the status and Arabic message
// the console shows. 401 means the upstream token died mid-session: the
// console redirects to login.
func mapUpstreamError(err error) (int, string) {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status, apiErr.Message
	}
	return http.StatusBadGateway, "تعذر الاتصال بالخادم، يرجى المحاولة لاحقا"
}
