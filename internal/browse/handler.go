// Package browse serves the public catalog surface: reference lists,
// category/kind listings with pagination, entry detail and search.
package browse

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"chinguetti/internal/catalog"
	"chinguetti/internal/classify"
	"chinguetti/pkg/models"
)

type Handler struct {
	Catalog   *catalog.Service
	MediaHost string
}

func NewHandler(svc *catalog.Service, mediaHost string) *Handler {
	return &Handler{Catalog: svc, MediaHost: mediaHost}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/categories", h.categories)
	rg.GET("/subcategories", h.subcategories)
	rg.GET("/kinds", h.kinds)
	rg.GET("/entries", h.entries)
	rg.GET("/entries/:id", h.entry)
	rg.GET("/search", h.search)
}

// card is what a listing renders: the entry plus its resolved label, route
// and absolute media links, identical whichever data source produced it.
type card struct {
	models.Entry
	CategoryName string `json:"category_name"`
	Route        string `json:"route"`
}

func (h *Handler) card(e models.Entry) card {
	e.CoverImageLink = models.ResolveMediaURL(h.MediaHost, e.CoverImageLink)
	e.PDFFileLink = models.ResolveMediaURL(h.MediaHost, e.PDFFileLink)
	return card{
		Entry:        e,
		CategoryName: classify.DisplayCategory(e),
		Route:        classify.DetailRoute(e),
	}
}

func (h *Handler) cards(entries []models.Entry) []card {
	out := make([]card, 0, len(entries))
	for _, e := range entries {
		out = append(out, h.card(e))
	}
	return out
}

func (h *Handler) categories(c *gin.Context) {
	cats, err := h.Catalog.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "تعذر تحميل الأقسام"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": cats})
}

func (h *Handler) subcategories(c *gin.Context) {
	subs, err := h.Catalog.Subcategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "تعذر تحميل الأقسام الفرعية"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": subs})
}

func (h *Handler) kinds(c *gin.Context) {
	kinds, err := h.Catalog.Kinds(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "تعذر تحميل الأنواع"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": kinds})
}

func (h *Handler) entries(c *gin.Context) {
	f := catalog.Filter{
		Category:    strings.TrimSpace(c.Query("category")),
		Subcategory: strings.TrimSpace(c.Query("subcategory")),
		EntryType:   strings.TrimSpace(c.Query("entry_type")),
		Kind:        parseKind(c.Query("kind")),
	}
	page := parseInt(c.Query("page"), 1)
	limit := parseInt(c.Query("limit"), catalog.DefaultPageSize)

	p, err := h.Catalog.EntriesPage(c.Request.Context(), f, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "تعذر تحميل المحتوى"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":       p.Count,
		"page":        page,
		"limit":       limit,
		"total_pages": catalog.TotalPages(p.Count, limit),
		"results":     h.cards(p.Results),
	})
}

func (h *Handler) entry(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "معرف غير صالح"})
		return
	}

	e, err := h.Catalog.Entry(c.Request.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		// expected outcome, rendered with a way back to the listing
		c.JSON(http.StatusNotFound, gin.H{
			"error": "العنصر المطلوب غير موجود",
			"back":  classify.DefaultRoutePrefix,
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "تعذر تحميل المحتوى"})
		return
	}

	c.JSON(http.StatusOK, h.card(*e))
}

func (h *Handler) search(c *gin.Context) {
	term := strings.TrimSpace(c.Query("search"))
	entries, err := h.Catalog.Search(c.Request.Context(), term)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "تعذر تنفيذ البحث"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(entries),
		"results": h.cards(entries),
	})
}

// parseKind accepts the kind either as a numeric id or as one of the
// route slugs ("lmkhtott" and friends).
func parseKind(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return classify.KindBySlug(s)
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
