package router

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"moviesrev/pkg/catalog"
	"moviesrev/pkg/global"
)

// Catalog is the read-only movie lookup consumed by the proxy routes.
type Catalog interface {
	TopRated(ctx context.Context) ([]catalog.MovieSummary, error)
	Popular(ctx context.Context, page int) ([]catalog.MovieSummary, error)
	Search(ctx context.Context, query string) ([]catalog.MovieSummary, error)
	Details(ctx context.Context, movieID string) (*catalog.MovieDetail, error)
}

// Cache fronts catalog lookups. Get returns a non-nil error when the
// key is absent or the cache is unreachable; either way the caller falls
// through to the catalog.
type Cache interface {
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, value any) error
}

// CatalogHandler proxies the external catalog so the browser never sees
// the API key. It shares the process with the review handlers but is
// otherwise independent of them: review data and catalog data never mix.
type CatalogHandler struct {
	catalog Catalog
	cache   Cache
	logger  *slog.Logger
}

// NewCatalogHandler wires the proxy. A nil cache disables caching.
func NewCatalogHandler(c Catalog, cache Cache, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: c, cache: cache, logger: logger}
}

func (h *CatalogHandler) TopRated(c *gin.Context) {
	h.listCached(c, "catalog:top_rated", func(ctx context.Context) ([]catalog.MovieSummary, error) {
		return h.catalog.TopRated(ctx)
	})
}

func (h *CatalogHandler) Popular(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	key := "catalog:popular:" + strconv.Itoa(page)
	h.listCached(c, key, func(ctx context.Context) ([]catalog.MovieSummary, error) {
		return h.catalog.Popular(ctx, page)
	})
}

func (h *CatalogHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, global.Error("query parameter is required"))
		return
	}

	key := "catalog:search:" + strings.ToLower(query)
	h.listCached(c, key, func(ctx context.Context) ([]catalog.MovieSummary, error) {
		return h.catalog.Search(ctx, query)
	})
}

func (h *CatalogHandler) MovieDetails(c *gin.Context) {
	ctx := c.Request.Context()
	movieID := c.Param("id")
	key := "catalog:movie:" + movieID

	if h.cache != nil {
		var cached catalog.MovieDetail
		if err := h.cache.Get(ctx, key, &cached); err == nil {
			c.Header("X-Cache", "HIT")
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	detail, err := h.catalog.Details(ctx, movieID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to fetch movie details",
			slog.String("movieId", movieID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, global.Error("Failed to fetch movie details"))
		return
	}

	h.fillCache(ctx, key, detail)
	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, detail)
}

func (h *CatalogHandler) listCached(c *gin.Context, key string, fetch func(context.Context) ([]catalog.MovieSummary, error)) {
	ctx := c.Request.Context()

	if h.cache != nil {
		var cached []catalog.MovieSummary
		if err := h.cache.Get(ctx, key, &cached); err == nil {
			c.Header("X-Cache", "HIT")
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	movies, err := fetch(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to fetch movies from catalog",
			slog.String("key", key), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, global.Error("Failed to fetch movies"))
		return
	}

	h.fillCache(ctx, key, movies)
	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, movies)
}

// fillCache is best-effort: a cache write failure never fails the
// request that already has its data.
func (h *CatalogHandler) fillCache(ctx context.Context, key string, value any) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Set(ctx, key, value); err != nil {
		h.logger.WarnContext(ctx, "Failed to cache catalog response",
			slog.String("key", key), slog.String("error", err.Error()))
	}
}
