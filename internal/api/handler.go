package api

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kurihiro0119/github-profile-api/internal/aggregator"
	"github.com/kurihiro0119/github-profile-api/internal/domain"
	apperrors "github.com/kurihiro0119/github-profile-api/internal/errors"
)

// Handler handles API requests
type Handler struct {
	aggregator aggregator.Aggregator
}

// NewHandler creates a new API handler
func NewHandler(agg aggregator.Aggregator) *Handler {
	return &Handler{
		aggregator: agg,
	}
}

// GetProfile returns the merged profile of a user
// GET /profile/:username
func (h *Handler) GetProfile(c *gin.Context) {
	username := c.Param("username")
	if err := domain.ValidateUsername(username); err != nil {
		respondError(c, err)
		return
	}

	profile, err := h.aggregator.GetProfile(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": profile,
	})
}

// GetRepositories returns one page of a user's repositories
// GET /repos/:username?page=1&per_page=30&sort=updated
func (h *Handler) GetRepositories(c *gin.Context) {
	username := c.Param("username")
	if err := domain.ValidateUsername(username); err != nil {
		respondError(c, err)
		return
	}

	query, err := parseRepositoryQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := h.aggregator.GetRepositories(c.Request.Context(), username, query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": page,
	})
}

// HealthCheck returns the health status of the API
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"upstream_rate": h.aggregator.UpstreamRate(),
	})
}

// parseRepositoryQuery reads and validates the listing parameters
func parseRepositoryQuery(c *gin.Context) (domain.RepositoryQuery, error) {
	query := domain.DefaultRepositoryQuery()

	var err error
	if query.Page, err = parseIntQuery(c, "page", query.Page); err != nil {
		return query, err
	}
	if query.PerPage, err = parseIntQuery(c, "per_page", query.PerPage); err != nil {
		return query, err
	}
	query.Sort = c.DefaultQuery("sort", query.Sort)

	return query, query.Validate()
}

// parseIntQuery parses an integer query parameter with a default value
func parseIntQuery(c *gin.Context, key string, defaultValue int) (int, error) {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, apperrors.NewBadRequestError(key + " must be an integer")
	}
	return value, nil
}

// respondError sends an error response
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)

	appErr, ok := apperrors.As(err)
	if !ok {
		c.JSON(status, gin.H{
			"error": gin.H{
				"code":    apperrors.ErrCodeInternal,
				"message": err.Error(),
			},
		})
		return
	}

	if appErr.Code == apperrors.ErrCodeRateLimited && !appErr.RetryAt.IsZero() {
		wait := math.Ceil(time.Until(appErr.RetryAt).Seconds())
		c.Header("Retry-After", strconv.Itoa(int(math.Max(wait, 1))))
	}

	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
