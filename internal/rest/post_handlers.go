package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-pg/urlstruct"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/posts-crud/internal/db"
	"github.com/daniilsolovey/posts-crud/internal/posts"
)

const totalCountHeader = "X-Total-Count"

// Pinger reports whether storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PostHandler struct {
	uc     *posts.Manager
	pinger Pinger
	log    *slog.Logger
}

func NewPostHandler(uc *posts.Manager, pinger Pinger, log *slog.Logger) *PostHandler {
	return &PostHandler{
		uc:     uc,
		pinger: pinger,
		log:    log,
	}
}

func (h *PostHandler) handleError(c echo.Context, err error, statusCode int, message string) error {
	h.log.Error("handleError", "error", err, "statusCode", statusCode, "message", message,
		"request_id", GetRequestID(c))
	return c.JSON(statusCode, map[string]string{"error": message})
}

// handleStorageError picks the response status from the error kind.
func (h *PostHandler) handleStorageError(c echo.Context, err error) error {
	statusCode, message := statusOf(err)
	return h.handleError(c, err, statusCode, message)
}

func statusOf(err error) (int, string) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, posts.ErrUnfiltered):
		return http.StatusBadRequest, "at least one filter is required"
	case errors.Is(err, db.ErrDecode), errors.Is(err, db.ErrQuery):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, db.ErrConstraint):
		return http.StatusConflict, "constraint violation"
	case errors.Is(err, db.ErrCanceled):
		return http.StatusServiceUnavailable, "request canceled"
	}
	return http.StatusInternalServerError, "internal error"
}

func pathID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}

func (h *PostHandler) decodeFilter(c echo.Context) (posts.Filter, error) {
	var f PostsFilter
	if err := urlstruct.Unmarshal(c.Request().Context(), c.QueryParams(), &f); err != nil {
		return posts.Filter{}, err
	}
	if err := c.Validate(&f); err != nil {
		return posts.Filter{}, err
	}
	return f.ToModel(), nil
}

// Posts handles GET /api/v1/posts
// @Summary List posts
// @Description Lists posts matching the query filters. The total number of matching posts is returned in X-Total-Count
// @Tags posts
// @Produce json
// @Param published query bool false "Filter by published flag"
// @Param author query string false "Filter by author"
// @Param has_author query bool false "Only posts with (true) or without (false) an author"
// @Param category_id query []int false "Filter by category ids"
// @Param category_name query []string false "Filter by category names"
// @Param min_good_count query int false "Only posts with good_count greater than the value"
// @Param sort_by query string false "Sort column (default: id)"
// @Param desc query bool false "Sort descending"
// @Param limit query int false "Page size"
// @Param offset query int false "Rows to skip"
// @Success 200 {array} rest.Post
// @Failure 400,500 {object} map[string]string
// @Router /api/v1/posts [get]
func (h *PostHandler) Posts(c echo.Context) error {
	filter, err := h.decodeFilter(c)
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request parameters")
	}

	ctx := c.Request().Context()
	list, err := h.uc.List(ctx, filter)
	if err != nil {
		return h.handleStorageError(c, err)
	}

	count, err := h.uc.Count(ctx, filter)
	if err != nil {
		return h.handleStorageError(c, err)
	}

	c.Response().Header().Set(totalCountHeader, strconv.Itoa(count))
	return c.JSON(http.StatusOK, Map(list, NewPost))
}

// PostByID handles GET /api/v1/posts/:id
// @Summary Get post by ID
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} rest.Post
// @Failure 400,404,500 {object} map[string]string
// @Router /api/v1/posts/{id} [get]
func (h *PostHandler) PostByID(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid id")
	}

	post, err := h.uc.ByID(c.Request().Context(), id)
	if err != nil {
		return h.handleStorageError(c, err)
	}
	if post == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "post not found"})
	}

	return c.JSON(http.StatusOK, NewPost(*post))
}

// CreatePost handles POST /api/v1/posts
// @Summary Create post
// @Tags posts
// @Accept json
// @Produce json
// @Param post body rest.PostInput true "Post"
// @Success 201 {object} rest.Post
// @Failure 400,409,500 {object} map[string]string
// @Router /api/v1/posts [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	var in PostInput
	if err := c.Bind(&in); err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&in); err != nil {
		return h.handleStorageError(c, err)
	}

	post, err := h.uc.Create(c.Request().Context(), in.ToModel(0))
	if err != nil {
		return h.handleStorageError(c, err)
	}

	return c.JSON(http.StatusCreated, NewPost(*post))
}

// ReplacePost handles PUT /api/v1/posts/:id
// @Summary Replace post
// @Description Overwrites every writable field; omitted optional fields become empty
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param post body rest.PostInput true "Post"
// @Success 200 {object} rest.Post
// @Failure 400,404,409,500 {object} map[string]string
// @Router /api/v1/posts/{id} [put]
func (h *PostHandler) ReplacePost(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid id")
	}

	var in PostInput
	if err := c.Bind(&in); err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&in); err != nil {
		return h.handleStorageError(c, err)
	}

	post, err := h.uc.Replace(c.Request().Context(), in.ToModel(id))
	if err != nil {
		return h.handleStorageError(c, err)
	}
	if post == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "post not found"})
	}

	return c.JSON(http.StatusOK, NewPost(*post))
}

// PatchPost handles PATCH /api/v1/posts/:id
// @Summary Patch post
// @Description Updates only the fields present in the body; null clears author or categoryId
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param patch body db.PostPatch true "Fields to change"
// @Success 200 {object} rest.Post
// @Failure 400,404,409,500 {object} map[string]string
// @Router /api/v1/posts/{id} [patch]
func (h *PostHandler) PatchPost(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid id")
	}

	var patch db.PostPatch
	if err := json.NewDecoder(c.Request().Body).Decode(&patch); err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request body")
	}
	if err := patch.Validate(); err != nil {
		statusCode, _ := statusOf(err)
		return h.handleError(c, err, statusCode, err.Error())
	}

	post, err := h.uc.Patch(c.Request().Context(), id, patch)
	if err != nil {
		return h.handleStorageError(c, err)
	}
	if post == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "post not found"})
	}

	return c.JSON(http.StatusOK, NewPost(*post))
}

// DeletePost handles DELETE /api/v1/posts/:id
// @Summary Delete post
// @Tags posts
// @Param id path int true "Post ID"
// @Success 204
// @Failure 400,404,500 {object} map[string]string
// @Router /api/v1/posts/{id} [delete]
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid id")
	}

	found, err := h.uc.DeleteByID(c.Request().Context(), id)
	if err != nil {
		return h.handleStorageError(c, err)
	}
	if !found {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "post not found"})
	}

	return c.NoContent(http.StatusNoContent)
}

// DeletePosts handles DELETE /api/v1/posts
// @Summary Delete posts by filter
// @Description Takes the same filters as the list endpoint; at least one is required
// @Tags posts
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 400,500 {object} map[string]string
// @Router /api/v1/posts [delete]
func (h *PostHandler) DeletePosts(c echo.Context) error {
	filter, err := h.decodeFilter(c)
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request parameters")
	}

	n, err := h.uc.Delete(c.Request().Context(), filter)
	if err != nil {
		return h.handleStorageError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]int{"deleted": n})
}

// AuthorStats handles GET /api/v1/posts/stats/authors
// @Summary Published posts per author
// @Tags posts
// @Produce json
// @Success 200 {array} rest.AuthorStat
// @Failure 500 {object} map[string]string
// @Router /api/v1/posts/stats/authors [get]
func (h *PostHandler) AuthorStats(c echo.Context) error {
	stats, err := h.uc.AuthorStats(c.Request().Context())
	if err != nil {
		return h.handleStorageError(c, err)
	}

	return c.JSON(http.StatusOK, Map(stats, NewAuthorStat))
}

// Categories handles GET /api/v1/categories
// @Summary Get all categories
// @Tags categories
// @Produce json
// @Success 200 {array} rest.Category
// @Failure 500 {object} map[string]string
// @Router /api/v1/categories [get]
func (h *PostHandler) Categories(c echo.Context) error {
	categories, err := h.uc.Categories(c.Request().Context())
	if err != nil {
		return h.handleStorageError(c, err)
	}

	return c.JSON(http.StatusOK, Map(categories, NewCategory))
}

// CreateCategory handles POST /api/v1/categories
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Param category body rest.CategoryInput true "Category"
// @Success 201 {object} rest.Category
// @Failure 400,409,500 {object} map[string]string
// @Router /api/v1/categories [post]
func (h *PostHandler) CreateCategory(c echo.Context) error {
	var in CategoryInput
	if err := c.Bind(&in); err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&in); err != nil {
		return h.handleStorageError(c, err)
	}

	category, err := h.uc.CreateCategory(c.Request().Context(), in.Name, in.Description)
	if err != nil {
		return h.handleStorageError(c, err)
	}

	return c.JSON(http.StatusCreated, NewCategory(*category))
}

func (h *PostHandler) handleHealth(c echo.Context) error {
	if err := h.pinger.Ping(c.Request().Context()); err != nil {
		return h.handleError(c, err, http.StatusServiceUnavailable, "database unavailable")
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
