package rest

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	// API paths
	apiV1Prefix = "/api/v1"

	postsPath       = apiV1Prefix + "/posts"
	postByIDPath    = postsPath + "/:id"
	authorStatsPath = postsPath + "/stats/authors"
	categoriesPath  = apiV1Prefix + "/categories"

	healthPath = "/health"
)

// RegisterRoutes builds the echo instance serving the REST API.
func (h *PostHandler) RegisterRoutes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()

	e.Use(RequestID())
	e.Use(loggingMiddleware(h.log))
	e.Use(middleware.Recover())

	h.registerAPIRoutes(e)

	e.GET(healthPath, h.handleHealth)

	return e
}

func (h *PostHandler) registerAPIRoutes(e *echo.Echo) {
	e.GET(postsPath, h.Posts)
	e.POST(postsPath, h.CreatePost)
	e.DELETE(postsPath, h.DeletePosts)
	e.GET(authorStatsPath, h.AuthorStats)
	e.GET(postByIDPath, h.PostByID)
	e.PUT(postByIDPath, h.ReplacePost)
	e.PATCH(postByIDPath, h.PatchPost)
	e.DELETE(postByIDPath, h.DeletePost)

	e.GET(categoriesPath, h.Categories)
	e.POST(categoriesPath, h.CreateCategory)
}
