package handler

import (
	"strconv"

	"reviewhub/internal/microservices/http-api/repository"
	"reviewhub/internal/shared"

	"github.com/gin-gonic/gin"
)

// pathID parses a numeric path parameter; a malformed id cannot name an
// existing resource, so it is reported as notFound.
func pathID(c *gin.Context, name string, notFound *shared.Error) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, notFound)
		return 0, false
	}
	return id, true
}

// listOptions reads page and page_size; bad values fall back to defaults.
func listOptions(c *gin.Context) repository.ListOptions {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(repository.DefaultPageSize)))
	return repository.ListOptions{Page: page, PageSize: pageSize}.Normalize()
}
