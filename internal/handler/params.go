package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// listParams extracts the common skip/limit/include_inactive query
// params. Listings return only active rows unless include_inactive=true.
func listParams(c *gin.Context) (active *bool, offset, limit int) {
	if offset, _ = strconv.Atoi(c.DefaultQuery("skip", "0")); offset < 0 {
		offset = 0
	}
	if limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit))); limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	if c.Query("include_inactive") != "true" {
		t := true
		active = &t
	}
	return active, offset, limit
}
