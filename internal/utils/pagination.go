// internal/utils/pagination.go
package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// itemSortColumns are the inventory columns a client may order the stock list
// by. Anything else falls back to newest-first.
var itemSortColumns = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"product_name": true,
	"quantity":     true,
	"price":        true,
	"total":        true,
}

// ListQuery is the query surface of the stock list: paging plus the search
// term and category filter the inventory screens send. Sort and Order are
// sanitized at parse time and safe to interpolate into an ORDER BY.
type ListQuery struct {
	Page     int    `json:"page"`
	Limit    int    `json:"limit"`
	Sort     string `json:"sort"`
	Order    string `json:"order"`
	Search   string `json:"search"`
	Category string `json:"category"`
}

type ListResult struct {
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
	Data       interface{} `json:"data"`
}

func ParseListQuery(c *gin.Context) ListQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	sort := c.DefaultQuery("sort", "created_at")
	order := c.DefaultQuery("order", "desc")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}
	if !itemSortColumns[sort] {
		sort = "created_at"
	}
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	return ListQuery{
		Page:     page,
		Limit:    limit,
		Sort:     sort,
		Order:    order,
		Search:   c.Query("search"),
		Category: c.Query("category"),
	}
}

// Scope applies the query's ordering and page window to a gorm query.
func (q ListQuery) Scope(db *gorm.DB) *gorm.DB {
	return db.Order(q.Sort + " " + q.Order).
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit)
}

func NewListResult(data interface{}, total int64, q ListQuery) ListResult {
	return ListResult{
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(q.Limit))),
		Data:       data,
	}
}

func SetListHeaders(c *gin.Context, result ListResult) {
	c.Header("X-Total-Count", strconv.FormatInt(result.Total, 10))
	c.Header("X-Page", strconv.Itoa(result.Page))
	c.Header("X-Per-Page", strconv.Itoa(result.Limit))
	c.Header("X-Total-Pages", strconv.Itoa(result.TotalPages))
}
