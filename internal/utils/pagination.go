// internal/utils/pagination.go
package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emissionsiq/emissionsiq-backend/internal/models"
)

// ListParams are the query options for the product list: pagination, a
// whitelisted sort column, a case-insensitive name filter and a
// category filter checked against the known categories.
type ListParams struct {
	Page     int
	Limit    int
	Sort     string
	Order    string
	Search   string
	Category models.ProductCategory
}

// productSortColumns are the only columns the list may order by.
var productSortColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"category":   true,
	"total_co2":  true,
}

type PaginationResult struct {
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
	Data       interface{} `json:"data"`
}

func GetListParams(c *gin.Context) ListParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	sort := c.DefaultQuery("sort", "created_at")
	order := c.DefaultQuery("order", "desc")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if order != "asc" && order != "desc" {
		order = "desc"
	}
	if !productSortColumns[sort] {
		sort = "created_at"
	}

	// An unknown category would match nothing; treat it as no filter.
	category := models.ProductCategory(c.Query("category"))
	if category != "" && !category.Valid() {
		category = ""
	}

	return ListParams{
		Page:     page,
		Limit:    limit,
		Sort:     sort,
		Order:    order,
		Search:   c.Query("search"),
		Category: category,
	}
}

// Filter narrows the query to the requested category and name search.
func (p ListParams) Filter(db *gorm.DB) *gorm.DB {
	if p.Category != "" {
		db = db.Where("category = ?", p.Category)
	}
	if p.Search != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(p.Search)+"%")
	}
	return db
}

// Apply orders and paginates the query. Sort and order are already
// validated by GetListParams; callers constructing params directly must
// pass a known column.
func (p ListParams) Apply(db *gorm.DB) *gorm.DB {
	db = db.Order(p.Sort + " " + p.Order)
	return db.Offset((p.Page - 1) * p.Limit).Limit(p.Limit)
}

func CreatePaginationResult(data interface{}, total int64, params ListParams) PaginationResult {
	totalPages := int(math.Ceil(float64(total) / float64(params.Limit)))

	return PaginationResult{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		Data:       data,
	}
}

func SetPaginationHeaders(c *gin.Context, result PaginationResult) {
	c.Header("X-Total-Count", strconv.FormatInt(result.Total, 10))
	c.Header("X-Page", strconv.Itoa(result.Page))
	c.Header("X-Per-Page", strconv.Itoa(result.Limit))
	c.Header("X-Total-Pages", strconv.Itoa(result.TotalPages))
}
