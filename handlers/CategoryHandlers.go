package handlers

import (
	"backend/storage"
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetCategoriesHandler lists active product categories
// @Summary List categories
// @Tags Catalog
// @Produce json
// @Success 200 {array} models.Category
// @Failure 500 {object} models.ErrorResponse
// @Router /api/categories [get]
func GetCategoriesHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := storage.GetCategories(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, categories)
	}
}

// GetCategoryProductsHandler lists the products inside a category
// @Summary List products in a category
// @Tags Catalog
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {array} models.Product
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/categories/{id}/products [get]
func GetCategoryProductsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}

		products, err := storage.GetProductsByCategory(db, categoryID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, products)
	}
}
