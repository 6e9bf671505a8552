package web

import (
	"net/http"

	"carrental/internal/backend"

	"github.com/gin-gonic/gin"
)

const (
	msgCategoriesUnavailable = "Categories could not be loaded"
	msgCategorySaved         = "The category has been saved"
	msgCategorySaveFailed    = "The category could not be saved"
	msgCategoryDeleted       = "The category has been deleted"
	msgCategoryDelFailed     = "The category could not be deleted"
	msgCategoryForm          = "Please enter a category name"
)

// AdminCategories lists the car categories
func (h *Handler) AdminCategories(c *gin.Context) {
	categories, err := h.backend.ListCategories(c.Request.Context())
	if err != nil {
		h.loadError(c, "admin_categories", "Manage categories", err, msgCategoriesUnavailable)
		return
	}

	h.render(c, http.StatusOK, "admin_categories", gin.H{
		"Title":      "Manage categories",
		"Categories": categories,
	})
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var in backend.CategoryInput
	if err := c.ShouldBind(&in); err != nil {
		h.flash(c, flashError, msgCategoryForm)
		c.Redirect(http.StatusSeeOther, "/admin/categories")
		return
	}

	if _, err := h.backend.CreateCategory(c.Request.Context(), in); err != nil {
		h.fail(c, err, msgCategorySaveFailed, "/admin/categories")
		return
	}

	h.done(c, msgCategorySaved, "/admin/categories")
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/admin/categories")
		return
	}

	var in backend.CategoryInput
	if err := c.ShouldBind(&in); err != nil {
		h.flash(c, flashError, msgCategoryForm)
		c.Redirect(http.StatusSeeOther, "/admin/categories")
		return
	}

	if _, err := h.backend.UpdateCategory(c.Request.Context(), id, in); err != nil {
		h.fail(c, err, msgCategorySaveFailed, "/admin/categories")
		return
	}

	h.done(c, msgCategorySaved, "/admin/categories")
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/admin/categories")
		return
	}

	if err := h.backend.DeleteCategory(c.Request.Context(), id); err != nil {
		h.fail(c, err, msgCategoryDelFailed, "/admin/categories")
		return
	}

	h.done(c, msgCategoryDeleted, "/admin/categories")
}
