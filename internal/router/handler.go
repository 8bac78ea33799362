package router

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"up2you.app/storefront/pkg/export"
	"up2you.app/storefront/pkg/global"
	"up2you.app/storefront/pkg/inventory"
	"up2you.app/storefront/pkg/models"
)

func (r *Router) healthCheck(c *gin.Context) {
	status := map[string]string{"status": "OK", "storage": r.inventory.BackendName(), "database": "Connected"}
	if err := r.inventory.Ping(c.Request.Context()); err != nil {
		r.logger.Warn("storage ping failed", "error", err)
		status["status"] = "DEGRADED"
		status["database"] = "Unavailable"
		c.JSON(http.StatusServiceUnavailable, global.APIResponse{Success: false, Data: status, Message: "Database connection failed"})
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(status))
}

// respondError maps inventory errors onto status codes. Anything that is not a
// validation or lookup failure is a 500 carrying the underlying message.
func (r *Router) respondError(c *gin.Context, message string, err error) {
	var ve *inventory.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, global.ErrorResponse(ve.Message, []global.ValidationError{
			{Field: ve.Field, Message: ve.Message, Code: "invalid"},
		}))
	case errors.Is(err, inventory.ErrNotFound):
		c.JSON(http.StatusNotFound, global.ErrorResponse("Item not found", []global.ValidationError{
			{Field: "id", Message: "No item exists with this id", Code: "not_found"},
		}))
	default:
		r.logger.Error(message, "error", err, "route", c.FullPath())
		c.JSON(http.StatusInternalServerError, global.ErrorResponse(message+": "+err.Error(), nil))
	}
}

func invalidParam(c *gin.Context, field, message string) {
	c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid query parameter", []global.ValidationError{
		{Field: field, Message: message, Code: "invalid_format"},
	}))
}

func parsePriceBound(c *gin.Context, key string) (*float64, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		invalidParam(c, key, key+" must be a number")
		return nil, false
	}
	return &v, true
}

func (r *Router) listItems(c *gin.Context) {
	minPrice, ok := parsePriceBound(c, "min_price")
	if !ok {
		return
	}
	maxPrice, ok := parsePriceBound(c, "max_price")
	if !ok {
		return
	}

	items, err := r.inventory.ListItems(c.Request.Context(), inventory.Filter{
		Category: c.Query("category"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Search:   strings.TrimSpace(c.Query("q")),
	})
	if err != nil {
		r.respondError(c, "Failed to list items", err)
		return
	}

	c.Header("X-Total-Count", strconv.Itoa(len(items)))
	c.JSON(http.StatusOK, global.SuccessResponse(items))
}

func (r *Router) getItem(c *gin.Context) {
	item, err := r.inventory.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		r.respondError(c, "Failed to fetch item", err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(item))
}

// bindItemInput accepts JSON or a multipart form. A multipart "photo" file is
// stored and its public path recorded on the input.
func (r *Router) bindItemInput(c *gin.Context) (models.ItemInput, bool) {
	var in models.ItemInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request body", []global.ValidationError{
			{Field: "body", Message: err.Error(), Code: "parse_error"},
		}))
		return in, false
	}

	ref, err := r.savePhoto(c)
	if err != nil {
		r.logger.Error("photo upload failed", "error", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to store photo: "+err.Error(), nil))
		return in, false
	}
	if ref != "" {
		in.PhotoRef = &ref
	}
	return in, true
}

func (r *Router) createItem(c *gin.Context) {
	in, ok := r.bindItemInput(c)
	if !ok {
		return
	}

	item, err := r.inventory.AddItem(c.Request.Context(), in)
	if err != nil {
		r.respondError(c, "Failed to create item", err)
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(item))
}

func (r *Router) updateItem(c *gin.Context) {
	in, ok := r.bindItemInput(c)
	if !ok {
		return
	}

	item, err := r.inventory.UpdateItem(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		r.respondError(c, "Failed to update item", err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(item))
}

func (r *Router) deleteItem(c *gin.Context) {
	id := c.Param("id")
	if err := r.inventory.DeleteItem(c.Request.Context(), id); err != nil {
		r.respondError(c, "Failed to delete item", err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"id": id, "status": "deleted"}))
}

func (r *Router) listCategories(c *gin.Context) {
	categories, err := r.inventory.Categories(c.Request.Context())
	if err != nil {
		r.respondError(c, "Failed to list categories", err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(categories))
}

func (r *Router) getStats(c *gin.Context) {
	result, err := r.inventory.GetStats(c.Request.Context())
	if err != nil {
		r.respondError(c, "Failed to compute stats", err)
		return
	}
	r.metrics.ObserveInventory(result)
	c.JSON(http.StatusOK, global.SuccessResponse(result))
}

func (r *Router) threshold(c *gin.Context) (int, bool) {
	raw := c.Query("threshold")
	if raw == "" {
		return r.lowStockThreshold, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		invalidParam(c, "threshold", "threshold must be a non-negative integer")
		return 0, false
	}
	return n, true
}

func (r *Router) getLowStock(c *gin.Context) {
	threshold, ok := r.threshold(c)
	if !ok {
		return
	}

	items, err := r.inventory.LowStock(c.Request.Context(), threshold)
	if err != nil {
		r.respondError(c, "Failed to list low stock", err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]any{
		"threshold": threshold,
		"items":     items,
	}))
}

func (r *Router) getReport(c *gin.Context) {
	threshold, ok := r.threshold(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	result, err := r.inventory.GetStats(ctx)
	if err != nil {
		r.respondError(c, "Failed to compute stats", err)
		return
	}
	low, err := r.inventory.LowStock(ctx, threshold)
	if err != nil {
		r.respondError(c, "Failed to list low stock", err)
		return
	}

	c.JSON(http.StatusOK, r.reports.GenerateInventoryReport(ctx, result, low, threshold))
}

func (r *Router) exportCSV(c *gin.Context) {
	records, err := r.inventory.ExportFlat(c.Request.Context())
	if err != nil {
		r.respondError(c, "Failed to export inventory", err)
		return
	}

	c.Header("Content-Type", export.ContentType)
	c.Header("Content-Disposition", "attachment; filename="+export.Filename)
	c.Status(http.StatusOK)
	if err := export.WriteCSV(c.Writer, records); err != nil {
		r.logger.Error("csv export interrupted", "error", err)
	}
}

// serveMetrics refreshes the inventory gauges before handing off to promhttp.
func (r *Router) serveMetrics(c *gin.Context) {
	if result, err := r.inventory.GetStats(c.Request.Context()); err == nil {
		r.metrics.ObserveInventory(result)
	} else {
		r.logger.Warn("inventory gauges not refreshed", "error", err)
	}
	r.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
