package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/trocatudo/trocatudo/internal/db"
	"github.com/trocatudo/trocatudo/internal/models"
	"github.com/trocatudo/trocatudo/internal/trade"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
)

const (
	maxUploadBytes    = 10 << 20 // whole multipart form
	maxImagesPerBatch = 5
)

// ListItems retrieves a page of items with optional category/status filters
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	categoryID, _ := strconv.Atoi(r.URL.Query().Get("category_id"))
	status := r.URL.Query().Get("status")

	if status != "" && status != models.ItemAvailable && status != models.ItemTraded {
		writeError(w, http.StatusBadRequest, "Invalid status filter")
		return
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	items, total, err := h.DB.ListItems(r.Context(), db.ItemFilter{
		CategoryID: categoryID,
		Status:     status,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if items == nil {
		items = []models.Item{}
	}

	totalPages := (total + limit - 1) / limit
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"pagination": map[string]int{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": totalPages,
		},
	})
}

// GetItem retrieves a single item
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	item, err := h.DB.GetItem(r.Context(), itemID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "Item not found")
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// CreateItem lists a new item owned by the caller
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := actor(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		CategoryID  *int     `json:"category_id"`
		Images      []string `json:"images"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.Engine.CreateItem(r.Context(), userID, req.Title, req.Description, req.CategoryID, req.Images)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// UpdateItem applies partial changes to an item
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := actor(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	itemID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req struct {
		Title       *string   `json:"title"`
		Description *string   `json:"description"`
		CategoryID  *int      `json:"category_id"`
		Images      *[]string `json:"images"`
		Status      *string   `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.Engine.UpdateItem(r.Context(), userID, role, itemID, trade.ItemUpdate{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Images:      req.Images,
		Status:      req.Status,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// DeleteItem removes an item
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := actor(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	itemID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	if err := h.Engine.DeleteItem(r.Context(), userID, role, itemID); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Item deleted"})
}

// MyItems retrieves the caller's items
func (h *Handler) MyItems(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := actor(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	items, err := h.DB.ListUserItems(r.Context(), userID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if items == nil {
		items = []models.Item{}
	}

	writeJSON(w, http.StatusOK, items)
}

// UploadItemImages stores uploaded files and appends their paths to the item
func (h *Handler) UploadItemImages(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := actor(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	itemID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "At least one image required")
		return
	}
	if len(files) > maxImagesPerBatch {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("At most %d images per upload", maxImagesPerBatch))
		return
	}

	var paths []string
	for _, fh := range files {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		// ULID filenames sort by upload time and never collide
		name := ulid.Make().String() + ext

		src, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
			return
		}

		dst, err := os.Create(filepath.Join(h.UploadDir, name))
		if err != nil {
			src.Close()
			writeEngineError(w, err)
			return
		}

		_, err = io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err != nil {
			writeEngineError(w, err)
			return
		}

		paths = append(paths, "/uploads/"+name)
	}

	item, err := h.Engine.AddItemImages(r.Context(), userID, role, itemID, paths)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Images uploaded",
		"images":  item.Images,
	})
}

// RemoveItemImage removes one image from an item by index
func (h *Handler) RemoveItemImage(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := actor(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	itemID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req struct {
		ImageIndex *int `json:"image_index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ImageIndex == nil {
		writeError(w, http.StatusBadRequest, "Image index required")
		return
	}

	item, err := h.Engine.RemoveItemImage(r.Context(), userID, role, itemID, *req.ImageIndex)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Image removed",
		"images":  item.Images,
	})
}
