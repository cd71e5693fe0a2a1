package handlers

import (
	"net/http"
	"os"
	"runtime"

	"github.com/miramare/arredo/internal/db"
	"github.com/miramare/arredo/internal/httpx"
	"github.com/miramare/arredo/internal/models"
)

// Health reports runtime diagnostics so operators can inspect a misbehaving
// deployment without shell access.
func (h *ProductHandler) Health(w http.ResponseWriter, r *http.Request) {
	cwd, err := os.Getwd()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	names := []string{}
	if entries, err := os.ReadDir(cwd); err == nil {
		for i, e := range entries {
			if i >= 10 {
				break
			}
			names = append(names, e.Name())
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"go_version":    runtime.Version(),
		"cwd":           cwd,
		"upload_folder": h.Cfg.UploadRoot,
		"files":         names,
	})
}

// APIProducts dumps all product rows, most recently updated first.
func (h *ProductHandler) APIProducts(w http.ResponseWriter, r *http.Request) {
	handle, err := db.Open(h.Cfg)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	defer handle.Close()
	var products []models.Product
	if err := handle.DB.WithContext(r.Context()).Order("updated_date DESC").Find(&products).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}
