package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/miramare/arredo/internal/config"
	"github.com/miramare/arredo/internal/db"
	"github.com/miramare/arredo/internal/i18n"
	"github.com/miramare/arredo/internal/media"
	"github.com/miramare/arredo/internal/models"
	"github.com/miramare/arredo/internal/repository"
	"github.com/miramare/arredo/internal/view"

	"github.com/rs/zerolog/log"
)

type ProductHandler struct {
	Cfg   config.Config
	Media *media.Manager
}

func NewProductHandler(cfg config.Config) *ProductHandler {
	return &ProductHandler{Cfg: cfg, Media: media.NewManager(cfg)}
}

// open acquires a fresh backend handle for this request. Callers must Close
// it on every exit path.
func (h *ProductHandler) open() (*db.Handle, repository.ProductRepository, error) {
	handle, err := db.Open(h.Cfg)
	if err != nil {
		return nil, nil, err
	}
	return handle, repository.NewProductRepository(handle.DB, h.Media), nil
}

func (h *ProductHandler) Index(w http.ResponseWriter, r *http.Request) {
	handle, repo, err := h.open()
	if err != nil {
		renderDiagnostic(w, err)
		return
	}
	defer handle.Close()
	products, err := repo.List(r.Context())
	if err != nil {
		renderDiagnostic(w, err)
		return
	}
	data := map[string]any{"Products": products, "Backend": string(handle.Backend)}
	if f := takeFlash(w, r); f != nil {
		data["Flash"] = f
	}
	h.render(w, r, "index.html", data)
}

func (h *ProductHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"Values": repository.Fields{Currency: "EUR", WeightUnit: "kg"}}
	if f := takeFlash(w, r); f != nil {
		data["Flash"] = f
	}
	h.render(w, r, "add_product.html", data)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.parseUpload(w, r) {
		return
	}
	handle, repo, err := h.open()
	if err != nil {
		renderDiagnostic(w, err)
		return
	}
	defer handle.Close()
	fields := formFields(r)
	id, violations, err := repo.Create(r.Context(), fields)
	if err != nil {
		renderDiagnostic(w, err)
		return
	}
	if !violations.Empty() {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		h.render(w, r, "add_product.html", map[string]any{"Errors": violations, "Values": fields})
		return
	}
	h.attachUploads(r, handle, id)
	setFlash(w, "success", i18n.T(view.Lang(r), "product_added"))
	http.Redirect(w, r, fmt.Sprintf("/product/%d", id), http.StatusSeeOther)
}

func (h *ProductHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.redirectNotFound(w, r)
		return
	}
	handle, repo, err := h.open()
	if err != nil {
		renderDiagnostic(w, err)
		return
	}
	defer handle.Close()
	product, err := repo.Get(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		h.redirectNotFound(w, r)
		return
	}
	if err != nil {
		renderDiagnostic(w, err)
		return
	}
	images, err := h.Media.Images(r.Context(), handle.DB, id)
	if err != nil {
		renderDiagnostic(w, err)
		return
	}
	videos, err := h.Media.Videos(r.Context(), handle.DB, id)
	if err != nil {
		renderDiagnostic(w, err)
		return
	}
	data := map[string]any{"Product": product, "Images": images, "Videos": videos}
	if f := takeFlash(w, r); f != nil {
		data["Flash"] = f
	}
	h.render(w, r, "view_product.html", data)
}

func (h *ProductHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.redirectNotFound(w, r)
		return
	}
	handle, repo, err := h.open()
	if err != nil {
		renderDiagnostic(w, err)
		return
	}
	defer handle.Close()
	product, err := repo.Get(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		h.redirectNotFound(w, r)
		return
	}
	if err != nil {
		renderDiagnostic(w, err)
		return
	}
	h.render(w, r, "edit_product.html", map[string]any{"ID": id, "Values": fieldsOf(product)})
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.redirectNotFound(w, r)
		return
	}
	if !h.parseUpload(w, r) {
		return
	}
	handle, repo, err := h.open()
	if err != nil {
		renderDiagnostic(w, err)
		return
	}
	defer handle.Close()
	if _, err := repo.Get(r.Context(), id); errors.Is(err, repository.ErrNotFound) {
		h.redirectNotFound(w, r)
		return
	} else if err != nil {
		renderDiagnostic(w, err)
		return
	}
	fields := formFields(r)
	violations, err := repo.Update(r.Context(), id, fields)
	if err != nil {
		renderDiagnostic(w, err)
		return
	}
	if !violations.Empty() {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		h.render(w, r, "edit_product.html", map[string]any{"ID": id, "Errors": violations, "Values": fields})
		return
	}
	h.attachUploads(r, handle, id)
	setFlash(w, "success", i18n.T(view.Lang(r), "product_updated"))
	http.Redirect(w, r, fmt.Sprintf("/product/%d", id), http.StatusSeeOther)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.redirectNotFound(w, r)
		return
	}
	handle, repo, err := h.open()
	if err != nil {
		renderDiagnostic(w, err)
		return
	}
	defer handle.Close()
	if err := repo.Delete(r.Context(), id); err != nil {
		renderDiagnostic(w, err)
		return
	}
	setFlash(w, "success", i18n.T(view.Lang(r), "product_deleted"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *ProductHandler) Report(w http.ResponseWriter, r *http.Request) {
	handle, repo, err := h.open()
	if err != nil {
		renderDiagnostic(w, err)
		return
	}
	defer handle.Close()
	products, err := repo.ListForReport(r.Context())
	if err != nil {
		renderDiagnostic(w, err)
		return
	}
	h.render(w, r, "report.html", map[string]any{"Products": products})
}

// parseUpload caps the request body and parses the multipart form. Returns
// false after writing the response when the submission is rejected.
func (h *ProductHandler) parseUpload(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			h.render(w, r, "add_product.html", map[string]any{
				"Flash":  &Flash{Kind: "error", Message: "Upload troppo grande (max 50 MB)"},
				"Values": repository.Fields{},
			})
			return false
		}
		// plain urlencoded forms (no files) are fine too
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return false
		}
	}
	return true
}

func (h *ProductHandler) attachUploads(r *http.Request, handle *db.Handle, id uint) {
	if r.MultipartForm == nil {
		return
	}
	if err := h.Media.Attach(r.Context(), handle.DB, id, r.MultipartForm.File["files"]); err != nil {
		// the product itself is already saved; only the media rows failed
		log.Error().Err(err).Uint("product_id", id).Msg("attaching media failed")
	}
}

func (h *ProductHandler) redirectNotFound(w http.ResponseWriter, r *http.Request) {
	setFlash(w, "error", i18n.T(view.Lang(r), "product_not_found"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *ProductHandler) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.Render(w, r, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("template render failed")
		fmt.Fprintf(w, "template render error: %v", err)
	}
}

func pathID(r *http.Request) (uint, bool) {
	n, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || n <= 0 {
		return 0, false
	}
	return uint(n), true
}

func formFields(r *http.Request) repository.Fields {
	return repository.Fields{
		Name:        r.FormValue("name"),
		Category:    r.FormValue("category"),
		Supplier:    r.FormValue("supplier"),
		Price:       r.FormValue("price"),
		Currency:    r.FormValue("currency"),
		Dimensions:  r.FormValue("dimensions"),
		Weight:      r.FormValue("weight"),
		WeightUnit:  r.FormValue("weight_unit"),
		Color:       r.FormValue("color"),
		Material:    r.FormValue("material"),
		Description: r.FormValue("description"),
		Notes:       r.FormValue("notes"),
		Status:      r.FormValue("status"),
	}
}

// fieldsOf converts a stored product back into form values for the edit page.
func fieldsOf(p *models.Product) repository.Fields {
	weight := ""
	if p.Weight != nil {
		weight = strconv.FormatFloat(*p.Weight, 'f', -1, 64)
	}
	return repository.Fields{
		Name:        p.Name,
		Category:    p.Category,
		Supplier:    p.Supplier,
		Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
		Currency:    p.Currency,
		Dimensions:  p.Dimensions,
		Weight:      weight,
		WeightUnit:  p.WeightUnit,
		Color:       p.Color,
		Material:    p.Material,
		Description: p.Description,
		Notes:       p.Notes,
		Status:      p.Status,
	}
}

// renderDiagnostic keeps the service usable for operators during
// misconfiguration: a minimal page with the error and a pointer to /health
// instead of an opaque 500.
func renderDiagnostic(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("request failed")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	fmt.Fprintf(w, "<h1>Hotel Miramare - Sistema Gestione Arredamento</h1><p>Errore: %s</p><p><a href='/health'>Health Check</a></p>", err)
}
