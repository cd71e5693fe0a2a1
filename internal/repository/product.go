package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/miramare/arredo/internal/media"
	"github.com/miramare/arredo/internal/models"
	"github.com/miramare/arredo/internal/validation"

	"gorm.io/gorm"
)

// ErrNotFound is returned when no product matches the requested id.
var ErrNotFound = errors.New("product not found")

// Fields carries raw form input for create/update. Validation and coercion
// happen inside the repository so every caller gets the same policy.
type Fields struct {
	Name        string
	Category    string
	Supplier    string
	Price       string
	Currency    string
	Dimensions  string
	Weight      string
	WeightUnit  string
	Color       string
	Material    string
	Description string
	Notes       string
	Status      string
}

// ProductRepository defines the data access contract for products.
// Handlers depend on this interface, not on the concrete GORM implementation.
type ProductRepository interface {
	List(ctx context.Context) ([]models.ProductWithCounts, error)
	Get(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, f Fields) (uint, validation.Violations, error)
	Update(ctx context.Context, id uint, f Fields) (validation.Violations, error)
	Delete(ctx context.Context, id uint) error
	ListForReport(ctx context.Context) ([]models.ProductWithCounts, error)
}

type productRepo struct {
	db    *gorm.DB
	media *media.Manager
}

// NewProductRepository builds a repository bound to a per-request handle.
func NewProductRepository(db *gorm.DB, m *media.Manager) ProductRepository {
	return &productRepo{db: db, media: m}
}

const countSelect = "products.*, " +
	"(SELECT COUNT(*) FROM product_images WHERE product_images.product_id = products.id) AS image_count, " +
	"(SELECT COUNT(*) FROM product_videos WHERE product_videos.product_id = products.id) AS video_count"

func (r *productRepo) List(ctx context.Context) ([]models.ProductWithCounts, error) {
	var out []models.ProductWithCounts
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Select(countSelect).
		Order("updated_date DESC").
		Scan(&out).Error
	return out, err
}

func (r *productRepo) ListForReport(ctx context.Context) ([]models.ProductWithCounts, error) {
	var out []models.ProductWithCounts
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Select(countSelect).
		Order("category, name").
		Scan(&out).Error
	return out, err
}

func (r *productRepo) Get(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) Create(ctx context.Context, f Fields) (uint, validation.Violations, error) {
	price, v := validate(f)
	if !v.Empty() {
		return 0, v, nil
	}
	now := time.Now().UTC()
	p := models.Product{
		Name:        strings.TrimSpace(f.Name),
		Category:    strings.TrimSpace(f.Category),
		Supplier:    strings.TrimSpace(f.Supplier),
		Price:       price,
		Currency:    choose(f.Currency, "EUR"),
		Dimensions:  f.Dimensions,
		Weight:      validation.OptionalFloat(f.Weight),
		WeightUnit:  choose(f.WeightUnit, "kg"),
		Color:       f.Color,
		Material:    f.Material,
		Description: f.Description,
		Notes:       f.Notes,
		Status:      choose(f.Status, models.StatusDefault),
		CreatedDate: now,
		UpdatedDate: now,
	}
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return 0, nil, err
	}
	return p.ID, nil, nil
}

// Update rewrites every mutable field and stamps updated_date. The id not
// existing is not an error: zero rows are affected and nothing changes.
func (r *productRepo) Update(ctx context.Context, id uint, f Fields) (validation.Violations, error) {
	price, v := validate(f)
	if !v.Empty() {
		return v, nil
	}
	var weight interface{}
	if w := validation.OptionalFloat(f.Weight); w != nil {
		weight = *w
	}
	updates := map[string]interface{}{
		"name":         strings.TrimSpace(f.Name),
		"category":     strings.TrimSpace(f.Category),
		"supplier":     strings.TrimSpace(f.Supplier),
		"price":        price,
		"currency":     choose(f.Currency, "EUR"),
		"dimensions":   f.Dimensions,
		"weight":       weight,
		"weight_unit":  choose(f.WeightUnit, "kg"),
		"color":        f.Color,
		"material":     f.Material,
		"description":  f.Description,
		"notes":        f.Notes,
		"status":       choose(f.Status, models.StatusDefault),
		"updated_date": time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error
	return nil, err
}

// Delete removes the product's media files (best-effort), then the media rows
// and the product row. File-removal failures never abort the deletion.
func (r *productRepo) Delete(ctx context.Context, id uint) error {
	r.media.RemoveFilesForProduct(ctx, r.db, id)
	if err := r.db.WithContext(ctx).Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Where("product_id = ?", id).Delete(&models.ProductVideo{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.Product{}, id).Error
}

func validate(f Fields) (float64, validation.Violations) {
	v := validation.Violations{}
	validation.Required("name", f.Name, v)
	validation.Required("category", f.Category, v)
	validation.Required("supplier", f.Supplier, v)
	price := validation.NonNegativePrice("price", f.Price, v)
	return price, v
}

func choose(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
