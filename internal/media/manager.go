package media

import (
	"context"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/miramare/arredo/internal/config"
	"github.com/miramare/arredo/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Kind classifies an upload by its extension.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

var imageExts = map[string]bool{"png": true, "jpg": true, "jpeg": true, "gif": true, "webp": true}
var videoExts = map[string]bool{"mp4": true, "avi": true, "mov": true, "wmv": true, "flv": true, "webm": true}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Manager validates, persists and catalogs uploaded media files under the
// configured upload root, one subdirectory per kind.
type Manager struct {
	cfg config.Config
}

func NewManager(cfg config.Config) *Manager { return &Manager{cfg: cfg} }

// EnsureDirs creates the images/ and videos/ subdirectories.
func (m *Manager) EnsureDirs() error {
	for _, d := range []string{m.cfg.ImagesDir(), m.cfg.VideosDir()} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// SanitizeFilename strips path components and unsafe characters from a
// user-supplied filename. The result may be empty.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// Classify maps a filename extension onto a media kind. Anything outside the
// two allow-lists is rejected.
func Classify(name string) (Kind, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	switch {
	case imageExts[ext]:
		return KindImage, true
	case videoExts[ext]:
		return KindVideo, true
	default:
		return "", false
	}
}

func (m *Manager) dirFor(kind Kind) string {
	if kind == KindVideo {
		return m.cfg.VideosDir()
	}
	return m.cfg.ImagesDir()
}

// Attach stores each uploaded file with a non-empty name and records a row
// for it. Files with unsupported extensions are silently dropped; a failed
// write skips the row but never fails the whole submission. Stored names get
// a uuid prefix so concurrent uploads with identical names never collide.
func (m *Manager) Attach(ctx context.Context, gdb *gorm.DB, productID uint, files []*multipart.FileHeader) error {
	now := time.Now().UTC()
	for _, fh := range files {
		if fh == nil || fh.Filename == "" {
			continue
		}
		sanitized := SanitizeFilename(fh.Filename)
		if sanitized == "" {
			continue
		}
		kind, ok := Classify(sanitized)
		if !ok {
			continue
		}
		stored := uuid.NewString() + "_" + sanitized
		if err := m.saveFile(fh, filepath.Join(m.dirFor(kind), stored)); err != nil {
			log.Warn().Err(err).Str("file", sanitized).Msg("media write failed, skipping")
			continue
		}
		var err error
		switch kind {
		case KindImage:
			err = gdb.WithContext(ctx).Create(&models.ProductImage{
				ProductID: productID, Filename: stored, OriginalName: sanitized, UploadDate: now,
			}).Error
		case KindVideo:
			err = gdb.WithContext(ctx).Create(&models.ProductVideo{
				ProductID: productID, Filename: stored, OriginalName: sanitized, UploadDate: now,
			}).Error
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) saveFile(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, src)
	return err
}

// Images lists a product's images ordered by upload date.
func (m *Manager) Images(ctx context.Context, gdb *gorm.DB, productID uint) ([]models.ProductImage, error) {
	var out []models.ProductImage
	err := gdb.WithContext(ctx).Where("product_id = ?", productID).Order("upload_date").Find(&out).Error
	return out, err
}

// Videos lists a product's videos ordered by upload date.
func (m *Manager) Videos(ctx context.Context, gdb *gorm.DB, productID uint) ([]models.ProductVideo, error) {
	var out []models.ProductVideo
	err := gdb.WithContext(ctx).Where("product_id = ?", productID).Order("upload_date").Find(&out).Error
	return out, err
}

// RemoveFilesForProduct deletes the backing files for all of a product's
// media rows. Removal is best-effort: failures are logged and swallowed so
// they never block the enclosing product deletion.
func (m *Manager) RemoveFilesForProduct(ctx context.Context, gdb *gorm.DB, productID uint) {
	images, err := m.Images(ctx, gdb, productID)
	if err != nil {
		log.Warn().Err(err).Uint("product_id", productID).Msg("list images for removal failed")
	}
	for _, img := range images {
		m.removeFile(filepath.Join(m.cfg.ImagesDir(), img.Filename))
	}
	videos, err := m.Videos(ctx, gdb, productID)
	if err != nil {
		log.Warn().Err(err).Uint("product_id", productID).Msg("list videos for removal failed")
	}
	for _, vid := range videos {
		m.removeFile(filepath.Join(m.cfg.VideosDir(), vid.Filename))
	}
}

func (m *Manager) removeFile(p string) {
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", p).Msg("media file removal failed")
	}
}
