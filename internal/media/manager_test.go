package media

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/miramare/arredo/internal/config"
	"github.com/miramare/arredo/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := gdb.AutoMigrate(&models.ProductImage{}, &models.ProductVideo{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// serialize writes: shared-cache sqlite rejects concurrent writers
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return gdb
}

func setupManager(t *testing.T) (*Manager, *gorm.DB) {
	t.Helper()
	cfg := config.Config{UploadRoot: t.TempDir()}
	m := NewManager(cfg)
	if err := m.EnsureDirs(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}
	return m, setupTestDB(t)
}

// fileHeaders builds real multipart.FileHeader values by round-tripping a form.
func fileHeaders(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range names {
		fw, err := w.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte("payload for " + name)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["files"]
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"photo.png":            "photo.png",
		"../../etc/passwd":     "passwd",
		`C:\tmp\shot.jpg`:      "shot.jpg",
		"my photo (1).jpg":     "my_photo_1.jpg",
		"..hidden.png":         "hidden.png",
		"série café.webp":      "srie_caf.webp",
	}
	for in, want := range cases {
		if got := SanitizeFilename(in); got != want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClassify(t *testing.T) {
	if k, ok := Classify("a.PNG"); !ok || k != KindImage {
		t.Fatalf("expected image for .PNG, got %v %v", k, ok)
	}
	if k, ok := Classify("clip.webm"); !ok || k != KindVideo {
		t.Fatalf("expected video for .webm, got %v %v", k, ok)
	}
	if _, ok := Classify("tool.exe"); ok {
		t.Fatalf(".exe must be rejected")
	}
	if _, ok := Classify("noextension"); ok {
		t.Fatalf("missing extension must be rejected")
	}
}

func TestAttachStoresFilesAndRows(t *testing.T) {
	m, gdb := setupManager(t)
	files := fileHeaders(t, "chair.jpg", "tour.mp4", "malware.exe")
	if err := m.Attach(context.Background(), gdb, 7, files); err != nil {
		t.Fatalf("attach: %v", err)
	}

	var images []models.ProductImage
	gdb.Where("product_id = ?", 7).Find(&images)
	if len(images) != 1 {
		t.Fatalf("expected 1 image row, got %d", len(images))
	}
	if images[0].OriginalName != "chair.jpg" {
		t.Fatalf("original name: %s", images[0].OriginalName)
	}
	if images[0].Filename == "chair.jpg" {
		t.Fatalf("stored name must differ from original")
	}
	if _, err := os.Stat(filepath.Join(m.cfg.ImagesDir(), images[0].Filename)); err != nil {
		t.Fatalf("image file missing: %v", err)
	}

	var videos []models.ProductVideo
	gdb.Where("product_id = ?", 7).Find(&videos)
	if len(videos) != 1 {
		t.Fatalf("expected 1 video row, got %d", len(videos))
	}

	// the .exe left no trace in either table
	var total int64
	gdb.Model(&models.ProductImage{}).Count(&total)
	var vtotal int64
	gdb.Model(&models.ProductVideo{}).Count(&vtotal)
	if total+vtotal != 2 {
		t.Fatalf("expected exactly 2 rows overall, got %d", total+vtotal)
	}
}

func TestAttachDuplicateNamesGetDistinctStoredFiles(t *testing.T) {
	m, gdb := setupManager(t)
	files := fileHeaders(t, "same.png", "same.png")
	if err := m.Attach(context.Background(), gdb, 1, files); err != nil {
		t.Fatalf("attach: %v", err)
	}
	var images []models.ProductImage
	gdb.Find(&images)
	if len(images) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(images))
	}
	if images[0].Filename == images[1].Filename {
		t.Fatalf("stored filenames must be distinct: %s", images[0].Filename)
	}
	for _, img := range images {
		if _, err := os.Stat(filepath.Join(m.cfg.ImagesDir(), img.Filename)); err != nil {
			t.Fatalf("file missing for %s: %v", img.Filename, err)
		}
	}
}

func TestConcurrentAttachSameName(t *testing.T) {
	m, gdb := setupManager(t)
	var wg sync.WaitGroup
	errs := make([]error, 2)
	headers := [][]*multipart.FileHeader{fileHeaders(t, "race.jpg"), fileHeaders(t, "race.jpg")}
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = m.Attach(context.Background(), gdb, 3, headers[i])
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("attach %d: %v", i, err)
		}
	}
	var images []models.ProductImage
	gdb.Find(&images)
	if len(images) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(images))
	}
	if images[0].Filename == images[1].Filename {
		t.Fatalf("concurrent uploads overwrote each other")
	}
	for _, img := range images {
		if _, err := os.Stat(filepath.Join(m.cfg.ImagesDir(), img.Filename)); err != nil {
			t.Fatalf("file missing: %v", err)
		}
	}
}

func TestRemoveFilesForProductSwallowsMissingFiles(t *testing.T) {
	m, gdb := setupManager(t)
	// row with no backing file
	gdb.Create(&models.ProductImage{ProductID: 5, Filename: "ghost.png", OriginalName: "ghost.png"})
	// row with a real file
	real := filepath.Join(m.cfg.ImagesDir(), "real.png")
	if err := os.WriteFile(real, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	gdb.Create(&models.ProductImage{ProductID: 5, Filename: "real.png", OriginalName: "real.png"})

	m.RemoveFilesForProduct(context.Background(), gdb, 5)
	if _, err := os.Stat(real); !os.IsNotExist(err) {
		t.Fatalf("real file should be gone, err=%v", err)
	}
}
