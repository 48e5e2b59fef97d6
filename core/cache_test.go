package core

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestSaveCachedHTMLAndGetCachedHTML(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := Config{OutputDir: tmpDir}
	route := "/team"
	html := []byte("<html><body>Alice Bob</body></html>")

	err := SaveCachedHTML(cfg, route, html)
	if err != nil {
		t.Fatalf("SaveCachedHTML failed: %v", err)
	}

	htmlPath := filepath.Join(tmpDir, "team", "index.html")
	data, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("Failed to read index.html: %v", err)
	}
	if !bytes.Equal(data, html) {
		t.Errorf("Cached HTML does not match original")
	}

	gzPath, ok := CachedGzipPath(cfg, route)
	if !ok {
		t.Fatal("expected gzip twin to exist")
	}
	if gzPath != htmlPath+".gz" {
		t.Errorf("unexpected gzip path %s", gzPath)
	}

	gzFile, err := os.Open(gzPath)
	if err != nil {
		t.Fatalf("Failed to read gzip file: %v", err)
	}
	defer gzFile.Close()

	gzReader, err := gzip.NewReader(gzFile)
	if err != nil {
		t.Fatalf("Failed to create gzip reader: %v", err)
	}
	defer gzReader.Close()

	unzipped, err := io.ReadAll(gzReader)
	if err != nil {
		t.Fatalf("Failed to read from gzip reader: %v", err)
	}

	if !bytes.Equal(unzipped, html) {
		t.Errorf("Gzipped content does not match original HTML")
	}

	cached, ok := GetCachedHTML(cfg, route)
	if !ok {
		t.Errorf("Expected to find cached HTML, got false")
	}
	if !bytes.Equal(cached, html) {
		t.Errorf("GetCachedHTML returned incorrect content")
	}
}

func TestSaveCachedHTML_RootRoute(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := Config{OutputDir: tmpDir}

	if err := SaveCachedHTML(cfg, "/", []byte("home")); err != nil {
		t.Fatalf("SaveCachedHTML failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "index.html")); err != nil {
		t.Errorf("expected root page at output dir top level: %v", err)
	}
}

func TestGetCachedHTML_MissingFile(t *testing.T) {
	cfg := Config{OutputDir: t.TempDir()}
	route := "non-existent"

	data, ok := GetCachedHTML(cfg, route)
	if ok {
		t.Errorf("Expected ok=false for missing file")
	}
	if data != nil {
		t.Errorf("Expected nil data for missing file")
	}

	if _, ok := CachedGzipPath(cfg, route); ok {
		t.Errorf("Expected no gzip twin for missing file")
	}
}

func TestSaveCachedHTML_ConcurrentReadersSeeWholePages(t *testing.T) {
	cfg := Config{OutputDir: t.TempDir()}
	route := "/team"
	html := []byte(strings.Repeat("<li>Alice</li><li>Bob</li>", 2048))

	if err := SaveCachedHTML(cfg, route, html); err != nil {
		t.Fatalf("SaveCachedHTML failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if err := SaveCachedHTML(cfg, route, html); err != nil {
					errs <- err.Error()
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				data, ok := GetCachedHTML(cfg, route)
				if !ok || !bytes.Equal(data, html) {
					errs <- "read a partial cached page"
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Error(msg)
	}

	entries, err := os.ReadDir(filepath.Join(cfg.OutputDir, "team"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("expected only index.html and its gzip twin, got %d entries", len(entries))
	}
}

func TestRemoveCachedPage_RootLeavesNestedRoutes(t *testing.T) {
	cfg := Config{OutputDir: t.TempDir()}

	if err := SaveCachedHTML(cfg, "/", []byte("home")); err != nil {
		t.Fatal(err)
	}
	if err := SaveCachedHTML(cfg, "/team", []byte("team")); err != nil {
		t.Fatal(err)
	}

	if err := RemoveCachedPage(cfg, "/"); err != nil {
		t.Fatalf("RemoveCachedPage failed: %v", err)
	}

	if _, ok := GetCachedHTML(cfg, "/"); ok {
		t.Error("expected root page to be removed")
	}
	if _, ok := CachedGzipPath(cfg, "/"); ok {
		t.Error("expected root gzip twin to be removed")
	}
	if _, ok := GetCachedHTML(cfg, "/team"); !ok {
		t.Error("expected /team to stay cached")
	}

	if err := RemoveCachedPage(cfg, "/"); err != nil {
		t.Errorf("removing an absent page should succeed, got: %v", err)
	}
}
