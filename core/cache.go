package core

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
)

// cacheKey maps a request path to its directory under the output dir.
// The root page lives directly in the output dir.
func cacheKey(path string) string {
	return filepath.FromSlash(strings.Trim(path, "/"))
}

func cachedHTMLPath(config Config, route string) string {
	return filepath.Join(config.OutputDir, cacheKey(route), "index.html")
}

func GetCachedHTML(config Config, route string) ([]byte, bool) {
	cachePath := cachedHTMLPath(config, route)

	if _, err := os.Stat(cachePath); err != nil {
		return nil, false
	}

	content, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, false
	}

	return content, true
}

// CachedGzipPath returns the precompressed twin of a cached page, if present.
func CachedGzipPath(config Config, route string) (string, bool) {
	gzPath := cachedHTMLPath(config, route) + ".gz"
	if _, err := os.Stat(gzPath); err != nil {
		return "", false
	}
	return gzPath, true
}

func SaveCachedHTML(config Config, route string, html []byte) error {
	htmlPath := cachedHTMLPath(config, route)
	if err := os.MkdirAll(filepath.Dir(htmlPath), os.ModePerm); err != nil {
		return err
	}

	if err := writeFileAtomic(htmlPath, html); err != nil {
		return err
	}

	gz, err := gzipBytes(html)
	if err != nil {
		return err
	}
	return writeFileAtomic(htmlPath+".gz", gz)
}

// RemoveCachedPage deletes a single route's cached html and gzip twin,
// leaving nested routes alone.
func RemoveCachedPage(config Config, route string) error {
	htmlPath := cachedHTMLPath(config, route)
	for _, p := range []string{htmlPath, htmlPath + ".gz"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place, so readers see either the old or the new content in full.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		gz.Close()
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
