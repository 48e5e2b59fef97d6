package core

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
	minjs "github.com/tdewolff/minify/v2/js"
)

const ReloadPath = "/__showcase_reload"

const liveReloadScript = `<script>
(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "` + ReloadPath + `");
  ws.onmessage = function (ev) { if (ev.data === "reload") { location.reload(); } };
})();
</script>`

// MinifyAsset writes a minified, gzipped copy of a /static/ css or js file
// into cacheDir and returns its versioned URL. Outside prod, or for anything
// it cannot minify, the path comes back unchanged.
func MinifyAsset(env, publicDir, path, cacheDir string) string {
	if env != "prod" {
		return path
	}

	ext := filepath.Ext(path)
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, ext)

	if ext != ".css" && ext != ".js" {
		return path
	}

	if strings.Contains(name, ".min") {
		return path
	}

	publicPath := strings.TrimPrefix(path, "/static/")
	src := filepath.Join(publicDir, filepath.FromSlash(publicPath))
	relDir := filepath.Dir(publicPath)
	min := filepath.Join(cacheDir, "static", filepath.FromSlash(relDir), fmt.Sprintf("%s.min%s", name, ext))
	minGz := min + ".gz"

	original, err := os.ReadFile(src)
	if err != nil {
		return path
	}

	m := minify.New()
	m.AddFunc("text/css", mincss.Minify)
	m.AddFunc("application/javascript", minjs.Minify)

	var buf bytes.Buffer
	var minifyErr error

	switch ext {
	case ".css":
		minifyErr = m.Minify("text/css", &buf, bytes.NewReader(original))
	case ".js":
		minifyErr = m.Minify("application/javascript", &buf, bytes.NewReader(original))
	}

	if minifyErr != nil {
		return path
	}

	minified := buf.Bytes()

	if err := os.MkdirAll(filepath.Dir(min), os.ModePerm); err != nil {
		return path
	}

	if err := writeFileAtomic(min, minified); err != nil {
		return path
	}

	if gz, err := gzipBytes(minified); err == nil {
		_ = writeFileAtomic(minGz, gz)
	}

	rel := fmt.Sprintf("%s.min%s", name, ext)
	if relDir != "." {
		rel = relDir + "/" + rel
	}

	var out strings.Builder
	fmt.Fprintf(&out, "/static/%s?v=%s", rel, shortHash(minified))
	return out.String()
}

func shortHash(data []byte) string {
	h := md5.New()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))[:6]
}

// TemplateFuncs is the FuncMap every view is parsed with: sprig's helpers
// plus the asset and dev helpers below, which take precedence.
func TemplateFuncs(env string, config Config) template.FuncMap {
	funcs := sprig.HtmlFuncMap()

	own := template.FuncMap{
		"minify": func(path string) string {
			return MinifyAsset(env, config.PublicDir, path, config.OutputDir)
		},
		"props": func(values ...interface{}) map[string]interface{} {
			if len(values)%2 != 0 {
				panic("props must be called with even number of arguments")
			}
			m := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					panic("props keys must be strings")
				}
				m[key] = values[i+1]
			}
			return m
		},
		"safeHTML": func(s interface{}) template.HTML {
			switch val := s.(type) {
			case template.HTML:
				return val
			case string:
				return template.HTML(val)
			default:
				return ""
			}
		},
		"versioned": func(path string) string {
			if !strings.HasPrefix(path, "/static/") {
				return path
			}

			rel := strings.TrimPrefix(path, "/static/")
			locations := []string{
				filepath.Join(config.PublicDir, filepath.FromSlash(rel)),
				filepath.Join(config.OutputDir, "static", filepath.FromSlash(rel)),
			}

			for _, file := range locations {
				if content, err := os.ReadFile(file); err == nil {
					var out strings.Builder
					fmt.Fprintf(&out, "/static/%s?v=%s", rel, shortHash(content))
					return out.String()
				}
			}

			return path
		},
		"liveReload": func() template.HTML {
			if env != "dev" {
				return ""
			}
			return template.HTML(liveReloadScript)
		},
	}

	for name, fn := range own {
		funcs[name] = fn
	}
	return funcs
}
