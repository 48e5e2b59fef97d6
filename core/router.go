package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	headerTemplate = "X-Showcase-Template"
	headerCache    = "X-Showcase-Cache"
	htmlMime       = "text/html; charset=utf-8"
)

type RuntimeContext struct {
	Env         string
	EnableWatch bool
	OnReload    func()
}

// Router mounts the page route table on a gin engine and turns each
// handler's (ViewModel, TemplateName) into a rendered response.
type Router struct {
	config   Config
	env      string
	renderer *Renderer
	routes   []Route
	watcher  *Watcher
}

func NewRouter(config Config, ctx RuntimeContext) *Router {
	r := &Router{
		config: config,
		env:    ctx.Env,
		routes: Routes(),
	}

	r.renderer = NewRenderer(ViewsFS(config), TemplateFuncs(ctx.Env, config), true)
	r.renderer.debugLogs = config.DebugLogs

	if ctx.Env == "dev" {
		watching := ctx.EnableWatch && r.startWatcher(ctx.OnReload)
		// Embedded views never change, so only an on-disk templatesDir
		// needs reparsing when nothing is watching it.
		if config.TemplatesDir != "" {
			r.renderer.reuse = watching
		}
	}
	return r
}

// startWatcher watches templatesDir (when set) and publicDir. It reports
// whether the watcher is running.
func (r *Router) startWatcher(onReload func()) bool {
	var dirs []string
	for _, dir := range []string{r.config.TemplatesDir, r.config.PublicDir} {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return false
	}

	w, err := NewWatcher(dirs, func(path string) {
		if r.config.DebugLogs {
			log.Printf("router: change in %s", path)
		}
		r.renderer.Invalidate()
		if onReload != nil {
			onReload()
		}
	})
	if err != nil {
		log.Printf("router: file watching disabled: %v", err)
		return false
	}
	r.watcher = w
	return true
}

func (r *Router) Renderer() *Renderer {
	return r.renderer
}

// Mount registers every page route plus the 404/405 fallbacks on engine.
func (r *Router) Mount(engine *gin.Engine) {
	for _, route := range r.routes {
		engine.Handle(route.Method, route.Path, r.page(route))
	}

	engine.HandleMethodNotAllowed = true
	engine.NoRoute(func(c *gin.Context) {
		r.fail(c, fmt.Errorf("route %s: %w", c.Request.URL.Path, ErrNotFound))
	})
	engine.NoMethod(func(c *gin.Context) {
		r.renderError(c, http.StatusMethodNotAllowed)
	})
}

// Handler returns a standalone engine serving only the page routes.
func (r *Router) Handler() http.Handler {
	engine := gin.New()
	engine.Use(gin.Recovery())
	r.Mount(engine)
	return engine
}

func (r *Router) Close() error {
	if r.watcher == nil {
		return nil
	}
	return r.watcher.Close()
}

func (r *Router) cacheEnabled() bool {
	return r.config.CacheEnabled && r.env == "prod"
}

func (r *Router) page(route Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		if r.cacheEnabled() && r.serveCached(c, route.Path) {
			return
		}

		model, name := route.Handler(c.Request.Context())

		html, err := r.renderer.RenderBytes(name, model)
		if err != nil {
			r.fail(c, err)
			return
		}

		if r.config.DebugHeaders {
			c.Header(headerTemplate, string(name))
		}

		if r.cacheEnabled() {
			if r.config.DebugHeaders {
				c.Header(headerCache, "MISS")
			}
			if err := SaveCachedHTML(r.config, route.Path, html); err != nil {
				log.Printf("router: caching %s: %v", route.Path, err)
			}
		}

		writeHTML(c, http.StatusOK, generateETag(html), html)
	}
}

func (r *Router) serveCached(c *gin.Context, route string) bool {
	html, ok := GetCachedHTML(r.config, route)
	if !ok {
		return false
	}

	if r.config.DebugHeaders {
		c.Header(headerCache, "HIT")
	}

	etag := generateETag(html)
	if AcceptsGzip(c.Request) {
		if gzPath, ok := CachedGzipPath(r.config, route); ok {
			if gz, err := os.ReadFile(gzPath); err == nil {
				c.Header("Content-Encoding", "gzip")
				c.Header("Vary", "Accept-Encoding")
				writeHTML(c, http.StatusOK, etag, gz)
				return true
			}
		}
	}

	writeHTML(c, http.StatusOK, etag, html)
	return true
}

// fail maps err to a status and answers with the matching error view.
// Not-found errors are only logged with debugLogs.
func (r *Router) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if IsNotFoundError(err) {
		status = http.StatusNotFound
	}

	switch {
	case status == http.StatusNotFound:
		if r.config.DebugLogs {
			log.Printf("router: %v", err)
		}
	case IsTemplateNotFound(err):
		log.Printf("router: %s %s: missing view: %v", c.Request.Method, c.Request.URL.Path, err)
	default:
		log.Printf("router: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	r.renderError(c, status)
}

// renderError answers with the errors/404 or errors/error view, falling
// back to plain text when the view itself cannot render.
func (r *Router) renderError(c *gin.Context, status int) {
	name := TemplateName("errors/error")
	model := ViewModel{
		"status":  status,
		"message": http.StatusText(status),
	}
	if status == http.StatusNotFound {
		name = "errors/404"
		model["path"] = c.Request.URL.Path
	}

	html, err := r.renderer.RenderBytes(name, model)
	if err != nil {
		c.String(status, http.StatusText(status))
		return
	}
	c.Data(status, htmlMime, html)
}

func writeHTML(c *gin.Context, status int, etag string, body []byte) {
	c.Header("ETag", etag)
	if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(status, htmlMime, body)
}

func generateETag(data []byte) string {
	sum := sha256.Sum256(data)
	return `"` + hex.EncodeToString(sum[:8]) + `"`
}

func AcceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}
