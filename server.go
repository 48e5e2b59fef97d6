package showcase

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"

	"github.com/go-barry/showcase/core"
)

type RuntimeConfig struct {
	Env         string
	EnableCache bool
	Port        int
	ConfigPath  string
}

var (
	ListenAndServe    = http.ListenAndServe
	ListenAndServeTLS = http.ListenAndServeTLS
	Exit              = os.Exit
)

const immutableCache = "public, max-age=31536000, immutable"

const fallbackRobots = "User-agent: *\nDisallow:\n"

var Start = func(cfg RuntimeConfig) {
	fmt.Println("Starting showcase in", cfg.Env, "mode...")

	config := loadConfig(cfg)
	addr, handler := buildServer(cfg, config)

	var err error
	if config.SSL {
		if config.CertFile == "" || config.KeyFile == "" {
			err = errors.New("ssl enabled but certFile or keyFile not set")
		} else {
			fmt.Printf("✅ showcase running at https://localhost%s\n", addr)
			err = ListenAndServeTLS(addr, config.CertFile, config.KeyFile, handler)
		}
	} else {
		fmt.Printf("✅ showcase running at http://localhost%s\n", addr)
		err = ListenAndServe(addr, handler)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Server failed: %v\n", err)
		Exit(1)
	}
}

func loadConfig(cfg RuntimeConfig) core.Config {
	path := cfg.ConfigPath
	if path == "" {
		path = core.DefaultConfigFile
	}
	config := core.LoadConfig(path)
	config.CacheEnabled = cfg.EnableCache
	return config
}

func BuildServer(cfg RuntimeConfig) (string, http.Handler) {
	return buildServer(cfg, loadConfig(cfg))
}

func buildServer(cfg RuntimeConfig, config core.Config) (string, http.Handler) {
	if cfg.Env == "dev" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	if cfg.Env == "dev" || config.DebugLogs {
		engine.Use(accessLog())
	}
	engine.Use(secure.New(secureConfig(config)))

	engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	rt := core.RuntimeContext{Env: cfg.Env}

	if cfg.Env == "dev" {
		setupDevStaticRoutes(engine, config.PublicDir)

		reloader := core.NewLiveReloader()
		engine.GET(core.ReloadPath, gin.WrapF(reloader.Handler))

		rt.EnableWatch = true
		rt.OnReload = reloader.BroadcastReload
	} else {
		setupProdStaticRoutes(engine, config.PublicDir, filepath.Join(config.OutputDir, "static"))
	}

	core.NewRouter(config, rt).Mount(engine)

	return fmt.Sprintf(":%d", cfg.Port), engine
}

func secureConfig(config core.Config) secure.Config {
	sc := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}
	if config.SSL {
		sc.SSLRedirect = true
		sc.STSSeconds = 31536000
		sc.STSIncludeSubdomains = true
	}
	return sc
}

// accessLog writes one Apache combined-format line per request.
func accessLog() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf(`%s - - [%s] "%s %s %s" %d %d "%s" "%s"`+"\n",
			param.ClientIP,
			param.TimeStamp.Format("02/Jan/2006:15:04:05 -0700"),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.BodySize,
			param.Request.Referer(),
			param.Request.UserAgent(),
		)
	})
}

func setupDevStaticRoutes(engine *gin.Engine, publicDir string) {
	fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir(publicDir)))
	engine.GET("/static/*filepath", func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		fileServer.ServeHTTP(c.Writer, c.Request)
	})

	engine.GET("/favicon.ico", func(c *gin.Context) {
		serveFileWithHeaders(c.Writer, c.Request, filepath.Join(publicDir, "favicon.ico"), "no-store")
	})

	engine.GET("/robots.txt", robotsHandler(publicDir, "no-store"))
}

func setupProdStaticRoutes(engine *gin.Engine, publicDir, cacheStaticDir string) {
	engine.GET("/static/*filepath", gin.WrapH(makeStaticHandler(publicDir, cacheStaticDir)))

	engine.GET("/favicon.ico", func(c *gin.Context) {
		serveFileWithHeaders(c.Writer, c.Request, filepath.Join(publicDir, "favicon.ico"), immutableCache)
	})

	engine.GET("/robots.txt", robotsHandler(publicDir, immutableCache))
}

func robotsHandler(publicDir, cacheControl string) gin.HandlerFunc {
	robotsPath := filepath.Join(publicDir, "robots.txt")
	return func(c *gin.Context) {
		if _, err := os.Stat(robotsPath); err == nil {
			serveFileWithHeaders(c.Writer, c.Request, robotsPath, cacheControl)
			return
		}
		c.Header("Cache-Control", cacheControl)
		c.String(http.StatusOK, fallbackRobots)
	}
}

// makeStaticHandler serves /static/ from the minified cache first (gzip
// twin when the client accepts it), then from the public dir.
func makeStaticHandler(publicDir, cacheDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		trimmed := strings.TrimPrefix(r.URL.Path, "/static/")
		if strings.Contains(trimmed, "..") {
			http.Error(w, "invalid path", http.StatusBadRequest)
			return
		}

		rel := filepath.FromSlash(trimmed)
		cachedFile := filepath.Join(cacheDir, rel)
		gzipFile := cachedFile + ".gz"

		if core.AcceptsGzip(r) {
			if _, err := os.Stat(gzipFile); err == nil {
				w.Header().Set("Content-Encoding", "gzip")
				w.Header().Set("Vary", "Accept-Encoding")
				w.Header().Set("Content-Type", detectMimeType(cachedFile))
				w.Header().Set("Cache-Control", immutableCache)
				http.ServeFile(w, r, gzipFile)
				return
			}
		}

		if info, err := os.Stat(cachedFile); err == nil && !info.IsDir() {
			serveFileWithHeaders(w, r, cachedFile, immutableCache)
			return
		}

		publicFile := filepath.Join(publicDir, rel)
		if info, err := os.Stat(publicFile); err == nil && !info.IsDir() {
			serveFileWithHeaders(w, r, publicFile, immutableCache)
			return
		}

		http.NotFound(w, r)
	})
}

func serveFileWithHeaders(w http.ResponseWriter, r *http.Request, path, cacheControl string) {
	w.Header().Set("Content-Type", detectMimeType(path))
	w.Header().Set("Cache-Control", cacheControl)
	http.ServeFile(w, r, path)
}

func detectMimeType(path string) string {
	switch filepath.Ext(path) {
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".woff":
		return "font/woff"
	case ".woff2":
		return "font/woff2"
	case ".ico":
		return "image/x-icon"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
