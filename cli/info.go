package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-barry/showcase/core"
	"github.com/urfave/cli/v2"
)

var InfoCommand = &cli.Command{
	Name:  "info",
	Usage: "Print configuration, routes and cache summary",
	Flags: []cli.Flag{configFlag},
	Action: func(c *cli.Context) error {
		config := loadConfig(c)

		source := "embedded"
		if config.TemplatesDir != "" {
			source = config.TemplatesDir
		}

		fmt.Println("📁 Output Directory:", config.OutputDir)
		fmt.Println("🔁 Cache Enabled:", config.CacheEnabled)
		fmt.Println("🔁 Debug Headers Enabled:", config.DebugHeaders)
		fmt.Println("🔁 Debug Logs Enabled:", config.DebugLogs)
		fmt.Println("🧩 Templates:", source)
		fmt.Println()

		renderer := core.NewRenderer(core.ViewsFS(config), core.TemplateFuncs("dev", config), false)
		templates, err := renderer.Templates()
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}

		cacheCount, err := countCachedPages(config.OutputDir)
		if err != nil {
			return fmt.Errorf("failed to read cache: %w", err)
		}

		fmt.Println("🗂️  Routes Found:", len(core.Routes()))
		fmt.Println("📄 Page Templates Found:", len(templates))
		fmt.Println("📦 Components Found:", len(renderer.Components()))
		fmt.Println("💾 Cached Pages:", cacheCount)

		return nil
	},
}

// countCachedPages counts cached html pages under dir. A missing dir means
// nothing has been cached yet.
func countCachedPages(dir string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".html") {
			count++
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	return count, err
}
