package cli

import (
	"fmt"
	"net/http"

	"github.com/go-barry/showcase/core"
	"github.com/urfave/cli/v2"
)

var CheckCommand = &cli.Command{
	Name:  "check",
	Usage: "Render every route and error page against the configured views",
	Flags: []cli.Flag{configFlag},
	Action: func(c *cli.Context) error {
		config := loadConfig(c)
		renderer := core.NewRenderer(core.ViewsFS(config), core.TemplateFuncs("dev", config), false)

		var failed bool
		used := map[core.TemplateName]bool{}

		for _, route := range core.Routes() {
			model, name := route.Handler(c.Context)
			used[name] = true

			if _, err := renderer.RenderBytes(name, model); err != nil {
				failed = true
				fmt.Printf("❌ %s %s → %s: %v\n", route.Method, route.Path, name, err)
				continue
			}
			fmt.Printf("✅ %s %s → %s\n", route.Method, route.Path, name)
		}

		errorPages := []struct {
			name  core.TemplateName
			model core.ViewModel
		}{
			{"errors/404", core.ViewModel{"path": "/missing", "status": http.StatusNotFound, "message": http.StatusText(http.StatusNotFound)}},
			{"errors/error", core.ViewModel{"status": http.StatusInternalServerError, "message": http.StatusText(http.StatusInternalServerError)}},
		}
		for _, page := range errorPages {
			if _, err := renderer.RenderBytes(page.name, page.model); err != nil {
				fmt.Printf("⚠️  %s: %v (plain text fallback will be used)\n", page.name, err)
				continue
			}
			fmt.Printf("✅ %s\n", page.name)
		}

		if names, err := renderer.Templates(); err == nil {
			for _, name := range names {
				if !used[name] {
					fmt.Printf("⚠️  %s is not used by any route\n", name)
				}
			}
		}

		if failed {
			return cli.Exit("some routes failed to render", 1)
		}

		fmt.Println("✅ All routes rendered successfully.")
		return nil
	},
}
