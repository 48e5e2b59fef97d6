package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-barry/showcase/core"
	"github.com/urfave/cli/v2"
)

var CleanCommand = &cli.Command{
	Name:      "clean",
	Usage:     "Delete cached pages and assets from the output directory",
	ArgsUsage: "[route (optional)]",
	Flags:     []cli.Flag{configFlag},
	Action: func(c *cli.Context) error {
		config := loadConfig(c)
		target := config.OutputDir

		if c.Args().Len() > 0 {
			arg := c.Args().Get(0)
			route := strings.Trim(arg, "/")
			if strings.Contains(route, "..") {
				return fmt.Errorf("invalid route: %q", arg)
			}

			// The home page sits at the top of the output dir next to
			// every other route, so only its own files go.
			if route == "" {
				fmt.Println("🧹 Cleaning: /")
				if err := core.RemoveCachedPage(config, "/"); err != nil {
					return fmt.Errorf("failed to clean cache: %w", err)
				}
				fmt.Println("✅ Done.")
				return nil
			}

			target = filepath.Join(config.OutputDir, filepath.FromSlash(route))
		}

		info, err := os.Stat(target)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Println("🧼 Nothing to clean:", target)
				return nil
			}
			return fmt.Errorf("failed to access path: %w", err)
		}

		if !info.IsDir() {
			return fmt.Errorf("not a directory: %s", target)
		}

		fmt.Println("🧹 Cleaning:", target)
		err = os.RemoveAll(target)
		if err != nil {
			return fmt.Errorf("failed to clean cache: %w", err)
		}

		fmt.Println("✅ Done.")
		return nil
	},
}
