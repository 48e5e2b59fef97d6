package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-barry/showcase/views"
	"github.com/urfave/cli/v2"
)

const defaultEjectDir = "views"

var viewsFS fs.FS = views.FS

var EjectCommand = &cli.Command{
	Name:      "eject",
	Usage:     "Copy the built-in templates to disk so they can be customised",
	ArgsUsage: "[target dir (default: views)]",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "force",
			Usage: "overwrite files in a non-empty target directory",
		},
	},
	Action: func(c *cli.Context) error {
		targetDir := defaultEjectDir
		if c.Args().Len() > 0 {
			targetDir = c.Args().Get(0)
		}

		if entries, err := os.ReadDir(targetDir); err == nil && len(entries) > 0 && !c.Bool("force") {
			return fmt.Errorf("%s is not empty (use --force to overwrite)", targetDir)
		}

		fmt.Println("📤 Ejecting templates to:", targetDir)

		if err := copyEmbeddedDir(viewsFS, ".", targetDir); err != nil {
			return fmt.Errorf("failed to eject templates: %w", err)
		}

		fmt.Println("✅ Templates written.")
		fmt.Printf("▶  Set `templatesDir: %s` in your config to use them.\n", filepath.ToSlash(targetDir))
		return nil
	},
}

func copyEmbeddedDir(source fs.FS, sourceDir string, targetDir string) error {
	return fs.WalkDir(source, sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}

		if rel == "." {
			return nil
		}

		targetPath := filepath.Join(targetDir, rel)

		if d.IsDir() {
			return os.MkdirAll(targetPath, os.ModePerm)
		}

		data, err := fs.ReadFile(source, path)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(targetPath), os.ModePerm); err != nil {
			return err
		}

		return os.WriteFile(targetPath, data, 0644)
	})
}
