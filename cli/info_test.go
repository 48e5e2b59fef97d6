package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInfoCommand_PrintsSummary(t *testing.T) {
	tmp := t.TempDir()
	os.MkdirAll(filepath.Join(tmp, "team"), 0755)
	os.WriteFile(filepath.Join(tmp, "index.html"), []byte("<p>home</p>"), 0644)
	os.WriteFile(filepath.Join(tmp, "team", "index.html"), []byte("<p>team</p>"), 0644)
	os.WriteFile(filepath.Join(tmp, "team", "index.html.gz"), []byte("gz"), 0644)

	overrideLoadConfig(tmp, func() {
		var err error
		output := captureOutput(func() {
			err = runCommand(t, InfoCommand)
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		checks := []string{
			"Output Directory: " + tmp,
			"Templates: embedded",
			"Routes Found: 3",
			"Page Templates Found: 3",
			"Components Found: 2",
			"Cached Pages: 2",
		}
		for _, want := range checks {
			if !strings.Contains(output, want) {
				t.Errorf("expected %q in output, got: %s", want, output)
			}
		}
	})
}

func TestInfoCommand_TemplatesDir(t *testing.T) {
	dir := t.TempDir()
	writeView(t, dir, "pages/home.html", `ok`)
	overrideTemplatesDir(t, dir)

	output := captureOutput(func() {
		if err := runCommand(t, InfoCommand); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	if !strings.Contains(output, "Templates: "+dir) {
		t.Errorf("expected templates dir in output, got: %s", output)
	}
	if !strings.Contains(output, "Page Templates Found: 1") {
		t.Errorf("expected one page template, got: %s", output)
	}
	if !strings.Contains(output, "Components Found: 0") {
		t.Errorf("expected no components, got: %s", output)
	}
}

func TestCountCachedPages_MissingDir(t *testing.T) {
	count, err := countCachedPages(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("expected no error for missing dir, got: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 cached pages, got %d", count)
	}
}

func TestInfoCommand_UnreadableCacheFails(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	tmp := t.TempDir()
	locked := filepath.Join(tmp, "team")
	os.MkdirAll(locked, 0755)
	os.WriteFile(filepath.Join(locked, "index.html"), []byte("<p>team</p>"), 0644)
	if err := os.Chmod(locked, 0000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	overrideLoadConfig(tmp, func() {
		var err error
		captureOutput(func() {
			err = runCommand(t, InfoCommand)
		})
		if err == nil || !strings.Contains(err.Error(), "failed to read cache") {
			t.Errorf("expected cache read error, got: %v", err)
		}
	})
}
