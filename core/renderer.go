package core

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/go-barry/showcase/views"
)

const (
	layoutDirectivePrefix = "<!-- layout:"
	layoutDirectiveSuffix = "-->"
	layoutEntry           = "layout"
	componentsGlob        = "components/*.html"
)

// ViewsFS returns the template tree the site renders from: the configured
// templatesDir when set, the embedded views otherwise.
func ViewsFS(config Config) fs.FS {
	if config.TemplatesDir != "" {
		return os.DirFS(config.TemplatesDir)
	}
	return views.FS
}

type compiledPage struct {
	tmpl  *template.Template
	entry string
}

// Renderer resolves a TemplateName to "<name>.html" inside its filesystem,
// pulls in the layout named by the page's layout directive and every shared
// component, and executes the result with a ViewModel.
type Renderer struct {
	fsys      fs.FS
	funcs     template.FuncMap
	reuse     bool
	debugLogs bool

	mu    sync.RWMutex
	pages map[TemplateName]*compiledPage
}

func NewRenderer(fsys fs.FS, funcs template.FuncMap, reuse bool) *Renderer {
	return &Renderer{
		fsys:  fsys,
		funcs: funcs,
		reuse: reuse,
		pages: make(map[TemplateName]*compiledPage),
	}
}

func (r *Renderer) Render(w io.Writer, name TemplateName, model ViewModel) error {
	page, err := r.lookup(name)
	if err != nil {
		return err
	}

	if err := page.tmpl.ExecuteTemplate(w, page.entry, model); err != nil {
		return fmt.Errorf("template %q: %w", name, err)
	}
	return nil
}

// RenderBytes renders into a buffer so a failing template never produces a
// partial response.
func (r *Renderer) RenderBytes(name TemplateName, model ViewModel) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, name, model); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Invalidate drops every parsed template; the next render reparses.
func (r *Renderer) Invalidate() {
	r.mu.Lock()
	r.pages = make(map[TemplateName]*compiledPage)
	r.mu.Unlock()
}

// Templates lists the page templates available under pages/.
func (r *Renderer) Templates() ([]TemplateName, error) {
	var names []TemplateName
	err := fs.WalkDir(r.fsys, "pages", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".html" {
			return nil
		}
		names = append(names, TemplateName(strings.TrimSuffix(p, ".html")))
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names, nil
}

// Components lists the shared component files parsed into every page.
func (r *Renderer) Components() []string {
	matches, err := fs.Glob(r.fsys, componentsGlob)
	if err != nil {
		return nil
	}
	return matches
}

func (r *Renderer) lookup(name TemplateName) (*compiledPage, error) {
	if r.reuse {
		r.mu.RLock()
		page, ok := r.pages[name]
		r.mu.RUnlock()
		if ok {
			return page, nil
		}
	}

	page, err := r.parse(name)
	if err != nil {
		return nil, err
	}

	if r.reuse {
		r.mu.Lock()
		r.pages[name] = page
		r.mu.Unlock()
	}
	return page, nil
}

func (r *Renderer) parse(name TemplateName) (*compiledPage, error) {
	pagePath := string(name) + ".html"

	content, err := fs.ReadFile(r.fsys, pagePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("template %q: %w", name, ErrTemplateNotFound)
		}
		return nil, fmt.Errorf("template %q: %w", name, err)
	}

	files := []string{pagePath}
	entry := path.Base(pagePath)

	if layout := parseLayoutDirective(content); layout != "" {
		files = append([]string{layout}, files...)
		entry = layoutEntry
	}
	files = append(files, r.Components()...)

	tmpl, err := template.New(path.Base(files[0])).Funcs(r.funcs).ParseFS(r.fsys, files...)
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", name, err)
	}

	if r.debugLogs {
		log.Printf("renderer: parsed %s (%d files)", name, len(files))
	}

	return &compiledPage{tmpl: tmpl, entry: entry}, nil
}

// parseLayoutDirective reads `<!-- layout: path -->` from the first
// non-blank line of a page.
func parseLayoutDirective(content []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, layoutDirectivePrefix) && strings.HasSuffix(line, layoutDirectiveSuffix) {
			return strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, layoutDirectivePrefix), layoutDirectiveSuffix))
		}
		return ""
	}
	return ""
}
