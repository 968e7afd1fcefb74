package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gorm.io/datatypes"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// views holds one parsed template per page, each combined with the shared layout.
type views struct {
	pages    map[string]*template.Template
	minifier *minify.M
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// renderMarkdown converts markdown to HTML. Raw HTML in the source is dropped.
func renderMarkdown(content string) template.HTML {
	var buf strings.Builder
	if err := md.Convert([]byte(content), &buf); err != nil {
		return template.HTML("<p>Error rendering markdown</p>")
	}
	return template.HTML(buf.String())
}

var funcMap = template.FuncMap{
	"markdown": renderMarkdown,
	"projectURL": func(slug string) string {
		return projectURL(slug)
	},
	"editProjectURL": func(slug string) string {
		return editProjectURL(slug)
	},
	"editUserURL": func(id uint) string {
		return editUserURL(id)
	},
	"date": func(d datatypes.Date) string {
		if t := time.Time(d); !t.IsZero() {
			return t.Format("2006-01-02")
		}
		return ""
	},
	"datetime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	},
	"dict": func(values ...any) map[string]any {
		d := make(map[string]any)
		for i := 0; i < len(values)-1; i += 2 {
			d[fmt.Sprintf("%v", values[i])] = values[i+1]
		}
		return d
	},
}

func loadViews() (*views, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	v := &views{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		name := path.Base(file)
		t, err := template.New(name).Funcs(funcMap).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		v.pages[name] = t
	}

	v.minifier = minify.New()
	v.minifier.AddFunc("text/html", html.Minify)
	v.minifier.AddFunc("text/css", css.Minify)
	return v, nil
}

// render executes page inside the layout and writes the minified result to w.
func (v *views) render(w io.Writer, page string, data any) error {
	t, ok := v.pages[page]
	if !ok {
		return fmt.Errorf("no template %q", page)
	}

	var raw bytes.Buffer
	if err := t.ExecuteTemplate(&raw, "layout", data); err != nil {
		return fmt.Errorf("executing %s: %w", page, err)
	}

	var small bytes.Buffer
	if err := v.minifier.Minify("text/html", &small, bytes.NewReader(raw.Bytes())); err != nil {
		_, err = w.Write(raw.Bytes())
		return err
	}
	_, err := w.Write(small.Bytes())
	return err
}
