package main

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"github.com/spf13/cobra"
)

var widgetTemplate = template.Must(template.New("widget").Parse(`package {{.Package}}

import (
	"github.com/gogpu/deckcanvas"
	"github.com/gogpu/deckcanvas/widget"
)

// {{.Name}} is a custom widget.
type {{.Name}} struct {
	widget.Base

	Color string
}

// New{{.Name}} creates a {{.Name}} covering w x h buttons from (col, row).
func New{{.Name}}(col, row, w, h int) (*{{.Name}}, error) {
	base, err := widget.NewBase(col, row, w, h)
	if err != nil {
		return nil, err
	}
	return &{{.Name}}{Base: base, Color: deckcanvas.ColorPrimary}, nil
}

func ({{.Recv}} *{{.Name}}) Render(c *deckcanvas.Canvas) error {
	if !{{.Recv}}.Visible() {
		return nil
	}
	if err := {{.Recv}}.Validate(c); err != nil {
		return err
	}
	col, row, w, h := {{.Recv}}.Bounds()
	return c.DrawRect(col, row, deckcanvas.RectStyle{W: w, H: h, Fill: {{.Recv}}.Color})
}

// Press makes {{.Name}} a widget.Presser.
func ({{.Recv}} *{{.Name}}) Press(col, row int) {
	deckcanvas.Logger().Info("{{.Name}} pressed", "col", col, "row", row)
}
`))

var errExists = errors.New("file exists")

func createCmd() *cobra.Command {
	var dir, pkg string
	cmd := &cobra.Command{
		Use:   "create <WidgetName>",
		Short: "Generate a widget skeleton",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := createWidget(dir, pkg, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "created", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "output directory")
	cmd.Flags().StringVar(&pkg, "package", "", "package name (default: the directory name)")
	return cmd
}

// createWidget writes <dir>/<snake_name>.go and returns its path. It never
// overwrites an existing file.
func createWidget(dir, pkg, name string) (string, error) {
	if !token.IsIdentifier(name) || !token.IsExported(name) {
		return "", fmt.Errorf("%q is not an exported Go identifier", name)
	}
	if pkg == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", err
		}
		pkg = strings.ToLower(filepath.Base(abs))
	}
	if !token.IsIdentifier(pkg) {
		return "", fmt.Errorf("%q is not a valid package name; use --package", pkg)
	}

	var buf bytes.Buffer
	err := widgetTemplate.Execute(&buf, struct{ Package, Name, Recv string }{
		Package: pkg,
		Name:    name,
		Recv:    receiver(name),
	})
	if err != nil {
		return "", err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("format %s: %w", name, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, snakeCase(name)+".go")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%s: %w", path, errExists)
		}
		return "", err
	}
	if _, err := f.Write(src); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

// receiver picks a receiver name that does not shadow the Render and
// NewX parameters.
func receiver(name string) string {
	r := strings.ToLower(name[:1])
	switch r {
	case "c", "w", "h":
		return strings.ToLower(name[:min(2, len(name))]) + "x"
	}
	return r
}

// snakeCase converts MyVUWidget to my_vu_widget.
func snakeCase(s string) string {
	rs := []rune(s)
	var b strings.Builder
	for i, r := range rs {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && !unicode.IsUpper(rs[i-1])
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
