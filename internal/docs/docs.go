// Package docs holds the About, Privacy and Terms pages.
package docs

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/bcntransit/bcnt-cli/internal/locale"
)

//go:embed content
var content embed.FS

// Page names
const (
	About   = "about"
	Privacy = "privacy"
	Terms   = "terms"
)

// Glamour style names
const (
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
)

// Pages returns the page names in menu order.
func Pages() []string {
	return []string{About, Privacy, Terms}
}

// Source returns the markdown of page in lang. Pages missing a translation
// fall back to Spanish.
func Source(page, lang string) (string, error) {
	page = strings.ToLower(strings.TrimSpace(page))
	if !isPage(page) {
		return "", fmt.Errorf("unknown page %q (expected one of: %s)", page, strings.Join(Pages(), ", "))
	}

	lang = locale.Normalize(lang)
	data, err := fs.ReadFile(content, "content/"+lang+"/"+page+".md")
	if err != nil && lang != locale.Default {
		data, err = fs.ReadFile(content, "content/"+locale.Default+"/"+page+".md")
	}
	if err != nil {
		return "", fmt.Errorf("read page %s: %w", page, err)
	}
	return string(data), nil
}

// Render returns page rendered for the terminal. version replaces the
// {{version}} placeholder. If glamour fails the raw markdown is returned.
func Render(page, lang, version, style string, width int) (string, error) {
	md, err := Source(page, lang)
	if err != nil {
		return "", err
	}
	md = strings.ReplaceAll(md, "{{version}}", version)

	if style == "" {
		style = StyleDark
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md, nil
	}
	rendered, err := r.Render(md)
	if err != nil {
		return md, nil
	}
	return rendered, nil
}

func isPage(name string) bool {
	for _, p := range Pages() {
		if p == name {
			return true
		}
	}
	return false
}
