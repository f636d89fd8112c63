// Package docs renders the README command reference from the command registry.
package docs

import (
	"bytes"
	"fmt"
	"io"
	"text/template"

	"github.com/keshon/coinbridge/internal/core"
	"github.com/keshon/coinbridge/internal/version"
)

// CommandSections renders one markdown section per category, in display order.
func CommandSections(cmds []core.Command) string {
	cats, byCat := core.GroupByCategory(cmds)

	var buf bytes.Buffer
	for i, cat := range cats {
		if i > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "### %s\n\n", cat)
		for _, c := range byCat[cat] {
			fmt.Fprintf(&buf, "- **/%s** — %s\n", c.Name(), c.Description())
		}
	}
	return buf.String()
}

// Render executes the README template with the command reference and the
// application identity.
func Render(w io.Writer, tmpl string, cmds []core.Command) error {
	t, err := template.New("readme").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("parse readme template: %w", err)
	}

	data := struct {
		AppName         string
		AppDescription  string
		CommandSections string
	}{
		AppName:         version.AppName,
		AppDescription:  version.AppDescription,
		CommandSections: CommandSections(cmds),
	}
	if err := t.Execute(w, data); err != nil {
		return fmt.Errorf("render readme: %w", err)
	}
	return nil
}
