// Command build-readme regenerates README.md from README.md.tmpl and the
// registered slash commands. Run it from the repository root.
package main

import (
	"bytes"
	"fmt"
	"os"

	_ "github.com/keshon/coinbridge/internal/commands/core"
	_ "github.com/keshon/coinbridge/internal/commands/economy"

	"github.com/keshon/coinbridge/internal/core"
	"github.com/keshon/coinbridge/internal/docs"
)

func main() {
	tmpl, err := os.ReadFile("README.md.tmpl")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var out bytes.Buffer
	if err := docs.Render(&out, string(tmpl), core.AllCommands()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := os.WriteFile("README.md", out.Bytes(), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println("README.md updated with current commands")
}
