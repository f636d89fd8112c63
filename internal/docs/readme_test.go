package docs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/coinbridge/internal/core"
)

type fakeCommand struct{ name, desc, cat string }

func (c fakeCommand) Name() string              { return c.name }
func (c fakeCommand) Description() string       { return c.desc }
func (c fakeCommand) Aliases() []string         { return nil }
func (c fakeCommand) Group() string             { return "" }
func (c fakeCommand) Category() string          { return c.cat }
func (c fakeCommand) Run(ctx interface{}) error { return nil }

func TestRender(t *testing.T) {
	cmds := []core.Command{
		fakeCommand{"balance", "Check your coin balance", core.CategoryEconomy},
		fakeCommand{"help", "Get a list of available commands", core.CategoryInformation},
		fakeCommand{"top", "Show the richest players", core.CategoryEconomy},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "# {{.AppName}}\n\n{{.CommandSections}}", cmds))

	assert.Equal(t, "# Coin Bridge\n\n"+
		"### 💰 Economy\n\n"+
		"- **/balance** — Check your coin balance\n"+
		"- **/top** — Show the richest players\n"+
		"\n"+
		"### 🕯️ Information\n\n"+
		"- **/help** — Get a list of available commands\n",
		buf.String())
}

func TestRenderBadTemplate(t *testing.T) {
	assert.Error(t, Render(&bytes.Buffer{}, "{{.Missing", nil))
}
