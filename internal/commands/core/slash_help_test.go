package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/keshon/coinbridge/internal/core"
)

type stubCommand struct{ name, category string }

func (c stubCommand) Name() string              { return c.name }
func (c stubCommand) Description() string       { return c.name + " things" }
func (c stubCommand) Aliases() []string         { return nil }
func (c stubCommand) Group() string             { return "stub" }
func (c stubCommand) Category() string          { return c.category }
func (c stubCommand) Run(ctx interface{}) error { return nil }

func TestBuildHelpByCategory(t *testing.T) {
	all := []core.Command{
		stubCommand{"help", "🕯️ Information"},
		stubCommand{"zzz", "Misc"},
		stubCommand{"balance", "💰 Economy"},
		stubCommand{"top", "💰 Economy"},
	}

	out := buildHelpByCategory(all)
	assert.Equal(t,
		"**💰 Economy**\n`/balance` - balance things\n`/top` - top things\n\n"+
			"**🕯️ Information**\n`/help` - help things\n\n"+
			"**Misc**\n`/zzz` - zzz things\n",
		out)
}

func TestBuildHelpFlat(t *testing.T) {
	out := buildHelpFlat([]core.Command{stubCommand{"balance", "x"}, stubCommand{"link", "y"}})
	assert.Equal(t, "`/balance` - balance things\n`/link` - link things\n", out)
}
