package core

import (
	"sort"
	"strings"
	"sync"
)

var (
	mu       sync.RWMutex
	registry = map[string]Command{}
)

// RegisterCommand registers a command under its name and aliases.
func RegisterCommand(cmd Command) {
	mu.Lock()
	defer mu.Unlock()
	registry[cmd.Name()] = cmd
	for _, a := range cmd.Aliases() {
		registry[a] = cmd
	}
}

// GetCommand returns the command with the given name
func GetCommand(name string) (Command, bool) {
	mu.RLock()
	defer mu.RUnlock()
	cmd, ok := registry[name]
	return cmd, ok
}

// CommandForCustomID finds the command owning a component or modal CustomID,
// which is "<command name>:<anything>".
func CommandForCustomID(customID string) (Command, bool) {
	name, _, ok := strings.Cut(customID, ":")
	if !ok {
		return nil, false
	}
	return GetCommand(name)
}

// AllCommands returns all registered commands sorted by name.
func AllCommands() []Command {
	mu.RLock()
	defer mu.RUnlock()

	seen := map[string]bool{}
	list := make([]Command, 0, len(registry))
	for _, cmd := range registry {
		if seen[cmd.Name()] {
			continue
		}
		list = append(list, cmd)
		seen[cmd.Name()] = true
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}
