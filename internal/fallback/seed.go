package fallback

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Seed is the optional YAML file used to prefill the store with links and
// balances, so degraded mode has something to show after a restart:
//
//	links:
//	  "123456789012345678": Steve
//	balances:
//	  Steve: 42
type Seed struct {
	Links    map[string]string  `yaml:"links"`
	Balances map[string]float64 `yaml:"balances"`
}

// LoadSeed reads a seed file. An empty path yields an empty seed.
func LoadSeed(path string) (*Seed, error) {
	if path == "" {
		return &Seed{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fallback seed: %w", err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse fallback seed: %w", err)
	}
	for ext, internal := range seed.Links {
		if ext == "" || internal == "" {
			return nil, fmt.Errorf("parse fallback seed: empty identity in link %q -> %q", ext, internal)
		}
	}
	return &seed, nil
}

// Apply copies the seed into the store.
func (s *Store) Apply(seed *Seed) {
	if seed == nil {
		return
	}
	for ext, internal := range seed.Links {
		s.Link(ext, internal)
	}
	for internal, amount := range seed.Balances {
		s.SetBalance(internal, amount)
	}
}
