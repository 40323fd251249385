package types

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries target-machine type sizes. The teacher hardcodes these
// (POINTER_SIZE, POINTER_ALIGNMENT constants in typesystem/conf.go);
// here they are loaded so the same front end can be retargeted without
// touching declaration_specifiers, per SPEC_FULL.md's module-A
// addendum.
type Config struct {
	PointerSize int `yaml:"pointerSize"`
	CharSize    int `yaml:"charSize"`
	ShortSize   int `yaml:"shortSize"`
	IntSize     int `yaml:"intSize"`
	LongSize    int `yaml:"longSize"`
	FloatSize   int `yaml:"floatSize"`
	DoubleSize  int `yaml:"doubleSize"`
}

// DefaultConfig matches the reference sizes named throughout spec.md
// §4.E (char→1, short→2, int/signed→4, long→8, float→4, double→8) and
// the pointer width used in spec.md §3's invariants (8).
func DefaultConfig() *Config {
	return &Config{
		PointerSize: 8,
		CharSize:    1,
		ShortSize:   2,
		IntSize:     4,
		LongSize:    8,
		FloatSize:   4,
		DoubleSize:  8,
	}
}

func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
