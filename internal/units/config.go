package units

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// targetsFile mirrors the on-disk TOML form:
//
//	[targets]
//	voltage = "mV"
//	time    = "ms"
type targetsFile struct {
	Targets map[string]string `toml:"targets"`
}

// LoadTargets reads a canonical-targets config. Quantities absent from
// the file keep their defaults, so a config may override just one.
func LoadTargets(path string) (Targets, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f targetsFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("targets config %s: %w", path, err)
	}

	out := DefaultTargets()
	for quantity, symbol := range f.Targets {
		out[quantity] = symbol
	}
	return out, nil
}
