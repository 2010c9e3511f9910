package app

import (
	"flag"
	"fmt"
	"strings"

	"epigrid/internal/core"
)

// Overrides collects repeatable key=value flags into a sim config map.
type Overrides []string

func (o *Overrides) String() string {
	return strings.Join(*o, ",")
}

// Set appends one key=value pair.
func (o *Overrides) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("override %q must be key=value", value)
	}
	*o = append(*o, value)
	return nil
}

// Map folds the overrides into a config map. Later keys win.
func (o Overrides) Map() map[string]string {
	out := make(map[string]string, len(o))
	for _, kv := range o {
		key, value, _ := strings.Cut(kv, "=")
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out
}

// Config represents the command-line parameters shared by the viewers.
type Config struct {
	Sim      string
	Scale    int
	TPS      int
	Seed     int64
	HUDWidth int
	Set      Overrides
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Sim: "seirv", Scale: 6, TPS: 10, HUDWidth: 240}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run ("+strings.Join(core.Names(), ", ")+")")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset (0 uses the scenario seed)")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "width of the side panel in pixels (0 hides it)")
	fs.Var(&c.Set, "set", "sim config override in key=value form (repeatable)")
}

// Build looks up the configured sim, constructs it from the overrides and
// resets it with the configured seed. A zero seed leaves the choice to the
// sim, which falls back to its own config.
func (c *Config) Build() (core.Sim, error) {
	factory, ok := core.Sims()[c.Sim]
	if !ok {
		return nil, fmt.Errorf("unknown sim %q (available: %s)", c.Sim, strings.Join(core.Names(), ", "))
	}
	sim, err := factory(c.Set.Map())
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", c.Sim, err)
	}
	sim.Reset(c.Seed)
	return sim, nil
}
