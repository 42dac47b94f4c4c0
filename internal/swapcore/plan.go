package swapcore

import (
	"fmt"

	"github.com/ligun0805/swapfarm/internal/config"
)

// RunConfig is the operator's selection for one run: which swaps are active
// and how many passes to make.
type RunConfig struct {
	Order       []string
	Active      map[string]bool
	Repetitions int
}

// NewRunConfig starts with every swap of the network active.
func NewRunConfig(n config.Network) RunConfig {
	rc := RunConfig{Order: n.SwapNames(), Active: map[string]bool{}, Repetitions: 1}
	for _, name := range rc.Order {
		rc.Active[name] = true
	}
	return rc
}

// Toggle flips a swap between active and inactive.
func (rc *RunConfig) Toggle(name string) error {
	if _, ok := rc.Active[name]; !ok {
		return fmt.Errorf("unknown swap %q", name)
	}
	rc.Active[name] = !rc.Active[name]
	return nil
}

// ToggleIndex flips the i-th swap (1-based, as shown in the menu).
func (rc *RunConfig) ToggleIndex(i int) error {
	if i < 1 || i > len(rc.Order) {
		return fmt.Errorf("choice %d out of range 1-%d", i, len(rc.Order))
	}
	return rc.Toggle(rc.Order[i-1])
}

// ActiveNames lists active swaps in table order.
func (rc RunConfig) ActiveNames() []string {
	var out []string
	for _, name := range rc.Order {
		if rc.Active[name] {
			out = append(out, name)
		}
	}
	return out
}
