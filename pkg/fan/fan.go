// Package fan switches the group cooling fan on a plain threshold.
package fan

import (
	"fmt"

	"github.com/itohio/espresso-shot/pkg/device"
	"github.com/itohio/espresso-shot/pkg/hw"
)

// ShouldCool reports whether the group is strictly above target.
// NaN readings never cool.
func ShouldCool(current, target float32) bool {
	return current > target
}

// Controller drives the fan output from the device state.
type Controller struct {
	out hw.Output
}

// New creates a fan controller on the given output.
func New(out hw.Output) *Controller {
	return &Controller{out: out}
}

// Apply records the cooling decision in the state and writes it to the output.
func (c *Controller) Apply(st *device.State) error {
	st.Cooling = ShouldCool(st.GroupTemperature, st.TargetTemperature)
	if err := c.out.Set(st.Cooling); err != nil {
		return fmt.Errorf("fan: %w", err)
	}
	return nil
}
