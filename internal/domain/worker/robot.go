package worker

import "fmt"

// Robot is a machine worker. Robots load and unload vehicles but are never recruited as crew.
type Robot struct {
	base
	lowPower bool
}

func NewRobot(name, settlement string) (*Robot, error) {
	if name == "" {
		return nil, fmt.Errorf("robot name cannot be empty")
	}
	return &Robot{base: base{name: name, associated: settlement, current: settlement}}, nil
}

func (r *Robot) Kind() Kind { return KindRobot }

// IsLowPower reports a depleted battery; such robots cannot drive
func (r *Robot) IsLowPower() bool { return r.lowPower }

func (r *Robot) SetLowPower(low bool) { r.lowPower = low }
