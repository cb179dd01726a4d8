package plant

import (
	"sort"

	"github.com/pkg/errors"
)

var constructors = map[string]func() System{
	"flywheel": func() System { return NewFlywheel() },
	"elevator": func() System { return NewElevator() },
	"arm":      func() System { return NewArm() },
	"turret":   func() System { return NewTurret() },
}

// New returns the mechanism registered under name.
func New(name string) (System, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownSystem, name)
	}
	return ctor(), nil
}

// Names lists the registered mechanisms.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
