package filter

import (
	"github.com/pkg/errors"

	"github.com/StuyPulse/StuyLib-sub001/internal/tunable"
)

var (
	ErrInvalidParameter = errors.New("filter: invalid parameter")
)

func requirePositive(name string, n tunable.Number) error {
	if n == nil {
		return errors.Wrapf(ErrInvalidParameter, "%s is nil", name)
	}
	if v := n.Value(); !(v > 0) {
		return errors.Wrapf(ErrInvalidParameter, "%s must be positive, got %v", name, v)
	}
	return nil
}
