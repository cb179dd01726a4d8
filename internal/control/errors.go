package control

import "github.com/pkg/errors"

var (
	ErrNilController = errors.New("control: nil controller")
	ErrUnwired       = errors.New("control: controller has no setpoint or measurement stream")
)
