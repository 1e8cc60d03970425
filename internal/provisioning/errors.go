package provisioning

import "fmt"

// MissingValueError is a dictionary item with neither a user-supplied
// override nor a declared default.
type MissingValueError struct {
	Key string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("no value provided for dictionary key %q", e.Key)
}

// PreconditionError is a workflow operation invoked before the fact it
// depends on exists, e.g. a status check without a provisioned service.
type PreconditionError struct {
	Missing string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("missing %s for this step", e.Missing)
}
