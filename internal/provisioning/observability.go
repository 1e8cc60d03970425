package provisioning

import "log"

// Observer receives progress output from pipeline phases.
type Observer interface {
	Printf(format string, v ...any)
}

// ConsoleObserver logs pipeline progress via the standard log package.
type ConsoleObserver struct{}

// Printf implements Observer.
func (ConsoleObserver) Printf(format string, v ...any) {
	log.Printf(format, v...)
}

// NopObserver discards all output. Used in tests.
type NopObserver struct{}

// Printf implements Observer.
func (NopObserver) Printf(string, ...any) {}
