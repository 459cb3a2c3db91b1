// Package serviceiface defines the lifecycle every long running component
// registered with the app manager implements.
package serviceiface

// Service is started in start_order and stopped in reverse. Start must not
// block; long running work belongs in goroutines owned by the service.
type Service interface {
	Name() string
	Start() error
	Stop() error
}
