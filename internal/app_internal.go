package internal

import "github.com/rios0rios0/savemirror/internal/domain/entities"

// AppInternal holds the controllers exposed as subcommands.
type AppInternal struct {
	controllers []entities.Controller
}

// NewAppInternal creates the application context from the registered controllers.
func NewAppInternal(controllers *[]entities.Controller) *AppInternal {
	return &AppInternal{controllers: *controllers}
}

// GetControllers returns every controller in registration order.
func (it *AppInternal) GetControllers() []entities.Controller {
	return it.controllers
}
