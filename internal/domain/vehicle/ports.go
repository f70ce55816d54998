package vehicle

import "context"

// Repository defines the lookup of vehicles known to the simulation
type Repository interface {
	// Save registers or replaces a vehicle
	Save(ctx context.Context, v *Vehicle) error

	// FindByName returns nil, nil when the vehicle is unknown
	FindByName(ctx context.Context, name string) (*Vehicle, error)

	// FindAll returns every vehicle in registration order
	FindAll(ctx context.Context) ([]*Vehicle, error)
}
