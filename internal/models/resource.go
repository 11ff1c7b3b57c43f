package models

import "time"

// Resource is a bookable unit from one of the three catalogs. Kind-specific
// attributes are flat; unused ones stay at their zero value.
type Resource struct {
	ID        int64     `json:"id" yaml:"id"`
	Kind      Kind      `json:"kind" yaml:"kind"`
	Name      string    `json:"name" yaml:"name"`
	Status    string    `json:"status" yaml:"status"`
	Capacity  int64     `json:"capacity,omitempty" yaml:"capacity"`   // rooms
	Type      string    `json:"type,omitempty" yaml:"type"`           // assets, vehicles
	Condition string    `json:"condition,omitempty" yaml:"condition"` // assets
	Plate     string    `json:"plate,omitempty" yaml:"plate"`         // vehicles
	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}
