// Package model defines the core domain types shared across the service.
package model

import "math"

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Finite reports whether both components are finite numbers.
func (c Coordinate) Finite() bool {
	return !math.IsNaN(c.Latitude) && !math.IsInf(c.Latitude, 0) &&
		!math.IsNaN(c.Longitude) && !math.IsInf(c.Longitude, 0)
}

// StoreRecord is a single SNAP retailer from the dataset. Records are built
// once at load and never mutated afterward.
type StoreRecord struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Borough string `json:"borough"`
	Zip     string `json:"zip"`
	County  string `json:"county"`

	StoreType      string `json:"storeType"`
	IsHealthyStore bool   `json:"isHealthyStore"`

	// AI-assigned scores. Nil means the dataset carried no usable value.
	HealthScore   *int   `json:"healthScore,omitempty"`
	HealthReason  string `json:"healthReason,omitempty"`
	EconomyScore  *int   `json:"economyScore,omitempty"`
	EconomyReason string `json:"economyReason,omitempty"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Coord returns the store's location as a Coordinate.
func (s StoreRecord) Coord() Coordinate {
	return Coordinate{Latitude: s.Latitude, Longitude: s.Longitude}
}

// StoreWithDistance is a query result: a store plus its distance from the
// query origin in meters. It exists only as query output.
type StoreWithDistance struct {
	StoreRecord
	DistanceMeters float64 `json:"distanceMeters"`
}
