package entity

import "time"

// Trip is the completed-trip record consumed from the trip-completion
// collaborator. This service only ever reads trips.
type Trip struct {
	ID             string    `db:"id" json:"id"`
	DriverID       string    `db:"driver_id" json:"driverId"`
	PassengerID    string    `db:"passenger_id" json:"passengerId"`
	PickupAddress  string    `db:"pickup_address" json:"pickupAddress"`
	DropoffAddress string    `db:"dropoff_address" json:"dropoffAddress"`
	DistanceKm     float64   `db:"distance_km" json:"distanceKm"`
	PaymentMethod  string    `db:"payment_method" json:"paymentMethod"`
	FareFinal      *int64    `db:"fare_final" json:"fareFinal,omitempty"`
	FareEstimate   *int64    `db:"fare_estimate" json:"fareEstimate,omitempty"`
	Status         string    `db:"status" json:"status"`
	CompletedAt    time.Time `db:"completed_at" json:"completedAt"`
}
