package repository

import (
	"context"
	"time"

	"earnings-service/src/internal/entity"
	"earnings-service/src/pkg/databases/mysql"
)

type TripRepository struct {
	DB mysql.DBInterface
}

func NewTripRepository(db mysql.DBInterface) *TripRepository {
	return &TripRepository{
		DB: db,
	}
}

func (r *TripRepository) FindCompleted(ctx context.Context, ex mysql.Executor, tripID string) (*entity.Trip, error) {
	var trip entity.Trip

	query := `
		SELECT
			id, driver_id, passenger_id, pickup_address, dropoff_address,
			distance_km, payment_method, fare_final, fare_estimate,
			status, completed_at
		FROM trips
		WHERE id = ? AND status = 'COMPLETED'
	`

	err := ex.GetContext(ctx, &trip, query, tripID)
	if err != nil {
		return nil, err
	}

	return &trip, nil
}

func (r *TripRepository) CountCompletedSince(ctx context.Context, ex mysql.Executor, driverID string, since time.Time) (int64, error) {
	var count int64

	query := `
		SELECT COUNT(*)
		FROM trips
		WHERE driver_id = ?
		AND status = 'COMPLETED'
		AND completed_at >= ?
	`

	err := ex.GetContext(ctx, &count, query, driverID, since)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *TripRepository) SumGrossFaresSince(ctx context.Context, ex mysql.Executor, driverID string, since time.Time) (int64, error) {
	var total int64

	query := `
		SELECT COALESCE(SUM(COALESCE(fare_final, fare_estimate, 0)), 0)
		FROM trips
		WHERE driver_id = ?
		AND status = 'COMPLETED'
		AND completed_at >= ?
	`

	err := ex.GetContext(ctx, &total, query, driverID, since)
	if err != nil {
		return 0, err
	}

	return total, nil
}
