package database

import (
	"database/sql"

	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/models"
)

// PickupPointRepository handles database operations for the pickup_points table
type PickupPointRepository struct {
	db DB
}

// NewPickupPointRepository creates a new PickupPointRepository
func NewPickupPointRepository(db DB) *PickupPointRepository {
	return &PickupPointRepository{db: db}
}

// GetByRoute retrieves the visible points of a route in display order,
// optionally filtered by point type
func (r *PickupPointRepository) GetByRoute(routeID string, pointType *models.PointType) ([]models.PickupPoint, error) {
	query := `
		SELECT id, route_id, name, point_type, sequence_order, lat, lng, is_visible
		FROM pickup_points
		WHERE route_id = $1
		  AND is_visible = true
	`
	args := []interface{}{routeID}

	if pointType != nil {
		query += ` AND point_type = $2`
		args = append(args, *pointType)
	}
	query += ` ORDER BY sequence_order`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []models.PickupPoint{}
	for rows.Next() {
		var p models.PickupPoint
		var lat, lng sql.NullFloat64

		err := rows.Scan(
			&p.ID, &p.RouteID, &p.Name, &p.PointType,
			&p.SequenceOrder, &lat, &lng, &p.IsVisible,
		)
		if err != nil {
			return nil, err
		}

		if lat.Valid {
			p.Lat = &lat.Float64
		}
		if lng.Valid {
			p.Lng = &lng.Float64
		}

		points = append(points, p)
	}

	return points, rows.Err()
}

// GetByID retrieves a single pickup point
func (r *PickupPointRepository) GetByID(pointID string) (*models.PickupPoint, error) {
	query := `
		SELECT id, route_id, name, point_type, sequence_order, lat, lng, is_visible
		FROM pickup_points
		WHERE id = $1
	`

	var p models.PickupPoint
	var lat, lng sql.NullFloat64

	err := r.db.QueryRow(query, pointID).Scan(
		&p.ID, &p.RouteID, &p.Name, &p.PointType,
		&p.SequenceOrder, &lat, &lng, &p.IsVisible,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid {
		p.Lat = &lat.Float64
	}
	if lng.Valid {
		p.Lng = &lng.Float64
	}

	return &p, nil
}
