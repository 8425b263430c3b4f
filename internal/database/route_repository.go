package database

import (
	"database/sql"

	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/models"
)

// RouteRepository handles database operations for the routes table
type RouteRepository struct {
	db DB
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db DB) *RouteRepository {
	return &RouteRepository{db: db}
}

const routeColumns = `id, name, from_label, to_label, from_lat, from_lng, to_lat, to_lng,
	   price_per_seat, operating_weekdays, estimated_distance_km,
	   is_active, created_at, updated_at`

// GetAllActive retrieves all active routes ordered by name
func (r *RouteRepository) GetAllActive() ([]models.Route, error) {
	query := `
		SELECT ` + routeColumns + `
		FROM routes
		WHERE is_active = true
		ORDER BY name
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := []models.Route{}
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, *route)
	}

	return routes, rows.Err()
}

// GetByID retrieves a route by ID
func (r *RouteRepository) GetByID(routeID string) (*models.Route, error) {
	query := `
		SELECT ` + routeColumns + `
		FROM routes
		WHERE id = $1
	`

	return scanRoute(r.db.QueryRow(query, routeID))
}

// scanRoute scans a single route
func scanRoute(row scanner) (*models.Route, error) {
	route := &models.Route{}
	var fromLat, fromLng, toLat, toLng, distance sql.NullFloat64

	err := row.Scan(
		&route.ID, &route.Name, &route.FromLabel, &route.ToLabel,
		&fromLat, &fromLng, &toLat, &toLng,
		&route.PricePerSeat, &route.OperatingWeekdays, &distance,
		&route.IsActive, &route.CreatedAt, &route.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if fromLat.Valid {
		route.FromLat = &fromLat.Float64
	}
	if fromLng.Valid {
		route.FromLng = &fromLng.Float64
	}
	if toLat.Valid {
		route.ToLat = &toLat.Float64
	}
	if toLng.Valid {
		route.ToLng = &toLng.Float64
	}
	if distance.Valid {
		route.EstimatedDistanceKm = &distance.Float64
	}
	route.PricePerSeatDisplay = route.PricePerSeat.Display()

	return route, nil
}
