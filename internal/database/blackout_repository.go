package database

import (
	"database/sql"
	"time"

	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/models"
)

// BlackoutRepository handles database operations for the blackout_dates table
type BlackoutRepository struct {
	db DB
}

// NewBlackoutRepository creates a new BlackoutRepository
func NewBlackoutRepository(db DB) *BlackoutRepository {
	return &BlackoutRepository{db: db}
}

// GetDatesInRange retrieves a route's blackout dates within [from, to]
// inclusive, ordered by date
func (r *BlackoutRepository) GetDatesInRange(routeID string, from, to time.Time) ([]models.BlackoutDate, error) {
	query := `
		SELECT route_id, blackout_date, reason
		FROM blackout_dates
		WHERE route_id = $1
		  AND blackout_date >= $2
		  AND blackout_date <= $3
		ORDER BY blackout_date
	`

	rows, err := r.db.Query(query, routeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := []models.BlackoutDate{}
	for rows.Next() {
		var d models.BlackoutDate
		var reason sql.NullString

		if err := rows.Scan(&d.RouteID, &d.Date, &reason); err != nil {
			return nil, err
		}
		if reason.Valid {
			d.Reason = &reason.String
		}

		dates = append(dates, d)
	}

	return dates, rows.Err()
}
