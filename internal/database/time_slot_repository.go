package database

import (
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/models"
)

// TimeSlotRepository handles database operations for the time_slots table
type TimeSlotRepository struct {
	db DB
}

// NewTimeSlotRepository creates a new TimeSlotRepository
func NewTimeSlotRepository(db DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

// GetByRoute retrieves all departure time slots of a route
func (r *TimeSlotRepository) GetByRoute(routeID string) ([]models.TimeSlot, error) {
	query := `
		SELECT id, route_id, departure_time
		FROM time_slots
		WHERE route_id = $1
		ORDER BY departure_time
	`

	rows, err := r.db.Query(query, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := []models.TimeSlot{}
	for rows.Next() {
		var s models.TimeSlot
		if err := rows.Scan(&s.ID, &s.RouteID, &s.DepartureTime); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}

	return slots, rows.Err()
}

// GetByID retrieves a single time slot
func (r *TimeSlotRepository) GetByID(slotID string) (*models.TimeSlot, error) {
	query := `
		SELECT id, route_id, departure_time
		FROM time_slots
		WHERE id = $1
	`

	var s models.TimeSlot
	err := r.db.QueryRow(query, slotID).Scan(&s.ID, &s.RouteID, &s.DepartureTime)
	if err != nil {
		return nil, err
	}

	return &s, nil
}
