package models

import (
	"database/sql/driver"

	"github.com/lib/pq"
)

// IntArray is a custom type for handling INTEGER[] arrays in PostgreSQL.
// Weekday sets (0-6, Sunday-first) are stored this way.
type IntArray []int

// Value implements the driver.Valuer interface
func (a IntArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	wide := make(pq.Int64Array, len(a))
	for i, v := range a {
		wide[i] = int64(v)
	}
	return wide.Value()
}

// Scan implements the sql.Scanner interface
func (a *IntArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	var wide pq.Int64Array
	if err := wide.Scan(src); err != nil {
		return err
	}
	out := make(IntArray, len(wide))
	for i, v := range wide {
		out[i] = int(v)
	}
	*a = out
	return nil
}

// Contains reports whether the array holds the given value
func (a IntArray) Contains(v int) bool {
	for _, x := range a {
		if x == v {
			return true
		}
	}
	return false
}
