package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Paisa is a monetary amount in integer poisha (1/100 of a Bangladeshi
// taka). All fee arithmetic happens on this type; conversion to a
// two-decimal taka string happens only at display time.
type Paisa int64

// Taka returns the amount as floating-point taka for display purposes only.
func (p Paisa) Taka() float64 {
	return float64(p) / 100
}

// Display renders the amount as a taka string with thousand separators,
// e.g. ৳1,250.50
func (p Paisa) Display() string {
	sign := ""
	v := int64(p)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s৳%s.%02d", sign, formatThousand(v/100), v%100)
}

func formatThousand(n int64) string {
	if n == 0 {
		return "0"
	}
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}
