package month

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ErrInvalidMonth is returned when a month name or number is not in the table
var ErrInvalidMonth = errors.New("invalid month")

// maxSuggestDistance bounds how far a typo may be from a real month name
// before we stop offering it as a suggestion.
const maxSuggestDistance = 2

// Spec describes one calendar month
type Spec struct {
	Name   string `json:"name"`
	Number int    `json:"number"`
	Days   int    `json:"days"`
}

// February is always 28 days; leap years are not modelled.
var table = [12]Spec{
	{Name: "January", Number: 1, Days: 31},
	{Name: "February", Number: 2, Days: 28},
	{Name: "March", Number: 3, Days: 31},
	{Name: "April", Number: 4, Days: 30},
	{Name: "May", Number: 5, Days: 31},
	{Name: "June", Number: 6, Days: 30},
	{Name: "July", Number: 7, Days: 31},
	{Name: "August", Number: 8, Days: 31},
	{Name: "September", Number: 9, Days: 30},
	{Name: "October", Number: 10, Days: 31},
	{Name: "November", Number: 11, Days: 30},
	{Name: "December", Number: 12, Days: 31},
}

// All returns the month table ordered January to December
func All() []Spec {
	out := make([]Spec, len(table))
	copy(out, table[:])
	return out
}

// Lookup finds a month by its English name, ignoring case and surrounding space
func Lookup(name string) (Spec, error) {
	needle := strings.TrimSpace(name)
	for _, m := range table {
		if strings.EqualFold(m.Name, needle) {
			return m, nil
		}
	}
	if s, ok := suggest(needle); ok {
		return Spec{}, fmt.Errorf("%w: %q (did you mean %s?)", ErrInvalidMonth, name, s)
	}
	return Spec{}, fmt.Errorf("%w: %q", ErrInvalidMonth, name)
}

// ByNumber finds a month by its number, 1 for January
func ByNumber(n int) (Spec, error) {
	if n < 1 || n > len(table) {
		return Spec{}, fmt.Errorf("%w: %d is outside 1..12", ErrInvalidMonth, n)
	}
	return table[n-1], nil
}

// Parse accepts either a month number or a month name
func Parse(s string) (Spec, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return ByNumber(n)
	}
	return Lookup(s)
}

func suggest(input string) (string, bool) {
	if input == "" {
		return "", false
	}
	lower := strings.ToLower(input)
	best, bestDist := "", maxSuggestDistance+1
	for _, m := range table {
		d := levenshtein.ComputeDistance(lower, strings.ToLower(m.Name))
		if d < bestDist {
			best, bestDist = m.Name, d
		}
	}
	return best, best != ""
}
