package trip

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

//go:embed restaurants.json
var defaultRestaurants []byte

// Booking is one reserved dinner. Date is a "day.month" key.
type Booking struct {
	ID            string `json:"id"`
	Date          string `json:"date,omitempty"`
	Time          string `json:"time,omitempty"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	Cuisine       string `json:"cuisine"`
	Phone         string `json:"phone"`
	RestaurantURL string `json:"restaurantUrl"`
	Comment       string `json:"comment,omitempty"`
}

// Restaurants is the booking dataset served to the app.
type Restaurants struct {
	Bookings              []Booking `json:"bookings"`
	AdditionalRestaurants []Booking `json:"additionalRestaurants"`
}

// LoadRestaurants reads the dataset at path, or the embedded one when path is empty.
func LoadRestaurants(path string) (*Restaurants, error) {
	raw := defaultRestaurants
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading restaurants file %s: %w", path, err)
		}
		raw = b
	}

	var r Restaurants
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decoding restaurants: %w", err)
	}
	if r.Bookings == nil {
		r.Bookings = []Booking{}
	}
	if r.AdditionalRestaurants == nil {
		r.AdditionalRestaurants = []Booking{}
	}
	return &r, nil
}

// FindBooking returns the first booking whose date key matches today's day and month.
func FindBooking(today time.Time, bookings []Booking) (Booking, bool) {
	key := DayMonthKey(today)
	for _, b := range bookings {
		if b.Date == key {
			return b, true
		}
	}
	return Booking{}, false
}
