package user

import "time"

// User is a registered account holder. Email is the natural key and matches
// exactly (case-sensitive); the store enforces its uniqueness.
type User struct {
	ID               string
	Name             string
	Email            string
	DateOfBirth      time.Time
	ResidenceCountry string
	PhoneCountryCode string
	PhoneNumber      string
	PhotoURL         string
	CreatedAt        time.Time
}
