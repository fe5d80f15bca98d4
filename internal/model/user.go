// Package model defines the records the data layer reads and writes.
package model

import "time"

// User is one row of the users table.
//
// PasswordHash holds a bcrypt hash, never the plaintext. It is tagged out of
// JSON so a User can be handed to an API layer without leaking it.
type User struct {
	ID               int64     `json:"-"`
	Nickname         string    `json:"nickname"`
	PasswordHash     string    `json:"-"`
	RegistrationDate time.Time `json:"registrationDate"`
	LastLogin        time.Time `json:"lastLogin"`
	TimesViewed      int64     `json:"timesViewed"`
	UserType         bool      `json:"userType"` // true for administrators
}

// UserSummary is the listing view of a user.
type UserSummary struct {
	Nickname         string    `json:"nickname"`
	RegistrationDate time.Time `json:"registrationDate"`
	LastLogin        time.Time `json:"lastLogin"`
	TimesViewed      int64     `json:"timesViewed"`
}

// PublicProfile is the part of a profile anyone may see.
// Nickname and RegistrationDate are assigned by storage and ignored on
// writes. UserType is set once, by CreateUser; UpdateUser leaves it alone.
type PublicProfile struct {
	Nickname         string    `json:"nickname"`
	RegistrationDate time.Time `json:"registrationDate"`
	Signature        string    `json:"signature"`
	Avatar           string    `json:"avatar"`
	UserType         bool      `json:"userType"`
}

// RestrictedProfile is the part of a profile visible only to its owner.
type RestrictedProfile struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Website   string `json:"website"`
	Picture   string `json:"picture"`
	Mobile    string `json:"mobile"`
	Skype     string `json:"skype"`
	Age       int    `json:"age"`
	Residence string `json:"residence"`
	Gender    string `json:"gender"`
}

// Profile is a user joined with its users_profile row.
type Profile struct {
	Public     PublicProfile     `json:"public_profile"`
	Restricted RestrictedProfile `json:"restricted_profile"`
}
