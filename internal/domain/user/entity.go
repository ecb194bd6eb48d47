package user

// User is a single user record. All four fields are mandatory on the wire.
type User struct {
	CreatedAt Timestamp // CreatedAt is the creation instant with its original UTC offset
	ID        string    // ID is an opaque identifier
	IsAdmin   bool      // IsAdmin marks administrative users
	Karma     int32     // Karma is the user's score
}

// Equal reports field-for-field equality, including the timestamp offset.
func (u User) Equal(other User) bool {
	return u.CreatedAt.Equal(other.CreatedAt) &&
		u.ID == other.ID &&
		u.IsAdmin == other.IsAdmin &&
		u.Karma == other.Karma
}
