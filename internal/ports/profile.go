package ports

import "context"

// Profile holds the attunement data collected during onboarding.
type Profile struct {
	UserID     int64
	BirthYear  int
	BirthMonth int
	BirthDay   int
	Location   string
}

// Complete reports whether every onboarding field has been collected.
func (p Profile) Complete() bool {
	return p.BirthYear != 0 && p.BirthMonth != 0 && p.BirthDay != 0 && p.Location != ""
}

// ProfileStore persists user profiles.
type ProfileStore interface {
	Get(ctx context.Context, userID int64) (Profile, bool, error)
	Put(ctx context.Context, profile Profile) error
}
