package discover

// PhotoDTO is one profile photo in display order, main photo first.
type PhotoDTO struct {
	URL    string `json:"url"`
	IsMain bool   `json:"is_main"`
}

// ProfileDTO is the swipe-engine payload for one candidate. Age and
// Distance are omitted when the candidate's own visibility settings hide
// them.
type ProfileDTO struct {
	ID         uint64     `json:"id"`
	Name       string     `json:"name"`
	Bio        *string    `json:"bio,omitempty"`
	IsOnline   bool       `json:"is_online"`
	Age        *int       `json:"age,omitempty"`
	DistanceKm *float64   `json:"distance,omitempty"`
	IsVerified bool       `json:"is_verified"`
	Photos     []PhotoDTO `json:"photos"`
}
