package db

import (
	"time"
)

// Verification states of a profile.
const (
	VerificationNone     = "none"
	VerificationPending  = "pending"
	VerificationApproved = "approved"
)

// Reaction types.
const (
	ReactionLike      = "like"
	ReactionSuperlike = "superlike"
	ReactionDislike   = "dislike"
)

// User table. Phone doubles as the blocking key: blocked_contacts rows
// reference phone numbers, not user ids, so blocks survive re-registration.
type User struct {
	ID               uint64 `gorm:"primaryKey;autoIncrement"`
	Name             string `gorm:"size:64;not null"`
	Email            string `gorm:"uniqueIndex;size:128;not null"`
	Phone            string `gorm:"uniqueIndex;size:32;not null"`
	PasswordHash     string `gorm:"size:255;not null"`
	Gender           string `gorm:"size:16;not null;index"`
	Age              int    `gorm:"not null;index"`
	Bio              string `gorm:"size:1024"`
	Latitude         *float64 `gorm:"index:idx_users_location"`
	Longitude        *float64 `gorm:"index:idx_users_location"`
	Online           bool   `gorm:"default:false"`
	LastActiveAt     time.Time
	RegistrationDone bool `gorm:"default:false"`
	Active           bool
	Verification     string `gorm:"size:16;default:none"`
	PremiumTier      int    `gorm:"default:0"`
	PremiumUntil     *time.Time
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`

	Settings     *SearchSettings    `gorm:"foreignKey:UserID"`
	LikeSettings *LikeSettings      `gorm:"foreignKey:UserID"`
	Photos       []Photo            `gorm:"foreignKey:UserID"`
	Preferences  []GenderPreference `gorm:"foreignKey:UserID"`
}

// Entitled reports whether the user holds an active paid entitlement.
func (u *User) Entitled(now time.Time) bool {
	return u.PremiumTier > 0 && u.PremiumUntil != nil && u.PremiumUntil.After(now)
}

// HasLocation reports whether both coordinates are present.
func (u *User) HasLocation() bool {
	return u.Latitude != nil && u.Longitude != nil
}

// SearchSettings is the per-user discovery configuration, one row per
// user. The visibility toggles carry no gorm default tag: with one, gorm
// drops the zero value from the INSERT and an explicit false would come
// back as true. Defaults live in application code instead.
type SearchSettings struct {
	UserID          uint64 `gorm:"primaryKey"`
	RadiusKm        float64 `gorm:"default:100"`
	AgeMin          int     `gorm:"default:18"`
	AgeMax          int     `gorm:"default:99"`
	GlobalSearch    bool    `gorm:"default:false"`
	ShowAge         bool
	ShowDistance    bool
	ShowGender      bool
	ShowOrientation bool
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

// GenderPreference is one declared preferred gender of a user.
type GenderPreference struct {
	UserID uint64 `gorm:"primaryKey;autoIncrement:false"`
	Gender string `gorm:"primaryKey;size:16"`
}

// Interest is a catalog entry users can declare on their profile.
type Interest struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"uniqueIndex;size:64;not null"`
}

// UserInterest links users to declared interests.
type UserInterest struct {
	UserID     uint64 `gorm:"primaryKey;autoIncrement:false"`
	InterestID uint64 `gorm:"primaryKey;autoIncrement:false;index"`
}

// Photo is one profile photo. Exactly one per user carries IsMain.
type Photo struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	UserID   uint64 `gorm:"not null;index"`
	URL      string `gorm:"size:512;not null"`
	Position int    `gorm:"default:0"`
	IsMain   bool   `gorm:"default:false"`
}

// Reaction represents a reactor's swipe on another user.
//
// Composite PK: (ReactorID, UserID)
//   - Ensures a single row per directed pair; a new reaction supersedes
//     the previous one (overwrite guarantee).
//
// Indexes:
//   - idx_user_type_updated(user_id, type, updated_at DESC)
//     Optimizes "who liked me" and popularity counting.
//   - the composite PK covers reactor-side lookups (cooldown, match checks).
//
// A match is the derived fact that both directions exist with type other
// than dislike; it is never stored separately.
type Reaction struct {
	ReactorID uint64    `gorm:"primaryKey;autoIncrement:false"`
	UserID    uint64    `gorm:"primaryKey;autoIncrement:false;index:idx_user_type_updated,priority:1"`
	Type      string    `gorm:"size:16;not null;index:idx_user_type_updated,priority:2"`
	Superboom bool      `gorm:"default:false"`
	FromTop   bool      `gorm:"default:false"`
	FromReels bool      `gorm:"default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index:idx_user_type_updated,priority:3,sort:desc"`
}

// BlockedContact is a directed block keyed by phone number: the owner
// blocks every account registered under Phone, in either direction of
// the relationship checks.
type BlockedContact struct {
	UserID    uint64    `gorm:"primaryKey;autoIncrement:false"`
	Phone     string    `gorm:"primaryKey;size:32;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// LikeSettings is the premium advanced filter for the likes inbox. All
// override fields are optional; nil means "inherit from search settings".
type LikeSettings struct {
	UserID       uint64   `gorm:"primaryKey"`
	RadiusKm     *float64 `validate:"omitempty,gt=0"`
	AgeMin       *int     `validate:"omitempty,gte=18"`
	AgeMax       *int     `validate:"omitempty,lte=120"`
	VerifiedOnly bool     `gorm:"default:false"`
	WithBioOnly  bool     `gorm:"default:false"`
	MinPhotos    int      `gorm:"default:0" validate:"gte=0,lte=9"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`

	Preferences []LikeGenderPreference `gorm:"foreignKey:UserID"`
}

// LikeGenderPreference overrides the declared gender preferences for the
// advanced likes filter only.
type LikeGenderPreference struct {
	UserID uint64 `gorm:"primaryKey;autoIncrement:false"`
	Gender string `gorm:"primaryKey;size:16"`
}
