package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedDemoData resets the database and populates it with demo users,
// settings, photos, reactions and blocks.
//
// Behavior:
//  1. Clears every table owned by this service.
//  2. Creates 24 users (12 male, 12 female) spread around Berlin, with
//     hashed passwords, search settings and gender preferences.
//  3. Gives every third user an active entitlement; two of those hide
//     their age or distance.
//  4. Generates reactions with ~70% likes and a sprinkle of superlikes,
//     plus a handful of phone blocks.
func SeedDemoData(database *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	tables := []string{
		"reactions", "blocked_contacts", "photos", "user_interests",
		"gender_preferences", "like_gender_preferences", "like_settings",
		"search_settings", "interests", "users",
	}
	for _, table := range tables {
		if err := database.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	log.Println("Cleared existing data")

	// --- Interests ---
	interestNames := []string{"hiking", "music", "food", "travel", "gaming", "yoga"}
	interests := make([]Interest, 0, len(interestNames))
	for _, name := range interestNames {
		interests = append(interests, Interest{Name: name})
	}
	if err := database.Create(&interests).Error; err != nil {
		return fmt.Errorf("failed to seed interests: %w", err)
	}

	// --- Users around Berlin ---
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	baseLat, baseLng := 52.5200, 13.4050
	users := make([]User, 0, 24)
	for i := 1; i <= 24; i++ {
		gender := "male"
		if i > 12 {
			gender = "female"
		}

		lat := baseLat + (r.Float64()-0.5)*0.8
		lng := baseLng + (r.Float64()-0.5)*0.8

		user := User{
			Name:             fmt.Sprintf("user%d", i),
			Email:            fmt.Sprintf("user%d@example.com", i),
			Phone:            fmt.Sprintf("+49170%07d", i),
			PasswordHash:     string(hash),
			Gender:           gender,
			Age:              20 + r.Intn(25),
			Bio:              "Hey there, let's grab a coffee.",
			Latitude:         &lat,
			Longitude:        &lng,
			Online:           r.Intn(100) < 30,
			LastActiveAt:     time.Now().Add(-time.Duration(r.Intn(500)) * time.Hour),
			RegistrationDone: true,
			Active:           true,
			Verification:     VerificationNone,
		}
		if r.Intn(100) < 40 {
			user.Verification = VerificationApproved
		}
		if i%3 == 0 {
			until := time.Now().Add(30 * 24 * time.Hour)
			user.PremiumTier = 1 + r.Intn(2)
			user.PremiumUntil = &until
		}
		users = append(users, user)
	}
	if err := database.Create(&users).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	log.Printf("Seeded %d users.", len(users))

	for i := range users {
		u := &users[i]

		settings := SearchSettings{
			UserID:          u.ID,
			RadiusKm:        30 + float64(r.Intn(70)),
			AgeMin:          18,
			AgeMax:          45,
			GlobalSearch:    r.Intn(100) < 10,
			ShowAge:         true,
			ShowDistance:    true,
			ShowGender:      true,
			ShowOrientation: true,
		}
		// a couple of premium users hide age or distance
		if u.PremiumTier > 0 && i%6 == 0 {
			settings.ShowAge = false
		}
		if u.PremiumTier > 0 && i%9 == 0 {
			settings.ShowDistance = false
		}
		if err := database.Create(&settings).Error; err != nil {
			return fmt.Errorf("failed to seed settings: %w", err)
		}

		preferred := "female"
		if u.Gender == "female" {
			preferred = "male"
		}
		if err := database.Create(&GenderPreference{UserID: u.ID, Gender: preferred}).Error; err != nil {
			return fmt.Errorf("failed to seed preference: %w", err)
		}

		for p := 0; p < 1+r.Intn(3); p++ {
			photo := Photo{
				UserID:   u.ID,
				URL:      fmt.Sprintf("https://cdn.example.com/u/%d/%d.jpg", u.ID, p),
				Position: p,
				IsMain:   p == 0,
			}
			if err := database.Create(&photo).Error; err != nil {
				return fmt.Errorf("failed to seed photo: %w", err)
			}
		}

		for _, interest := range interests {
			if r.Intn(100) < 30 {
				database.Create(&UserInterest{UserID: u.ID, InterestID: interest.ID})
			}
		}
	}

	// --- Reactions (~70% likes, some superlikes) ---
	for i := range users {
		actor := &users[i]
		for j := 0; j < 8; j++ {
			target := &users[r.Intn(len(users))]
			if target.ID == actor.ID || target.Gender == actor.Gender {
				continue
			}

			rtype := ReactionDislike
			switch n := r.Intn(100); {
			case n < 60:
				rtype = ReactionLike
			case n < 70:
				rtype = ReactionSuperlike
			}

			reaction := Reaction{
				ReactorID: actor.ID,
				UserID:    target.ID,
				Type:      rtype,
			}
			if err := database.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "reactor_id"}, {Name: "user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"type", "updated_at"}),
			}).Create(&reaction).Error; err != nil {
				return fmt.Errorf("failed to seed reaction: %w", err)
			}
		}
	}

	// --- A few phone blocks ---
	for i := 0; i < 5; i++ {
		blocker := users[r.Intn(len(users))]
		blocked := users[r.Intn(len(users))]
		if blocker.ID == blocked.ID {
			continue
		}
		database.Create(&BlockedContact{UserID: blocker.ID, Phone: blocked.Phone})
	}

	return nil
}
