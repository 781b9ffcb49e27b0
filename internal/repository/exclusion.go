package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/heartlinkapp/discovery/internal/db"
)

// Exclusion scopes keep a candidate out of a viewer's results. Each is an
// independent negative-existence predicate over the users table so the
// planner can run them as anti semi-joins; none of them pulls an ID list
// into application memory.

// ExcludeMatched hides candidates that are already resolved into a match
// state with anyone: someone reacted to them without a dislike and got a
// non-dislike reaction back. Expressed as a correlated existence check
// rather than a join to avoid row multiplication.
func ExcludeMatched() func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(`
			NOT EXISTS (
				SELECT 1 FROM reactions a
				WHERE a.user_id = users.id
				  AND a.type <> ?
				  AND EXISTS (
					SELECT 1 FROM reactions b
					WHERE b.reactor_id = users.id
					  AND b.user_id = a.reactor_id
					  AND b.type <> ?
				  )
			)`, db.ReactionDislike, db.ReactionDislike)
	}
}

// ExcludeRecentlyReacted hides candidates the viewer reacted to after the
// given instant, regardless of the reaction's outcome. Dislikes count too:
// the point is to not re-offer a recently seen profile.
func ExcludeRecentlyReacted(viewerID uint64, since time.Time) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(`
			NOT EXISTS (
				SELECT 1 FROM reactions r
				WHERE r.reactor_id = ?
				  AND r.user_id = users.id
				  AND r.updated_at > ?
			)`, viewerID, since)
	}
}

// ExcludeBlocked hides candidates in both block directions: anyone whose
// phone the viewer blocked, and anyone who blocked the viewer's phone.
func ExcludeBlocked(viewerID uint64, viewerPhone string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.
			Where(`
				NOT EXISTS (
					SELECT 1 FROM blocked_contacts bc
					WHERE bc.user_id = ?
					  AND bc.phone = users.phone
				)`, viewerID).
			Where(`
				NOT EXISTS (
					SELECT 1 FROM blocked_contacts bc
					WHERE bc.phone = ?
					  AND bc.user_id = users.id
				)`, viewerPhone)
	}
}

// ExcludeBlockers hides only candidates who blocked the viewer's phone.
// The top profiles list applies this single direction for non-entitled
// viewers instead of the bidirectional rule above.
func ExcludeBlockers(viewerPhone string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(`
			NOT EXISTS (
				SELECT 1 FROM blocked_contacts bc
				WHERE bc.phone = ?
				  AND bc.user_id = users.id
			)`, viewerPhone)
	}
}

// ExcludeRecentExchange hides candidates who exchanged non-dislike
// reactions with the viewer after the given instant. Unlike
// ExcludeMatched this only looks at the viewer's own pair, and both
// legs must fall inside the recency window: a fresh reply to a
// long-stale like does not hide the profile.
func ExcludeRecentExchange(viewerID uint64, since time.Time) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(`
			NOT EXISTS (
				SELECT 1 FROM reactions a
				WHERE a.reactor_id = ?
				  AND a.user_id = users.id
				  AND a.type <> ?
				  AND a.updated_at > ?
				  AND EXISTS (
					SELECT 1 FROM reactions b
					WHERE b.reactor_id = users.id
					  AND b.user_id = ?
					  AND b.type <> ?
					  AND b.updated_at > ?
				  )
			)`, viewerID, db.ReactionDislike, since, viewerID, db.ReactionDislike, since)
	}
}
