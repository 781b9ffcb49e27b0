package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/heartlinkapp/discovery/internal/db"
	apperrors "github.com/heartlinkapp/discovery/internal/errors"
)

// ProfileRepository loads user rows for the engine: the viewer with
// everything that shapes their queries, and candidate profiles for
// hydration.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new repository bound to the given DB connection.
func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// GetViewer loads the requesting user with search settings, gender
// preferences and like settings attached.
func (r *ProfileRepository) GetViewer(ctx context.Context, id uint64) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).
		Preload("Settings").
		Preload("Preferences").
		Preload("LikeSettings").
		Preload("LikeSettings.Preferences").
		First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("viewer %d: %w", id, apperrors.ErrUserNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetProfiles loads full candidate rows for hydration. The result order
// is unspecified; callers restore the requested order by id.
func (r *ProfileRepository) GetProfiles(ctx context.Context, ids []uint64) ([]db.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []db.User
	err := r.db.WithContext(ctx).
		Preload("Settings").
		Preload("Photos", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("photos.is_main DESC, photos.position ASC, photos.id ASC")
		}).
		Where("users.id IN ?", ids).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// HasDeclaredInterest reports whether the user declared the interest on
// their own profile.
func (r *ProfileRepository) HasDeclaredInterest(ctx context.Context, userID, interestID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.UserInterest{}).
		Where("user_id = ? AND interest_id = ?", userID, interestID).
		Count(&count).Error
	return count > 0, err
}
