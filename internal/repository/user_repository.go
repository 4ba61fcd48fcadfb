package repository

import (
	"context"
	"errors"

	"tasktracker/internal/model"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return ErrDuplicateUsername
	}
	return err
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindSummaries loads the id/username projection of every listed user in one query.
// Unknown ids are skipped.
func (r *UserRepository) FindSummaries(ctx context.Context, ids []uuid.UUID) ([]model.UserSummary, error) {
	summaries := []model.UserSummary{}
	if len(ids) == 0 {
		return summaries, nil
	}
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Select("id", "username").
		Where("id IN ?", ids).
		Find(&summaries).Error
	return summaries, err
}

// ListSummaries pages through non-admin users, optionally filtered by a
// case-insensitive username substring.
func (r *UserRepository) ListSummaries(ctx context.Context, page model.Page, search string) ([]model.UserSummary, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&model.User{}).Where("role <> ?", model.RoleAdmin)
		if search != "" {
			db = db.Where("username ILIKE ?", containsPattern(search))
		}
		return db
	}

	var (
		summaries = []model.UserSummary{}
		total     int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).Scopes(scope).
			Select("id", "username").
			Order("created_at ASC").Order("id ASC").
			Offset(page.Offset()).Limit(page.Limit).
			Find(&summaries).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Scopes(scope).Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return summaries, total, nil
}
