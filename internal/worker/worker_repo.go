package worker

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=worker_repo.go -destination=mock/worker_repo_mock.go -package=mock
type Repository interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Worker, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Worker, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []Worker
	err := r.db.WithContext(ctx).
		Select("id", "name", "hourly_rate").
		Where("id IN ?", ids).
		Find(&rows).Error
	return rows, err
}
