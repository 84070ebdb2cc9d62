package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"hotelstay/internal/domain"
)

type ManagerRepository struct {
	db *gorm.DB
}

func NewManagerRepository(db *gorm.DB) *ManagerRepository {
	return &ManagerRepository{db: db}
}

func (r *ManagerRepository) Create(ctx context.Context, mgr *domain.Manager) error {
	m := managerModel{
		Email:        strings.ToLower(strings.TrimSpace(mgr.Email)),
		PasswordHash: mgr.PasswordHash,
		Name:         mgr.Name,
		Role:         string(mgr.Role),
		IsActive:     mgr.IsActive,
		CreatedAt:    utc(mgr.CreatedAt),
		UpdatedAt:    utc(mgr.UpdatedAt),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err, "manager")
	}
	*mgr = *toDomainManager(m)
	return nil
}

func (r *ManagerRepository) GetByEmail(ctx context.Context, email string) (*domain.Manager, error) {
	var m managerModel
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m).Error
	if err != nil {
		return nil, translate(err, "manager")
	}
	return toDomainManager(m), nil
}

func (r *ManagerRepository) GetByID(ctx context.Context, id int64) (*domain.Manager, error) {
	var m managerModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err, "manager")
	}
	return toDomainManager(m), nil
}
