package orggormrepo

import (
	"context"
	"errors"

	internalerrors "github.com/permithq/tenantgate/internal/errors"
	"github.com/permithq/tenantgate/orgs"
	"gorm.io/gorm"
)

var _ orgs.Repo = (*Repo)(nil)

type Repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Upsert(ctx context.Context, org *orgs.OrgAuthConfig) error {
	org.ApplyDefaults()
	if err := r.db.WithContext(ctx).Save(org).Error; err != nil {
		return internalerrors.Wrapf(internalerrors.ErrStorage, "[OrgRepo.Upsert] %v", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, orgID string) (*orgs.OrgAuthConfig, error) {
	var org orgs.OrgAuthConfig
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND active = ?", orgID, true).
		First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, internalerrors.ErrNotFound
	}
	if err != nil {
		return nil, internalerrors.Wrapf(internalerrors.ErrStorage, "[OrgRepo.Get] %v", err)
	}
	return &org, nil
}

func (r *Repo) GetBySubdomain(ctx context.Context, subdomain string) (*orgs.OrgAuthConfig, error) {
	var org orgs.OrgAuthConfig
	err := r.db.WithContext(ctx).
		Where("subdomain = ? AND active = ?", subdomain, true).
		First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, internalerrors.ErrNotFound
	}
	if err != nil {
		return nil, internalerrors.Wrapf(internalerrors.ErrStorage, "[OrgRepo.GetBySubdomain] %v", err)
	}
	return &org, nil
}
