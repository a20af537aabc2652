package orgrepofakes

import (
	"context"
	"sync"

	"github.com/google/uuid"

	internalerrors "github.com/permithq/tenantgate/internal/errors"
	"github.com/permithq/tenantgate/orgs"
)

var _ orgs.Repo = (*FakeOrgRepo)(nil)

type FakeOrgRepo struct {
	orgs map[string]*orgs.OrgAuthConfig
	lock sync.RWMutex
}

func NewFakeOrgRepo() *FakeOrgRepo {
	return &FakeOrgRepo{
		orgs: make(map[string]*orgs.OrgAuthConfig),
	}
}

func (or *FakeOrgRepo) Upsert(_ context.Context, org *orgs.OrgAuthConfig) error {
	or.lock.Lock()
	defer or.lock.Unlock()
	if org.OrgID == "" {
		org.OrgID = uuid.New().String()
	}
	org.ApplyDefaults()
	or.orgs[org.OrgID] = org
	return nil
}

func (or *FakeOrgRepo) Get(_ context.Context, orgID string) (*orgs.OrgAuthConfig, error) {
	or.lock.RLock()
	defer or.lock.RUnlock()
	org, ok := or.orgs[orgID]
	if !ok || !org.Active {
		return nil, internalerrors.ErrNotFound
	}
	return org, nil
}

func (or *FakeOrgRepo) GetBySubdomain(_ context.Context, subdomain string) (*orgs.OrgAuthConfig, error) {
	or.lock.RLock()
	defer or.lock.RUnlock()
	for _, org := range or.orgs {
		if org.Subdomain == subdomain && org.Active {
			return org, nil
		}
	}
	return nil, internalerrors.ErrNotFound
}
