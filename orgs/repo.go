package orgs

import "context"

type Repo interface {
	Upsert(ctx context.Context, org *OrgAuthConfig) error
	Get(ctx context.Context, orgID string) (*OrgAuthConfig, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*OrgAuthConfig, error)
}
