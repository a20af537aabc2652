package orggormrepo_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	internalerrors "github.com/permithq/tenantgate/internal/errors"
	"github.com/permithq/tenantgate/orgs"
	orggormrepo "github.com/permithq/tenantgate/orgs/gormrepo"
)

func setupRepo(t *testing.T) *orggormrepo.Repo {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "gateway.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&orgs.OrgAuthConfig{}))
	return orggormrepo.New(db)
}

func testOrg() *orgs.OrgAuthConfig {
	return &orgs.OrgAuthConfig{
		OrgID:          "org-1",
		Subdomain:      "acme",
		DexConnectorID: "acme-oidc",
		SessionSecret:  "state-secret",
		Active:         true,
		AdditionalParams: map[string]string{
			"audience": "https://api.example.com",
		},
	}
}

func TestUpsertAndGet(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testOrg()))

	got, err := repo.Get(ctx, "org-1")
	require.NoError(t, err)
	require.Equal(t, "acme", got.Subdomain)
	require.Equal(t, "https://api.example.com", got.AdditionalParams["audience"])

	// Defaults were applied on the way in.
	require.Equal(t, "session_id", got.SessionConfig.CookieName)
}

func TestGetBySubdomain(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testOrg()))

	got, err := repo.GetBySubdomain(ctx, "acme")
	require.NoError(t, err)
	require.Equal(t, "org-1", got.OrgID)

	_, err = repo.GetBySubdomain(ctx, "ghost")
	require.ErrorIs(t, err, internalerrors.ErrNotFound)
}

func TestInactiveOrgHidden(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	org := testOrg()
	org.Active = false
	require.NoError(t, repo.Upsert(ctx, org))

	_, err := repo.Get(ctx, "org-1")
	require.ErrorIs(t, err, internalerrors.ErrNotFound)

	_, err = repo.GetBySubdomain(ctx, "acme")
	require.ErrorIs(t, err, internalerrors.ErrNotFound)
}

func TestUpsertUpdatesExisting(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testOrg()))

	updated := testOrg()
	updated.DexConnectorID = "acme-saml"
	require.NoError(t, repo.Upsert(ctx, updated))

	got, err := repo.Get(ctx, "org-1")
	require.NoError(t, err)
	require.Equal(t, "acme-saml", got.DexConnectorID)
}
