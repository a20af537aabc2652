package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/permithq/tenantgate/authn"
	"github.com/permithq/tenantgate/orgs"
	"github.com/permithq/tenantgate/users"
)

// Issuer turns verified identity claims into a local user, a durable
// session and a signed cookie value.
type Issuer struct {
	users    users.UserRepo
	sessions Repo
	nowTime  func() time.Time
}

type IssuerOption func(*Issuer)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowTime = nowFunc
	}
}

func NewIssuer(userRepo users.UserRepo, sessionRepo Repo, options ...IssuerOption) (*Issuer, error) {
	if userRepo == nil {
		return nil, errors.New("[NewIssuer] user repo is required")
	}
	if sessionRepo == nil {
		return nil, errors.New("[NewIssuer] session repo is required")
	}
	i := &Issuer{
		users:    userRepo,
		sessions: sessionRepo,
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(i)
	}
	return i, nil
}

// IssueResult is what the callback handler needs to finish the login.
type IssueResult struct {
	User        *users.User
	Session     *UserSession
	CookieValue string
}

// IssueSession upserts the user from verified claims, creates the
// session record and produces the signed cookie value.
func (i *Issuer) IssueSession(ctx context.Context, org *orgs.OrgAuthConfig, claims *authn.IdentityClaims, tokens *authn.TokenSet, clientIP, userAgent string) (*IssueResult, error) {
	user, err := i.upsertUser(ctx, org, claims, tokens)
	if err != nil {
		return nil, err
	}

	now := i.nowTime()
	session := &UserSession{
		SessionID:      NewSessionID(),
		UserID:         user.UserID,
		OrgID:          org.OrgID,
		IPAddress:      clientIP,
		UserAgent:      userAgent,
		IsActive:       true,
		CreatedAt:      now,
		ExpiresAt:      now.Add(time.Duration(org.SessionConfig.MaxAgeSeconds) * time.Second),
		LastActivityAt: now,
	}
	if err := i.sessions.Create(ctx, session); err != nil {
		return nil, errors.Wrap(err, "[Issuer.IssueSession] create session")
	}

	return &IssueResult{
		User:        user,
		Session:     session,
		CookieValue: SignSessionID(session.SessionID, org.SessionConfig.CookieSigningSecret),
	}, nil
}

func (i *Issuer) upsertUser(ctx context.Context, org *orgs.OrgAuthConfig, claims *authn.IdentityClaims, tokens *authn.TokenSet) (*users.User, error) {
	// A login must not fail solely because the provider withheld an email
	email := claims.Email
	if email == "" {
		email = fmt.Sprintf("%s@unknown", claims.Subject)
	}

	tokenUpdate := users.TokenUpdate{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		IDToken:      tokens.RawIDToken,
	}
	if !tokens.Expiry.IsZero() {
		expiry := tokens.Expiry
		tokenUpdate.TokenExpiresAt = &expiry
	}

	existing, err := i.users.FindByProvider(ctx, org.OrgID, claims.Subject, org.DexConnectorID)
	if err != nil {
		return nil, errors.Wrap(err, "[Issuer.upsertUser] find user")
	}

	if existing != nil {
		if err := i.users.UpdateTokens(ctx, existing.UserID, tokenUpdate); err != nil {
			return nil, errors.Wrap(err, "[Issuer.upsertUser] update tokens")
		}
		// Refresh only the attributes present in the new claims
		if claims.Name != "" || claims.Picture != "" || claims.PreferredUsername != "" {
			update := users.ProfileUpdate{
				Name:        claims.Name,
				DisplayName: claims.PreferredUsername,
				Picture:     claims.Picture,
			}
			if err := i.users.UpdateProfile(ctx, existing.UserID, update); err != nil {
				return nil, errors.Wrap(err, "[Issuer.upsertUser] update profile")
			}
		}
		return i.users.FindByID(ctx, existing.UserID)
	}

	user := &users.User{
		UserID:         users.NewUserID(),
		Email:          email,
		Name:           claims.Name,
		DisplayName:    claims.PreferredUsername,
		Picture:        claims.Picture,
		AuthProvider:   org.DexConnectorID,
		ProviderUserID: claims.Subject,
		OrgID:          org.OrgID,
		AccessToken:    tokenUpdate.AccessToken,
		RefreshToken:   tokenUpdate.RefreshToken,
		IDToken:        tokenUpdate.IDToken,
		TokenExpiresAt: tokenUpdate.TokenExpiresAt,
	}
	if err := i.users.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "[Issuer.upsertUser] create user")
	}
	return user, nil
}

// ValidateSession is the read path used by every authenticated request:
// verify the cookie signature, load the session, then apply sliding
// expiration per the organization's policy.
func (i *Issuer) ValidateSession(ctx context.Context, org *orgs.OrgAuthConfig, cookieValue string) (*UserSession, error) {
	sessionID, err := VerifyCookieValue(cookieValue, org.SessionConfig.CookieSigningSecret)
	if err != nil {
		return nil, err
	}

	session, err := i.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := i.nowTime()
	if !session.IsActive || !now.Before(session.ExpiresAt) {
		return nil, SessionNotFoundErr
	}

	if org.SessionConfig.ExtensionEnabled && i.shouldExtend(session, org.SessionConfig.ExtensionThreshold) {
		newExpiry := now.Add(time.Duration(org.SessionConfig.MaxAgeSeconds) * time.Second)
		if err := i.sessions.ExtendExpiry(ctx, session.SessionID, newExpiry); err != nil {
			return nil, errors.Wrap(err, "[Issuer.ValidateSession] extend expiry")
		}
		session.ExpiresAt = newExpiry
		session.LastActivityAt = now
	} else if err := i.sessions.Touch(ctx, session.SessionID); err != nil {
		return nil, errors.Wrap(err, "[Issuer.ValidateSession] touch")
	}

	return session, nil
}

func (i *Issuer) shouldExtend(session *UserSession, threshold float64) bool {
	total := session.ExpiresAt.Sub(session.CreatedAt)
	if total <= 0 {
		return false
	}
	elapsed := i.nowTime().Sub(session.CreatedAt)
	return float64(elapsed)/float64(total) >= threshold
}
