package server

import (
	"fmt"
	"net/http"

	"github.com/permithq/tenantgate/authn"
	"github.com/permithq/tenantgate/fga"
	"github.com/permithq/tenantgate/internal/config"
	"github.com/permithq/tenantgate/orgs"
	"github.com/permithq/tenantgate/sessions"
	"github.com/permithq/tenantgate/users"
)

// Repos holds the repository dependencies for the gateway.
type Repos struct {
	Orgs     orgs.Repo
	Users    users.UserRepo
	Sessions sessions.Repo
}

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config
	repos  Repos

	dex       authn.DexAppConfig
	builder   *authn.Builder
	exchanger *authn.Exchanger
	issuer    *sessions.Issuer
	fgaClient *fga.Client
}

func New(cfg config.Config, repos Repos, states authn.StateRepo, fgaClient *fga.Client, exchangerOptions ...authn.ExchangerOption) (*Server, error) {
	if repos.Orgs == nil {
		return nil, fmt.Errorf("[Server New] Orgs repo is required")
	}
	if states == nil {
		return nil, fmt.Errorf("[Server New] state repo is required")
	}

	builder, err := authn.NewBuilder(states)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create request builder: %w", err)
	}

	issuer, err := sessions.NewIssuer(repos.Users, repos.Sessions)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create session issuer: %w", err)
	}

	dex := authn.DexAppConfig{
		ClientID:     cfg.GetDexClientID(),
		ClientSecret: cfg.GetDexClientSecret(),
		IssuerURL:    cfg.GetDexIssuerURL(),
		AuthURL:      cfg.GetDexAuthURL(),
		TokenURL:     cfg.GetDexTokenURL(),
		RedirectURL:  cfg.GetDexRedirectURL(),
		Scopes:       cfg.GetDexScopes(),
	}

	s := &Server{
		mux:       http.NewServeMux(),
		config:    cfg,
		repos:     repos,
		dex:       dex,
		builder:   builder,
		exchanger: authn.NewExchanger(dex, exchangerOptions...),
		issuer:    issuer,
		fgaClient: fgaClient,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}
