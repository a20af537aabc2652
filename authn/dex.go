package authn

// DexAppConfig is the process-wide Dex client registration shared by all
// organizations. Loaded once at startup and immutable afterwards.
type DexAppConfig struct {
	ClientID     string
	ClientSecret string
	IssuerURL    string
	AuthURL      string
	TokenURL     string
	RedirectURL  string
	Scopes       []string
}
