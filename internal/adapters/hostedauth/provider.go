package hostedauth

// Package hostedauth authenticates admins against a hosted OIDC identity
// service using the resource-owner password grant, so the login form can
// keep collecting email/password while the identity service owns the
// account records.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	jmespath "github.com/jmespath-community/go-jmespath"
	"golang.org/x/oauth2"

	domainauth "github.com/brightsteps/brightsteps-web/internal/domain/auth"
)

// Provider implements the AuthProvider interface using OIDC/OAuth2.
type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client

	oidcProvider *gooidc.Provider

	emailExpr  jmespath.JMESPath
	nameExpr   jmespath.JMESPath
	groupsExpr jmespath.JMESPath

	sessionDuration time.Duration
}

// ProviderConfig holds configuration for the hosted auth provider.
// EmailClaim, NameClaim and GroupsClaim are JMESPath expressions evaluated
// against the userinfo claims, so deployments can adapt to whatever claim
// shapes their identity service emits without code changes.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	Scope        string
	DiscoveryURL string

	EmailClaim  string
	NameClaim   string
	GroupsClaim string

	SessionDuration time.Duration // default 1h when zero
	HTTPClient      *http.Client  // Optional, defaults to a 30s-timeout client
}

// NewProvider creates a new hosted auth provider.
func NewProvider(config ProviderConfig) (*Provider, error) {
	switch {
	case config.ClientID == "":
		return nil, errors.New("client ID is required")
	case config.ClientSecret == "":
		return nil, errors.New("client secret is required")
	case config.DiscoveryURL == "":
		return nil, errors.New("discovery URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	dur := config.SessionDuration
	if dur == 0 {
		dur = time.Hour
	}

	p := &Provider{
		httpClient:      httpClient,
		sessionDuration: dur,
	}

	var err error
	if p.emailExpr, err = compileClaimExpr("email claim", config.EmailClaim, "email"); err != nil {
		return nil, err
	}
	if p.nameExpr, err = compileClaimExpr("name claim", config.NameClaim, "name"); err != nil {
		return nil, err
	}
	if p.groupsExpr, err = compileClaimExpr("groups claim", config.GroupsClaim, "groups"); err != nil {
		return nil, err
	}

	// go-oidc wants the bare issuer, not the discovery document URL.
	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	issuer = strings.TrimSuffix(issuer, ".well-known/openid-configuration")

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	p.oidcProvider = op

	p.config = &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Scopes:       strings.Fields(config.Scope),
		Endpoint:     op.Endpoint(),
	}

	return p, nil
}

// SignIn exchanges the submitted credentials for a token via the password
// grant, then resolves the identity from the userinfo endpoint.
func (p *Provider) SignIn(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error) {
	if creds.Email == "" || creds.Password == "" {
		return domainauth.Identity{}, domainauth.ErrInvalidCredentials
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.PasswordCredentialsToken(ctx, creds.Email, creds.Password)
	if err != nil {
		if isRejectedGrant(err) {
			return domainauth.Identity{}, fmt.Errorf("password grant: %w", domainauth.ErrInvalidCredentials)
		}
		return domainauth.Identity{}, fmt.Errorf("password grant: %w", err)
	}

	claims, err := p.fetchUserInfoClaims(ctx, token)
	if err != nil {
		return domainauth.Identity{}, err
	}

	id, err := p.mapClaims(claims)
	if err != nil {
		return domainauth.Identity{}, err
	}

	id.ExpiresAt = time.Now().Add(p.sessionDuration)
	if !token.Expiry.IsZero() && token.Expiry.Before(id.ExpiresAt) {
		id.ExpiresAt = token.Expiry
	}

	return id, nil
}

func (p *Provider) fetchUserInfoClaims(ctx context.Context, token *oauth2.Token) (map[string]any, error) {
	ui, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	var claims map[string]any
	if claimsErr := ui.Claims(&claims); claimsErr != nil {
		return nil, fmt.Errorf("decode user info: %w", claimsErr)
	}
	if claims == nil {
		claims = map[string]any{}
	}
	if _, ok := claims["sub"]; !ok && ui.Subject != "" {
		claims["sub"] = ui.Subject
	}
	return claims, nil
}

// mapClaims evaluates the configured JMESPath expressions against the
// userinfo claims and builds the identity.
func (p *Provider) mapClaims(claims map[string]any) (domainauth.Identity, error) {
	var id domainauth.Identity

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return id, errors.New("userinfo missing sub claim")
	}
	id.UserID = sub

	email, err := evalStringExpr(p.emailExpr, claims)
	if err != nil {
		return id, fmt.Errorf("email claim: %w", err)
	}
	if email == "" {
		return id, errors.New("userinfo missing email claim")
	}
	id.Email = email

	if id.DisplayName, err = evalStringExpr(p.nameExpr, claims); err != nil {
		return id, fmt.Errorf("name claim: %w", err)
	}

	if id.Groups, err = evalGroupsExpr(p.groupsExpr, claims); err != nil {
		return id, fmt.Errorf("groups claim: %w", err)
	}

	return id, nil
}

func compileClaimExpr(what, expr, fallback string) (jmespath.JMESPath, error) {
	if expr == "" {
		expr = fallback
	}
	compiled, err := jmespath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile %s expression %q: %w", what, expr, err)
	}
	return compiled, nil
}

func evalStringExpr(expr jmespath.JMESPath, claims map[string]any) (string, error) {
	out, err := expr.Search(claims)
	if err != nil {
		return "", err
	}
	if out == nil {
		return "", nil
	}
	s, ok := out.(string)
	if !ok {
		return "", fmt.Errorf("expression produced %T, want string", out)
	}
	return s, nil
}

func evalGroupsExpr(expr jmespath.JMESPath, claims map[string]any) ([]string, error) {
	out, err := expr.Search(claims)
	if err != nil {
		return nil, err
	}
	switch v := out.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []any:
		groups := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("group element is %T, want string", item)
			}
			groups = append(groups, s)
		}
		return groups, nil
	default:
		return nil, fmt.Errorf("expression produced %T, want string list", out)
	}
}

// isRejectedGrant reports whether the token endpoint rejected the grant
// outright, as opposed to failing for transport or server reasons.
func isRejectedGrant(err error) bool {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) || re.Response == nil {
		return false
	}
	return re.Response.StatusCode == http.StatusBadRequest || re.Response.StatusCode == http.StatusUnauthorized
}
