package authclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	ory "github.com/ory/client-go"

	"equipchain-web/logging"
)

const (
	traitEmail        = "email"
	traitOrganization = "organization_id"
)

// KratosClient implements Authenticator with Ory Kratos native (API) flows.
// The Kratos session token is the credential token.
type KratosClient struct {
	api *ory.APIClient
	log logging.Logger
}

var _ Authenticator = (*KratosClient)(nil)

// NewKratosClient points the Ory SDK at the Kratos public API.
func NewKratosClient(publicURL string, httpClient *http.Client, log logging.Logger) *KratosClient {
	conf := ory.NewConfiguration()
	conf.Servers = ory.ServerConfigurations{
		{
			URL: publicURL,
		},
	}
	if httpClient != nil {
		conf.HTTPClient = httpClient
	}

	return &KratosClient{
		api: ory.NewAPIClient(conf),
		log: log.With("component", "authclient.kratos"),
	}
}

// Login runs a native login flow. When the identity carries an
// organization_id trait it must match the submitted one.
func (k *KratosClient) Login(ctx context.Context, c Credentials) (Result, error) {
	flow, _, err := k.api.FrontendAPI.CreateNativeLoginFlow(ctx).Execute()
	if err != nil {
		return Result{}, k.classify(ctx, "create login flow", err)
	}

	updateBody := ory.UpdateLoginFlowWithPasswordMethod{
		Method:     "password",
		Identifier: c.Email,
		Password:   c.Password,
	}
	result, _, err := k.api.FrontendAPI.UpdateLoginFlow(ctx).
		Flow(flow.Id).
		UpdateLoginFlowBody(ory.UpdateLoginFlowWithPasswordMethodAsUpdateLoginFlowBody(&updateBody)).
		Execute()
	if err != nil {
		return Result{}, k.classify(ctx, "update login flow", err)
	}

	token := result.GetSessionToken()
	if token == "" {
		return Result{}, fmt.Errorf("%w: no session token", ErrMalformedResponse)
	}

	traits := traitsOf(result.Session.GetIdentity())
	if org := traits[traitOrganization]; org != "" && c.OrganizationID != "" && org != c.OrganizationID {
		return Result{}, fmt.Errorf("%w: organization mismatch", ErrRejected)
	}

	return Result{Token: token, Email: firstNonEmpty(traits[traitEmail], c.Email)}, nil
}

// Register runs a native registration flow with email and organization_id
// traits. Kratos must be configured to issue a session after registration.
func (k *KratosClient) Register(ctx context.Context, c Credentials) (Result, error) {
	flow, _, err := k.api.FrontendAPI.CreateNativeRegistrationFlow(ctx).Execute()
	if err != nil {
		return Result{}, k.classify(ctx, "create registration flow", err)
	}

	updateBody := ory.UpdateRegistrationFlowWithPasswordMethod{
		Method:   "password",
		Password: c.Password,
		Traits: map[string]interface{}{
			traitEmail:        c.Email,
			traitOrganization: c.OrganizationID,
		},
	}
	result, _, err := k.api.FrontendAPI.UpdateRegistrationFlow(ctx).
		Flow(flow.Id).
		UpdateRegistrationFlowBody(ory.UpdateRegistrationFlowWithPasswordMethodAsUpdateRegistrationFlowBody(&updateBody)).
		Execute()
	if err != nil {
		return Result{}, k.classify(ctx, "update registration flow", err)
	}

	token := result.GetSessionToken()
	if token == "" {
		return Result{}, fmt.Errorf("%w: no session token", ErrMalformedResponse)
	}

	traits := traitsOf(result.GetIdentity())
	return Result{Token: token, Email: firstNonEmpty(traits[traitEmail], c.Email)}, nil
}

// Resume asks Kratos whether the session token is still active.
func (k *KratosClient) Resume(ctx context.Context, token string) (Identity, error) {
	session, _, err := k.api.FrontendAPI.ToSession(ctx).XSessionToken(token).Execute()
	if err != nil {
		err = k.classify(ctx, "to session", err)
		if errors.Is(err, ErrRejected) {
			return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
		}
		return Identity{}, err
	}
	if !session.GetActive() {
		return Identity{}, ErrTokenExpired
	}

	traits := traitsOf(session.GetIdentity())
	return Identity{
		Email:          traits[traitEmail],
		OrganizationID: traits[traitOrganization],
		ExpiresAt:      session.GetExpiresAt(),
	}, nil
}

// classify maps SDK errors: an API answer is ErrRejected, anything else
// (network, decoding of a transport failure) is ErrUnavailable.
func (k *KratosClient) classify(ctx context.Context, op string, err error) error {
	var apiErr *ory.GenericOpenAPIError
	if errors.As(err, &apiErr) {
		k.log.Info(ctx, "kratos rejected request", "op", op, "error", apiErr.Error())
		return fmt.Errorf("%s: %w: %w", op, ErrRejected, err)
	}
	k.log.Warn(ctx, "kratos unreachable", "op", op, "error", err)
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

func traitsOf(identity ory.Identity) map[string]string {
	out := map[string]string{}
	traits, ok := identity.Traits.(map[string]interface{})
	if !ok {
		return out
	}
	for _, key := range []string{traitEmail, traitOrganization} {
		if v, ok := traits[key].(string); ok {
			out[key] = v
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
