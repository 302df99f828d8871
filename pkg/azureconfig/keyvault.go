/*
Copyright 2025 The Merge Warden Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package azureconfig acquires installation secrets from Azure Key Vault
// and caches repository configuration fetches behind an in-process LRU
// tier and a shared Redis tier, following the service-principal
// authentication idiom the teacher uses for its own ARM clients.
package azureconfig

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/services/keyvault/v7.1/keyvault"
	"github.com/Azure/go-autorest/autorest"
	"github.com/Azure/go-autorest/autorest/adal"
	"github.com/sirupsen/logrus"
)

// SecretClient retrieves named secrets from one Key Vault, authenticated
// as a service principal the same way the teacher's own Azure ARM clients
// authenticate.
type SecretClient struct {
	vaultBaseURL string
	client       keyvault.BaseClient
	log          logrus.FieldLogger
}

// NewSecretClient builds a SecretClient authorized against the Key Vault
// resource (azureKeyVaultResource) with the client-credential flow.
func NewSecretClient(ctx context.Context, vaultBaseURL, tenantID, clientID, clientSecret string, log logrus.FieldLogger) (*SecretClient, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	oauthConfig, err := adal.NewOAuthConfig(azureActiveDirectoryEndpoint, tenantID)
	if err != nil {
		return nil, fmt.Errorf("building oauth config: %w", err)
	}

	spt, err := adal.NewServicePrincipalToken(*oauthConfig, clientID, clientSecret, azureKeyVaultResource)
	if err != nil {
		return nil, fmt.Errorf("acquiring service principal token: %w", err)
	}

	client := keyvault.New()
	client.Authorizer = autorest.NewBearerAuthorizer(spt)

	return &SecretClient{vaultBaseURL: vaultBaseURL, client: client, log: log}, nil
}

const (
	azureActiveDirectoryEndpoint = "https://login.microsoftonline.com/"
	azureKeyVaultResource        = "https://vault.azure.net"
)

// GetSecret fetches the current version of a named secret, e.g. the
// installation's webhook signing secret or its GitHub App private key.
func (c *SecretClient) GetSecret(ctx context.Context, name string) (string, error) {
	bundle, err := c.client.GetSecret(ctx, c.vaultBaseURL, name, "")
	if err != nil {
		return "", fmt.Errorf("fetching secret %q: %w", name, err)
	}
	if bundle.Value == nil {
		return "", fmt.Errorf("secret %q has no value", name)
	}
	return *bundle.Value, nil
}
