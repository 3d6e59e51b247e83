package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFor_MindsDB(t *testing.T) {
	t.Run("missing credentials", func(t *testing.T) {
		cfg := Default()
		err := cfg.ValidateFor(IntegrationMindsDB)
		require.Error(t, err)

		var collection ConfigurationErrorCollection
		require.ErrorAs(t, err, &collection)
		keys := make([]string, 0, len(collection.Errors))
		for _, e := range collection.Errors {
			keys = append(keys, e.Key)
		}
		assert.ElementsMatch(t, []string{"MINDSDB_USERNAME", "MINDSDB_PASSWORD"}, keys)
	})

	t.Run("complete", func(t *testing.T) {
		cfg := Default()
		cfg.MindsDB.Username = "mindsdb"
		cfg.MindsDB.Password = "secret"
		assert.NoError(t, cfg.ValidateFor(IntegrationMindsDB))
	})

	t.Run("timeout shorter than interval", func(t *testing.T) {
		cfg := Default()
		cfg.MindsDB.Username = "mindsdb"
		cfg.MindsDB.Password = "secret"
		cfg.Discovery.Timeout = cfg.Discovery.Interval / 2
		assert.Error(t, cfg.ValidateFor(IntegrationMindsDB))
	})
}

func TestValidateFor_Atlassian(t *testing.T) {
	cfg := Default()
	err := cfg.ValidateFor(IntegrationAtlassian)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ATLASSIAN_OAUTH_CLIENT_ID")

	cfg.Atlassian.ClientID = "client"
	cfg.Atlassian.ClientSecret = "secret"
	assert.NoError(t, cfg.ValidateFor(IntegrationAtlassian))
}

func TestValidateFor_AsymmetricNeedsKeyPath(t *testing.T) {
	cfg := Default()
	cfg.Atlassian.ClientID = "client"
	cfg.Atlassian.ClientSecret = "secret"
	cfg.Token.Algorithm = "RS256"

	err := cfg.ValidateFor(IntegrationAtlassian)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_PRIVATE_KEY_PATH")
}

func TestValidateFor_UnknownIntegration(t *testing.T) {
	err := Default().ValidateFor(Integration("jira"))
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}
