package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoad_RequiresCRMKey(t *testing.T) {
	resetViper(t)
	t.Setenv("ZOHO_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ZOHO_API_KEY")
}

func TestLoad_Defaults(t *testing.T) {
	resetViper(t)
	t.Setenv("ZOHO_API_KEY", "test-key")
	t.Setenv("DB_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "test-key", cfg.CRM.APIKey)
	assert.Equal(t, defaultZohoAPIURL, cfg.CRM.APIURL)
	assert.Equal(t, 30*time.Second, cfg.CRM.Timeout)
	assert.Equal(t, SuccessModeStrict, cfg.CRM.SuccessMode)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.Database.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	resetViper(t)
	t.Setenv("ZOHO_API_KEY", "test-key")
	t.Setenv("CRM_TIMEOUT", "5s")
	t.Setenv("CRM_SUCCESS_MODE", "PERMISSIVE")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("DB_HOST", "db.internal")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.CRM.Timeout)
	assert.Equal(t, SuccessModePermissive, cfg.CRM.SuccessMode)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.Database.Enabled())
}

func TestLoad_RejectsBadValues(t *testing.T) {
	resetViper(t)
	t.Setenv("ZOHO_API_KEY", "test-key")

	t.Setenv("CRM_SUCCESS_MODE", "lenient")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("CRM_SUCCESS_MODE", "")
	t.Setenv("CRM_TIMEOUT", "soon")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadClient(t *testing.T) {
	resetViper(t)
	t.Setenv("PREBOOK_API_URL", "")

	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3001", cfg.APIURL)

	t.Setenv("PREBOOK_API_URL", "https://book.example.com")
	cfg, err = LoadClient()
	require.NoError(t, err)
	assert.Equal(t, "https://book.example.com", cfg.APIURL)
}

func TestStore(t *testing.T) {
	s, ok := Store("store3")
	assert.True(t, ok)
	assert.Equal(t, "Unicorn Store – Store 3", s.Name)
	assert.Equal(t, "+91 98765 43212", s.Contact.Phone)

	s, ok = Store("nowhere")
	assert.False(t, ok)
	assert.Equal(t, DefaultStoreID, s.ID)
}
