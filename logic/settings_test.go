package logic

import (
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveSettingsWritesValues(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	l := NewSettingsLogic(envFile)

	require.NoError(t, l.Save(SettingsInput{
		AWSAccessKeyID:     "AKIAEXAMPLE",
		AWSSecretAccessKey: "secret123",
		AWSRegion:          "us-west-2",
	}))

	stored, err := godotenv.Read(envFile)
	require.NoError(t, err)
	assert.Equal(t, "AKIAEXAMPLE", stored["AWS_ACCESS_KEY_ID"])
	assert.Equal(t, "secret123", stored["AWS_SECRET_ACCESS_KEY"])
	assert.Equal(t, "us-west-2", stored["AWS_REGION"])
}

func TestSaveSettingsMaskedValueKeepsStored(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	l := NewSettingsLogic(envFile)

	require.NoError(t, l.Save(SettingsInput{
		AWSAccessKeyID:     "AKIAEXAMPLE",
		AWSSecretAccessKey: "secret123",
	}))

	// a masked submission means "unchanged"
	require.NoError(t, l.Save(SettingsInput{
		AWSAccessKeyID:     "••••••••",
		AWSSecretAccessKey: "newsecret",
	}))

	stored, err := godotenv.Read(envFile)
	require.NoError(t, err)
	assert.Equal(t, "AKIAEXAMPLE", stored["AWS_ACCESS_KEY_ID"])
	assert.Equal(t, "newsecret", stored["AWS_SECRET_ACCESS_KEY"])
}

func TestSaveSettingsAbsentKeysKeepPriorValues(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	l := NewSettingsLogic(envFile)

	require.NoError(t, l.Save(SettingsInput{
		TavilyAPIKey: "tvly-abc",
		AWSRegion:    "eu-central-1",
	}))
	require.NoError(t, l.Save(SettingsInput{
		AWSAccessKeyID: "AKIAEXAMPLE",
	}))

	stored, err := godotenv.Read(envFile)
	require.NoError(t, err)
	assert.Equal(t, "tvly-abc", stored["TAVILY_API_KEY"])
	assert.Equal(t, "eu-central-1", stored["AWS_REGION"])
	assert.Equal(t, "AKIAEXAMPLE", stored["AWS_ACCESS_KEY_ID"])
}

func TestSaveSettingsDefaultsRegion(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	l := NewSettingsLogic(envFile)

	require.NoError(t, l.Save(SettingsInput{}))

	stored, err := godotenv.Read(envFile)
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", stored["AWS_REGION"])
}

func TestReadSettingsMasksSecrets(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIAEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret123")
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("TAVILY_API_KEY", "")

	l := NewSettingsLogic(filepath.Join(t.TempDir(), ".env"))
	view := l.Read()

	assert.Equal(t, "••••••••", view.AWSAccessKeyID)
	assert.Equal(t, "••••••••", view.AWSSecretAccessKey)
	assert.Equal(t, "us-east-1", view.AWSRegion)
	assert.Empty(t, view.TavilyAPIKey)
	assert.True(t, view.HasAWSCredentials)
	assert.False(t, view.HasTavilyKey)
	assert.Equal(t, "environment", view.CredentialsSource)
}

func TestReadSettingsUnconfigured(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	t.Setenv("TAVILY_API_KEY", "")

	l := NewSettingsLogic(filepath.Join(t.TempDir(), ".env"))
	view := l.Read()

	assert.False(t, view.HasAWSCredentials)
	assert.Equal(t, "not-configured", view.CredentialsSource)
}
