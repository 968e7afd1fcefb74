package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSSM struct {
	value string
	err   error
	calls int
}

func (f *fakeSSM) GetParameter(ctx context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Name: in.Name, Value: aws.String(f.value)}}, nil
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_TYPE", "SQLite")
	t.Setenv("S3_BUCKET", "")
	t.Setenv("READ_TIMEOUT_SECONDS", "180")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, 180*time.Second, cfg.ReadTimeout())
	assert.False(t, cfg.UploadsEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("IDLE_TIMEOUT_SECONDS", "5")
	t.Setenv("S3_BUCKET", "files")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.IdleTimeout())
	assert.True(t, cfg.UploadsEnabled())
}

func TestOrigins(t *testing.T) {
	cfg := &Config{AcceptedOrigins: " https://a.example , ,https://b.example"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())
	assert.Empty(t, (&Config{}).Origins())
}

func TestResolveSecrets(t *testing.T) {
	t.Run("literal secret wins", func(t *testing.T) {
		client := &fakeSSM{value: "from-ssm"}
		cfg := &Config{SessionSecret: "literal", SessionSecretSSMParam: "/app/secret"}
		require.NoError(t, cfg.ResolveSecrets(context.Background(), client))
		assert.Equal(t, "literal", cfg.SessionSecret)
		assert.Zero(t, client.calls)
	})

	t.Run("fetched from ssm", func(t *testing.T) {
		client := &fakeSSM{value: "from-ssm"}
		cfg := &Config{SessionSecretSSMParam: "/app/secret"}
		assert.True(t, cfg.NeedsSSM())
		require.NoError(t, cfg.ResolveSecrets(context.Background(), client))
		assert.Equal(t, "from-ssm", cfg.SessionSecret)
	})

	t.Run("ssm failure", func(t *testing.T) {
		client := &fakeSSM{err: errors.New("denied")}
		cfg := &Config{SessionSecretSSMParam: "/app/secret"}
		err := cfg.ResolveSecrets(context.Background(), client)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "denied")
	})

	t.Run("empty value", func(t *testing.T) {
		cfg := &Config{SessionSecretSSMParam: "/app/secret"}
		assert.Error(t, cfg.ResolveSecrets(context.Background(), &fakeSSM{}))
	})
}
