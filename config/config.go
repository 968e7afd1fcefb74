package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every setting read from the environment.
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	DBType       string `envconfig:"DB_TYPE" default:"sqlite"`
	DBDSN        string `envconfig:"DB_DSN" default:"projects.db?_foreign_keys=on"`
	DBReplicaDSN string `envconfig:"DB_REPLICA_DSN"`

	SessionSecret         string `envconfig:"SESSION_SECRET"`
	SessionSecretSSMParam string `envconfig:"SESSION_SECRET_SSM_PARAM"`
	SecureCookies         bool   `envconfig:"SECURE_COOKIES" default:"false"`

	AdminEmail    string `envconfig:"ADMIN_EMAIL"`
	AdminName     string `envconfig:"ADMIN_NAME" default:"admin"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`

	AcceptedOrigins string `envconfig:"ACCEPTED_ORIGINS"`

	ReadTimeoutSeconds  int `envconfig:"READ_TIMEOUT_SECONDS" default:"180"`
	WriteTimeoutSeconds int `envconfig:"WRITE_TIMEOUT_SECONDS" default:"180"`
	IdleTimeoutSeconds  int `envconfig:"IDLE_TIMEOUT_SECONDS" default:"180"`

	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3PublicURL string `envconfig:"S3_PUBLIC_URL"`

	S3AccessKeyID     string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `envconfig:"S3_SECRET_ACCESS_KEY"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	GenerateModels       bool   `envconfig:"GENERATE_MODELS" default:"false"`
	GenerateColumnReport bool   `envconfig:"GENERATE_COLUMN_REPORT" default:"false"`
	GeneratedOutPath     string `envconfig:"GENERATED_OUT_PATH" default:"./generated"`
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	c.DBType = strings.ToLower(c.DBType)
	return &c, nil
}

// Origins splits ACCEPTED_ORIGINS on commas.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AcceptedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}

// UploadsEnabled reports whether an S3 bucket is configured.
func (c *Config) UploadsEnabled() bool {
	return c.S3Bucket != ""
}

// ParameterGetter is the subset of the SSM client used to resolve secrets.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// NewSSMClient builds an SSM client from the default AWS credential chain.
func NewSSMClient(ctx context.Context, region string) (*ssm.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return ssm.NewFromConfig(awsCfg), nil
}

// ResolveSecrets fills SessionSecret from SSM when SESSION_SECRET_SSM_PARAM is set
// and no literal secret was given.
func (c *Config) ResolveSecrets(ctx context.Context, client ParameterGetter) error {
	if c.SessionSecret != "" || c.SessionSecretSSMParam == "" {
		return nil
	}
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(c.SessionSecretSSMParam),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("reading ssm parameter %s: %w", c.SessionSecretSSMParam, err)
	}
	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		return fmt.Errorf("ssm parameter %s is empty", c.SessionSecretSSMParam)
	}
	c.SessionSecret = aws.ToString(out.Parameter.Value)
	return nil
}

// NeedsSSM reports whether ResolveSecrets has anything to fetch.
func (c *Config) NeedsSSM() bool {
	return c.SessionSecret == "" && c.SessionSecretSSMParam != ""
}
