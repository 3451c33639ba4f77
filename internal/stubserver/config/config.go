package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env    string
	Server server
	DB     db
	Blob   blob
	Auth   auth
	Period period
}

type server struct {
	RunAddress string
}

type db struct {
	Driver      string // sqlite or postgres
	DatabaseURI string
	Migrations  string
}

type blob struct {
	Store    string // local or s3
	LocalDir string
	S3       s3Config
}

type s3Config struct {
	Region    string
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
}

type auth struct {
	Secret   string
	TokenTTL time.Duration
	// Seed operator account, created on first start.
	AdminLogin    string
	AdminPassword string
}

// period bounds the accounting period open for expense entry. The server is
// authoritative; the admin client mirrors the same bounds in its rules.
type period struct {
	Start time.Time
	End   time.Time
}

func MustLoad() *Config {
	// Optional; absent in containerized runs where the environment is set
	// directly.
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("travelex")

	viper.SetDefault("app_env", EnvLocal)
	viper.SetDefault("run_address", "localhost:8080")
	viper.SetDefault("db_driver", "sqlite")
	viper.SetDefault("database_uri", "travelex.db")
	viper.SetDefault("migrations_path", "internal/stubserver/migrations/sqlite")
	viper.SetDefault("blob_store", "local")
	viper.SetDefault("blob_dir", "blobs")
	viper.SetDefault("s3_region", "us-east-1")
	viper.SetDefault("token_ttl", "12h")
	viper.SetDefault("admin_login", "admin")
	viper.SetDefault("admin_password", "admin")
	// Same default the admin client derives, so both ends validate against
	// one set of bounds unless configured otherwise.
	start, end := defaultPeriod(time.Now().UTC())
	viper.SetDefault("period_start", start)
	viper.SetDefault("period_end", end)

	return &Config{
		Env: viper.GetString("app_env"),
		Server: server{
			RunAddress: viper.GetString("run_address"),
		},
		DB: db{
			Driver:      viper.GetString("db_driver"),
			DatabaseURI: viper.GetString("database_uri"),
			Migrations:  viper.GetString("migrations_path"),
		},
		Blob: blob{
			Store:    viper.GetString("blob_store"),
			LocalDir: viper.GetString("blob_dir"),
			S3: s3Config{
				Region:    viper.GetString("s3_region"),
				Endpoint:  viper.GetString("s3_endpoint"),
				Bucket:    viper.GetString("s3_bucket"),
				AccessKey: viper.GetString("s3_access_key"),
				SecretKey: viper.GetString("s3_secret_key"),
			},
		},
		Auth: auth{
			Secret:        mustSecret(),
			TokenTTL:      viper.GetDuration("token_ttl"),
			AdminLogin:    viper.GetString("admin_login"),
			AdminPassword: viper.GetString("admin_password"),
		},
		Period: period{
			Start: mustDate(viper.GetString("period_start")),
			End:   mustDate(viper.GetString("period_end")),
		},
	}
}

// defaultPeriod is the calendar year of now.
func defaultPeriod(now time.Time) (string, string) {
	return fmt.Sprintf("%d-01-01", now.Year()), fmt.Sprintf("%d-12-31", now.Year())
}

func mustSecret() string {
	if s := viper.GetString("auth_secret"); s != "" {
		return s
	}
	// Dev default. Production deployments set TRAVELEX_AUTH_SECRET.
	return "travelex-dev-secret"
}

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic("invalid period date: " + s)
	}
	return t
}
