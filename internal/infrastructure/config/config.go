package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Cookie    CookieConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Storage   StorageConfig
	Inventory InventoryConfig
	Checkout  CheckoutConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds Postgres connection and pool settings. Lifetime
// and idle time are in minutes.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds token signing and lifetime settings.
type JWTConfig struct {
	Secret                 string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
	RefreshSecret          string
	MaxRefreshCount        int
}

// CookieConfig shapes the refresh-token cookie.
type CookieConfig struct {
	Domain   string // empty means current domain
	Path     string
	Secure   bool   // must be true in production
	SameSite string // strict, lax, or none
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds server timeouts, rate limits, and CORS settings. Auth
// endpoints get their own tighter limiter to slow down credential
// stuffing.
type HTTPConfig struct {
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	IdleTimeout           time.Duration
	MaxHeaderBytes        int
	MaxBodySize           int64
	RateLimitEnabled      bool
	RateLimitRequests     int
	RateLimitWindow       time.Duration
	AuthRateLimitEnabled  bool
	AuthRateLimitRequests int
	AuthRateLimitWindow   time.Duration
	CORSAllowOrigins      []string
	CORSAllowMethods      []string
	CORSAllowHeaders      []string
	TrustedProxies        []string
}

// StorageConfig holds S3-compatible object storage settings for product
// and drop images.
type StorageConfig struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKey         string
	SecretKey         string
	UseSSL            bool
	UsePathStyle      bool
	PresignExpiration time.Duration
}

// InventoryConfig holds stock-related settings.
type InventoryConfig struct {
	// LowStockThreshold is the level at or below which a variant is
	// reported as low.
	LowStockThreshold int
}

// CheckoutConfig holds settings for checkout and sale submission.
type CheckoutConfig struct {
	// IdempotencyTTL is how long an Idempotency-Key stays reserved.
	IdempotencyTTL     time.Duration
	IdempotencyEnabled bool
}

// TelemetryConfig holds OpenTelemetry settings. DBLogFullSQL puts raw SQL
// in spans and is refused in production.
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	DBTraceEnabled    bool
	DBLogFullSQL      bool
	DBSlowQueryThresh time.Duration
}

// Load reads configuration in priority order: environment variables with
// the RETAIL_ prefix, then config.toml, then built-in defaults. A missing
// config file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("RETAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database:  loadDatabase(v),
		Redis:     loadRedis(v),
		JWT:       loadJWT(v),
		Cookie:    loadCookie(v),
		Log:       loadLog(v),
		HTTP:      loadHTTP(v),
		Storage:   loadStorage(v),
		Inventory: InventoryConfig{LowStockThreshold: v.GetInt("inventory.low_stock_threshold")},
		Checkout:  loadCheckout(v),
		Telemetry: loadTelemetry(v),
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDatabase(v *viper.Viper) DatabaseConfig {
	return DatabaseConfig{
		Host:            v.GetString("database.host"),
		Port:            v.GetInt("database.port"),
		User:            v.GetString("database.user"),
		Password:        v.GetString("database.password"),
		DBName:          v.GetString("database.dbname"),
		SSLMode:         v.GetString("database.sslmode"),
		MaxOpenConns:    v.GetInt("database.max_open_conns"),
		MaxIdleConns:    v.GetInt("database.max_idle_conns"),
		ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
		ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
	}
}

func loadRedis(v *viper.Viper) RedisConfig {
	return RedisConfig{
		Host:     v.GetString("redis.host"),
		Port:     v.GetInt("redis.port"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
}

func loadJWT(v *viper.Viper) JWTConfig {
	return JWTConfig{
		Secret:                 v.GetString("jwt.secret"),
		AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
		RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
		Issuer:                 v.GetString("jwt.issuer"),
		RefreshSecret:          v.GetString("jwt.refresh_secret"),
		MaxRefreshCount:        v.GetInt("jwt.max_refresh_count"),
	}
}

func loadCookie(v *viper.Viper) CookieConfig {
	return CookieConfig{
		Domain:   v.GetString("cookie.domain"),
		Path:     v.GetString("cookie.path"),
		Secure:   v.GetBool("cookie.secure"),
		SameSite: v.GetString("cookie.same_site"),
	}
}

func loadLog(v *viper.Viper) LogConfig {
	return LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
		Output: v.GetString("log.output"),
	}
}

func loadHTTP(v *viper.Viper) HTTPConfig {
	return HTTPConfig{
		ReadTimeout:           v.GetDuration("http.read_timeout"),
		WriteTimeout:          v.GetDuration("http.write_timeout"),
		IdleTimeout:           v.GetDuration("http.idle_timeout"),
		MaxHeaderBytes:        v.GetInt("http.max_header_bytes"),
		MaxBodySize:           v.GetInt64("http.max_body_size"),
		RateLimitEnabled:      v.GetBool("http.rate_limit_enabled"),
		RateLimitRequests:     v.GetInt("http.rate_limit_requests"),
		RateLimitWindow:       v.GetDuration("http.rate_limit_window"),
		AuthRateLimitEnabled:  v.GetBool("http.auth_rate_limit_enabled"),
		AuthRateLimitRequests: v.GetInt("http.auth_rate_limit_requests"),
		AuthRateLimitWindow:   v.GetDuration("http.auth_rate_limit_window"),
		CORSAllowOrigins:      v.GetStringSlice("http.cors_allow_origins"),
		CORSAllowMethods:      v.GetStringSlice("http.cors_allow_methods"),
		CORSAllowHeaders:      v.GetStringSlice("http.cors_allow_headers"),
		TrustedProxies:        v.GetStringSlice("http.trusted_proxies"),
	}
}

func loadStorage(v *viper.Viper) StorageConfig {
	return StorageConfig{
		Endpoint:          v.GetString("storage.endpoint"),
		Region:            v.GetString("storage.region"),
		Bucket:            v.GetString("storage.bucket"),
		AccessKey:         v.GetString("storage.access_key"),
		SecretKey:         v.GetString("storage.secret_key"),
		UseSSL:            v.GetBool("storage.use_ssl"),
		UsePathStyle:      v.GetBool("storage.use_path_style"),
		PresignExpiration: v.GetDuration("storage.presign_expiration"),
	}
}

func loadCheckout(v *viper.Viper) CheckoutConfig {
	return CheckoutConfig{
		IdempotencyTTL:     v.GetDuration("checkout.idempotency_ttl"),
		IdempotencyEnabled: v.GetBool("checkout.idempotency_enabled"),
	}
}

func loadTelemetry(v *viper.Viper) TelemetryConfig {
	return TelemetryConfig{
		Enabled:           v.GetBool("telemetry.enabled"),
		CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
		SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
		ServiceName:       v.GetString("telemetry.service_name"),
		Insecure:          v.GetBool("telemetry.insecure"),
		DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
		DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
		DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
	}
}

// fallback helpers treat the zero value as "not set". Setting an option
// explicitly to zero therefore falls back too; validation catches the
// cases where zero would be dangerous.
func fallbackStr(target *string, def string) {
	if *target == "" {
		*target = def
	}
}

func fallbackInt(target *int, def int) {
	if *target == 0 {
		*target = def
	}
}

func fallbackInt64(target *int64, def int64) {
	if *target == 0 {
		*target = def
	}
}

func fallbackDur(target *time.Duration, def time.Duration) {
	if *target == 0 {
		*target = def
	}
}

func (c *Config) applyDefaults() {
	fallbackStr(&c.App.Name, "retail-backend")
	fallbackStr(&c.App.Env, "development")
	fallbackStr(&c.App.Port, "8080")

	fallbackStr(&c.Database.Host, "localhost")
	fallbackInt(&c.Database.Port, 5432)
	fallbackStr(&c.Database.User, "postgres")
	fallbackStr(&c.Database.DBName, "retail")
	fallbackStr(&c.Database.SSLMode, "disable")
	fallbackInt(&c.Database.MaxOpenConns, 25)
	fallbackInt(&c.Database.MaxIdleConns, 5)
	fallbackInt(&c.Database.ConnMaxLifetime, 60)
	fallbackInt(&c.Database.ConnMaxIdleTime, 30)

	fallbackStr(&c.Redis.Host, "localhost")
	fallbackInt(&c.Redis.Port, 6379)

	fallbackDur(&c.JWT.AccessTokenExpiration, 15*time.Minute)
	fallbackDur(&c.JWT.RefreshTokenExpiration, 168*time.Hour)
	fallbackStr(&c.JWT.Issuer, "retail-backend")
	fallbackInt(&c.JWT.MaxRefreshCount, 10)

	fallbackStr(&c.Cookie.Path, "/")
	fallbackStr(&c.Cookie.SameSite, "lax")

	fallbackStr(&c.Log.Level, "info")
	fallbackStr(&c.Log.Format, "console")
	fallbackStr(&c.Log.Output, "stdout")

	fallbackDur(&c.HTTP.ReadTimeout, 15*time.Second)
	fallbackDur(&c.HTTP.WriteTimeout, 15*time.Second)
	fallbackDur(&c.HTTP.IdleTimeout, 60*time.Second)
	fallbackInt(&c.HTTP.MaxHeaderBytes, 1<<20)
	fallbackInt64(&c.HTTP.MaxBodySize, 10<<20)
	fallbackInt(&c.HTTP.RateLimitRequests, 100)
	fallbackDur(&c.HTTP.RateLimitWindow, time.Minute)
	fallbackInt(&c.HTTP.AuthRateLimitRequests, 5)
	fallbackDur(&c.HTTP.AuthRateLimitWindow, time.Minute)
	// CORS origins deliberately have no fallback: an empty list allows no
	// cross-origin requests until the frontends are configured.
	if len(c.HTTP.CORSAllowMethods) == 0 {
		c.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(c.HTTP.CORSAllowHeaders) == 0 {
		c.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-Branch-ID", "Idempotency-Key"}
	}

	fallbackStr(&c.Storage.Region, "us-east-1")
	fallbackStr(&c.Storage.Bucket, "retail-media")
	fallbackDur(&c.Storage.PresignExpiration, 15*time.Minute)

	fallbackInt(&c.Inventory.LowStockThreshold, 5)
	fallbackDur(&c.Checkout.IdempotencyTTL, 24*time.Hour)

	fallbackStr(&c.Telemetry.CollectorEndpoint, "localhost:4317")
	if c.Telemetry.SamplingRatio == 0 {
		c.Telemetry.SamplingRatio = 1.0
	}
	fallbackStr(&c.Telemetry.ServiceName, "retail-backend")
	fallbackDur(&c.Telemetry.DBSlowQueryThresh, 200*time.Millisecond)
	// Insecure, DBTraceEnabled, and DBLogFullSQL stay false unless set.
}

func (c *Config) validate() error {
	if err := c.validatePool(); err != nil {
		return err
	}
	if c.App.Env == "production" {
		if err := c.validateProduction(); err != nil {
			return err
		}
	}
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	return nil
}

func (c *Config) validatePool() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	return nil
}

// validateProduction refuses settings that are acceptable on a laptop but
// negligent in front of real customers.
func (c *Config) validateProduction() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required in production")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("jwt.secret must be at least 32 characters in production")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("database.password is required in production")
	}
	if c.Database.SSLMode == "disable" {
		return fmt.Errorf("database.sslmode cannot be 'disable' in production")
	}
	if !c.Cookie.Secure {
		return fmt.Errorf("cookie.secure must be true in production (HTTPS required for secure cookies)")
	}
	if c.Cookie.SameSite == "none" && !c.Cookie.Secure {
		return fmt.Errorf("cookie.same_site=none requires cookie.secure=true")
	}
	for _, origin := range c.HTTP.CORSAllowOrigins {
		if origin == "*" {
			return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
		}
	}
	if c.Telemetry.DBLogFullSQL {
		return fmt.Errorf("telemetry.db_log_full_sql must be false in production to prevent sensitive data exposure in traces")
	}
	return nil
}

// DSN returns the Postgres connection URL with escaped credentials.
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
