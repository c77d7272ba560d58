package config

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Secret usado en desarrollo cuando SESSION_SECRET no está definido. Nunca en production.
const devSessionSecret = "dev-session-secret-change-me"

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	HTTP    HTTPConfig
	Session SessionConfig
	JWT     JWTConfig
	Alerts  AlertsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env       string // development, staging, production
	Name      string
	LogLevel  string
	PublicDir string // directorio de páginas estáticas; vacío = no se sirven
}

// DBConfig configuración de persistencia.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	Driver      string // postgres | memory
	Migrate     bool   // aplicar migraciones al arrancar el API
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SessionConfig sesión por cookie con almacenamiento en servidor.
type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// CookieKey deriva del secret la clave base64 de 32 bytes que exige encryptcookie.
func (c SessionConfig) CookieKey() string {
	sum := sha256.Sum256([]byte(c.Secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// JWTConfig tokens Bearer para scripts (firmados con Session.Secret).
type JWTConfig struct {
	Expiration int // minutos
	Issuer     string
}

// AlertsConfig umbrales de alertas, fijos durante la vida del proceso.
type AlertsConfig struct {
	ThresholdDays     int
	LowStockThreshold int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// .env se carga primero al entorno del proceso; las variables ya definidas tienen prioridad.
func Load() (*Config, error) {
	_ = godotenv.Load() // ignoramos error si no existe

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:       getString(v, "APP_ENV", "development"),
			Name:      getString(v, "APP_NAME", "estoque-api"),
			LogLevel:  getString(v, "LOG_LEVEL", "info"),
			PublicDir: getString(v, "PUBLIC_DIR", ""),
		},
		DB: DBConfig{
			Driver:      strings.ToLower(getString(v, "DB_DRIVER", "postgres")),
			Migrate:     getBool(v, "DB_MIGRATE", false),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "estoque"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "PORT", getInt(v, "HTTP_PORT", 3000)),
		},
		Session: SessionConfig{
			Secret:     getString(v, "SESSION_SECRET", ""),
			TTL:        time.Duration(getInt(v, "SESSION_TTL_MINUTES", 8*60)) * time.Minute,
			CookieName: getString(v, "SESSION_COOKIE", "estoque.sid"),
			Secure:     getBool(v, "SESSION_COOKIE_SECURE", false),
		},
		JWT: JWTConfig{
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 8*60),
			Issuer:     getString(v, "JWT_ISSUER", "estoque-api"),
		},
		Alerts: AlertsConfig{
			ThresholdDays:     getInt(v, "ALERT_THRESHOLD_DAYS", 7),
			LowStockThreshold: getInt(v, "LOW_STOCK_THRESHOLD", 5),
		},
	}

	if cfg.Session.Secret == "" {
		if cfg.App.Env == "production" {
			return nil, fmt.Errorf("SESSION_SECRET es obligatorio en production")
		}
		cfg.Session.Secret = devSessionSecret
	}
	if cfg.DB.Driver != "postgres" && cfg.DB.Driver != "memory" {
		return nil, fmt.Errorf("DB_DRIVER inválido: %q (postgres|memory)", cfg.DB.Driver)
	}
	if cfg.Alerts.ThresholdDays < 0 || cfg.Alerts.LowStockThreshold < 0 {
		return nil, fmt.Errorf("ALERT_THRESHOLD_DAYS y LOW_STOCK_THRESHOLD no pueden ser negativos")
	}
	if cfg.Session.TTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL_MINUTES debe ser positivo")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	switch v.Get(key).(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return n
	default:
		return v.GetInt(key)
	}
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return b
}
