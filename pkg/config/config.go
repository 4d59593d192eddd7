package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	Log       LogConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Inventory InventoryConfig
	Worker    WorkerConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env         string // development, staging, production
	Name        string
	StoreDriver string // postgres | memory
}

// LogConfig nivel de log (debug, info, warn, error).
type LogConfig struct {
	Level string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL        string
	Host               string
	Port               int
	User               string
	Password           string
	DBName             string
	SSLMode            string
	LockTimeoutMs      int  // SET LOCAL lock_timeout en cada transacción del ledger
	StatementTimeoutMs int  // statement_timeout de la sesión
	AutoMigrate        bool // aplica schema.sql al arrancar
	MaxConns           int
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

// RedisConfig conexión a Redis (caché de valoraciones y cola asynq).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL int // segundos; 0 desactiva la caché
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
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

// InventoryConfig política de consumo de lotes y métodos de valoración.
type InventoryConfig struct {
	DepletionPolicy   string   // fifo | lifo
	ValuationMethods  []string // métodos mantenidos en cada movimiento
	DefaultValuation  string
	ExpiryHorizonDays int
}

// WorkerConfig cola asynq y programación de tareas periódicas.
type WorkerConfig struct {
	Concurrency     int
	AlertScanCron   string
	ExpirySweepCron string
	RevaluationCron string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, REDIS_ADDR, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:         getString(v, "APP_ENV", "development"),
			Name:        getString(v, "APP_NAME", "inventario-ledger"),
			StoreDriver: getString(v, "STORE_DRIVER", "postgres"),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL:        getString(v, "DATABASE_URL", ""),
			Host:               getString(v, "DB_HOST", "localhost"),
			Port:               getInt(v, "DB_PORT", 5432),
			User:               getString(v, "DB_USER", "postgres"),
			Password:           getString(v, "DB_PASSWORD", ""),
			DBName:             getString(v, "DB_NAME", "inventario_ledger"),
			SSLMode:            getString(v, "DB_SSLMODE", "disable"),
			LockTimeoutMs:      getInt(v, "DB_LOCK_TIMEOUT_MS", 5000),
			StatementTimeoutMs: getInt(v, "DB_STATEMENT_TIMEOUT_MS", 30000),
			AutoMigrate:        getBool(v, "DB_AUTO_MIGRATE", false),
			MaxConns:           getInt(v, "DB_MAX_CONNS", 25),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
			CacheTTL: getInt(v, "VALUATION_CACHE_TTL_SECONDS", 300),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "inventario-ledger"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Inventory: InventoryConfig{
			DepletionPolicy:   getString(v, "INVENTORY_DEPLETION_POLICY", "fifo"),
			ValuationMethods:  getList(v, "INVENTORY_VALUATION_METHODS", []string{"weighted_average", "fifo"}),
			DefaultValuation:  getString(v, "INVENTORY_DEFAULT_VALUATION", "weighted_average"),
			ExpiryHorizonDays: getInt(v, "ALERT_EXPIRY_HORIZON_DAYS", 30),
		},
		Worker: WorkerConfig{
			Concurrency:     getInt(v, "WORKER_CONCURRENCY", 5),
			AlertScanCron:   getString(v, "ALERT_SCAN_CRON", "*/15 * * * *"),
			ExpirySweepCron: getString(v, "EXPIRY_SWEEP_CRON", "0 * * * *"),
			RevaluationCron: getString(v, "REVALUATION_CRON", "30 2 * * *"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.App.StoreDriver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("config: STORE_DRIVER inválido %q (postgres|memory)", c.App.StoreDriver)
	}
	if c.Inventory.ExpiryHorizonDays < 0 {
		return fmt.Errorf("config: ALERT_EXPIRY_HORIZON_DAYS no puede ser negativo")
	}
	if c.DB.LockTimeoutMs < 0 || c.DB.StatementTimeoutMs < 0 {
		return fmt.Errorf("config: timeouts de DB no pueden ser negativos")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
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
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

// getList lee valores separados por coma.
func getList(v *viper.Viper, key string, def []string) []string {
	if !v.IsSet(key) {
		return def
	}
	var out []string
	for _, p := range strings.Split(v.GetString(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
