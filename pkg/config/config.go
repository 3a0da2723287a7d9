package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App          AppConfig
	HTTP         HTTPConfig
	Storage      StorageConfig
	DB           DBConfig
	Scan         ScanConfig
	Descriptions DescriptionsConfig
	Broadcast    BroadcastConfig
	JWT          JWTConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	SwaggerPath string // archivo swagger.json; vacío o inexistente = sin /docs
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig selecciona el libro: "postgres" o "memory".
type StorageConfig struct {
	Driver           string
	LegacyImportPath string // planilla histórica a importar al iniciar (opcional)
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	AutoMigrate bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string con URL encoding para caracteres especiales en la contraseña.
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

// ScanConfig parámetros del lector.
type ScanConfig struct {
	IdleTimeout time.Duration
}

// DescriptionsConfig origen del catálogo de descripciones (se carga una vez al iniciar).
// Path admite .csv o .xlsx; si RedisURL está definido se lee el hash RedisKey.
type DescriptionsConfig struct {
	Path     string
	RedisURL string
	RedisKey string
}

// BroadcastConfig difusión en tiempo real y sumideros externos opcionales.
type BroadcastConfig struct {
	SubscriberBuffer int
	KafkaBrokers     []string
	KafkaTopic       string
	MQTTBroker       string
	MQTTTopic        string
	MQTTClientID     string
}

// JWTConfig token de supervisor. Secret vacío = rutas de corrección abiertas.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, DATABASE_URL, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: .env o config.env en el directorio actual
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "inventario-scanner"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 5000),
			SwaggerPath: getString(v, "SWAGGER_PATH", "./docs/swagger.json"),
		},
		Storage: StorageConfig{
			Driver:           strings.ToLower(getString(v, "STORAGE_DRIVER", "postgres")),
			LegacyImportPath: getString(v, "LEGACY_IMPORT_PATH", ""),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "inventory"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 10),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", true),
		},
		Scan: ScanConfig{
			IdleTimeout: time.Duration(getInt(v, "SCAN_IDLE_TIMEOUT_SECONDS", 300)) * time.Second,
		},
		Descriptions: DescriptionsConfig{
			Path:     getString(v, "DESCRIPTIONS_PATH", ""),
			RedisURL: getString(v, "DESCRIPTIONS_REDIS_URL", ""),
			RedisKey: getString(v, "DESCRIPTIONS_REDIS_KEY", "inventory:descriptions"),
		},
		Broadcast: BroadcastConfig{
			SubscriberBuffer: getInt(v, "WS_BUFFER", 64),
			KafkaBrokers:     splitList(getString(v, "KAFKA_BROKERS", "")),
			KafkaTopic:       getString(v, "KAFKA_TOPIC", "inventory-events"),
			MQTTBroker:       getString(v, "MQTT_BROKER", ""),
			MQTTTopic:        getString(v, "MQTT_TOPIC", "inventory/events"),
			MQTTClientID:     getString(v, "MQTT_CLIENT_ID", ""),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 720),
			Issuer:     getString(v, "JWT_ISSUER", "inventario-scanner"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate revisa valores que harían fallar el arranque más adelante.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("STORAGE_DRIVER inválido: %q (postgres|memory)", c.Storage.Driver)
	}
	if c.Scan.IdleTimeout <= 0 {
		return fmt.Errorf("SCAN_IDLE_TIMEOUT_SECONDS debe ser mayor que cero")
	}
	if c.Broadcast.SubscriberBuffer <= 0 {
		return fmt.Errorf("WS_BUFFER debe ser mayor que cero")
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

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
