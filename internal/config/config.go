// Package config loads process configuration from flags, the environment and
// optional .env files.
package config

import (
	"fmt"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// Database selects and locates the store.
type Database struct {
	Driver string `default:"sqlite"        enum:"sqlite,postgres" env:"DB_DRIVER" help:"Storage engine: 'sqlite' or 'postgres'."`
	DSN    string `default:"data/books.db" env:"DB_DSN"           help:"SQLite file path or PostgreSQL URL."           name:"dsn"`
}

// Log configures the process logger.
type Log struct {
	Level  string `default:"info"    enum:"debug,info,warn,error" env:"LOG_LEVEL"  help:"Log level."`
	Format string `default:"console" enum:"console,json"          env:"LOG_FORMAT" help:"Log format."`
}

// RateLimit configures the per-client request limiter.
type RateLimit struct {
	RPS   float64 `default:"20" env:"RATE_LIMIT_RPS"   help:"Sustained requests per second per client; 0 disables limiting." name:"rps"`
	Burst int     `default:"40" env:"RATE_LIMIT_BURST" help:"Burst size per client."`
}

// Config is the configuration of the API server.
type Config struct {
	Addr string `default:":3000" env:"APP_ADDR" help:"HTTP listen address."`

	DB        Database  `embed:"" prefix:"db-"`
	Log       Log       `embed:"" prefix:"log-"`
	RateLimit RateLimit `embed:"" prefix:"rate-limit-"`

	CORSOrigins     []string      `env:"CORS_ORIGINS"     help:"Allowed CORS origins, comma-separated." name:"cors-origins"`
	MaxBodyBytes    int64         `default:"1048576" env:"MAX_BODY_BYTES"   help:"Maximum request body size in bytes."`
	EnableHSTS      bool          `env:"ENABLE_HSTS"      help:"Send Strict-Transport-Security." name:"enable-hsts"`
	QueryTimeout    time.Duration `default:"5s"      env:"DB_QUERY_TIMEOUT" help:"Timeout of a single storage statement."`
	ShutdownTimeout time.Duration `default:"10s"     env:"SHUTDOWN_TIMEOUT" help:"Graceful shutdown timeout."`
}

// LoadEnvFiles loads .env and .env.local into the environment without
// overriding variables that are already set.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load parses args (without the program name) into a Config after loading
// the .env files.
func Load(args []string) (Config, error) {
	LoadEnvFiles()

	var cfg Config
	if _, err := Parse(&cfg, "bookshelf", "Book management API.", args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse parses args into target, which must be a kong-tagged struct pointer,
// and returns the selected command, if target declares any.
func Parse(target any, name, description string, args []string, opts ...kong.Option) (string, error) {
	opts = append([]kong.Option{kong.Name(name), kong.Description(description)}, opts...)

	parser, err := kong.New(target, opts...)
	if err != nil {
		return "", fmt.Errorf("config: %w", err)
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return "", fmt.Errorf("config: %w", err)
	}
	return kctx.Command(), nil
}
