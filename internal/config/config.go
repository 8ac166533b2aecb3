package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	Database    Database
	Redis       Redis   `envPrefix:"REDIS_"`
	Session     Session `envPrefix:"SESSION_"`
	Shop        Shop

	Messenger Messenger `envPrefix:"MESSENGER_"`
	Notify    Notify
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
	// requests per second per user, 0 disables limiting
	RateLimit float64 `env:"HTTP_RATE_LIMIT" envDefault:"10"`
	RateBurst int     `env:"HTTP_RATE_BURST" envDefault:"20"`
}

type Database struct {
	Driver string `env:"DATABASE_DRIVER" envDefault:"sqlite"` // sqlite, mysql, postgres
	URL    string `env:"DATABASE_URL" envDefault:"file:shop.db?_foreign_keys=1&_busy_timeout=5000"`
}

type Redis struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type Session struct {
	Backend string `env:"BACKEND" envDefault:"memory"` // memory, redis
	// TTL of an idle checkout session, 0 keeps sessions until commit or cancel
	TTL time.Duration `env:"TTL" envDefault:"0s"`
}

type Shop struct {
	Currency        string  `env:"CURRENCY" envDefault:"UAH"`
	CatalogSeedFile string  `env:"CATALOG_SEED_FILE"`
	AdminIDs        []int64 `env:"ADMIN_IDS" envSeparator:","`
	AdminUsername   string  `env:"ADMIN_USERNAME"`
}

type Messenger struct {
	BaseApiURL string        `env:"BASE_API_URL" envDefault:"https://api.telegram.org"`
	Token      string        `env:"TOKEN"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

type Notify struct {
	// tried in order, first successful delivery wins
	OperatorIDs []int64 `env:"OPERATOR_IDS" envSeparator:","`
	QueueSize   int     `env:"NOTIFY_QUEUE_SIZE" envDefault:"64"`
}
