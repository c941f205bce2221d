package config

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	RedisAddr   string `env:"REDIS_ADDR" default:"localhost:6379"`
	RedisPass   string `env:"REDIS_PASSWORD"`
	JWTSecret   string `env:"JWT_SECRET" default:"local_dev_secret"`
	MailAPIURL  string `env:"MAIL_API_URL"`
	MailAPIKey  string `env:"MAIL_API_KEY"`
	MailFrom    string `env:"MAIL_FROM" default:"no-reply@werent.local"`
	BaseURL     string `env:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
	Env         string `env:"APP_ENV" default:"dev"`
}
