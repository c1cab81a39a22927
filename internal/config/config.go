package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"marketplace.db"`

	Auth    Auth    `envPrefix:"AUTH_"`
	Stripe  Stripe  `envPrefix:"STRIPE_"`
	Uploads Uploads `envPrefix:"UPLOAD_"`
}

// LessonsConfig is parsed by cmd/lessons; the booking admin tool runs against
// its own single-file database.
type LessonsConfig struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	DatabaseURL string `env:"LESSONS_DATABASE_URL" envDefault:"lessons.db"`
	ImageDir    string `env:"LESSONS_IMAGE_DIR" envDefault:"images"`

	Auth Auth `envPrefix:"AUTH_"`

	// bcrypt hash of the admin secret; a plaintext secret is never configured
	AdminSecretHash string `env:"ADMIN_SECRET_HASH"`
}

type Auth struct {
	JWTSecret     string `env:"JWT_SECRET"`
	TokenTTLHours int    `env:"TOKEN_TTL_HOURS" envDefault:"24"`
}

type Stripe struct {
	BaseApiURL    string `env:"BASE_API_URL" envDefault:"https://api.stripe.com"`
	SecretKey     string `env:"SECRET_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

type Uploads struct {
	Dir        string `env:"DIR" envDefault:"uploads"`
	ProfileDir string `env:"PROFILE_DIR" envDefault:"profile_pics"`
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
}
