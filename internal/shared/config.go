package shared

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"review_insights/internal/app"
	"review_insights/internal/aspect"
	"review_insights/internal/domain"
	"review_insights/internal/sentiment"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"prod" validate:"required"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080" validate:"required"`
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9100"`

	MySQLDSN  string        `env:"MYSQL_DSN" envDefault:"root:root@tcp(localhost:3306)/insights?parseTime=true&charset=utf8mb4,utf8&loc=UTC" validate:"required"`
	RedisAddr string        `env:"REDIS_ADDR" envDefault:"localhost:6379" validate:"required"`
	RedisPass string        `env:"REDIS_PASSWORD"`
	RedisDB   int           `env:"REDIS_DB" envDefault:"0" validate:"gte=0"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"15m" validate:"gt=0"`

	FeedBase    string   `env:"FEED_BASE_URL" envDefault:"http://localhost:8081" validate:"required,url"`
	FeedKey     string   `env:"FEED_API_KEY"`
	FeedRPS     int      `env:"FEED_RPS" envDefault:"5" validate:"gt=0"`
	Workers     int      `env:"INGEST_WORKERS" envDefault:"8" validate:"gt=0"`
	ReviewLimit int      `env:"INGEST_REVIEW_LIMIT" envDefault:"500" validate:"gt=0"`
	ProductIDs  []string `env:"INGEST_PRODUCT_IDS" envSeparator:","`

	Pipeline PipelineConfig
}

type PipelineConfig struct {
	Window            time.Duration `env:"WINDOW_SIZE" envDefault:"168h" validate:"gte=1h"`
	VocabularyFile    string        `env:"VOCABULARY_FILE"`
	ThresholdPositive float64       `env:"THRESHOLD_POSITIVE" envDefault:"0.05"`
	ThresholdNegative float64       `env:"THRESHOLD_NEGATIVE" envDefault:"-0.05"`
	Workers           int           `env:"PIPELINE_WORKERS" envDefault:"0" validate:"gte=0"`
	MaxReviews        int           `env:"PIPELINE_MAX_REVIEWS" envDefault:"5000" validate:"gt=0"`
}

// Vocabulary is the shape of VOCABULARY_FILE.
type Vocabulary struct {
	DefaultCategory string              `yaml:"default_category" validate:"required"`
	Categories      map[string][]string `yaml:"categories" validate:"required,min=1"`
	Products        map[string]string   `yaml:"products"`
	Lexicon         map[string]float64  `yaml:"lexicon"`
}

// DefaultVocabulary is used when no VOCABULARY_FILE is configured.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		DefaultCategory: "electronics",
		Categories: map[string][]string{
			"electronics": {
				"battery", "battery life", "screen", "display", "sound", "speaker", "camera",
				"charger", "charging", "keyboard", "price", "build quality", "performance",
				"software", "bluetooth", "wifi", "size", "weight", "design", "shipping", "packaging",
			},
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Durations accept day/week suffixes everywhere, so CACHE_TTL=1d works like WINDOW_SIZE=7d.
var parsers = map[reflect.Type]env.ParserFunc{
	reflect.TypeOf(time.Duration(0)): func(v string) (any, error) { return app.ParseDuration(v) },
}

func Load() (Config, error) {
	var c Config
	if err := env.ParseWithOptions(&c, env.Options{FuncMap: parsers}); err != nil {
		return Config{}, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	if err := validate.Struct(c); err != nil {
		return Config{}, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	if err := c.Thresholds().Validate(); err != nil {
		return Config{}, err
	}
	if c.FeedKey == "" {
		log.Warn().Msg("FEED_API_KEY is empty")
	}
	return c, nil
}

func (c Config) Thresholds() sentiment.Thresholds {
	return sentiment.Thresholds{Positive: c.Pipeline.ThresholdPositive, Negative: c.Pipeline.ThresholdNegative}
}

// LoadVocabulary reads and validates a vocabulary file; an empty path yields the defaults.
func LoadVocabulary(path string) (Vocabulary, error) {
	if path == "" {
		return DefaultVocabulary(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("%w: read vocabulary: %v", domain.ErrConfiguration, err)
	}
	var v Vocabulary
	if err := yaml.Unmarshal(b, &v); err != nil {
		return Vocabulary{}, fmt.Errorf("%w: parse vocabulary %s: %v", domain.ErrConfiguration, path, err)
	}
	if err := validate.Struct(v); err != nil {
		return Vocabulary{}, fmt.Errorf("%w: vocabulary %s: %v", domain.ErrConfiguration, path, err)
	}
	return v, nil
}

// BuildPipeline builds the immutable scoring model and aspect catalog. Any error wraps
// domain.ErrConfiguration and is fatal at startup.
func (c Config) BuildPipeline() (*sentiment.Model, *aspect.Catalog, error) {
	v, err := LoadVocabulary(c.Pipeline.VocabularyFile)
	if err != nil {
		return nil, nil, err
	}
	model, err := sentiment.NewModel(sentiment.DefaultLexicon().With(v.Lexicon), sentiment.DefaultRules(), c.Thresholds())
	if err != nil {
		return nil, nil, err
	}
	catalog, err := aspect.NewCatalog(v.Categories, v.Products, v.DefaultCategory)
	if err != nil {
		return nil, nil, err
	}
	return model, catalog, nil
}

// IsConfigError reports whether err came from invalid configuration.
func IsConfigError(err error) bool { return errors.Is(err, domain.ErrConfiguration) }
