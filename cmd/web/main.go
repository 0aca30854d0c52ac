package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/myrjola/fitplan/internal/envstruct"
	"github.com/myrjola/fitplan/internal/errors"
	"github.com/myrjola/fitplan/internal/flightrecorder"
	"github.com/myrjola/fitplan/internal/logging"
	"github.com/myrjola/fitplan/internal/workout"
)

var errMissingAPIKey = errors.NewSentinel("OPENAI_API_KEY must not be empty")

type planGenerator interface {
	GeneratePlan(ctx context.Context, in workout.Input) (workout.Result, error)
}

type application struct {
	logger      *slog.Logger
	planService planGenerator
	// flightRecorder is nil unless slow request tracing is configured.
	flightRecorder       *flightrecorder.Service
	slowRequestThreshold time.Duration
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"FITPLAN_ADDR" envDefault:"localhost:8081"`
	// OpenAIAPIKey authenticates the plan generator.
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	// OpenAIBaseURL points the generator to a compatible API. Empty uses the OpenAI default.
	OpenAIBaseURL string  `env:"FITPLAN_OPENAI_BASE_URL" envDefault:""`
	OpenAIModel   string  `env:"FITPLAN_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	Temperature   float64 `env:"FITPLAN_TEMPERATURE" envDefault:"0.3"`
	// AllowedOrigins is a comma separated list of origins allowed to call the API from a browser.
	AllowedOrigins string `env:"FITPLAN_ALLOWED_ORIGINS" envDefault:"*"`
	// WriteTimeout bounds the whole response including the generator round trip.
	WriteTimeout time.Duration `env:"FITPLAN_WRITE_TIMEOUT" envDefault:"90s"`
	// TracesDir enables the flight recorder. Requests slower than SlowRequestThreshold write a trace there.
	TracesDir            string        `env:"FITPLAN_TRACES_DIR" envDefault:""`
	SlowRequestThreshold time.Duration `env:"FITPLAN_SLOW_REQUEST_THRESHOLD" envDefault:"30s"`
}

type logConfig struct {
	Level  string `env:"FITPLAN_LOG_LEVEL" envDefault:"debug"`
	Format string `env:"FITPLAN_LOG_FORMAT" envDefault:"text"`
}

type envFileConfig struct {
	Path string `env:"FITPLAN_ENV_FILE" envDefault:".env"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		return errors.Wrap(errMissingAPIKey, "validate config")
	}

	generator := workout.NewOpenAIGenerator(workout.OpenAIConfig{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.OpenAIModel,
		Temperature: cfg.Temperature,
	}, logger)
	logger.LogAttrs(ctx, slog.LevelInfo, "configured plan generator",
		slog.String("model", cfg.OpenAIModel), slog.Float64("temperature", cfg.Temperature))

	app := application{
		logger:               logger,
		planService:          workout.NewService(generator, logger),
		flightRecorder:       nil,
		slowRequestThreshold: cfg.SlowRequestThreshold,
	}

	if cfg.TracesDir != "" {
		if app.flightRecorder, err = flightrecorder.New(flightrecorder.Config{ //nolint:exhaustruct // defaults
			Logger:          logger,
			TracesDirectory: cfg.TracesDir,
		}); err != nil {
			return errors.Wrap(err, "new flight recorder")
		}
		if err = app.flightRecorder.Start(ctx); err != nil {
			return errors.Wrap(err, "start flight recorder")
		}
		defer app.flightRecorder.Stop(context.WithoutCancel(ctx))
	}

	handler := app.routes(splitOrigins(cfg.AllowedOrigins))
	if err = app.configureAndStartServer(ctx, cfg.Addr, cfg.WriteTimeout, handler); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func splitOrigins(s string) []string {
	var origins []string
	for o := range strings.SplitSeq(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// withEnvFile layers the variables of the optional dotenv file underneath lookupEnv so that the process environment
// always wins. A missing file is not an error.
func withEnvFile(lookupEnv func(string) (string, bool)) (func(string) (string, bool), error) {
	var cfg envFileConfig
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return nil, errors.Wrap(err, "populate env file config")
	}

	fileEnv, err := godotenv.Read(cfg.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return lookupEnv, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read env file", slog.String("path", cfg.Path))
	}

	return func(key string) (string, bool) {
		if v, ok := lookupEnv(key); ok {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	}, nil
}

func newLogger(lookupEnv func(string) (string, bool)) (*slog.Logger, error) {
	var cfg logConfig
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return nil, errors.Wrap(err, "populate log config")
	}
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errors.Wrap(err, "parse log level")
	}
	return logging.New(os.Stdout, level, logging.Format(cfg.Format), nil), nil
}

func main() {
	ctx := context.Background()
	fallback := logging.New(os.Stdout, slog.LevelDebug, logging.FormatText, nil)

	lookupEnv, err := withEnvFile(os.LookupEnv)
	if err != nil {
		fallback.LogAttrs(ctx, slog.LevelError, "failure loading env file", errors.SlogError(err))
		os.Exit(1)
	}
	logger, err := newLogger(lookupEnv)
	if err != nil {
		fallback.LogAttrs(ctx, slog.LevelError, "failure configuring logger", errors.SlogError(err))
		os.Exit(1)
	}
	if err = run(ctx, logger, lookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
