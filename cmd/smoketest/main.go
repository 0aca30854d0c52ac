package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/myrjola/fitplan/internal/e2etest"
	"github.com/myrjola/fitplan/internal/errors"
	"github.com/myrjola/fitplan/internal/logging"
	"github.com/myrjola/fitplan/internal/testhelpers"
	"github.com/myrjola/fitplan/internal/workout"
	"golang.org/x/sync/errgroup"
)

type invalidCase struct {
	name      string
	payload   map[string]any
	wantError string
}

func invalidCases() []invalidCase {
	valid := func() map[string]any {
		return map[string]any{
			"sex":               "female",
			"age":               35,
			"heightCm":          168,
			"weightKg":          64,
			"activityLevel":     "light",
			"goal":              "general_fitness",
			"level":             "beginner",
			"daysPerWeek":       3,
			"timePerSessionMin": 45,
			"equipment":         "bodyweight",
		}
	}
	with := func(key string, value any) map[string]any {
		p := valid()
		if value == nil {
			delete(p, key)
		} else {
			p[key] = value
		}
		return p
	}
	return []invalidCase{
		{name: "too young", payload: with("age", 10), wantError: "age must be at least 13"},
		{name: "fractional age", payload: with("age", 30.5), wantError: "age must be an integer"},
		{name: "height as string", payload: with("heightCm", "168"), wantError: "heightCm must be a number"},
		{name: "missing sex", payload: with("sex", nil), wantError: "sex is required"},
		{name: "too many days", payload: with("daysPerWeek", 7), wantError: "daysPerWeek must be at most 6"},
		{name: "unknown equipment", payload: with("equipment", "pool"),
			wantError: "equipment must be one of gym, home_basic, bodyweight"},
	}
}

// TestRejections posts payloads that the server must reject before calling the plan generator.
func TestRejections(ctx context.Context, client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for _, tc := range invalidCases() {
		g.Go(func() error {
			var resp workout.APIResponse
			status, err := client.PostJSON(ctx, "/api/generate-plan", tc.payload, &resp)
			if err != nil {
				return errors.Wrap(err, "post payload", slog.String("case", tc.name))
			}
			if status != http.StatusBadRequest || resp.OK || resp.Error != tc.wantError {
				return errors.New("unexpected response",
					slog.String("case", tc.name),
					slog.Int("status", status),
					slog.String("error", resp.Error),
					slog.String("want_error", tc.wantError))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("rejections: %w", err)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		err      error
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	client := e2etest.NewClient(url)
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestRejections(ctx, client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing input rejections", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌", slog.Duration("duration", time.Since(start)))
	os.Exit(0)
}
