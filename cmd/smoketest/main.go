package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/villesola/traincal/internal/e2etest"
	"github.com/villesola/traincal/internal/logging"
	"github.com/villesola/traincal/internal/testhelpers"
)

// smokeAthleteID is a reserved identity for production smoke tests.
const smokeAthleteID = 999_999_999

func testSession(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()
	var err error

	if err = client.Login(ctx, smokeAthleteID); err != nil {
		return fmt.Errorf("login athlete: %w", err)
	}
	var resp e2etest.Response
	if resp, err = client.Get(ctx, "/api/program"); err != nil {
		return fmt.Errorf("get program: %w", err)
	}
	// Either a program exists or the smoke athlete has not done intake, both
	// prove the stack end to end.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("get program: unexpected status %d", resp.StatusCode)
	}
	if err = client.Logout(ctx); err != nil {
		return fmt.Errorf("logout athlete: %w", err)
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
		client   *e2etest.Client
		err      error
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", slog.Any("error", err))
		os.Exit(1)
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}
	if err = testSession(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing session", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌", slog.Duration("duration", time.Since(start)))
	os.Exit(0)
}
