package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/villesola/traincal/internal/e2etest"
	"github.com/villesola/traincal/internal/schedule"
	"github.com/villesola/traincal/internal/testhelpers"
)

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "TRAINCAL_ADDR":
		return "localhost:0", true
	case "TRAINCAL_SQLITE_URL":
		return ":memory:", true
	default:
		return "", false
	}
}

// startTestServer boots the application against an in-memory database.
func startTestServer(t *testing.T) *e2etest.Server {
	t.Helper()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("start server: %v", err)
	}
	return server
}

// defaultIntake is an everyday-training intake starting today so that the
// program's first slot is always today's date.
func defaultIntake() schedule.Intake {
	return schedule.Intake{
		CategoryID: 1,
		Skill:      schedule.SkillNovice,
		AgeGroup:   "senior",
		TrainingWeekdays: []time.Weekday{
			time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
			time.Thursday, time.Friday, time.Saturday,
		},
		TotalProgramWeeks: 12,
		StartDate:         time.Now().Format(time.DateOnly),
	}
}

// loginAndIntake establishes a session and creates a program.
func loginAndIntake(ctx context.Context, t *testing.T, client *e2etest.Client) programResponse {
	t.Helper()
	if err := client.Login(ctx, 1); err != nil {
		t.Fatalf("login: %v", err)
	}
	resp, err := client.Post(ctx, "/api/intake", defaultIntake())
	if err != nil {
		t.Fatalf("post intake: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("post intake: unexpected status %d: %s", resp.StatusCode, resp.Body)
	}
	var program programResponse
	if err = resp.Decode(&program); err != nil {
		t.Fatalf("decode program: %v", err)
	}
	return program
}

// decodeErrorCode extracts the stable error code from an error response.
func decodeErrorCode(t *testing.T, resp e2etest.Response) string {
	t.Helper()
	var body errorResponse
	if err := resp.Decode(&body); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return body.Error.Code
}
