package main

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/villesola/traincal/internal/schedule"
)

func Test_application_calendar(t *testing.T) {
	server := startTestServer(t)
	client := server.Client()
	ctx := t.Context()

	program := loginAndIntake(ctx, t, client)
	if got, want := program.WeeksPerPhase, 4; got != want {
		t.Fatalf("want %d weeks per phase, got %d", want, got)
	}

	today := time.Now().Format(time.DateOnly)

	t.Run("default window covers the whole program", func(t *testing.T) {
		resp, err := client.Get(ctx, "/api/calendar")
		if err != nil {
			t.Fatalf("get calendar: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("want 200, got %d: %s", resp.StatusCode, resp.Body)
		}
		var calendar calendarResponse
		if err = resp.Decode(&calendar); err != nil {
			t.Fatalf("decode calendar: %v", err)
		}
		// 12 weeks of workouts plus a week of display buffer on both sides.
		if len(calendar.Days) < 12*7 {
			t.Errorf("want at least 84 days, got %d", len(calendar.Days))
		}
		foundToday := false
		for _, day := range calendar.Days {
			if day.Date != today {
				continue
			}
			foundToday = true
			if !day.IsTrainingDay {
				t.Error("today should be a training day")
			}
			if len(day.Entries) != 1 {
				t.Fatalf("want one workout today, got %d", len(day.Entries))
			}
			entry := day.Entries[0]
			if !entry.IsToday {
				t.Error("today's entry should be flagged")
			}
			if entry.Slot == nil || *entry.Slot != (schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 1}) {
				t.Errorf("want slot GPP/W1/D1 today, got %v", entry.Slot)
			}
			if entry.WeekLabel != "Introduction" {
				t.Errorf("want Introduction label, got %q", entry.WeekLabel)
			}
		}
		if !foundToday {
			t.Error("today missing from the default window")
		}
	})

	t.Run("explicit window is honoured", func(t *testing.T) {
		resp, err := client.Get(ctx, fmt.Sprintf("/api/calendar?from=%s&to=%s", today, today))
		if err != nil {
			t.Fatalf("get calendar: %v", err)
		}
		var calendar calendarResponse
		if err = resp.Decode(&calendar); err != nil {
			t.Fatalf("decode calendar: %v", err)
		}
		if len(calendar.Days) != 1 {
			t.Errorf("want exactly one day, got %d", len(calendar.Days))
		}
	})

	t.Run("rejects a malformed window", func(t *testing.T) {
		resp, err := client.Get(ctx, "/api/calendar?from=01/02/2024")
		if err != nil {
			t.Fatalf("get calendar: %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("want 400, got %d", resp.StatusCode)
		}
	})

	t.Run("meta summarises the program", func(t *testing.T) {
		resp, err := client.Get(ctx, "/api/calendar/meta")
		if err != nil {
			t.Fatalf("get calendar meta: %v", err)
		}
		var meta schedule.CalendarMeta
		if err = resp.Decode(&meta); err != nil {
			t.Fatalf("decode meta: %v", err)
		}
		if got, want := meta.TotalSlots, 3*4*7; got != want {
			t.Errorf("want %d total slots, got %d", want, got)
		}
		if got, want := meta.StartDate, today; got != want {
			t.Errorf("want start date %s, got %s", want, got)
		}
		if len(meta.UnlockedPhases) != 1 || meta.UnlockedPhases[0] != schedule.PhaseGPP {
			t.Errorf("want only GPP unlocked, got %v", meta.UnlockedPhases)
		}
	})

	t.Run("template detail renders the description", func(t *testing.T) {
		resp, err := client.Get(ctx, fmt.Sprintf("/api/calendar?from=%s&to=%s", today, today))
		if err != nil {
			t.Fatalf("get calendar: %v", err)
		}
		var calendar calendarResponse
		if err = resp.Decode(&calendar); err != nil {
			t.Fatalf("decode calendar: %v", err)
		}
		templateID := calendar.Days[0].Entries[0].TemplateID

		resp, err = client.Get(ctx, fmt.Sprintf("/api/templates/%d", templateID))
		if err != nil {
			t.Fatalf("get template: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("want 200, got %d: %s", resp.StatusCode, resp.Body)
		}
		var template templateResponse
		if err = resp.Decode(&template); err != nil {
			t.Fatalf("decode template: %v", err)
		}
		if template.Name == "" {
			t.Error("template name missing")
		}
		if len(template.Exercises) == 0 {
			t.Error("template exercises missing")
		}
		if !strings.Contains(template.DescriptionHTML, "<h2") {
			t.Errorf("want rendered markdown heading, got %q", template.DescriptionHTML)
		}
	})

	t.Run("unknown template is a 404", func(t *testing.T) {
		resp, err := client.Get(ctx, "/api/templates/999999")
		if err != nil {
			t.Fatalf("get template: %v", err)
		}
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("want 404, got %d", resp.StatusCode)
		}
	})
}
