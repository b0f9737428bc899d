package controllers

import (
	"testing"
	"time"

	"github.com/KayaErtug/bolt-app/models"
)

func TestPeriodKeyFor(t *testing.T) {
	// Wednesday June 18, 2025 is in ISO week 25.
	at := time.Date(2025, time.June, 18, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		taskType string
		want     string
	}{
		{"daily uses the date", models.TaskTypeDaily, "2025-06-18"},
		{"weekly uses iso year-week", models.TaskTypeWeekly, "2025-W25"},
		{"social is one-shot", models.TaskTypeSocial, ""},
		{"quiz is one-shot", models.TaskTypeQuiz, ""},
		{"one-time is one-shot", models.TaskTypeOneTime, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := periodKeyFor(tt.taskType, at); got != tt.want {
				t.Errorf("periodKeyFor(%s) = %q, want %q", tt.taskType, got, tt.want)
			}
		})
	}
}

func TestPeriodKeyForWeekBoundary(t *testing.T) {
	// Sunday and the following Monday must land in different ISO weeks.
	sunday := time.Date(2025, time.June, 22, 23, 0, 0, 0, time.UTC)
	monday := time.Date(2025, time.June, 23, 1, 0, 0, 0, time.UTC)

	if periodKeyFor(models.TaskTypeWeekly, sunday) == periodKeyFor(models.TaskTypeWeekly, monday) {
		t.Error("weekly period must roll over between Sunday and Monday")
	}
	if periodKeyFor(models.TaskTypeDaily, sunday) == periodKeyFor(models.TaskTypeDaily, monday) {
		t.Error("daily period must differ across days")
	}
}

func TestPeriodKeyForISOYearEdge(t *testing.T) {
	// Jan 1, 2027 is a Friday and belongs to ISO week 53 of 2026.
	jan1 := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)
	if got := periodKeyFor(models.TaskTypeWeekly, jan1); got != "2026-W53" {
		t.Errorf("periodKeyFor(weekly, 2027-01-01) = %q, want 2026-W53", got)
	}
}
