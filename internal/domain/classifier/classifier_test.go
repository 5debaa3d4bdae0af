package classifier

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/checks-dashboard/backend/internal/domain/entity"
)

var testNow = time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)

func newCheck(title, payee string, due time.Time, paid bool) *entity.Check {
	return &entity.Check{
		ID:       title,
		Title:    title,
		Payee:    payee,
		Amount:   decimal.NewFromInt(100),
		Currency: "USD",
		DueDate:  due,
		Priority: entity.PriorityMedium,
		Paid:     paid,
	}
}

func TestDaysLeft(t *testing.T) {
	tests := []struct {
		name     string
		due      time.Time
		now      time.Time
		expected int
	}{
		{
			name:     "due today early morning",
			due:      time.Date(2025, time.March, 10, 0, 1, 0, 0, time.UTC),
			now:      testNow,
			expected: 0,
		},
		{
			name:     "due today late evening",
			due:      time.Date(2025, time.March, 10, 23, 59, 0, 0, time.UTC),
			now:      testNow,
			expected: 0,
		},
		{
			name:     "due tomorrow at midnight",
			due:      time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC),
			now:      time.Date(2025, time.March, 10, 23, 59, 59, 0, time.UTC),
			expected: 1,
		},
		{
			name:     "due yesterday late evening",
			due:      time.Date(2025, time.March, 9, 23, 59, 0, 0, time.UTC),
			now:      time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
			expected: -1,
		},
		{
			name:     "due in 30 days across month boundary",
			due:      time.Date(2025, time.April, 9, 12, 0, 0, 0, time.UTC),
			now:      testNow,
			expected: 30,
		},
		{
			name:     "leap day",
			due:      time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			now:      time.Date(2024, time.February, 28, 18, 0, 0, 0, time.UTC),
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysLeft(tt.due, tt.now)
			if got != tt.expected {
				t.Errorf("expected %d days, got %d", tt.expected, got)
			}
		})
	}
}

func TestDaysLeft_IgnoresTimeOfDay(t *testing.T) {
	due := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
	for dueHour := 0; dueHour < 24; dueHour += 5 {
		for nowHour := 0; nowHour < 24; nowHour += 7 {
			d := due.Add(time.Duration(dueHour) * time.Hour)
			n := time.Date(2025, time.March, 10, nowHour, 15, 0, 0, time.UTC)
			if got := DaysLeft(d, n); got != 4 {
				t.Errorf("due %v now %v: expected 4, got %d", d, n, got)
			}
		}
	}
}

func TestDaysLeft_AcrossDaylightSaving(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	// DST starts on 2025-03-09 in New York, so that day is 23 hours long.
	now := time.Date(2025, time.March, 8, 12, 0, 0, 0, loc)
	due := time.Date(2025, time.March, 10, 9, 0, 0, 0, loc)
	if got := DaysLeft(due, now); got != 2 {
		t.Errorf("expected 2 days across DST change, got %d", got)
	}
}

func TestDaysLeft_UsesNowLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	now := time.Date(2025, time.March, 10, 1, 0, 0, 0, loc)
	// 22:00 UTC on the 9th is 01:00 on the 10th in UTC+3.
	due := time.Date(2025, time.March, 9, 22, 0, 0, 0, time.UTC)
	if got := DaysLeft(due, now); got != 0 {
		t.Errorf("expected due today in the caller's zone, got %d", got)
	}
}

func TestStatusOf(t *testing.T) {
	day := func(offset int) time.Time {
		return time.Date(2025, time.March, 10+offset, 10, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name           string
		check          *entity.Check
		expectedBucket Bucket
		expectedLabel  string
		expectedColor  string
	}{
		{"paid overdue check is complete", newCheck("a", "", day(-5), true), BucketComplete, "Complete", ColorSuccess},
		{"paid future check is complete", newCheck("b", "", day(40), true), BucketComplete, "Complete", ColorSuccess},
		{"overdue by 5 days", newCheck("c", "", day(-5), false), BucketOverdue, "5 days overdue", ColorDanger},
		{"overdue by 1 day", newCheck("d", "", day(-1), false), BucketOverdue, "1 days overdue", ColorDanger},
		{"due today", newCheck("e", "", day(0), false), BucketDue, "Due today", ColorWarning},
		{"urgent 1 day", newCheck("f", "", day(1), false), BucketUrgent, "1 days left", ColorWarning},
		{"urgent 3 days", newCheck("g", "", day(3), false), BucketUrgent, "3 days left", ColorWarning},
		{"upcoming 4 days", newCheck("h", "", day(4), false), BucketUpcoming, "4 days left", ColorSuccess},
		{"upcoming 7 days", newCheck("i", "", day(7), false), BucketUpcoming, "7 days left", ColorSuccess},
		{"future 8 days", newCheck("j", "", day(8), false), BucketFuture, "8 days left", ColorMuted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := StatusOf(tt.check, testNow)
			if status.Bucket != tt.expectedBucket {
				t.Errorf("expected bucket %s, got %s", tt.expectedBucket, status.Bucket)
			}
			if status.Label != tt.expectedLabel {
				t.Errorf("expected label %q, got %q", tt.expectedLabel, status.Label)
			}
			if status.Color != tt.expectedColor {
				t.Errorf("expected color %s, got %s", tt.expectedColor, status.Color)
			}
		})
	}
}

func TestStatusOf_BucketsPartitionUnpaidChecks(t *testing.T) {
	for offset := -30; offset <= 30; offset++ {
		due := testNow.AddDate(0, 0, offset)
		status := StatusOf(newCheck("x", "", due, false), testNow)

		matches := 0
		days := DaysLeft(due, testNow)
		if days < 0 {
			matches++
			if status.Bucket != BucketOverdue {
				t.Errorf("offset %d: expected overdue, got %s", offset, status.Bucket)
			}
		}
		if days == 0 {
			matches++
			if status.Bucket != BucketDue {
				t.Errorf("offset %d: expected due, got %s", offset, status.Bucket)
			}
		}
		if days >= 1 && days <= 3 {
			matches++
			if status.Bucket != BucketUrgent {
				t.Errorf("offset %d: expected urgent, got %s", offset, status.Bucket)
			}
		}
		if days >= 4 && days <= 7 {
			matches++
			if status.Bucket != BucketUpcoming {
				t.Errorf("offset %d: expected upcoming, got %s", offset, status.Bucket)
			}
		}
		if days > 7 {
			matches++
			if status.Bucket != BucketFuture {
				t.Errorf("offset %d: expected future, got %s", offset, status.Bucket)
			}
		}
		if matches != 1 {
			t.Errorf("offset %d: expected exactly one bucket, got %d", offset, matches)
		}
	}
}

func TestPriorityColor(t *testing.T) {
	tests := []struct {
		priority entity.Priority
		expected string
	}{
		{entity.PriorityHigh, ColorDanger},
		{entity.PriorityMedium, ColorWarning},
		{entity.PriorityLow, ColorSuccess},
		{entity.Priority(""), ColorMuted},
	}

	for _, tt := range tests {
		if got := PriorityColor(tt.priority); got != tt.expected {
			t.Errorf("priority %q: expected %s, got %s", tt.priority, tt.expected, got)
		}
	}
}

func TestSearch(t *testing.T) {
	checks := []*entity.Check{
		newCheck("Rent March", "Landlord LLC", testNow, false),
		newCheck("Electricity", "City Power", testNow, false),
		newCheck("Car loan", "", testNow, false),
	}

	t.Run("blank query returns input unchanged", func(t *testing.T) {
		got := Search(checks, "   ")
		if len(got) != len(checks) {
			t.Fatalf("expected %d checks, got %d", len(checks), len(got))
		}
		for i := range checks {
			if got[i] != checks[i] {
				t.Errorf("expected same element at %d", i)
			}
		}
	})

	t.Run("matches title case-insensitively", func(t *testing.T) {
		got := Search(checks, "RENT")
		if len(got) != 1 || got[0].Title != "Rent March" {
			t.Errorf("expected only Rent March, got %v", titles(got))
		}
	})

	t.Run("matches payee", func(t *testing.T) {
		got := Search(checks, "power")
		if len(got) != 1 || got[0].Title != "Electricity" {
			t.Errorf("expected only Electricity, got %v", titles(got))
		}
	})

	t.Run("no match", func(t *testing.T) {
		if got := Search(checks, "insurance"); len(got) != 0 {
			t.Errorf("expected no results, got %v", titles(got))
		}
	})
}

func titles(checks []*entity.Check) []string {
	out := make([]string, len(checks))
	for i, c := range checks {
		out[i] = c.Title
	}
	return out
}
