// Package leaderboard computes habit streaks from daily completion records.
package leaderboard

import (
	"sort"
	"strings"
	"time"

	"preppulse/internal/models"
)

type Entry struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	BestStreak    int    `json:"best_streak"`
	CurrentStreak int    `json:"current_streak"`
	TotalHabits   int    `json:"total_habits"`
}

// Compute builds one entry per user with at least one completion day, sorted
// by best streak descending. Ties keep the order in which users first appear.
func Compute(completions []models.HabitCompletion, names map[string]string, habitCounts map[string]int, today time.Time) []Entry {
	var order []string
	days := make(map[string]map[time.Time]struct{})
	for _, c := range completions {
		set, ok := days[c.Email]
		if !ok {
			set = make(map[time.Time]struct{})
			days[c.Email] = set
			order = append(order, c.Email)
		}
		set[dateOf(c.Date)] = struct{}{}
	}

	entries := make([]Entry, 0, len(order))
	for _, email := range order {
		dates := make([]time.Time, 0, len(days[email]))
		for d := range days[email] {
			dates = append(dates, d)
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

		best, current := Streaks(dates, today)
		entries = append(entries, Entry{
			Email:         email,
			Name:          displayName(email, names),
			BestStreak:    best,
			CurrentStreak: current,
			TotalHabits:   habitCounts[email],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].BestStreak > entries[j].BestStreak
	})
	return entries
}

// Streaks returns the longest run of consecutive days and the run ending
// today or yesterday. dates must be distinct, ascending calendar days.
func Streaks(dates []time.Time, today time.Time) (best, current int) {
	if len(dates) == 0 {
		return 0, 0
	}

	run := 0
	for i, d := range dates {
		if i > 0 && nextDay(dates[i-1]).Equal(d) {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}

	today = dateOf(today)
	last := dates[len(dates)-1]
	if !last.Equal(today) && !nextDay(last).Equal(today) {
		return best, 0
	}
	current = 1
	for i := len(dates) - 1; i > 0; i-- {
		if !nextDay(dates[i-1]).Equal(dates[i]) {
			break
		}
		current++
	}
	return best, current
}

func displayName(email string, names map[string]string) string {
	if name := strings.TrimSpace(names[email]); name != "" {
		return name
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}

// dateOf drops the clock and location, keeping the calendar day.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func nextDay(d time.Time) time.Time {
	return d.AddDate(0, 0, 1)
}
