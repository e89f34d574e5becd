package weather

import (
	"github.com/myrjola/agrolens/internal/language"
	"math"
	"sort"
	"strings"
	"time"
)

const dateKeyLayout = "2006-01-02"

// ThreeDay reduces a raw forecast list to exactly three Day values aligned to
// today, tomorrow, and the day after tomorrow in now's location.
//
// The raw entries are grouped by the date portion of their timestamp, keeping
// the first entry seen per date. Each target date takes, in order: its exact
// grouped entry, else the smallest unused grouped date at or after it, else
// any remaining unused date, else a placeholder day. An empty list therefore
// yields three placeholders rather than an error.
func ThreeDay(entries []Entry, now time.Time, lang language.Language) []Day {
	firstPerDate := make(map[string]Entry)
	var dateKeys []string
	for _, entry := range entries {
		date, _, _ := strings.Cut(entry.DtTxt, " ")
		if date == "" {
			continue
		}
		if _, seen := firstPerDate[date]; !seen {
			firstPerDate[date] = entry
			dateKeys = append(dateKeys, date)
		}
	}
	sort.Strings(dateKeys)

	used := make(map[string]bool, 3)
	days := make([]Day, 0, 3)
	for offset := 0; offset < 3; offset++ {
		targetDate := now.AddDate(0, 0, offset)
		target := targetDate.Format(dateKeyLayout)
		label := lang.DayLabel(offset, targetDate)

		chosen := chooseDate(dateKeys, used, target)
		if chosen == "" {
			days = append(days, Day{Label: label, TemperatureC: 0, Condition: "", Icon: defaultIcon})
			continue
		}
		used[chosen] = true
		days = append(days, toDay(label, firstPerDate[chosen]))
	}

	return days
}

// chooseDate picks the grouped date for a target date key, preferring the
// exact key, then the nearest future key, then any leftover.
func chooseDate(dateKeys []string, used map[string]bool, target string) string {
	// dateKeys is sorted, so the first unused key >= target is the nearest
	// available date; an exact match is just the >= case with equality.
	for _, key := range dateKeys {
		if !used[key] && key >= target {
			return key
		}
	}
	for _, key := range dateKeys {
		if !used[key] {
			return key
		}
	}
	return ""
}

func toDay(label string, entry Entry) Day {
	day := Day{
		Label:        label,
		TemperatureC: int(math.Round(entry.Main.Temp)),
		Condition:    "",
		Icon:         defaultIcon,
	}
	if len(entry.Weather) > 0 {
		day.Condition = entry.Weather[0].Description
		day.Icon = entry.Weather[0].Icon
	}
	return day
}
