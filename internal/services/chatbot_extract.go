package services

import (
	"regexp"
	"strings"
	"time"
)

// Timeframe is a resolved reporting window: the inclusive start instant plus
// the display label used in responses.
type Timeframe struct {
	Start time.Time
	Label string
}

// ResolveTimeframe maps the natural-language window in a message to a start
// instant relative to now. Calendar windows snap to midnight of their first
// day; rolling windows ("last 7 days") subtract whole durations from now.
// An unrecognized or absent window falls back to today.
func ResolveTimeframe(message string, now time.Time) Timeframe {
	startOfDay := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
	// ISO weekday, Monday = 1.
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	switch {
	case strings.Contains(message, "today"):
		return Timeframe{Start: startOfDay(now), Label: "Today"}
	case strings.Contains(message, "yesterday"):
		return Timeframe{Start: startOfDay(now.AddDate(0, 0, -1)), Label: "Yesterday"}
	case strings.Contains(message, "this week"):
		return Timeframe{Start: startOfDay(now.AddDate(0, 0, -(weekday - 1))), Label: "This Week"}
	case strings.Contains(message, "last week"):
		return Timeframe{Start: startOfDay(now.AddDate(0, 0, -(weekday + 6))), Label: "Last Week"}
	case strings.Contains(message, "this month"):
		return Timeframe{Start: startOfDay(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())), Label: "This Month"}
	case strings.Contains(message, "last month"):
		firstOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return Timeframe{Start: firstOfThis.AddDate(0, -1, 0), Label: "Last Month"}
	case strings.Contains(message, "last 7 days"):
		return Timeframe{Start: now.AddDate(0, 0, -7), Label: "Last 7 Days"}
	case strings.Contains(message, "last 30 days"):
		return Timeframe{Start: now.AddDate(0, 0, -30), Label: "Last 30 Days"}
	default:
		return Timeframe{Start: startOfDay(now), Label: "Today"}
	}
}

type placeAliases struct {
	canonical string
	aliases   []string
}

// Canonical Indian state names with the spellings and abbreviations users
// actually type. Order matters only for determinism.
var stateAliases = []placeAliases{
	{"Maharashtra", []string{"maharashtra", "mh"}},
	{"Karnataka", []string{"karnataka", "ka"}},
	{"Tamil Nadu", []string{"tamil nadu", "tamilnadu", "tn"}},
	{"Delhi", []string{"delhi", "new delhi", "dl"}},
	{"Gujarat", []string{"gujarat", "gj"}},
	{"West Bengal", []string{"west bengal", "westbengal", "bengal", "wb"}},
	{"Rajasthan", []string{"rajasthan", "rj"}},
	{"Uttar Pradesh", []string{"uttar pradesh", "uttarpradesh", "up"}},
	{"Kerala", []string{"kerala", "kl"}},
	{"Telangana", []string{"telangana", "ts"}},
	{"Andhra Pradesh", []string{"andhra pradesh", "andhrapradesh", "ap"}},
	{"Madhya Pradesh", []string{"madhya pradesh", "madhyapradesh", "mp"}},
	{"Haryana", []string{"haryana", "hr"}},
	{"Punjab", []string{"punjab", "pb"}},
	{"Goa", []string{"goa", "ga"}},
	{"Odisha", []string{"odisha", "orissa", "or"}},
	{"Bihar", []string{"bihar", "br"}},
	{"Assam", []string{"assam", "as"}},
	{"Jharkhand", []string{"jharkhand", "jh"}},
	{"Chhattisgarh", []string{"chhattisgarh", "chattisgarh", "cg"}},
}

var cityAliases = []placeAliases{
	{"Mumbai", []string{"mumbai", "bombay"}},
	{"Bangalore", []string{"bangalore", "bengaluru"}},
	{"Delhi", []string{"delhi", "new delhi"}},
	{"Hyderabad", []string{"hyderabad", "hyd"}},
	{"Chennai", []string{"chennai", "madras"}},
	{"Kolkata", []string{"kolkata", "calcutta"}},
	{"Pune", []string{"pune", "poona"}},
	{"Ahmedabad", []string{"ahmedabad", "amdavad"}},
	{"Surat", []string{"surat"}},
	{"Jaipur", []string{"jaipur"}},
	{"Lucknow", []string{"lucknow"}},
	{"Kanpur", []string{"kanpur", "cawnpore"}},
	{"Nagpur", []string{"nagpur"}},
	{"Indore", []string{"indore"}},
	{"Thane", []string{"thane"}},
	{"Bhopal", []string{"bhopal"}},
	{"Visakhapatnam", []string{"visakhapatnam", "vizag", "vishakhapatnam"}},
	{"Kochi", []string{"kochi", "cochin"}},
	{"Gurgaon", []string{"gurgaon", "gurugram"}},
	{"Noida", []string{"noida"}},
}

var allStatesPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(show|display|list)\s+(all\s+)?patents?\s+by\s+state`),
	regexp.MustCompile(`\bstate\s*wise\s+patents?`),
	regexp.MustCompile(`\bpatents?\s+by\s+state`),
}

// ExtractStateName resolves a state mention to its canonical name. Phrases
// that ask for the full state-wise breakdown ("patents by state") return
// empty so the caller shows all states. Single-token aliases only match on
// word boundaries so "up" inside another word never means Uttar Pradesh.
func ExtractStateName(message string) string {
	if message == "" {
		return ""
	}
	for _, p := range allStatesPatterns {
		if p.MatchString(message) {
			return ""
		}
	}
	return matchAlias(message, stateAliases)
}

// ExtractCityName resolves a city mention to its canonical name, or empty
// when no known city appears.
func ExtractCityName(message string) string {
	if message == "" {
		return ""
	}
	return matchAlias(message, cityAliases)
}

func matchAlias(message string, table []placeAliases) string {
	words := strings.Fields(strings.Map(stripPunct, message))
	for _, entry := range table {
		for _, alias := range entry.aliases {
			if strings.Contains(alias, " ") {
				if strings.Contains(message, alias) {
					return entry.canonical
				}
				continue
			}
			for _, w := range words {
				if w == alias {
					return entry.canonical
				}
			}
		}
	}
	return ""
}

func stripPunct(r rune) rune {
	switch r {
	case '?', '!', '.', ',', ';', ':':
		return ' '
	}
	return r
}
