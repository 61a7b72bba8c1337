package services

import "strings"

// Intent labels a chatbot message with the handler that will answer it.
type Intent string

const (
	IntentGreeting         Intent = "greeting"
	IntentPatentCount      Intent = "patent_count"
	IntentStatePatents     Intent = "state_patent_query"
	IntentCityPatents      Intent = "city_patent_query"
	IntentStatusQuery      Intent = "status_query"
	IntentUserRegistration Intent = "user_registration_analytics"
	IntentPatentAnalytics  Intent = "patent_analytics"
	IntentGeneral          Intent = "general"
)

var greetingPrefixes = []string{
	"hi", "hello", "hey", "hi there", "hello there", "hey there",
	"greetings", "good morning", "good afternoon", "good evening",
}

var timeframeMarkers = []string{
	"today", "this week", "this month", "last week", "last month", "yesterday",
}

// ClassifyIntent picks the handler for a lowercased, trimmed message. The
// checks run in a fixed order and the first hit wins, so a message that
// mentions both a state and a timeframe still lands on the state handler.
func ClassifyIntent(message string) Intent {
	switch {
	case isGreeting(message):
		return IntentGreeting
	case isPatentCountQuery(message):
		return IntentPatentCount
	case isStatePatentQuery(message):
		return IntentStatePatents
	case isCityPatentQuery(message):
		return IntentCityPatents
	case isStatusQuery(message):
		return IntentStatusQuery
	case isUserRegistrationQuery(message):
		return IntentUserRegistration
	case isPatentAnalyticsQuery(message):
		return IntentPatentAnalytics
	default:
		return IntentGeneral
	}
}

// isGreeting matches a greeting word at the start of the message only. A
// greeting buried mid-sentence does not count.
func isGreeting(message string) bool {
	if message == "" {
		return false
	}
	for _, g := range greetingPrefixes {
		if message == g || strings.HasPrefix(message, g+" ") || strings.HasPrefix(message, g+",") {
			return true
		}
	}
	return false
}

func isPatentCountQuery(message string) bool {
	return strings.Contains(message, "how many patent") ||
		strings.Contains(message, "total patent") ||
		strings.Contains(message, "number of patent") ||
		strings.Contains(message, "patent count")
}

func isStatePatentQuery(message string) bool {
	return (strings.Contains(message, "patent") && strings.Contains(message, "state")) ||
		strings.Contains(message, "state wise") ||
		strings.Contains(message, "patents by state")
}

func isCityPatentQuery(message string) bool {
	return (strings.Contains(message, "patent") && strings.Contains(message, "city")) ||
		strings.Contains(message, "patents in") ||
		strings.Contains(message, "patents by city")
}

func isStatusQuery(message string) bool {
	return strings.Contains(message, "patent status") ||
		(strings.Contains(message, "status") && strings.Contains(message, "patent")) ||
		strings.Contains(message, "granted") ||
		strings.Contains(message, "pending") ||
		strings.Contains(message, "abandoned")
}

func isUserRegistrationQuery(message string) bool {
	subject := strings.Contains(message, "how many user") ||
		strings.Contains(message, "total user") ||
		strings.Contains(message, "user registered") ||
		strings.Contains(message, "new user")
	return subject && hasTimeframeMarker(message)
}

func isPatentAnalyticsQuery(message string) bool {
	if strings.Contains(message, "patent") && hasTimeframeMarker(message) {
		return true
	}
	if strings.Contains(message, "how many patent") && strings.Contains(message, "filed") {
		return true
	}
	if strings.Contains(message, "patents in") {
		return true
	}
	if strings.Contains(message, "patent") &&
		(strings.Contains(message, "which district") || strings.Contains(message, "which city")) {
		return true
	}
	return false
}

func hasTimeframeMarker(message string) bool {
	for _, m := range timeframeMarkers {
		if strings.Contains(message, m) {
			return true
		}
	}
	return false
}
