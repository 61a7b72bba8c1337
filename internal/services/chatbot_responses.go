package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/patentdesk/backend/internal/pkg/dbctx"
)

// Handlers for the structured intents. Each one answers from live data and
// degrades to an apology when a dependency fails; none of them ever return
// nil or propagate an error to the caller.

func (s *chatbotService) handleGreeting(ctx context.Context, req ChatRequest) *ChatResponse {
	firstName := "there"
	if req.UserID != "" && s.users != nil {
		if name, err := s.users.FirstName(ctx, req.UserID); err == nil && name != "" {
			firstName = name
		}
	}

	var quickQueries []string
	if entries, err := s.knowledge.ListActive(dbctx.Context{Ctx: ctx}); err == nil {
		for _, kb := range entries {
			if len(quickQueries) >= 6 {
				break
			}
			if kb.Question != "" {
				quickQueries = append(quickQueries, kb.Question)
			}
		}
	}
	if len(quickQueries) == 0 {
		quickQueries = []string{
			"How many patents are there?",
			"Show subscription plans",
			"How do I file a patent?",
			"What features are available?",
			"Show patents by state",
			"What are the payment methods?",
		}
	}

	return &ChatResponse{
		Message:     fmt.Sprintf("Hi %s! 👋\n\nHow may I help you? I can assist you with:", firstName),
		QueryType:   "greeting",
		Suggestions: quickQueries,
	}
}

func (s *chatbotService) handlePatentCount(ctx context.Context) *ChatResponse {
	total, err := s.filings.Count(dbctx.Context{Ctx: ctx})
	if err != nil {
		s.log.Warn("Patent count query failed", "error", err)
		return &ChatResponse{
			Message:   "I encountered an error while fetching patent count. Please try again or contact support.",
			QueryType: "error",
		}
	}

	return &ChatResponse{
		Message: fmt.Sprintf(
			"There are currently **%d patent filings** in the database. "+
				"This includes patents in all statuses (pending, granted, abandoned, etc.). "+
				"You can view detailed statistics on the dashboard.", total),
		Type:      "data",
		QueryType: "patent_count",
		Data: map[string]any{
			"totalPatents": total,
			"timestamp":    s.now(),
		},
		Suggestions: []string{
			"Show patents by state",
			"Show patent status distribution",
			"What features are available?",
		},
	}
}

func (s *chatbotService) handleStatePatents(ctx context.Context, message string) *ChatResponse {
	stateCounts, err := s.filings.CountByState(dbctx.Context{Ctx: ctx})
	if err != nil {
		s.log.Warn("State patent query failed", "error", err)
		return &ChatResponse{
			Message:   "I encountered an error while fetching state-wise patent data. Please try again.",
			QueryType: "error",
		}
	}

	if stateName := ExtractStateName(message); stateName != "" {
		for _, sc := range stateCounts {
			if strings.Contains(strings.ToLower(sc.State), strings.ToLower(stateName)) {
				return &ChatResponse{
					Message: fmt.Sprintf(
						"**%s** has **%d patent filings**. "+
							"You can view a detailed breakdown on the dashboard's State Patent Count panel.",
						sc.State, sc.Count),
					Type:      "data",
					QueryType: "state_patent_query",
					Data:      map[string]any{"state": sc.State, "count": sc.Count},
				}
			}
		}
		return &ChatResponse{
			Message:   fmt.Sprintf("I couldn't find patent data for '%s'. Please check the state name and try again.", stateName),
			QueryType: "state_patent_query",
		}
	}

	// No specific state: top 5 summary. The repo already orders by count.
	var msg strings.Builder
	msg.WriteString("**Top 5 states by patent count:**\n\n")
	data := make(map[string]any, len(stateCounts))
	for i, sc := range stateCounts {
		data[sc.State] = sc.Count
		if i < 5 {
			fmt.Fprintf(&msg, "%d. **%s**: %d patents\n", i+1, sc.State, sc.Count)
		}
	}
	msg.WriteString("\nView the complete list on the dashboard's India Patent Panel.")

	return &ChatResponse{
		Message:   msg.String(),
		Type:      "data",
		QueryType: "state_patent_summary",
		Data:      data,
		Suggestions: []string{
			"Show patents in Maharashtra",
			"Show patents in Karnataka",
			"Show patents by city",
		},
	}
}

func (s *chatbotService) handleCityPatents(ctx context.Context, message string) *ChatResponse {
	cityName := ExtractCityName(message)
	if cityName == "" {
		return &ChatResponse{
			Message:   "Please specify a city name. For example: 'How many patents in Mumbai?' or 'Patents in Bangalore'",
			QueryType: "city_patent_query",
		}
	}

	count, err := s.filings.CountByCityContains(dbctx.Context{Ctx: ctx}, cityName)
	if err != nil {
		s.log.Warn("City patent query failed", "city", cityName, "error", err)
		return &ChatResponse{
			Message:   "I encountered an error while fetching city patent data. Please try again.",
			QueryType: "error",
		}
	}

	var msg string
	if count > 0 {
		msg = fmt.Sprintf(
			"**%s** has **%d patent filings**. "+
				"Use the dashboard filters to explore these patents in detail.", cityName, count)
	} else {
		msg = fmt.Sprintf(
			"I couldn't find any patents for '%s'. "+
				"Please check the city name or try searching by state.", cityName)
	}

	return &ChatResponse{
		Message:   msg,
		Type:      "data",
		QueryType: "city_patent_query",
		Data:      map[string]any{"city": cityName, "count": count},
	}
}

func (s *chatbotService) handleStatusQuery(ctx context.Context) *ChatResponse {
	counts, err := s.filings.StatusCounts(dbctx.Context{Ctx: ctx})
	if err != nil {
		s.log.Warn("Status query failed", "error", err)
		return &ChatResponse{
			Message:   "I encountered an error while fetching patent status data. Please try again.",
			QueryType: "error",
		}
	}

	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })

	var msg strings.Builder
	msg.WriteString("**Patent Status Distribution:**\n\n")
	data := make(map[string]any, len(counts))
	for _, sc := range counts {
		fmt.Fprintf(&msg, "- **%s**: %d patents\n", sc.Status, sc.Count)
		data[sc.Status] = sc.Count
	}
	msg.WriteString("\nYou can filter by specific status on the dashboard.")

	return &ChatResponse{
		Message:   msg.String(),
		Type:      "data",
		QueryType: "status_query",
		Data:      data,
		Suggestions: []string{
			"Show granted patents",
			"Show pending patents",
			"What are patent statuses?",
		},
	}
}

func (s *chatbotService) handleUserRegistration(ctx context.Context, message string) *ChatResponse {
	tf := ResolveTimeframe(message, s.now())

	if s.users == nil {
		return &ChatResponse{
			Message:   "User registration data is not available right now. Please try again later.",
			QueryType: "error",
		}
	}
	count, err := s.users.CountRegisteredSince(ctx, tf.Start)
	if err != nil {
		s.log.Warn("User registration query failed", "error", err)
		return &ChatResponse{
			Message:   "I encountered an error while fetching user registration data. Please try again.",
			QueryType: "error",
		}
	}

	return &ChatResponse{
		Message: fmt.Sprintf(
			"📊 **User Registration Analytics - %s**\n\n"+
				"✅ Total users registered: **%d**\n\n"+
				"💡 *This data is fetched in real-time from the database.*", tf.Label, count),
		Type:      "analytics",
		QueryType: "user_registration_analytics",
		Data:      map[string]any{"count": count, "timeFrame": tf.Label},
		Suggestions: []string{
			"How many patents filed today?",
			"Show patents by state this week",
			"How many users registered this month?",
		},
	}
}

func (s *chatbotService) handlePatentAnalytics(ctx context.Context, message string) *ChatResponse {
	dbc := dbctx.Context{Ctx: ctx}
	tf := ResolveTimeframe(message, s.now())

	total, err := s.filings.CountFiledSince(dbc, tf.Start)
	if err != nil {
		s.log.Warn("Patent analytics query failed", "error", err)
		return &ChatResponse{
			Message:   "I encountered an error while fetching patent analytics data. Please try again.",
			QueryType: "error",
		}
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "📊 **Patent Filing Analytics - %s**\n\n", tf.Label)
	fmt.Fprintf(&msg, "✅ Total patents filed: **%d**\n\n", total)

	specificState := ExtractStateName(message)

	if strings.Contains(message, "state") && specificState == "" {
		if stateData, err := s.filings.CountByStateSince(dbc, tf.Start); err == nil && len(stateData) > 0 {
			msg.WriteString("**State-wise breakdown:**\n")
			for _, row := range stateData {
				fmt.Fprintf(&msg, "- **%s**: %d patents\n", row.State, row.Count)
			}
			msg.WriteString("\n")
		}
	}

	wantsCity := strings.Contains(message, "city") || strings.Contains(message, "district")
	switch {
	case specificState != "" && (wantsCity || strings.Contains(message, "in "+strings.ToLower(specificState))):
		cityData, err := s.filings.CountByCityInStateSince(dbc, tf.Start, specificState)
		if err == nil && len(cityData) > 0 {
			fmt.Fprintf(&msg, "**Cities/Districts in %s:**\n", specificState)
			for _, row := range cityData {
				fmt.Fprintf(&msg, "- **%s**: %d patents\n", row.City, row.Count)
			}
			msg.WriteString("\n")
		} else if err == nil {
			fmt.Fprintf(&msg, "No patents found in %s for %s.\n\n", specificState, strings.ToLower(tf.Label))
		}
	case wantsCity:
		if cityData, err := s.filings.CountByCitySince(dbc, tf.Start); err == nil && len(cityData) > 0 {
			msg.WriteString("**City/District-wise breakdown (Top 10):**\n")
			limit := len(cityData)
			if limit > 10 {
				limit = 10
			}
			for _, row := range cityData[:limit] {
				fmt.Fprintf(&msg, "- **%s**: %d patents\n", row.City, row.Count)
			}
			if len(cityData) > 10 {
				fmt.Fprintf(&msg, "... and %d more cities\n", len(cityData)-10)
			}
			msg.WriteString("\n")
		}
	}

	msg.WriteString("💡 *This data is fetched in real-time from the database.*")

	return &ChatResponse{
		Message:   msg.String(),
		Type:      "analytics",
		QueryType: "patent_analytics",
		Data:      map[string]any{"count": total, "timeFrame": tf.Label},
		Suggestions: []string{
			"How many users registered today?",
			"Show patents by state this week",
			"Which cities have most patents today?",
		},
	}
}

func generalHelpResponse() *ChatResponse {
	return &ChatResponse{
		Message: "I'm here to help! I can assist you with:\n\n" +
			"- **Patent Information**: Total patents, patents by state/city\n" +
			"- **Payment & Subscriptions**: Plans, pricing, payment methods\n" +
			"- **Dashboard Features**: Charts, filters, analytics\n" +
			"- **Patent Filing**: How to file, track status\n" +
			"- **Platform Help**: Navigation, features, support\n\n" +
			"What would you like to know?",
		QueryType: "general_help",
		Suggestions: []string{
			"How many patents are there?",
			"Show subscription plans",
			"How do I file a patent?",
			"What features are available?",
		},
	}
}
