package services

import (
	"strings"

	"github.com/patentdesk/backend/internal/domain"
)

// MatchWeights are the scoring constants the knowledge matcher uses. They
// are a struct rather than package constants so tests can pin individual
// signals down to zero.
type MatchWeights struct {
	ExactClean       int // cleaned message equals cleaned question
	ExactRaw         int // raw lowercased equality
	MessageContains  int // message contains the whole question
	QuestionContains int // question contains the whole message
	Similar          int // structural similarity bonus

	KeywordClean int // cleaned keyword appears in cleaned message
	KeywordRaw   int // raw keyword appears in raw message
	WordExact    int // per exact word pair between message and keyword
	WordPrefix   int // per prefix word pair
	WordContains int // per substring word pair on longer words

	MultiKeywordBonus int // per matched keyword when more than one matched
	HalfKeywordsBonus int // at least half the entry's keywords matched

	Category     int // whole category name in message
	CategoryWord int // per category word in message

	Overlap            int // per word shared between message and question
	SignificantOverlap int // extra per shared word of length >= 5

	AnswerWord int // per long message word found in the answer text

	Threshold int // minimum total for the entry to be served
}

// DefaultMatchWeights returns the production scoring table. The threshold is
// deliberately lenient so near-misses still resolve to the closest entry.
func DefaultMatchWeights() MatchWeights {
	return MatchWeights{
		ExactClean:       200,
		ExactRaw:         150,
		MessageContains:  80,
		QuestionContains: 70,
		Similar:          40,

		KeywordClean: 20,
		KeywordRaw:   15,
		WordExact:    8,
		WordPrefix:   5,
		WordContains: 3,

		MultiKeywordBonus: 10,
		HalfKeywordsBonus: 25,

		Category:     15,
		CategoryWord: 5,

		Overlap:            4,
		SignificantOverlap: 8,

		AnswerWord: 2,

		Threshold: 3,
	}
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(strings.Map(stripPunct, strings.ToLower(s))), " ")
}

// CalculateMatchScore scores one knowledge base entry against a message.
// The signals stack: question similarity, keyword hits, category relevance,
// word overlap, answer content, and finally the entry's own priority.
func CalculateMatchScore(message string, kb *domain.ChatbotKnowledgeBase, w MatchWeights) int {
	if kb == nil || message == "" {
		return 0
	}

	score := 0
	lowerMessage := strings.TrimSpace(strings.ToLower(message))
	cleanMessage := cleanText(message)
	messageWords := strings.Fields(cleanMessage)

	if kb.Question != "" {
		lowerQuestion := strings.TrimSpace(strings.ToLower(kb.Question))
		cleanQuestion := cleanText(kb.Question)

		switch {
		case cleanMessage == cleanQuestion:
			score += w.ExactClean
		case lowerMessage == lowerQuestion:
			score += w.ExactRaw
		case strings.Contains(cleanMessage, cleanQuestion):
			score += w.MessageContains
		case strings.Contains(cleanQuestion, cleanMessage):
			score += w.QuestionContains
		}

		if areSimilar(cleanMessage, cleanQuestion) {
			score += w.Similar
		}
	}

	keywords := kb.KeywordList()
	if len(keywords) > 0 {
		keywordMatches := 0
		for _, keyword := range keywords {
			if keyword == "" {
				continue
			}
			lowerKeyword := strings.TrimSpace(strings.ToLower(keyword))
			cleanKeyword := cleanText(keyword)

			if strings.Contains(cleanMessage, cleanKeyword) {
				keywordMatches++
				score += w.KeywordClean
			} else if strings.Contains(lowerMessage, lowerKeyword) {
				keywordMatches++
				score += w.KeywordRaw
			}

			for _, msgWord := range messageWords {
				if len(msgWord) <= 2 {
					continue
				}
				for _, kwWord := range strings.Fields(cleanKeyword) {
					if len(kwWord) <= 2 {
						continue
					}
					switch {
					case msgWord == kwWord:
						score += w.WordExact
					case strings.HasPrefix(msgWord, kwWord) && len(kwWord) >= 3:
						score += w.WordPrefix
					case strings.HasPrefix(kwWord, msgWord) && len(msgWord) >= 3:
						score += w.WordPrefix
					case len(msgWord) >= 5 && len(kwWord) >= 4 &&
						(strings.Contains(msgWord, kwWord) || strings.Contains(kwWord, msgWord)):
						score += w.WordContains
					}
				}
			}
		}

		if keywordMatches > 1 {
			score += keywordMatches * w.MultiKeywordBonus
		}
		if keywordMatches >= len(keywords)/2 && len(keywords) > 0 {
			score += w.HalfKeywordsBonus
		}
	}

	if kb.Category != "" {
		lowerCategory := strings.ToLower(kb.Category)
		if strings.Contains(lowerMessage, lowerCategory) {
			score += w.Category
		}
		for _, catWord := range strings.Fields(lowerCategory) {
			if len(catWord) > 3 && strings.Contains(lowerMessage, catWord) {
				score += w.CategoryWord
			}
		}
	}

	if kb.Question != "" {
		questionWords := strings.Fields(cleanText(kb.Question))
		overlap := 0
		significant := 0
		for _, msgWord := range messageWords {
			if len(msgWord) <= 2 {
				continue
			}
			for _, qWord := range questionWords {
				if len(qWord) > 2 && msgWord == qWord {
					overlap++
					if len(msgWord) >= 5 {
						significant++
					}
				}
			}
		}
		score += overlap * w.Overlap
		score += significant * w.SignificantOverlap
	}

	if kb.Answer != "" {
		lowerAnswer := strings.ToLower(kb.Answer)
		answerMatches := 0
		for _, msgWord := range messageWords {
			if len(msgWord) > 4 && strings.Contains(lowerAnswer, msgWord) {
				answerMatches++
			}
		}
		score += answerMatches * w.AnswerWord
	}

	if kb.Priority > 0 {
		score += kb.Priority
	}

	return score
}

// areSimilar is a cheap structural check: the strings must be within 40% of
// each other in length and share at least half the words of the shorter one.
func areSimilar(s1, s2 string) bool {
	if s1 == "" || s2 == "" {
		return false
	}
	lenDiff := len(s1) - len(s2)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	maxLen := len(s1)
	if len(s2) > maxLen {
		maxLen = len(s2)
	}
	if float64(lenDiff) > float64(maxLen)*0.4 {
		return false
	}

	words1 := strings.Fields(s1)
	words2 := strings.Fields(s2)
	common := 0
	for _, w1 := range words1 {
		if len(w1) <= 2 {
			continue
		}
		for _, w2 := range words2 {
			if w1 == w2 {
				common++
			}
		}
	}

	minWords := len(words1)
	if len(words2) < minWords {
		minWords = len(words2)
	}
	return minWords > 0 && float64(common) >= float64(minWords)*0.5
}
