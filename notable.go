package main

import "strings"

// Keyword categories that signal a high-salience news item, each with a fixed
// weight. A category contributes its weight once no matter how many of its
// keywords match.
var (
	breakingNewsKeywords = []string{"단독", "속보", "긴급", "특종", "최초공개", "1보"}
	trendingKeywords     = []string{"화제", "논란", "충격", "파격", "돌발", "이슈"}
	viralKeywords        = []string{"실시간", "핫이슈", "급상승", "화제성", "관심집중"}
	significantKeywords  = []string{"중대발표", "특별", "공식", "전격", "전원", "중요"}
)

const (
	breakingNewsWeight = 2.0
	trendingWeight     = 1.5
	viralWeight        = 1.3
	significantWeight  = 1.2

	punctuationBonus = 0.3
	bracketTagBonus  = 0.5

	hotTopicThreshold = 1.5
)

// hotTopicScore computes the weighted notability score for a title and its
// body text.
func hotTopicScore(title, content string) float64 {
	text := strings.ToLower(title + " " + content)

	score := 0.0
	if containsAny(text, breakingNewsKeywords) {
		score += breakingNewsWeight
	}
	if containsAny(text, trendingKeywords) {
		score += trendingWeight
	}
	if containsAny(text, viralKeywords) {
		score += viralWeight
	}
	if containsAny(text, significantKeywords) {
		score += significantWeight
	}

	if strings.ContainsAny(title, "!?") {
		score += punctuationBonus
	}
	if strings.Contains(title, "[단독]") || strings.Contains(title, "[속보]") {
		score += bracketTagBonus
	}

	return score
}

// isHotTopic reports whether the item clears the notability threshold.
func isHotTopic(title, content string) bool {
	return hotTopicScore(title, content) >= hotTopicThreshold
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
