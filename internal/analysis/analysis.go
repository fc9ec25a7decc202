// Package analysis holds the placeholder heuristic used to score incoming
// reports for suspicion. It is a stand-in for a local NLP model and can be
// swapped out without touching the case lifecycle.
package analysis

import (
	"strings"

	"childguard/backend/internal/config"
)

// SuspicionScore rates a report description in [0,100]. Each boolean
// heuristic hit (too short, too few words) adds 20, each denylist token
// found in the text adds 25, capped at 100. The incident type is accepted
// for interface stability but unused by the current heuristic.
func SuspicionScore(description string, incidentType string) int {
	score := 0
	lower := strings.ToLower(description)

	if len(description) < config.MinDescriptionLength {
		score += config.HeuristicHitScore
	}
	if len(strings.Fields(description)) < config.MinDescriptionWords {
		score += config.HeuristicHitScore
	}
	for _, token := range config.LowQualityTokens {
		if strings.Contains(lower, token) {
			score += config.TokenHitScore
		}
	}

	if score > config.MaxSuspicionScore {
		score = config.MaxSuspicionScore
	}
	return score
}
