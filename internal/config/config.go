package config

import "time"

const (
	// Suspicion scoring
	HeuristicHitScore      = 20
	TokenHitScore          = 25
	MaxSuspicionScore      = 100
	HighSuspicionThreshold = 70
	MinDescriptionLength   = 20
	MinDescriptionWords    = 5

	// AI flags
	FlagHighSuspicion = "HIGH_SUSPICION_SCORE"
	FlagLowQuality    = "LOW_QUALITY_DESCRIPTION"

	// Safeguard handling deadline once a level-2 actor takes ownership
	SafeguardDeadline = 72 * time.Hour

	// History pagination
	DefaultHistoryLimit = 30
	MaxHistoryLimit     = 100

	// Uploads
	MaxAttachmentCount = 5
	MaxAttachmentSize  = 50 << 20 // 50MB

	// Audit recording
	AuditQueueSize = 256

	// Auth
	TokenTTL = 72 * time.Hour
)

// LowQualityTokens are the denylist tokens that raise the suspicion score
// of a new report.
var LowQualityTokens = []string{"test", "fake", "essai", "blague"}

// AllowedAttachmentTypes is the mime allowlist for uploaded evidence.
var AllowedAttachmentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/jpg":       true,
	"audio/mpeg":      true,
	"audio/wav":       true,
	"video/mp4":       true,
	"video/quicktime": true,
	"application/pdf": true,
}
