package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	AppVersion             = "v1.0.0"
	AppPort                = "3000"
	AppDebug               = false
	AppBasicAuthCredential []string

	PathStorages = "storages"
	PathMedia    = "statics/media"

	// AI provider settings. Provider is "gemini" or "openai"; the key is
	// supplied per request when a saved credential is not used.
	AIProvider       = "gemini"
	AIAPIKey         string
	AITextModel      = "gemini-2.5-flash"
	AIPlanModel      = "gemini-3-pro-preview"
	AIImageModel     = "gemini-2.5-flash-image"
	AICallTimeout    = 120 * time.Second
	AIImageTimeout   = 90 * time.Second
	AISearchEnabled  = true // live web retrieval for the analysis research call
	ImageWorkerCount = 4
	ImageQueueSize   = 64

	// Telegram delivery settings.
	TelegramAPIBase     = "https://api.telegram.org"
	TelegramSendDelay   = 1 * time.Second
	TelegramSendTimeout = 30 * time.Second
	TelegramMaxPhotoPx  = 1280

	// Dedup history settings. The cap is global, oldest evicted first.
	HistoryMaxRecords = 20

	// Revision quota per post.
	PostMaxRevisions = 2
)

func init() {
	if v := strings.TrimSpace(os.Getenv("AI_PROVIDER")); v != "" {
		AIProvider = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("AI_API_KEY")); v != "" {
		AIAPIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("AI_TEXT_MODEL")); v != "" {
		AITextModel = v
	}
	if v := strings.TrimSpace(os.Getenv("AI_PLAN_MODEL")); v != "" {
		AIPlanModel = v
	}
	if v := strings.TrimSpace(os.Getenv("AI_IMAGE_MODEL")); v != "" {
		AIImageModel = v
	}
	if v := strings.TrimSpace(os.Getenv("AI_SEARCH_ENABLED")); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "y", "on":
			AISearchEnabled = true
		case "0", "false", "no", "n", "off":
			AISearchEnabled = false
		}
	}
	if v := strings.TrimSpace(os.Getenv("AI_CALL_TIMEOUT_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			AICallTimeout = time.Duration(n) * time.Millisecond
		}
	}
	if v := strings.TrimSpace(os.Getenv("AI_IMAGE_TIMEOUT_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			AIImageTimeout = time.Duration(n) * time.Millisecond
		}
	}
	if v := strings.TrimSpace(os.Getenv("IMAGE_WORKER_COUNT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ImageWorkerCount = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("IMAGE_QUEUE_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ImageQueueSize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_API_BASE")); v != "" {
		TelegramAPIBase = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_SEND_DELAY_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			TelegramSendDelay = time.Duration(n) * time.Millisecond
		}
	}
	if v := strings.TrimSpace(os.Getenv("HISTORY_MAX_RECORDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			HistoryMaxRecords = n
		}
	}
}
