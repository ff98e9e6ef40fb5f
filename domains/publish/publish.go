package publish

import (
	"context"

	domainPlan "github.com/AzielCF/az-planner/domains/plan"
)

type PublishRequest struct {
	BotToken     string `json:"bot_token" form:"bot_token"`
	ChatID       string `json:"chat_id" form:"chat_id"`
	CredentialID string `json:"credential_id,omitempty" form:"credential_id"`
}

// PublishResult reports how far the queue got. Delivery is fail-fast: posts
// sent before a failure keep their published state.
type PublishResult struct {
	Sent      []string `json:"sent"`
	Skipped   []string `json:"skipped,omitempty"`
	FailedID  string   `json:"failed_id,omitempty"`
	ErrorText string   `json:"error_text,omitempty"`
}

type IPublishUsecase interface {
	Publish(ctx context.Context, request PublishRequest) (PublishResult, error)
}

// Sender is the outbound messaging contract the orchestrator walks the
// approved queue with. imageRef is either an http(s) URL or a local file path.
type Sender interface {
	SendPhoto(ctx context.Context, botToken, chatID, imageRef, captionHTML string) error
}

// CaptionHTML renders the caption the destination shows under the photo.
func CaptionHTML(post domainPlan.Post) string {
	caption := "<b>" + post.Title + "</b>\n\n" + post.Content
	if post.Script != "" {
		caption += "\n\n🎬 <b>Script:</b>\n<i>" + post.Script + "</i>"
	}
	return caption
}
