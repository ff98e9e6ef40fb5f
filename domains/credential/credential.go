package credential

import "context"

type Kind string

const (
	KindTelegram Kind = "telegram"
)

// Credential is a saved delivery destination: bot token + chat id. Saved for
// convenience across sessions, never validated ahead of use.
type Credential struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Kind     Kind   `json:"kind"`
	BotToken string `json:"bot_token,omitempty"`
	ChatID   string `json:"chat_id,omitempty"`
}

type CreateCredentialRequest struct {
	Name     string `json:"name"`
	Kind     Kind   `json:"kind"`
	BotToken string `json:"bot_token"`
	ChatID   string `json:"chat_id"`
}

type UpdateCredentialRequest struct {
	Name     string `json:"name"`
	BotToken string `json:"bot_token"`
	ChatID   string `json:"chat_id"`
}

type ICredentialUsecase interface {
	Create(ctx context.Context, req CreateCredentialRequest) (Credential, error)
	List(ctx context.Context) ([]Credential, error)
	GetByID(ctx context.Context, id string) (Credential, error)
	Update(ctx context.Context, id string, req UpdateCredentialRequest) (Credential, error)
	Delete(ctx context.Context, id string) error
}
