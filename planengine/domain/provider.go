package domain

import "context"

// Schema is a vendor-neutral slice of JSON schema, wide enough for the
// structured outputs this pipeline asks for. Each provider converts it to
// its own representation.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// AIProvider is the thin interface every model vendor implements.
type AIProvider interface {
	// Research runs an open-ended call; the provider may ground it with
	// live web search. Returns unstructured narrative text.
	Research(ctx context.Context, prompt string) (string, error)

	// Complete runs a structured-output call. When schema is non-nil the
	// returned text is JSON conforming to it.
	Complete(ctx context.Context, prompt string, schema *Schema) (string, error)

	// GenerateImage renders a directive into image bytes, optionally steered
	// by reference images.
	GenerateImage(ctx context.Context, directive string, refs [][]byte) ([]byte, error)
}
