package domain

// PromptRole is the author of a prompt message.
type PromptRole string

const (
	PromptRoleSystem    PromptRole = "system"
	PromptRoleUser      PromptRole = "user"
	PromptRoleAssistant PromptRole = "assistant"
)

// PromptMessage is one entry of a generation request.
type PromptMessage struct {
	Role    PromptRole `json:"role"`
	Content string     `json:"content"`
}

// Prompt is a fully assembled generation request.
type Prompt struct {
	Messages    []PromptMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

// RetrievedSegment is a page segment returned by a similarity query.
type RetrievedSegment struct {
	ID         string  `json:"id"`
	PageNumber int     `json:"page_number"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
	Model      string  `json:"model,omitempty"` // embedding model that produced the vector
}

// Vector is an embedded page segment ready for upsert.
type Vector struct {
	ID         string    `json:"id"`
	Values     []float32 `json:"values"`
	PageNumber int       `json:"page_number"`
	Text       string    `json:"text"`
	Model      string    `json:"model"`
}
