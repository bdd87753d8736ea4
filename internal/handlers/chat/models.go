// internal/handlers/chat/models.go
package chat

type Request struct {
	Prompt   string `json:"prompt"`
	System   string `json:"system,omitempty"`
	Model    string `json:"model,omitempty"`
	Provider string `json:"provider,omitempty"` // "openai" or "gemini"
}

type Response struct {
	OK       bool   `json:"ok"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Reply    string `json:"reply"`
	Fallback string `json:"fallback,omitempty"` // e.g. "openai->gemini"
}

// Completion is a single provider result.
type Completion struct {
	Provider string
	Model    string
	Reply    string
}

// --- OpenAI chat-completions wire format ---

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

// --- Gemini generateContent wire format ---

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}
