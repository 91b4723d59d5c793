package chat

// Preset customizes the greeting and the reply model's system prompt.
type Preset struct {
	Welcome      *Message `json:"welcome,omitempty" yaml:"welcome,omitempty"`
	SystemPrompt string   `json:"system,omitempty" yaml:"system,omitempty"`
	Model        string   `json:"model,omitempty" yaml:"model,omitempty"`
	MaxTokens    int      `json:"maxTokens,omitempty" yaml:"maxTokens,omitempty"`
	Temperature  float32  `json:"temperature,omitempty" yaml:"temperature,omitempty"`
}

// WelcomeText returns the preset greeting or dft.
func (p Preset) WelcomeText(dft string) string {
	if p.Welcome != nil && len(p.Welcome.Content) > 0 {
		return p.Welcome.Content
	}
	return dft
}
