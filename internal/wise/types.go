package wise

// BriefRequest asks the upstream creative director for a brief.
type BriefRequest struct {
	BrandDescription string `json:"brand_description"`
}

// BriefResponse is the generated brief plus generation metadata.
type BriefResponse struct {
	BrandDescription string `json:"brand_description"`
	CreativeBrief    string `json:"creative_brief"`
	MemoriesUsed     int    `json:"memories_used"`
}

// Message is a single turn of the refinement conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest continues a brief refinement conversation.
type ChatRequest struct {
	BrandDescription string    `json:"brand_description"`
	CreativeBrief    string    `json:"creative_brief"`
	Messages         []Message `json:"messages"`
	UserMessage      string    `json:"user_message"`
}

// ChatResponse is the assistant's reply to a refinement message.
type ChatResponse struct {
	Response string `json:"response"`
	Role     string `json:"role"`
}

// PromptTemplates groups suggested follow-up prompts by category.
type PromptTemplates struct {
	Deeper    []string `json:"deeper"`
	Challenge []string `json:"challenge"`
	Iterate   []string `json:"iterate"`
	Execution []string `json:"execution"`
	Strategy  []string `json:"strategy"`
	Audience  []string `json:"audience"`
}
