package models

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is sent to /chat/ (LectureID set) or /chat/general.
type ChatRequest struct {
	LectureID   string        `json:"lecture_id,omitempty"`
	Messages    []ChatMessage `json:"messages"`
	ChatbotName string        `json:"chatbot_name"`
	ChatbotTone string        `json:"chatbot_tone"`
}

type ChatReply struct {
	Reply string `json:"reply"`
}

type SolveRequest struct {
	Question string `json:"question"`
	Subject  string `json:"subject"`
}

type Solution struct {
	Solution string `json:"solution"`
}
