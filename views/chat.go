package views

import (
	"context"
	"strings"
	"sync"

	"github.com/andrewpaige1/studydesk/models"
)

const ActionSend = "send"

// ChatPanel is the assistant side panel. It talks about the open lecture
// when there is one and falls back to general chat otherwise.
type ChatPanel struct {
	*env
	busy     Busy
	settings func() models.UserSettings

	mu           sync.Mutex
	lectureID    string
	lectureTitle string
	messages     []models.ChatMessage
}

func newChatPanel(e *env, settings func() models.UserSettings) *ChatPanel {
	return &ChatPanel{env: e, settings: settings}
}

// SetLecture scopes the chat to a lecture ("" for general). Switching to a
// different lecture clears the conversation.
func (c *ChatPanel) SetLecture(id, title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id != c.lectureID {
		c.messages = nil
	}
	c.lectureID = id
	c.lectureTitle = title
}

// Send posts text with the conversation so far. Empty text and sends while
// a reply is pending are ignored.
func (c *ChatPanel) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	end, err := c.busy.Begin(ActionSend)
	if err != nil {
		return nil
	}
	defer end()

	settings := c.settings()
	name, tone := settings.ChatbotName, settings.ChatbotTone
	if name == "" {
		name = "Tutor"
	}
	if tone == "" {
		tone = models.ToneFriendly
	}

	c.mu.Lock()
	c.messages = append(c.messages, models.ChatMessage{Role: models.RoleUser, Content: text})
	req := models.ChatRequest{
		LectureID:   c.lectureID,
		Messages:    append([]models.ChatMessage(nil), c.messages...),
		ChatbotName: name,
		ChatbotTone: tone,
	}
	c.mu.Unlock()

	var reply string
	if req.LectureID != "" {
		reply, err = c.Assistant.Chat(ctx, req)
	} else {
		reply, err = c.Assistant.ChatGeneral(ctx, req)
	}
	if err != nil {
		c.log.Warn("chat failed", "lecture_id", req.LectureID, "error", err)
		c.toasts.Error("Chat error")
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lectureID != req.LectureID {
		return nil
	}
	c.messages = append(c.messages, models.ChatMessage{Role: models.RoleAssistant, Content: reply})
	return nil
}

func (c *ChatPanel) Reset() {
	c.mu.Lock()
	c.lectureID, c.lectureTitle = "", ""
	c.messages = nil
	c.mu.Unlock()
}

type ChatState struct {
	LectureID     string               `json:"lecture_id,omitempty"`
	LectureTitle  string               `json:"lecture_title,omitempty"`
	AssistantName string               `json:"assistant_name"`
	Messages      []models.ChatMessage `json:"messages"`
	Busy          bool                 `json:"busy"`
}

func (c *ChatPanel) Snapshot() ChatState {
	name := c.settings().ChatbotName
	if name == "" {
		name = "Tutor"
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return ChatState{
		LectureID:     c.lectureID,
		LectureTitle:  c.lectureTitle,
		AssistantName: name,
		Messages:      append([]models.ChatMessage{}, c.messages...),
		Busy:          c.busy.Is(ActionSend),
	}
}
