package models

// Chatbot tones understood by the backend.
const (
	ToneFriendly = "friendly"
	ToneStrict   = "strict"
	ToneSocratic = "socratic"
)

// UserSettings are the profile preferences of a signed-in user.
type UserSettings struct {
	UserID       string `json:"user_id"`
	DisplayName  string `json:"display_name" validate:"max=100"`
	AvatarColour string `json:"avatar_colour" validate:"required,hexcolor"`
	ChatbotName  string `json:"chatbot_name" validate:"required,max=50"`
	ChatbotTone  string `json:"chatbot_tone" validate:"required,oneof=friendly strict socratic"`
}

// DefaultSettings returns the settings a user has before saving any.
func DefaultSettings(userID string) UserSettings {
	return UserSettings{
		UserID:       userID,
		AvatarColour: "#c17b2e",
		ChatbotName:  "Tutor",
		ChatbotTone:  ToneFriendly,
	}
}

// WithDefaults fills empty fields from DefaultSettings.
func (s UserSettings) WithDefaults() UserSettings {
	d := DefaultSettings(s.UserID)
	if s.AvatarColour == "" {
		s.AvatarColour = d.AvatarColour
	}
	if s.ChatbotName == "" {
		s.ChatbotName = d.ChatbotName
	}
	if s.ChatbotTone == "" {
		s.ChatbotTone = d.ChatbotTone
	}
	return s
}
