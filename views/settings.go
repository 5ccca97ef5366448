package views

import (
	"context"
	"strings"
	"sync"

	"github.com/andrewpaige1/studydesk/models"
)

const ActionSave = "save"

// SettingsView edits the profile and assistant settings.
type SettingsView struct {
	*env
	busy    Busy
	onSaved func(models.UserSettings)

	mu     sync.Mutex
	draft  models.UserSettings
	loaded bool
}

func newSettingsView(e *env, onSaved func(models.UserSettings)) *SettingsView {
	return &SettingsView{env: e, onSaved: onSaved}
}

// Mount loads the user's settings. Anything missing or unreadable falls
// back to the defaults.
func (s *SettingsView) Mount(ctx context.Context) error {
	sess, err := s.session()
	if err != nil {
		return err
	}
	userID := sess.User.ID
	draft := models.DefaultSettings(userID)
	if got, err := s.env.Settings.Get(ctx, userID); err != nil {
		s.log.Warn("settings load failed, using defaults", "error", err)
	} else {
		draft = got.WithDefaults()
		draft.UserID = userID
	}
	s.mu.Lock()
	s.draft = draft
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// SettingsPatch holds the fields to change. Nil fields are left alone.
type SettingsPatch struct {
	DisplayName  *string `json:"display_name"`
	AvatarColour *string `json:"avatar_colour"`
	ChatbotName  *string `json:"chatbot_name"`
	ChatbotTone  *string `json:"chatbot_tone"`
}

// Update edits the draft without saving it.
func (s *SettingsView) Update(p SettingsPatch) models.UserSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.DisplayName != nil {
		s.draft.DisplayName = strings.TrimSpace(*p.DisplayName)
	}
	if p.AvatarColour != nil {
		s.draft.AvatarColour = strings.TrimSpace(*p.AvatarColour)
	}
	if p.ChatbotName != nil {
		s.draft.ChatbotName = strings.TrimSpace(*p.ChatbotName)
	}
	if p.ChatbotTone != nil {
		s.draft.ChatbotTone = *p.ChatbotTone
	}
	return s.draft
}

// Save validates and stores the draft.
func (s *SettingsView) Save(ctx context.Context) error {
	sess, err := s.session()
	if err != nil {
		return err
	}
	s.mu.Lock()
	draft := s.draft
	s.mu.Unlock()
	draft.UserID = sess.User.ID

	if err := s.check(draft, "Please check your settings."); err != nil {
		return err
	}
	end, err := s.busy.Begin(ActionSave)
	if err != nil {
		return err
	}
	defer end()

	if err := s.env.Settings.Save(ctx, draft); err != nil {
		s.toasts.Error("Failed to save: " + Message(err))
		return err
	}
	s.toasts.Success("Settings saved!")
	if s.onSaved != nil {
		s.onSaved(draft)
	}
	return nil
}

func (s *SettingsView) Reset() {
	s.mu.Lock()
	s.draft = models.UserSettings{}
	s.loaded = false
	s.mu.Unlock()
}

type SettingsState struct {
	Settings models.UserSettings `json:"settings"`
	Loaded   bool                `json:"loaded"`
	Saving   bool                `json:"saving"`
	Tones    []string            `json:"tones"`
}

func (s *SettingsView) Snapshot() SettingsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SettingsState{
		Settings: s.draft,
		Loaded:   s.loaded,
		Saving:   s.busy.Is(ActionSave),
		Tones:    []string{models.ToneFriendly, models.ToneStrict, models.ToneSocratic},
	}
}
