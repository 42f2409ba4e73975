package entity

import (
	"github.com/google/uuid"
)

// ChatTheme holds the presentation colors of a container. The backend only
// stores and echoes them; rendering is the client's job.
type ChatTheme struct {
	UserBg             string `json:"userBg"`
	UserText           string `json:"userText"`
	BotBg              string `json:"botBg"`
	BotText            string `json:"botText"`
	BgGradientStart    string `json:"bgGradientStart"`
	BgGradientEnd      string `json:"bgGradientEnd"`
	SidebarBg          string `json:"sidebarBg"`
	SidebarText        string `json:"sidebarText"`
	SidebarHighlightBg string `json:"sidebarHighlightBg"`
}

// AIModel is one entry of the global model catalog.
type AIModel struct {
	Id   string `json:"id"`
	Api  string `json:"api"` // "google" | "openai" | "anthropic" | "meta" | "groq"
	Icon string `json:"icon"`
}

// Integrations toggles external collaborators on the branding level.
type Integrations struct {
	Sharepoint bool `json:"sharepoint"`
	Brevo      bool `json:"brevo"`
	Hubspot    bool `json:"hubspot"`
	Docusign   bool `json:"docusign"`
	Outlook    bool `json:"outlook"`
}

// Branding is the hub-wide appearance and login configuration.
type Branding struct {
	LoginTitle           string       `json:"loginTitle"`
	LoginSubtitle        string       `json:"loginSubtitle"`
	HubTitle             string       `json:"hubTitle"`
	HubSubtitle          string       `json:"hubSubtitle"`
	HubHeaderTitle       string       `json:"hubHeaderTitle"`
	AppLogo              string       `json:"appLogo,omitempty"`
	EnableGoogleLogin    bool         `json:"enableGoogleLogin"`
	EnableMicrosoftLogin bool         `json:"enableMicrosoftLogin"`
	EnableCookieBanner   bool         `json:"enableCookieBanner"`
	PrivacyPolicyUrl     string       `json:"privacyPolicyUrl"`
	Integrations         Integrations `json:"integrations"`
}

// Container is an isolated workspace: its own model/persona selection,
// chat entries and knowledge base.
//
// Invariant: ActiveChatId is nil or references an entry present in Chats.
// Whoever removes the referenced entry must null it out.
type Container struct {
	Id                    uuid.UUID       `json:"id"`
	Name                  string          `json:"name"`
	Description           string          `json:"description"`
	Icon                  string          `json:"icon"`
	CardImageUrl          string          `json:"cardImageUrl"`
	QuickQuestions        []string        `json:"quickQuestions"`
	AvailableModels       []string        `json:"availableModels"`
	AvailablePersonas     []string        `json:"availablePersonas"`
	SelectedModel         string          `json:"selectedModel"`
	SelectedPersona       string          `json:"selectedPersona"`
	EnabledIntegrations   []string        `json:"enabledIntegrations"`
	AccessControl         []string        `json:"accessControl"`
	Chats                 []*ChatEntry    `json:"chats"`
	ActiveChatId          *uuid.UUID      `json:"activeChatId"`
	KnowledgeBase         []KnowledgeFile `json:"knowledgeBase"`
	Theme                 ChatTheme       `json:"theme"`
	IsKnowledgeBasePublic bool            `json:"isKnowledgeBasePublic"`
}

// Chat returns the entry with the given id, or nil.
func (c *Container) Chat(id uuid.UUID) *ChatEntry {
	for _, ch := range c.Chats {
		if ch.Id == id {
			return ch
		}
	}
	return nil
}

// HasKnowledgeFile reports whether a knowledge file with the given name exists.
func (c *Container) HasKnowledgeFile(name string) bool {
	for _, f := range c.KnowledgeBase {
		if f.Name == name {
			return true
		}
	}
	return false
}
