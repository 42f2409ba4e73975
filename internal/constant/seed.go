package constant

import (
	"ai-hub-be/internal/entity"

	"github.com/google/uuid"
)

var DefaultTheme = entity.ChatTheme{
	UserBg:             "#0077b6",
	UserText:           "#ffffff",
	BotBg:              "#1a1a2e",
	BotText:            "#f0f0f0",
	BgGradientStart:    "#0f0c29",
	BgGradientEnd:      "#24243e",
	SidebarBg:          "#0f0c29",
	SidebarText:        "#a9a9b3",
	SidebarHighlightBg: "rgba(0, 191, 255, 0.1)",
}

var DefaultBranding = entity.Branding{
	LoginTitle:           "AI Hub",
	LoginSubtitle:        "Sign in to continue",
	HubTitle:             "Welcome",
	HubSubtitle:          "Select a workspace to get started",
	HubHeaderTitle:       "AI Hub",
	EnableGoogleLogin:    true,
	EnableMicrosoftLogin: true,
	EnableCookieBanner:   false,
	Integrations:         entity.Integrations{},
}

var DefaultModels = []entity.AIModel{
	{Id: "gemini-2.5-flash", Api: "google", Icon: "sparkle"},
	{Id: "openai/gpt-4o", Api: "openai", Icon: "circle"},
	{Id: "anthropic/claude-3-opus", Api: "anthropic", Icon: "info"},
	{Id: "meta/llama-3-70b", Api: "meta", Icon: "waves"},
	{Id: "groq/llama3-8b-8192", Api: "groq", Icon: "bolt"},
}

// DefaultSnapshot fabricates the initial application state used when the
// durable key is missing or corrupted. Container ids are freshly generated.
func DefaultSnapshot() *entity.Snapshot {
	modelIds := make([]string, len(DefaultModels))
	for i, m := range DefaultModels {
		modelIds[i] = m.Id
	}

	security := &entity.Container{
		Id:           uuid.New(),
		Name:         "Data Security",
		Description:  "Protecting our digital assets and infrastructure.",
		Icon:         "shield",
		CardImageUrl: "https://images.unsplash.com/photo-1550751827-4138d04d405b?q=80&w=1280&auto=format&fit=crop",
		QuickQuestions: []string{
			"What is phishing?",
			"Latest security threats?",
			"Recommend a password manager.",
			"How to secure my home Wi-Fi?",
		},
		AvailableModels:   append([]string{}, modelIds...),
		AvailablePersonas: []string{"Helpful Assistant", "Security Expert", "Strict Enforcer"},
		SelectedModel:     "gemini-2.5-flash",
		SelectedPersona:   "Helpful Assistant",
		AccessControl:     []string{"admin@company.com", "security-team"},
		Chats:             []*entity.ChatEntry{},
		KnowledgeBase:     []entity.KnowledgeFile{},
		Theme:             DefaultTheme,
	}

	sales := &entity.Container{
		Id:           uuid.New(),
		Name:         "Sales",
		Description:  "Driving growth, strategy, and revenue generation.",
		Icon:         "chart",
		CardImageUrl: "https://images.unsplash.com/photo-1520607162513-77705c0f0d4a?q=80&w=1280&auto=format&fit=crop",
		QuickQuestions: []string{
			"Summarize last week's leads.",
			"Who is our biggest competitor?",
			"Draft a follow-up email.",
			"Give me a sales pitch for Product X.",
		},
		AvailableModels:     append([]string{}, modelIds...),
		AvailablePersonas:   []string{"Helpful Assistant", "Sales Coach", "Data Analyst"},
		SelectedModel:       "gemini-2.5-flash",
		SelectedPersona:     "Helpful Assistant",
		EnabledIntegrations: []string{"outlook"},
		AccessControl:       []string{"admin@company.com", "sales-team"},
		Chats:               []*entity.ChatEntry{},
		KnowledgeBase:       []entity.KnowledgeFile{},
		Theme:               DefaultTheme,
	}

	return &entity.Snapshot{
		Containers:      []*entity.Container{security, sales},
		Branding:        DefaultBranding,
		AvailableModels: append([]entity.AIModel{}, DefaultModels...),
	}
}
