package model

import "time"

// Tier selects the system prompt used for a demo chat request.
type Tier string

const (
	TierBasic    Tier = "basic"
	TierBusiness Tier = "business"
	TierPremium  Tier = "premium"
)

// Tiers lists every known tier in display order.
var Tiers = []Tier{TierBasic, TierBusiness, TierPremium}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	for _, known := range Tiers {
		if t == known {
			return true
		}
	}
	return false
}

// ChatMessage is one conversation turn sent by the site's chat widget.
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant" example:"user"`
	Content string `json:"content" validate:"required,min=1,max=8000" example:"Build me a hero section for a bakery"`
}

// DemoChatRequest is the body of the demo chat endpoint.
type DemoChatRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,max=50,dive"`
	Tier     string        `json:"tier" example:"premium"`
}

// Contact is a stored contact form submission.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ContactRequest is the body of the contact form endpoint.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=100" example:"Ada"`
	Email   string `json:"email" validate:"required,email,max=254" example:"ada@example.com"`
	Message string `json:"message" validate:"required,min=1,max=4000" example:"We'd like a new landing page."`
}

// Settings are the runtime-editable site settings.
type Settings struct {
	Model   string          `json:"model" validate:"required" example:"google/gemini-2.5-flash"`
	Prompts map[Tier]string `json:"prompts"`
}

// Prompt returns the system prompt for tier, empty if none is set.
func (s *Settings) Prompt(tier Tier) string {
	if s == nil || s.Prompts == nil {
		return ""
	}
	return s.Prompts[tier]
}
