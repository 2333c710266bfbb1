package model

import "time"

// ================ Config ================
type StoreConfig struct {
	Name  string `envconfig:"STORE_NAME" default:"广州兴盛批发部"`
	Owner string `envconfig:"STORE_OWNER" default:"李老板"`
}

// DelayConfig holds the simulated latencies of the scripted assistant.
type DelayConfig struct {
	Reply   time.Duration `envconfig:"DELAY_REPLY" default:"1500ms"`
	Voice   time.Duration `envconfig:"DELAY_VOICE" default:"2000ms"`
	Camera  time.Duration `envconfig:"DELAY_CAMERA" default:"1500ms"`
	Draft   time.Duration `envconfig:"DELAY_DRAFT" default:"100ms"`
	Confirm time.Duration `envconfig:"DELAY_CONFIRM" default:"600ms"`
}

type ConversationConfig struct {
	TTL        string `envconfig:"CONVERSATION_TTL" default:"24h"`
	TitleRunes int    `envconfig:"CONVERSATION_TITLE_RUNES" default:"10"`
}

// DefaultDelays mirrors the envconfig defaults for callers that skip env loading.
func DefaultDelays() DelayConfig {
	return DelayConfig{
		Reply:   1500 * time.Millisecond,
		Voice:   2000 * time.Millisecond,
		Camera:  1500 * time.Millisecond,
		Draft:   100 * time.Millisecond,
		Confirm: 600 * time.Millisecond,
	}
}
