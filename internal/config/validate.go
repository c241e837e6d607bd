package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Auth.validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	if err := c.Voice.validate(); err != nil {
		return fmt.Errorf("voice: %w", err)
	}

	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm: max_tokens must be > 0 (got %d)", c.LLM.MaxTokens)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log: format must be json or text (got %q)", c.Log.Format)
	}

	return nil
}

func (a *AuthConfig) validate() error {
	if len(a.TokenPepper) < 32 {
		return fmt.Errorf("token_pepper must be at least 32 characters (got %d)", len(a.TokenPepper))
	}
	if a.JWTSecret != "" && len(a.JWTSecret) < 32 {
		return fmt.Errorf("jwt_secret must be at least 32 characters when set (got %d)", len(a.JWTSecret))
	}
	if strings.TrimSpace(a.RequiredScope) == "" {
		return errors.New("required_scope must not be empty")
	}
	if a.DeviceTokenTTL <= 0 {
		return fmt.Errorf("device_token_ttl must be > 0 (got %v)", a.DeviceTokenTTL)
	}
	return nil
}

func (v *VoiceConfig) validate() error {
	if v.HighConfidence <= 0 || v.HighConfidence > 1 {
		return fmt.Errorf("high_confidence must be in (0,1] (got %v)", v.HighConfidence)
	}
	if v.MediumConfidence < 0 || v.MediumConfidence >= v.HighConfidence {
		return fmt.Errorf("medium_confidence must be in [0, high_confidence) (got %v)", v.MediumConfidence)
	}
	if v.MatchThreshold <= 0 || v.MatchThreshold > 1 {
		return fmt.Errorf("match_threshold must be in (0,1] (got %v)", v.MatchThreshold)
	}
	if v.BackgroundTimeout <= 0 {
		return fmt.Errorf("background_timeout must be > 0 (got %v)", v.BackgroundTimeout)
	}
	if v.MaxTextLength <= 0 {
		return fmt.Errorf("max_text_length must be > 0 (got %d)", v.MaxTextLength)
	}
	return nil
}
