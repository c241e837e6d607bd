package auth

import "github.com/heartmarshall/voicecommand-backend/internal/domain"

// IssuedToken is a freshly minted device token. Raw is shown once and never stored.
type IssuedToken struct {
	Raw   string
	Token *domain.DeviceToken
}
