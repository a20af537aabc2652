package sessions

import (
	"time"

	"github.com/google/uuid"
)

// UserSession is a durable application session created after a verified
// login. Usable only while active and before expiry.
type UserSession struct {
	SessionID string `json:"session_id" gorm:"primaryKey;column:session_id"`
	UserID    string `json:"user_id" gorm:"index"`
	OrgID     string `json:"org_id" gorm:"index"`

	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`

	IsActive bool `json:"is_active" gorm:"index:idx_sessions_active,where:is_active = true"`

	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at" gorm:"index"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}

// NewSessionID generates an identifier for a freshly created session.
func NewSessionID() string {
	return "ses_" + uuid.NewString()
}
