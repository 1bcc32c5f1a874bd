package auth

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
)

type User struct {
	ID           string `gorm:"type:varchar(36);primaryKey"`
	Name         string `gorm:"type:varchar(255);not null"`
	Email        string `gorm:"type:varchar(191);not null;uniqueIndex:ux_users_email"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	Role         string `gorm:"type:varchar(16);not null;default:user"`
	AvatarURL    string `gorm:"type:varchar(1024)"`
	Gender       string `gorm:"type:varchar(32)"`
	City         string `gorm:"type:varchar(128)"`
	Age          int
	Budget       int
	Interests    datatypes.JSON
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
}

func (User) TableName() string { return "users" }

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

func (u User) InterestList() []string {
	var out []string
	if len(u.Interests) > 0 {
		_ = json.Unmarshal(u.Interests, &out)
	}
	return out
}

// Session is the server-side half of a login. Tokens carry its id, so deleting
// the row revokes the token before it expires.
type Session struct {
	ID         string    `gorm:"type:varchar(36);primaryKey"`
	UserID     string    `gorm:"type:varchar(36);not null;index:ix_sessions_user_id"`
	UserAgent  string    `gorm:"type:varchar(255)"`
	IP         string    `gorm:"type:varchar(64)"`
	ExpiresAt  time.Time `gorm:"not null;index"`
	CreatedAt  time.Time
	LastSeenAt time.Time
}

func (Session) TableName() string { return "sessions" }

// Models lists the tables owned by auth for migrations.
func Models() []any { return []any{&User{}, &Session{}} }

func interestsJSON(in []string) datatypes.JSON {
	if in == nil {
		in = []string{}
	}
	b, _ := json.Marshal(in)
	return datatypes.JSON(b)
}
