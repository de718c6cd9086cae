package tables

import (
	"time"

	"github.com/google/uuid"
)

// AuthUser lives in the project's auth schema. A trigger creates the
// matching profiles row on insert.
type AuthUser struct {
	tableName    struct{}  `bun:"table:auth_users,alias:au"`
	ID           uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Email        string    `bun:"email,unique,notnull" json:"email"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	Username     string    `bun:"raw_username" json:"username,omitempty"`
	FullName     string    `bun:"raw_full_name" json:"full_name,omitempty"`
	LastSignIn   time.Time `bun:"last_sign_in_at,nullzero" json:"last_sign_in_at"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:now()" json:"created_at"`
}

type Profile struct {
	tableName struct{}  `bun:"table:profiles,alias:pr"`
	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Username  string    `bun:"username,nullzero" json:"username,omitempty"`
	FullName  string    `bun:"full_name,nullzero" json:"full_name,omitempty"`
	AvatarURL string    `bun:"avatar_url,nullzero" json:"avatar_url,omitempty"`
	Website   string    `bun:"website,nullzero" json:"website,omitempty"`
	Role      string    `bun:"role,notnull,default:'user'" json:"role"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:now()" json:"updated_at"`
}
