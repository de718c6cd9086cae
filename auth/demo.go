package auth

import (
	"sinemagic_server/structs"
	"time"
)

const (
	DefaultDemoEmail = "admin@sinemagic.com"
	demoUserID       = "demo-user-123"
	demoToken        = "demo"
	demoExpiresIn    = 3600
)

func demoUser(email string, now time.Time) *structs.User {
	if email == "" {
		email = DefaultDemoEmail
	}
	return &structs.User{
		ID:        demoUserID,
		Email:     email,
		Aud:       "authenticated",
		Role:      "authenticated",
		CreatedAt: now,
	}
}

func demoProfile(user *structs.User) *structs.Profile {
	return &structs.Profile{
		ID:       user.ID,
		Username: "Demo User",
		FullName: "Demo Admin",
		Role:     structs.RoleAdmin,
	}
}

func demoSession(user *structs.User, now time.Time) *structs.Session {
	return &structs.Session{
		AccessToken:  demoToken,
		RefreshToken: demoToken,
		TokenType:    "bearer",
		ExpiresIn:    demoExpiresIn,
		ExpiresAt:    now.Add(demoExpiresIn * time.Second).Unix(),
		User:         user,
	}
}
