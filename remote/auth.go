package remote

import (
	"context"
	"errors"
	"fmt"
	"sinemagic_server/database"
	"sinemagic_server/lib"
	"sinemagic_server/mirror"
	"sinemagic_server/structs"
	"sinemagic_server/structs/tables"
	"strings"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// TokenBlacklist revokes access tokens by jti until they expire.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthService holds what every per-client auth client shares: the auth
// tables, the project signing secret and the token blacklist.
type AuthService struct {
	db         *database.DB
	secret     string
	projectRef string
	expiry     time.Duration
	blacklist  TokenBlacklist
	logger     *gecho.Logger
}

func NewAuthService(db *database.DB, remoteCfg *structs.RemoteConfig, authCfg *structs.AuthConfig, blacklist TokenBlacklist, logger *gecho.Logger) *AuthService {
	return &AuthService{
		db:         db,
		secret:     remoteCfg.AnonKey,
		projectRef: remoteCfg.ProjectRef,
		expiry:     authCfg.SessionExpiry,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// ForClient returns an auth client whose session lives in store.
func (s *AuthService) ForClient(store mirror.Store) *AuthClient {
	return &AuthClient{
		svc:       s,
		store:     store,
		key:       mirror.AuthTokenKey(s.projectRef),
		listeners: make(map[int]func(structs.AuthEvent, *structs.Session)),
	}
}

// AuthClient mirrors the behaviour of a browser auth client: one
// persisted session and a set of state change listeners.
type AuthClient struct {
	svc   *AuthService
	store mirror.Store
	key   string

	mu        sync.Mutex
	listeners map[int]func(structs.AuthEvent, *structs.Session)
	nextID    int
}

// GetSession returns the persisted session, or nil when there is none or
// it is no longer valid.
func (c *AuthClient) GetSession(ctx context.Context) (*structs.Session, error) {
	session, err := mirror.GetJSON[structs.Session](ctx, c.store, c.key)
	if err != nil {
		if errors.Is(err, mirror.ErrMalformed) {
			c.svc.logger.Warn("Discarding malformed session", gecho.Field("error", err))
			_ = c.store.Delete(ctx, c.key)
			return nil, nil
		}
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	claims, err := lib.ParseToken(session.AccessToken, c.svc.secret)
	if err != nil {
		c.svc.logger.Debug("Dropping stored session", gecho.Field("reason", err))
		_ = c.store.Delete(ctx, c.key)
		return nil, nil
	}

	if c.svc.blacklist != nil {
		revoked, err := c.svc.blacklist.IsTokenBlacklisted(ctx, claims.Jti.String())
		if err != nil {
			c.svc.logger.Warn("Blacklist lookup failed", gecho.Field("error", err))
		} else if revoked {
			_ = c.store.Delete(ctx, c.key)
			return nil, nil
		}
	}

	return session, nil
}

func (c *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*structs.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := database.Query[tables.AuthUser](c.svc.db).Where("email", email).First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if user == nil {
		return nil, lib.ErrInvalidCredentials
	}

	ok, err := lib.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, lib.ErrInvalidCredentials
	}

	if _, err := database.Query[tables.AuthUser](c.svc.db).
		Where("id", user.ID).
		Update(ctx, map[string]any{"last_sign_in_at": time.Now()}); err != nil {
		c.svc.logger.Warn("Failed to record sign in", gecho.Field("error", err))
	}

	return c.startSession(ctx, user)
}

// SignUp registers a user. The database trigger creates the profile.
func (c *AuthClient) SignUp(ctx context.Context, req *structs.RegisterRequest) (*structs.Session, error) {
	hash, err := lib.HashPassword(req.Password, lib.DefaultArgonParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &tables.AuthUser{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Username:     req.Username,
		FullName:     req.FullName,
		CreatedAt:    time.Now(),
	}
	if _, err := database.Query[tables.AuthUser](c.svc.db).Insert(ctx, user); err != nil {
		return nil, lib.MapPgError(err)
	}

	return c.startSession(ctx, user)
}

func (c *AuthClient) startSession(ctx context.Context, user *tables.AuthUser) (*structs.Session, error) {
	claims := lib.NewClaims(user.ID, user.Email, c.svc.expiry)
	accessToken, err := lib.SignToken(claims, c.svc.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refreshToken, err := lib.GenerateRandomToken()
	if err != nil {
		return nil, err
	}

	session := &structs.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int(c.svc.expiry.Seconds()),
		ExpiresAt:    claims.Exp.Unix(),
		User: &structs.User{
			ID:        user.ID.String(),
			Email:     user.Email,
			Aud:       "authenticated",
			Role:      "authenticated",
			CreatedAt: user.CreatedAt,
		},
	}

	if err := mirror.SetJSON(ctx, c.store, c.key, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	c.emit(structs.AuthEventSignedIn, session)
	return session, nil
}

// SignOut revokes the current access token and forgets the session.
func (c *AuthClient) SignOut(ctx context.Context) error {
	session, err := mirror.GetJSON[structs.Session](ctx, c.store, c.key)
	if err == nil && session != nil && c.svc.blacklist != nil {
		if claims, err := lib.ParseToken(session.AccessToken, c.svc.secret); err == nil {
			ttl := time.Until(claims.Exp)
			if ttl > 0 {
				if err := c.svc.blacklist.BlacklistToken(ctx, claims.Jti.String(), ttl); err != nil {
					c.svc.logger.Warn("Failed to blacklist token", gecho.Field("error", err))
				}
			}
		}
	}

	if err := c.store.Delete(ctx, c.key); err != nil {
		return err
	}

	c.emit(structs.AuthEventSignedOut, nil)
	return nil
}

// FetchProfile loads the profile row for userID. A missing row yields
// lib.ErrNotFound.
func (c *AuthClient) FetchProfile(ctx context.Context, userID string) (*structs.Profile, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: profile %s", lib.ErrNotFound, userID)
	}
	row, err := database.Query[tables.Profile](c.svc.db).Where("id", id).First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if row == nil {
		return nil, fmt.Errorf("%w: profile %s", lib.ErrNotFound, userID)
	}
	profile := profileFromRow(*row)
	return &profile, nil
}

// OnAuthStateChange registers fn and returns a function removing it.
func (c *AuthClient) OnAuthStateChange(fn func(structs.AuthEvent, *structs.Session)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *AuthClient) emit(event structs.AuthEvent, session *structs.Session) {
	c.mu.Lock()
	fns := make([]func(structs.AuthEvent, *structs.Session), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(event, session)
	}
}
