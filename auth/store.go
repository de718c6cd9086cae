// Package auth tracks who is signed in for one client: a remote session
// hydrated from the project's auth client, or a local demo identity.
package auth

import (
	"context"
	"errors"
	"sinemagic_server/lib"
	"sinemagic_server/mirror"
	"sinemagic_server/structs"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
)

var ErrDemoDisabled = errors.New("demo sign-in is disabled")

const profileFetchTimeout = 5 * time.Second

// RemoteAuth is the remote auth client for one client's mirror.
type RemoteAuth interface {
	GetSession(ctx context.Context) (*structs.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*structs.Session, error)
	SignUp(ctx context.Context, req *structs.RegisterRequest) (*structs.Session, error)
	SignOut(ctx context.Context) error
	FetchProfile(ctx context.Context, userID string) (*structs.Profile, error)
	OnAuthStateChange(fn func(structs.AuthEvent, *structs.Session)) func()
}

type Options struct {
	Mirror mirror.Store
	// Remote is nil when no remote store is configured.
	Remote      RemoteAuth
	Logger      *gecho.Logger
	Timeout     time.Duration
	DemoEnabled bool
	DemoEmail   string
}

// State is a copy of the store's public fields.
type State struct {
	User          *structs.User    `json:"user"`
	Profile       *structs.Profile `json:"profile"`
	Session       *structs.Session `json:"-"`
	Source        AuthSource       `json:"source"`
	Loading       bool             `json:"loading"`
	Authenticated bool             `json:"authenticated"`
	IsAdmin       bool             `json:"is_admin"`
}

type Store struct {
	mirror      mirror.Store
	remote      RemoteAuth
	logger      *gecho.Logger
	timeout     time.Duration
	demoEnabled bool
	demoEmail   string
	now         func() time.Time

	once        sync.Once
	mu          sync.RWMutex
	source      AuthSource
	session     *structs.Session
	user        *structs.User
	profile     *structs.Profile
	loading     bool
	unsubscribe func()
}

func NewStore(opts Options) *Store {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	email := opts.DemoEmail
	if email == "" {
		email = DefaultDemoEmail
	}
	return &Store{
		mirror:      opts.Mirror,
		remote:      opts.Remote,
		logger:      opts.Logger,
		timeout:     timeout,
		demoEnabled: opts.DemoEnabled,
		demoEmail:   email,
		now:         time.Now,
		loading:     true,
	}
}

// Bootstrap resolves the initial identity. Only the first call does any
// work.
func (s *Store) Bootstrap(ctx context.Context) {
	s.once.Do(func() {
		s.bootstrap(context.WithoutCancel(ctx))
	})
}

func (s *Store) bootstrap(ctx context.Context) {
	if s.restoreDemo(ctx) {
		s.subscribe()
		return
	}

	if s.remote == nil {
		s.finish(SourceNone, nil, nil)
		return
	}

	result := s.fetchSession(ctx)
	session, ok := result.Session()
	switch {
	case !ok:
		s.logger.Warn("Session fetch timed out", gecho.Field("timeout", s.timeout.String()))
		s.finish(SourceNone, nil, nil)
	case session == nil || session.User == nil:
		s.finish(SourceNone, nil, nil)
	default:
		profile := s.loadProfile(ctx, session.User)
		s.finish(SourceRemote, session, profile)
	}

	s.subscribe()
}

// restoreDemo installs the demo identity when a demo marker is stored.
// An unreadable marker is removed.
func (s *Store) restoreDemo(ctx context.Context) bool {
	if !s.demoEnabled {
		return false
	}
	user, err := mirror.GetJSON[structs.User](ctx, s.mirror, mirror.KeyDemoUser)
	if err != nil {
		s.logger.Warn("Removing unreadable demo marker", gecho.Field("error", err))
		if err := s.mirror.Delete(ctx, mirror.KeyDemoUser); err != nil {
			s.logger.Error("Failed to remove demo marker", gecho.Field("error", err))
		}
		return false
	}
	if user == nil {
		return false
	}

	if user.ID == "" {
		user.ID = demoUserID
	}
	if user.Email == "" {
		user.Email = s.demoEmail
	}
	s.finish(SourceDemoOverride, demoSession(user, s.now()), demoProfile(user))
	return true
}

// fetchSession races the remote session lookup against the timeout.
func (s *Store) fetchSession(ctx context.Context) SessionResult {
	ch := make(chan *structs.Session, 1)
	go func() {
		session, err := s.remote.GetSession(ctx)
		if err != nil {
			s.logger.Warn("Failed to get session", gecho.Field("error", err))
			session = nil
		}
		ch <- session
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case session := <-ch:
		return Ready(session)
	case <-timer.C:
		return TimedOut()
	}
}

// loadProfile fetches the profile for user, falling back to a plain user
// profile when it is missing or the fetch fails.
func (s *Store) loadProfile(ctx context.Context, user *structs.User) *structs.Profile {
	if s.remote != nil {
		ctx, cancel := context.WithTimeout(ctx, profileFetchTimeout)
		defer cancel()

		profile, err := s.remote.FetchProfile(ctx, user.ID)
		if err == nil && profile != nil {
			if profile.Role == "" {
				profile.Role = structs.RoleUser
			}
			return profile
		}
		if !lib.IsNotFound(err) {
			s.logger.Warn("Failed to fetch profile", gecho.Field("user_id", user.ID), gecho.Field("error", err))
		}
	}
	return &structs.Profile{ID: user.ID, Role: structs.RoleUser}
}

func (s *Store) finish(source AuthSource, session *structs.Session, profile *structs.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = source
	s.session = session
	s.user = nil
	if session != nil {
		s.user = session.User
	}
	s.profile = profile
	s.loading = false
}

func (s *Store) subscribe() {
	if s.remote == nil {
		return
	}
	unsubscribe := s.remote.OnAuthStateChange(s.handleAuthEvent)
	s.mu.Lock()
	s.unsubscribe = unsubscribe
	s.mu.Unlock()
}

// handleAuthEvent follows remote session changes. A demo identity is not
// touched by remote events.
func (s *Store) handleAuthEvent(event structs.AuthEvent, session *structs.Session) {
	s.mu.RLock()
	demo := s.source == SourceDemoOverride
	s.mu.RUnlock()
	if demo {
		return
	}

	switch event {
	case structs.AuthEventSignedOut:
		s.finish(SourceNone, nil, nil)
	case structs.AuthEventSignedIn:
		if session == nil || session.User == nil {
			return
		}
		profile := s.loadProfile(context.Background(), session.User)
		s.finish(SourceRemote, session, profile)
	case structs.AuthEventTokenRefreshed:
		if session == nil || session.User == nil {
			return
		}
		s.mu.Lock()
		s.session = session
		s.user = session.User
		s.mu.Unlock()
	}
}

// SignInWithDemo installs the demo admin identity and persists the user
// as the demo marker.
func (s *Store) SignInWithDemo(ctx context.Context, email string) (*structs.User, error) {
	if !s.demoEnabled {
		return nil, ErrDemoDisabled
	}
	if email == "" {
		email = s.demoEmail
	}

	now := s.now()
	user := demoUser(email, now)
	if err := mirror.SetJSON(ctx, s.mirror, mirror.KeyDemoUser, user); err != nil {
		s.logger.Error("Failed to persist demo marker", gecho.Field("error", err))
	}

	s.finish(SourceDemoOverride, demoSession(user, now), demoProfile(user))
	s.logger.Info("Demo sign in", gecho.Field("email", email))
	return user, nil
}

// SignInWithPassword signs in through the remote auth client.
func (s *Store) SignInWithPassword(ctx context.Context, email, password string) (*structs.User, error) {
	if s.remote == nil {
		return nil, lib.ErrRemoteDisabled
	}
	session, err := s.remote.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.dropDemoMarker(ctx)
	s.hydrate(ctx, session)
	return session.User, nil
}

// SignUp registers through the remote auth client and signs the new user
// in.
func (s *Store) SignUp(ctx context.Context, req *structs.RegisterRequest) (*structs.User, error) {
	if s.remote == nil {
		return nil, lib.ErrRemoteDisabled
	}
	session, err := s.remote.SignUp(ctx, req)
	if err != nil {
		return nil, err
	}
	s.dropDemoMarker(ctx)
	s.hydrate(ctx, session)
	return session.User, nil
}

// hydrate installs session unless the sign-in notification already did.
// A demo identity is always replaced.
func (s *Store) hydrate(ctx context.Context, session *structs.Session) {
	s.mu.RLock()
	current, source := s.user, s.source
	s.mu.RUnlock()
	if source == SourceRemote && current != nil && current.ID == session.User.ID {
		return
	}
	s.finish(SourceRemote, session, s.loadProfile(ctx, session.User))
}

func (s *Store) dropDemoMarker(ctx context.Context) {
	if err := s.mirror.Delete(ctx, mirror.KeyDemoUser); err != nil {
		s.logger.Warn("Failed to remove demo marker", gecho.Field("error", err))
	}
}

// SignOut forgets the identity, removes the demo marker or signs out of
// the remote, and deletes every stored remote session key. It returns the
// path to redirect to.
func (s *Store) SignOut(ctx context.Context) string {
	s.mu.RLock()
	source := s.source
	s.mu.RUnlock()

	s.finish(SourceNone, nil, nil)

	if source == SourceDemoOverride || s.remote == nil {
		if err := s.mirror.Delete(ctx, mirror.KeyDemoUser); err != nil {
			s.logger.Warn("Failed to remove demo marker", gecho.Field("error", err))
		}
	} else if err := s.remote.SignOut(ctx); err != nil {
		s.logger.Warn("Remote sign out failed", gecho.Field("error", err))
	}

	keys, err := s.mirror.Keys(ctx, mirror.AuthTokenPattern)
	if err != nil {
		s.logger.Warn("Failed to list session keys", gecho.Field("error", err))
	} else if len(keys) > 0 {
		if err := s.mirror.Delete(ctx, keys...); err != nil {
			s.logger.Warn("Failed to delete session keys", gecho.Field("error", err))
		}
	}

	return "/"
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		User:          s.user,
		Profile:       s.profile,
		Session:       s.session,
		Source:        s.source,
		Loading:       s.loading,
		Authenticated: s.user != nil,
		IsAdmin:       s.profile != nil && s.profile.Role == structs.RoleAdmin,
	}
}

func (s *Store) User() *structs.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Store) Profile() *structs.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *Store) Source() AuthSource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile != nil && s.profile.Role == structs.RoleAdmin
}

// Close stops following remote auth events.
func (s *Store) Close() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}
