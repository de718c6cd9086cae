package auth

import (
	"context"
	"errors"
	"sinemagic_server/config"
	"sinemagic_server/lib"
	"sinemagic_server/mirror"
	"sinemagic_server/structs"
	"sync"
	"testing"
	"time"
)

type fakeAuth struct {
	mu         sync.Mutex
	session    *structs.Session
	delay      time.Duration
	profile    *structs.Profile
	profileErr error
	signInErr  error
	listeners  []func(structs.AuthEvent, *structs.Session)
	signOuts   int
}

func (f *fakeAuth) GetSession(context.Context) (*structs.Session, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, nil
}

func (f *fakeAuth) SignInWithPassword(_ context.Context, email, _ string) (*structs.Session, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	session := &structs.Session{AccessToken: "token", User: &structs.User{ID: "u-" + email, Email: email}}
	f.mu.Lock()
	f.session = session
	f.mu.Unlock()
	f.emit(structs.AuthEventSignedIn, session)
	return session, nil
}

func (f *fakeAuth) SignUp(ctx context.Context, req *structs.RegisterRequest) (*structs.Session, error) {
	return f.SignInWithPassword(ctx, req.Email, req.Password)
}

func (f *fakeAuth) SignOut(context.Context) error {
	f.mu.Lock()
	f.session = nil
	f.signOuts++
	f.mu.Unlock()
	f.emit(structs.AuthEventSignedOut, nil)
	return nil
}

func (f *fakeAuth) FetchProfile(_ context.Context, userID string) (*structs.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if f.profile == nil {
		return nil, lib.ErrNotFound
	}
	p := *f.profile
	p.ID = userID
	return &p, nil
}

func (f *fakeAuth) OnAuthStateChange(fn func(structs.AuthEvent, *structs.Session)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
	return func() {}
}

func (f *fakeAuth) emit(event structs.AuthEvent, session *structs.Session) {
	f.mu.Lock()
	listeners := append([]func(structs.AuthEvent, *structs.Session){}, f.listeners...)
	f.mu.Unlock()
	for _, fn := range listeners {
		fn(event, session)
	}
}

func newTestStore(store mirror.Store, remote RemoteAuth) *Store {
	opts := Options{
		Mirror:      store,
		Logger:      config.NewLogger(false),
		Timeout:     50 * time.Millisecond,
		DemoEnabled: true,
	}
	if remote != nil {
		opts.Remote = remote
	}
	return NewStore(opts)
}

func remoteSession(userID string) *structs.Session {
	return &structs.Session{AccessToken: "token", User: &structs.User{ID: userID, Email: "user@example.com"}}
}

func TestDemoSignIn(t *testing.T) {
	ctx := context.Background()
	store := mirror.NewMemory()
	s := newTestStore(store, nil)
	s.Bootstrap(ctx)

	user, err := s.SignInWithDemo(ctx, "")
	if err != nil {
		t.Fatalf("demo sign in: %v", err)
	}
	if user.Email != DefaultDemoEmail {
		t.Errorf("expected %s, got %s", DefaultDemoEmail, user.Email)
	}
	if !s.IsAdmin() {
		t.Error("expected demo user to be admin")
	}
	if s.Source() != SourceDemoOverride {
		t.Errorf("expected demo source, got %s", s.Source())
	}
	if s.State().Session.AccessToken != "demo" {
		t.Error("expected demo session token")
	}

	marker, err := mirror.GetJSON[structs.User](ctx, store, mirror.KeyDemoUser)
	if err != nil || marker == nil || marker.ID != "demo-user-123" {
		t.Fatalf("expected demo marker with the user, got %+v, %v", marker, err)
	}
}

func TestDemoSignInDisabled(t *testing.T) {
	s := NewStore(Options{Mirror: mirror.NewMemory(), Logger: config.NewLogger(false)})
	if _, err := s.SignInWithDemo(context.Background(), ""); !errors.Is(err, ErrDemoDisabled) {
		t.Fatalf("expected ErrDemoDisabled, got %v", err)
	}
}

func TestSignOutClearsDemo(t *testing.T) {
	ctx := context.Background()
	store := mirror.NewMemory()
	s := newTestStore(store, nil)
	s.Bootstrap(ctx)
	_, _ = s.SignInWithDemo(ctx, "")
	_ = store.Set(ctx, mirror.AuthTokenKey("sinemagic"), `{"access_token":"x"}`)

	if redirect := s.SignOut(ctx); redirect != "/" {
		t.Errorf("expected redirect to /, got %q", redirect)
	}
	if s.User() != nil {
		t.Error("expected user to be cleared")
	}
	if _, ok, _ := store.Get(ctx, mirror.KeyDemoUser); ok {
		t.Error("expected demo marker to be removed")
	}
	if keys, _ := store.Keys(ctx, mirror.AuthTokenPattern); len(keys) != 0 {
		t.Errorf("expected session keys to be removed, got %v", keys)
	}
}

func TestBootstrapRestoresDemoMarker(t *testing.T) {
	ctx := context.Background()
	store := mirror.NewMemory()
	_ = mirror.SetJSON(ctx, store, mirror.KeyDemoUser, structs.User{ID: "demo-user-123", Email: "boss@sinemagic.com"})

	remote := &fakeAuth{session: remoteSession("someone")}
	s := newTestStore(store, remote)
	s.Bootstrap(ctx)

	if s.Source() != SourceDemoOverride || !s.IsAdmin() {
		t.Fatalf("expected demo admin, got %+v", s.State())
	}
	if s.User().Email != "boss@sinemagic.com" {
		t.Errorf("expected stored email, got %s", s.User().Email)
	}

	remote.emit(structs.AuthEventSignedOut, nil)
	if s.User() == nil {
		t.Error("expected remote events to be ignored for a demo identity")
	}
}

func TestBootstrapRemovesUnreadableDemoMarker(t *testing.T) {
	ctx := context.Background()
	store := mirror.NewMemory()
	_ = store.Set(ctx, mirror.KeyDemoUser, "{not json")

	s := newTestStore(store, &fakeAuth{})
	s.Bootstrap(ctx)

	if _, ok, _ := store.Get(ctx, mirror.KeyDemoUser); ok {
		t.Error("expected unreadable marker to be removed")
	}
	state := s.State()
	if state.Loading || state.Authenticated {
		t.Errorf("expected finished unauthenticated state, got %+v", state)
	}
}

func TestBootstrapTimesOut(t *testing.T) {
	ctx := context.Background()
	remote := &fakeAuth{session: remoteSession("slow"), delay: 300 * time.Millisecond}
	s := newTestStore(mirror.NewMemory(), remote)

	if result := s.fetchSession(ctx); !result.IsTimedOut() {
		t.Fatal("expected the session fetch to time out")
	}

	s.Bootstrap(ctx)
	state := s.State()
	if state.Loading {
		t.Error("expected loading to end after timeout")
	}
	if state.Authenticated {
		t.Error("expected unauthenticated after timeout")
	}
}

func TestBootstrapProfileFallback(t *testing.T) {
	ctx := context.Background()
	remote := &fakeAuth{session: remoteSession("u1"), profileErr: errors.New("boom")}
	s := newTestStore(mirror.NewMemory(), remote)
	s.Bootstrap(ctx)

	profile := s.Profile()
	if profile == nil || profile.Role != structs.RoleUser || profile.ID != "u1" {
		t.Fatalf("expected default user profile, got %+v", profile)
	}
	if s.IsAdmin() {
		t.Error("expected non-admin")
	}
	if s.Source() != SourceRemote {
		t.Errorf("expected remote source, got %s", s.Source())
	}
}

func TestBootstrapRemoteAdmin(t *testing.T) {
	ctx := context.Background()
	remote := &fakeAuth{session: remoteSession("u2"), profile: &structs.Profile{Role: structs.RoleAdmin}}
	s := newTestStore(mirror.NewMemory(), remote)
	s.Bootstrap(ctx)

	if !s.IsAdmin() {
		t.Fatalf("expected admin, got %+v", s.Profile())
	}

	remote.emit(structs.AuthEventSignedOut, nil)
	if s.User() != nil || s.Profile() != nil {
		t.Error("expected sign out event to clear the store")
	}
}

func TestPasswordSignInAndSignOut(t *testing.T) {
	ctx := context.Background()
	store := mirror.NewMemory()
	remote := &fakeAuth{}
	s := newTestStore(store, remote)
	s.Bootstrap(ctx)

	user, err := s.SignInWithPassword(ctx, "user@example.com", "secret1")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if s.User() == nil || s.User().ID != user.ID {
		t.Fatalf("expected store to hold the user, got %+v", s.User())
	}
	if s.Source() != SourceRemote {
		t.Errorf("expected remote source, got %s", s.Source())
	}

	s.SignOut(ctx)
	if remote.signOuts != 1 {
		t.Errorf("expected one remote sign out, got %d", remote.signOuts)
	}
	if s.User() != nil {
		t.Error("expected user cleared")
	}
}

func TestFailedPasswordSignInKeepsDemo(t *testing.T) {
	ctx := context.Background()
	store := mirror.NewMemory()
	s := newTestStore(store, &fakeAuth{signInErr: lib.ErrInvalidCredentials})
	s.Bootstrap(ctx)
	if _, err := s.SignInWithDemo(ctx, ""); err != nil {
		t.Fatalf("demo sign in: %v", err)
	}

	if _, err := s.SignInWithPassword(ctx, "user@example.com", "wrong"); !errors.Is(err, lib.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if s.Source() != SourceDemoOverride || !s.IsAdmin() {
		t.Errorf("expected demo admin to stay, got source %s admin %v", s.Source(), s.IsAdmin())
	}
	if _, ok, _ := store.Get(ctx, mirror.KeyDemoUser); !ok {
		t.Error("expected demo marker to be kept")
	}
}

func TestPasswordSignInReplacesDemo(t *testing.T) {
	ctx := context.Background()
	store := mirror.NewMemory()
	s := newTestStore(store, &fakeAuth{})
	s.Bootstrap(ctx)
	if _, err := s.SignInWithDemo(ctx, ""); err != nil {
		t.Fatalf("demo sign in: %v", err)
	}

	user, err := s.SignInWithPassword(ctx, "user@example.com", "secret1")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if s.Source() != SourceRemote || s.User().ID != user.ID {
		t.Errorf("expected remote user %s, got source %s user %+v", user.ID, s.Source(), s.User())
	}
	if s.IsAdmin() {
		t.Error("expected the remote user without a profile to not be admin")
	}
	if _, ok, _ := store.Get(ctx, mirror.KeyDemoUser); ok {
		t.Error("expected demo marker to be removed")
	}
}

func TestPasswordSignInWithoutRemote(t *testing.T) {
	s := newTestStore(mirror.NewMemory(), nil)
	s.Bootstrap(context.Background())
	if _, err := s.SignInWithPassword(context.Background(), "a@b.c", "secret1"); !errors.Is(err, lib.ErrRemoteDisabled) {
		t.Fatalf("expected ErrRemoteDisabled, got %v", err)
	}
}

func TestManagerIsolatesClients(t *testing.T) {
	ctx := context.Background()
	base := mirror.NewMemory()
	cfg := &structs.AuthConfig{SessionTimeout: 50 * time.Millisecond, DemoEnabled: true, DemoEmail: DefaultDemoEmail}
	m := NewManager(base, nil, cfg, config.NewLogger(false))
	defer m.Close()

	a := m.Get(ctx, "a")
	if _, err := a.SignInWithDemo(ctx, ""); err != nil {
		t.Fatalf("demo sign in: %v", err)
	}

	if b := m.Get(ctx, "b"); b.User() != nil {
		t.Error("expected client b to be signed out")
	}
	if m.Get(ctx, "a") != a {
		t.Error("expected the same store for the same client")
	}

	if n := m.Sweep(-time.Minute); n != 2 {
		t.Errorf("expected both stores swept, got %d", n)
	}
	if again := m.Get(ctx, "a"); !again.IsAdmin() {
		t.Error("expected client a to restore the demo identity from its mirror")
	}
}
