// Package session tracks who is signed in for each client and keeps the
// identity persisted under a single key so it survives restarts.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Kariqs/goneer-api/cart"
	"github.com/Kariqs/goneer-api/models"
	"github.com/Kariqs/goneer-api/repository"
	"github.com/Kariqs/goneer-api/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	loginDelay   = 800 * time.Millisecond
	signupDelay  = 800 * time.Millisecond
	signOutDelay = 500 * time.Millisecond
)

type State int

const (
	StateResolving State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "resolving"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CityLookup resolves a postal code to a city name.
type CityLookup interface {
	LookupCity(ctx context.Context, postalCode string) (string, error)
}

type SignupInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FullName        string
	Phone           string
	Role            models.Role
	PostalCode      string
	City            string
}

func (in *SignupInput) normalize() error {
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if in.Role == "" {
		in.Role = models.RoleUser
	}

	switch {
	case in.Email == "" || in.Password == "" || in.FullName == "":
		return fmt.Errorf("%w: email, password and full name are required", models.ErrValidation)
	case in.ConfirmPassword != "" && in.ConfirmPassword != in.Password:
		return fmt.Errorf("%w: passwords do not match", models.ErrValidation)
	case !in.Role.IsValid():
		return fmt.Errorf("%w: unknown role %q", models.ErrValidation, in.Role)
	case in.Role == models.RoleAdmin:
		return fmt.Errorf("%w: accounts can only be created for customers and vendors", models.ErrValidation)
	}
	return nil
}

// Store owns every client session and the collaborators they share.
type Store struct {
	users     repository.Repository[models.User]
	profiles  repository.Repository[models.Profile]
	persister Persister
	cities    CityLookup
	latency   utils.Latency
	log       *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time

	// serializes the duplicate-email check with the insert
	signupMu sync.Mutex
}

type Option func(*Store)

func WithCityLookup(cities CityLookup) Option {
	return func(s *Store) { s.cities = cities }
}

func WithLatency(latency utils.Latency) Option {
	return func(s *Store) { s.latency = latency }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

func NewStore(users repository.Repository[models.User], profiles repository.Repository[models.Profile], persister Persister, opts ...Option) *Store {
	s := &Store{
		users:     users,
		profiles:  profiles,
		persister: persister,
		log:       zap.NewNop(),
		sessions:  map[string]*Session{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the session for clientID, creating an unresolved one on first use.
func (s *Store) Get(clientID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[clientID]; ok {
		sess.lastSeen = s.now()
		return sess
	}
	sess := &Session{
		id:       clientID,
		store:    s,
		cart:     cart.New(),
		state:    StateResolving,
		inflight: map[string]struct{}{},
		lastSeen: s.now(),
	}
	s.sessions[clientID] = sess
	return sess
}

// Discard drops the session for clientID when it holds nothing that is not
// persisted: no identity, an empty cart and no pending confirmation.
func (s *Store) Discard(clientID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[clientID]
	if !ok || sess.State() == StateAuthenticated || sess.busy() || len(sess.Confirmation()) > 0 || !sess.cart.IsEmpty() {
		return false
	}
	delete(s.sessions, clientID)
	return true
}

// Sweep drops sessions not used for longer than idle and returns how many
// were removed. Identities survive in the persister; carts do not.
func (s *Store) Sweep(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle)
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) && !sess.busy() {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.log.Debug("idle sessions swept", zap.Int("removed", removed), zap.Int("remaining", len(s.sessions)))
	}
	return removed
}

// Len reports how many sessions are held in memory.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) lookupProfile(ctx context.Context, userID string) *models.Profile {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		s.log.Debug("no profile for user", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	return &profile
}

// Session is one client's authentication state, cart and checkout confirmation.
type Session struct {
	id    string
	store *Store
	cart  *cart.Cart

	mu           sync.RWMutex
	state        State
	user         *models.User
	profile      *models.Profile
	confirmation []models.Order
	inflight     map[string]struct{}

	// guarded by store.mu
	lastSeen time.Time
}

type Snapshot struct {
	State   State              `json:"state"`
	User    *models.PublicUser `json:"user"`
	Profile *models.Profile    `json:"profile"`
}

func (s *Session) ID() string { return s.id }

func (s *Session) Cart() *cart.Cart { return s.cart }

func (s *Session) key() string { return KeyPrefix + s.id }

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns the signed-in identity, if any.
func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Role is the profile role, falling back to the identity role.
func (s *Session) Role() models.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.profile != nil:
		return s.profile.Role
	case s.user != nil:
		return s.user.Role
	}
	return ""
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{State: s.state}
	if s.user != nil {
		public := s.user.Public()
		snap.User = &public
	}
	if s.profile != nil {
		profile := *s.profile
		snap.Profile = &profile
	}
	return snap
}

// Begin marks action as running. A second Begin for the same action fails
// with ErrInFlight until the returned func is called.
func (s *Session) Begin(action string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inflight[action]; busy {
		return nil, fmt.Errorf("%w: %s", models.ErrInFlight, action)
	}
	s.inflight[action] = struct{}{}
	return func() {
		s.mu.Lock()
		delete(s.inflight, action)
		s.mu.Unlock()
	}, nil
}

func (s *Session) busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.inflight) > 0
}

func (s *Session) authenticate(user models.User, profile *models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAuthenticated
	s.user = &user
	s.profile = profile
}

func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAnonymous
	s.user = nil
	s.profile = nil
	s.confirmation = nil
}

func (s *Session) persist(ctx context.Context, user models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.store.persister.Save(ctx, s.key(), data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Resolve restores the persisted identity. A malformed blob is discarded and
// the session becomes anonymous; a backend failure leaves it resolving.
func (s *Session) Resolve(ctx context.Context) error {
	data, err := s.store.persister.Load(ctx, s.key())
	if errors.Is(err, ErrNoData) {
		s.reset()
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil || user.ID == "" {
		s.store.log.Warn("discarding malformed session", zap.String("session", s.id), zap.Error(err))
		if delErr := s.store.persister.Delete(ctx, s.key()); delErr != nil {
			s.store.log.Error("failed to delete malformed session", zap.String("session", s.id), zap.Error(delErr))
		}
		s.reset()
		return nil
	}

	s.authenticate(user, s.store.lookupProfile(ctx, user.ID))
	return nil
}

// Login authenticates when an identity matches both email and password exactly.
func (s *Session) Login(ctx context.Context, email, password string) (models.User, error) {
	done, err := s.Begin("login")
	if err != nil {
		return models.User{}, err
	}
	defer done()

	if err := s.store.latency.Wait(ctx, loginDelay); err != nil {
		return models.User{}, err
	}

	email = strings.TrimSpace(email)
	user, err := repository.FindOne(ctx, s.store.users, func(u models.User) bool {
		return u.Email == email && u.Password == password
	})
	if errors.Is(err, models.ErrNotFound) {
		return models.User{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}

	if err := s.persist(ctx, user); err != nil {
		return models.User{}, err
	}
	s.authenticate(user, s.store.lookupProfile(ctx, user.ID))
	s.store.log.Info("user logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Signup creates the identity and its profile and signs the new user in.
func (s *Session) Signup(ctx context.Context, in SignupInput) (models.User, error) {
	if err := in.normalize(); err != nil {
		return models.User{}, err
	}

	done, err := s.Begin("signup")
	if err != nil {
		return models.User{}, err
	}
	defer done()

	if err := s.store.latency.Wait(ctx, signupDelay); err != nil {
		return models.User{}, err
	}

	if in.Role == models.RoleVendor && in.PostalCode != "" && in.City == "" && s.store.cities != nil {
		city, err := s.store.cities.LookupCity(ctx, in.PostalCode)
		if err != nil {
			s.store.log.Info("postal code lookup failed", zap.String("postal_code", in.PostalCode), zap.Error(err))
		} else {
			in.City = city
		}
	}

	user, err := s.store.createUser(ctx, in)
	if err != nil {
		return models.User{}, err
	}

	if err := s.persist(ctx, user); err != nil {
		return models.User{}, err
	}
	s.authenticate(user, s.store.lookupProfile(ctx, user.ID))
	s.store.log.Info("user signed up", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *Store) createUser(ctx context.Context, in SignupInput) (models.User, error) {
	s.signupMu.Lock()
	defer s.signupMu.Unlock()

	existing, err := s.users.Filter(ctx, func(u models.User) bool { return u.Email == in.Email })
	if err != nil {
		return models.User{}, err
	}
	if len(existing) > 0 {
		return models.User{}, models.ErrDuplicateEmail
	}

	user := models.User{
		ID:        "user-" + uuid.NewString(),
		Email:     in.Email,
		Password:  in.Password,
		Metadata:  datatypes.NewJSONType(models.UserMetadata{FullName: in.FullName}),
		Role:      in.Role,
		CreatedAt: time.Now().UTC(),
	}
	profile := models.Profile{
		ID:         user.ID,
		FullName:   in.FullName,
		Phone:      in.Phone,
		Role:       in.Role,
		PostalCode: in.PostalCode,
		City:       in.City,
	}

	if err := s.users.Insert(ctx, user); err != nil {
		return models.User{}, err
	}
	if err := s.profiles.Insert(ctx, profile); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// SignOut forgets the identity both in memory and in the persister.
func (s *Session) SignOut(ctx context.Context) error {
	done, err := s.Begin("signout")
	if err != nil {
		return err
	}
	defer done()

	if err := s.store.latency.Wait(ctx, signOutDelay); err != nil {
		return err
	}
	if err := s.store.persister.Delete(ctx, s.key()); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.reset()
	return nil
}

func (s *Session) SetConfirmation(orders []models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmation = orders
}

// Confirmation returns the orders placed by the last checkout of this flow.
func (s *Session) Confirmation() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.confirmation
}

func (s *Session) ClearConfirmation() {
	s.SetConfirmation(nil)
}
