package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/luminagen/lumina-backend/internal/config"
	"github.com/luminagen/lumina-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoSession          = errors.New("no active session")
)

// TokenProvider is the concrete identity provider: it verifies Google ID
// tokens and password credentials against the profile store, tracks the
// current identity and fans out identity-changed events to subscribers.
type TokenProvider struct {
	db   *gorm.DB
	cfg  *config.Config
	jwks *GoogleJWKSClient

	mu        sync.Mutex
	current   *Identity
	announced bool
	subs      map[int]func(*Identity)
	nextSub   int
}

func NewTokenProvider(db *gorm.DB, cfg *config.Config) *TokenProvider {
	return &TokenProvider{
		db:   db,
		cfg:  cfg,
		jwks: NewGoogleJWKSClient(),
		subs: make(map[int]func(*Identity)),
	}
}

// Subscribe registers fn for identity changes. If a session state has
// already been announced (signed in or explicit none), fn is delivered the
// current state asynchronously so late subscribers are not left hanging.
func (p *TokenProvider) Subscribe(fn func(*Identity)) (func(), error) {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	announced, current := p.announced, p.current
	p.mu.Unlock()

	if announced {
		go fn(current)
	}

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}, nil
}

func (p *TokenProvider) Current() *Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Announce publishes the explicit "no session" signal when no stored
// session could be restored at startup. Subscribers must be able to tell
// "signed out" apart from "still resolving".
func (p *TokenProvider) Announce() {
	p.publish(p.Current())
}

func (p *TokenProvider) SignOut() {
	p.publish(nil)
}

// SignInWithGoogle verifies a Google ID token, upserts the backing profile
// and announces the new identity. Google emails are treated as verified
// even when the token claim is absent.
func (p *TokenProvider) SignInWithGoogle(ctx context.Context, idToken string) (*Identity, error) {
	if idToken == "" {
		return nil, errors.New("id token is required")
	}

	claims, err := p.jwks.VerifyToken(idToken, p.cfg.GoogleClientID)
	if err != nil {
		slog.Error("google token verification failed", "error", err)
		return nil, fmt.Errorf("failed to verify Google identity token: %w", err)
	}

	user, err := p.ensureGoogleProfile(ctx, claims)
	if err != nil {
		return nil, err
	}

	ident := &Identity{
		Subject:       user.SubjectID,
		Email:         user.Email,
		EmailVerified: claims.Verified(),
		DisplayName:   claims.Name,
		Providers:     []string{ProviderGoogle},
	}
	p.publish(ident)
	return ident, nil
}

// Register creates a password-provider profile and announces the identity.
// The account starts unverified.
func (p *TokenProvider) Register(ctx context.Context, email, password, name string) (*Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 8 {
		return nil, errors.New("email required and password must be at least 8 characters")
	}

	var existing models.User
	if err := p.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New(),
		SubjectID:    uuid.NewString(),
		Email:        email,
		Password:     string(hash),
		DisplayName:  name,
		Credits:      p.cfg.FreeTierCredits,
		AuthProvider: ProviderPassword,
	}
	if err := p.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	ident := &Identity{
		Subject:       user.SubjectID,
		Email:         user.Email,
		EmailVerified: false,
		DisplayName:   user.DisplayName,
		Providers:     []string{ProviderPassword},
	}
	p.publish(ident)
	return ident, nil
}

// SignInWithPassword checks credentials against the stored bcrypt hash.
func (p *TokenProvider) SignInWithPassword(ctx context.Context, email, password string) (*Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := p.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	ident := &Identity{
		Subject:       user.SubjectID,
		Email:         user.Email,
		EmailVerified: user.Verified,
		DisplayName:   user.DisplayName,
		Providers:     []string{ProviderPassword},
	}
	p.publish(ident)
	return ident, nil
}

// RefreshVerification re-reads the stored verified flag for the current
// identity (the verification-return flow forces this after the user clicks
// the email link) and re-announces if it changed.
func (p *TokenProvider) RefreshVerification(ctx context.Context) (*Identity, error) {
	current := p.Current()
	if current == nil {
		return nil, ErrNoSession
	}

	var user models.User
	if err := p.db.WithContext(ctx).Where("subject_id = ?", current.Subject).First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to reload profile: %w", err)
	}

	if user.Verified == current.EmailVerified {
		return current, nil
	}

	refreshed := *current
	refreshed.EmailVerified = user.Verified
	p.publish(&refreshed)
	return &refreshed, nil
}

func (p *TokenProvider) ensureGoogleProfile(ctx context.Context, claims *GoogleJWTClaims) (*models.User, error) {
	subject := "google:" + claims.Sub
	email := strings.ToLower(claims.Email)

	var user models.User
	err := p.db.WithContext(ctx).
		Where("subject_id = ? OR email = ?", subject, email).First(&user).Error

	if err != nil {
		displayName := claims.Name
		if displayName == "" {
			displayName = strings.Split(email, "@")[0]
		}

		user = models.User{
			ID:           uuid.New(),
			SubjectID:    subject,
			Email:        email,
			DisplayName:  displayName,
			Credits:      p.cfg.FreeTierCredits,
			Verified:     true,
			AuthProvider: ProviderGoogle,
		}
		if err := p.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create Google user: %w", err)
		}
		return &user, nil
	}

	// Existing password account signing in with Google for the first time:
	// link it and mark verified (Google emails are pre-verified).
	if user.AuthProvider != ProviderGoogle {
		p.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
			"auth_provider": ProviderGoogle,
			"verified":      true,
		})
		user.AuthProvider = ProviderGoogle
		user.Verified = true
	}
	return &user, nil
}

func (p *TokenProvider) publish(ident *Identity) {
	p.mu.Lock()
	p.current = ident
	p.announced = true
	fns := make([]func(*Identity), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(ident)
	}
}
