package services

import (
	"context"
	"crypto/subtle"
	"log"
	"sync"
	"time"

	"markethub/internal/config"
	"markethub/internal/core/domain"
	"markethub/internal/core/state"
	"markethub/internal/pkg/jwt"
	"markethub/internal/pkg/password"
)

// ChallengeExpiry bounds how long an admin step-1 challenge stays
// valid before the flow resets to step 1.
const ChallengeExpiry = 2 * time.Minute

// AuthService handles login, registration and the two-step admin
// challenge. Every failure path that counts toward a lockout persists
// the updated counters even though the operation itself fails.
type AuthService struct {
	container *state.Container
	lockouts  *LockoutTracker
	cfg       *config.Config

	// challengeMu guards the id of the outstanding step-1 challenge.
	// A challenge admits exactly one step-2 attempt; any attempt
	// consumes it and a failed one sends the flow back to step 1.
	challengeMu      sync.Mutex
	pendingChallenge string
}

// NewAuthService creates a new auth service
func NewAuthService(container *state.Container, lockouts *LockoutTracker, cfg *config.Config) *AuthService {
	return &AuthService{
		container: container,
		lockouts:  lockouts,
		cfg:       cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Identity string      `json:"identity"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
	Email    string      `json:"email"`
	Location string      `json:"location"`
}

// AuthResponse represents a successful authentication
type AuthResponse struct {
	Principal   domain.Principal     `json:"principal"`
	AccessToken string               `json:"access_token"`
	User        *domain.UserResponse `json:"user,omitempty"`
}

// Register creates a new customer or vendor account. It does not log
// the new user in; the caller follows up with Login.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) error {
	if input.Identity == "" || input.Password == "" {
		return domain.ErrInvalidInput
	}
	if !input.Role.Valid() {
		return domain.ErrInvalidInput
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return err
	}

	err = s.container.Update(ctx, func(st *domain.State) error {
		// The admin identity is reserved and never stored in the map.
		if input.Identity == domain.AdminIdentity {
			return domain.ErrDuplicateIdentity
		}
		if st.User(input.Identity) != nil {
			return domain.ErrDuplicateIdentity
		}

		user := &domain.User{
			Type:                input.Role,
			Credits:             0,
			Password:            hashed,
			Email:               input.Email,
			Location:            input.Location,
			PendingTransactions: []domain.PendingTransaction{},
		}
		if input.Role == domain.RoleVendor {
			user.Products = []domain.Product{}
		}
		st.Users[input.Identity] = user
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("✅ User registered: %s (%s)", input.Identity, input.Role)
	return nil
}

// Login authenticates a user and records the session in the document.
func (s *AuthService) Login(ctx context.Context, identity, pass string) (*AuthResponse, error) {
	var (
		authErr   error
		principal domain.Principal
		userResp  *domain.UserResponse
	)

	err := s.container.Update(ctx, func(st *domain.State) error {
		if s.lockouts.IsLocked(st, identity) {
			authErr = domain.ErrLocked
			return nil
		}

		user := st.User(identity)
		if user == nil || !password.Verify(pass, user.Password) {
			s.lockouts.RecordFailure(st, identity)
			authErr = domain.ErrInvalidCredentials
			return nil
		}

		st.LoginAttempts[identity] = 0
		st.SetSession(identity)
		principal = domain.Principal{Identity: identity, Role: user.Type}
		userResp = user.ToResponse(identity)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if authErr != nil {
		return nil, authErr
	}

	token, err := jwt.GenerateSessionToken(principal, s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", identity)
	return &AuthResponse{
		Principal:   principal,
		AccessToken: token,
		User:        userResp,
	}, nil
}

// AdminLoginStep1 checks the admin password and, on a match, returns
// the challenge token that admits the caller to step 2. A mismatch
// counts toward the admin lockout.
func (s *AuthService) AdminLoginStep1(ctx context.Context, adminPassword string) (string, error) {
	var authErr error

	err := s.container.Update(ctx, func(st *domain.State) error {
		if s.lockouts.IsLocked(st, domain.AdminIdentity) {
			authErr = domain.ErrLocked
			return nil
		}
		if subtle.ConstantTimeCompare([]byte(adminPassword), []byte(s.cfg.Admin.Password)) != 1 {
			s.lockouts.RecordFailure(st, domain.AdminIdentity)
			authErr = domain.ErrInvalidCredentials
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if authErr != nil {
		return "", authErr
	}

	token, id, err := jwt.GenerateChallengeToken(s.cfg.JWT.Secret, ChallengeExpiry)
	if err != nil {
		return "", err
	}

	s.challengeMu.Lock()
	s.pendingChallenge = id
	s.challengeMu.Unlock()

	return token, nil
}

// AdminLoginStep2 completes the admin login: it requires the step-1
// challenge token together with the admin id. The challenge is single
// use; a wrong id counts toward the admin lockout, consumes the
// challenge and restarts the flow at step 1.
func (s *AuthService) AdminLoginStep2(ctx context.Context, challengeToken, adminID string) (*AuthResponse, error) {
	id, err := jwt.ValidateChallengeToken(challengeToken, s.cfg.JWT.Secret)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !s.consumeChallenge(id) {
		return nil, domain.ErrUnauthorized
	}

	var authErr error
	err = s.container.Update(ctx, func(st *domain.State) error {
		if s.lockouts.IsLocked(st, domain.AdminIdentity) {
			authErr = domain.ErrLocked
			return nil
		}
		if subtle.ConstantTimeCompare([]byte(adminID), []byte(s.cfg.Admin.ID)) != 1 {
			s.lockouts.RecordFailure(st, domain.AdminIdentity)
			authErr = domain.ErrInvalidCredentials
			return nil
		}

		st.LoginAttempts[domain.AdminIdentity] = 0
		st.SetSession(domain.AdminIdentity)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if authErr != nil {
		return nil, authErr
	}

	principal := domain.AdminPrincipal()
	token, err := jwt.GenerateSessionToken(principal, s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Admin logged in")
	return &AuthResponse{
		Principal:   principal,
		AccessToken: token,
	}, nil
}

// consumeChallenge spends the outstanding challenge. It reports whether
// id matched; either way no challenge remains afterwards.
func (s *AuthService) consumeChallenge(id string) bool {
	s.challengeMu.Lock()
	defer s.challengeMu.Unlock()

	ok := id != "" && id == s.pendingChallenge
	s.pendingChallenge = ""
	return ok
}

// Logout clears the session. Unconditional, no error case beyond the
// store write itself.
func (s *AuthService) Logout(ctx context.Context) error {
	err := s.container.Update(ctx, func(st *domain.State) error {
		st.ClearSession()
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("✅ User logged out")
	return nil
}

// CurrentUser returns the DTO for an authenticated principal.
func (s *AuthService) CurrentUser(p domain.Principal) (*domain.UserResponse, error) {
	if p.IsAdmin() {
		return nil, domain.ErrUserNotFound
	}

	var resp *domain.UserResponse
	s.container.View(func(st *domain.State) {
		if user := st.User(p.Identity); user != nil {
			resp = user.ToResponse(p.Identity)
		}
	})
	if resp == nil {
		return nil, domain.ErrUserNotFound
	}
	return resp, nil
}
