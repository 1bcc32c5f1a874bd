package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"glamup.com/app/internal/shared/apperr"
	"glamup.com/app/internal/shared/dbx"
	"glamup.com/app/internal/shared/validation"
)

// ClientMeta is recorded on the session row.
type ClientMeta struct {
	UserAgent string
	IP        string
}

// Result is returned by Register and Login.
type Result struct {
	User      User
	Token     string
	SessionID string
	ExpiresAt time.Time
}

// Principal is an authenticated request identity.
type Principal struct {
	User      User
	SessionID string
}

type ProfilePatch struct {
	Name      *string   `json:"name" binding:"omitempty,max=255"`
	Gender    *string   `json:"gender" binding:"omitempty,oneof=male female other prefer-not-to-say"`
	City      *string   `json:"city" binding:"omitempty,max=128"`
	Age       *int      `json:"age"`
	Budget    *int      `json:"budget"`
	Interests *[]string `json:"interests"`
}

type Service struct {
	repo       *Repo
	tokens     *TokenIssuer
	sessionTTL time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewService(repo *Repo, tokens *TokenIssuer, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = 7 * 24 * time.Hour
	}
	return &Service{
		repo:       repo,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

// Register creates a user account and logs it in. Self-registered users are
// always plain users.
func (s *Service) Register(ctx context.Context, in RegisterInput, meta ClientMeta) (Result, error) {
	if fields := validateRegister(in); fields != nil {
		return Result{}, apperr.InvalidErr("Please correct the highlighted fields.", fields)
	}
	in = normalizeRegister(in)

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return Result{}, emailTaken()
	} else if !errors.Is(err, ErrUserNotFound) {
		return Result{}, apperr.UnavailableErr("Registration is unavailable right now. Please try again.", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return Result{}, apperr.Wrap(fmt.Errorf("hash password: %w", err))
	}

	now := s.now().UTC()
	u := User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         RoleUser,
		Gender:       in.Gender,
		City:         in.City,
		Age:          in.Age,
		Budget:       in.Budget,
		Interests:    interestsJSON(in.Interests),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateUser(ctx, &u); err != nil {
		if dbx.IsDuplicateKey(err) {
			return Result{}, emailTaken()
		}
		return Result{}, apperr.UnavailableErr("Registration is unavailable right now. Please try again.", err)
	}
	return s.startSession(ctx, u, meta)
}

func (s *Service) Login(ctx context.Context, email, password string, meta ClientMeta) (Result, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Result{}, apperr.InvalidErr("Email and password are required.", validation.FieldErrors{
			"email":    "This field is required.",
			"password": "This field is required.",
		})
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return Result{}, badCredentials()
	}
	if err != nil {
		return Result{}, apperr.UnavailableErr("Login is unavailable right now. Please try again.", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return Result{}, badCredentials()
	}
	return s.startSession(ctx, u, meta)
}

// Logout revokes the session. Unknown sessions are not an error.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.repo.DeleteSession(ctx, sessionID); err != nil {
		return apperr.Wrap(err)
	}
	return nil
}

// Authenticate resolves a bearer token to its user. The session row must still exist.
func (s *Service) Authenticate(ctx context.Context, token string) (Principal, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return Principal{}, apperr.UnauthorizedErr("Your session has expired. Please log in again.")
	}
	sess, err := s.repo.ActiveSession(ctx, claims.SessionID, s.now().UTC())
	if errors.Is(err, ErrSessionNotFound) || (err == nil && sess.UserID != claims.UserID) {
		return Principal{}, apperr.UnauthorizedErr("Your session has expired. Please log in again.")
	}
	if err != nil {
		return Principal{}, apperr.Wrap(err)
	}
	u, err := s.repo.GetByID(ctx, sess.UserID)
	if errors.Is(err, ErrUserNotFound) {
		return Principal{}, apperr.UnauthorizedErr("Your session has expired. Please log in again.")
	}
	if err != nil {
		return Principal{}, apperr.Wrap(err)
	}
	return Principal{User: u, SessionID: sess.ID}, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return User{}, apperr.NotFoundErr("User not found.")
	}
	if err != nil {
		return User{}, apperr.Wrap(err)
	}
	return u, nil
}

// UpdateProfile applies the non-nil fields of patch.
func (s *Service) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (User, error) {
	fields := validation.Struct(patch)
	if fields == nil {
		fields = validation.FieldErrors{}
	}
	updates := map[string]any{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			fields["name"] = "Name is required"
		}
		updates["name"] = name
	}
	if patch.Gender != nil {
		updates["gender"] = strings.TrimSpace(*patch.Gender)
	}
	if patch.City != nil {
		city := strings.TrimSpace(*patch.City)
		if city == "" {
			fields["city"] = "Please select a city"
		}
		updates["city"] = city
	}
	if patch.Age != nil {
		updates["age"] = clamp(*patch.Age, MinAge, MaxAge, DefaultAge)
	}
	if patch.Budget != nil {
		updates["budget"] = clamp(*patch.Budget, MinBudget, MaxBudget, DefaultBudget)
	}
	if patch.Interests != nil {
		updates["interests"] = interestsJSON(knownInterests(*patch.Interests))
	}
	if len(fields) > 0 {
		return User{}, apperr.InvalidErr("Please correct the highlighted fields.", fields)
	}

	if err := s.repo.UpdateUser(ctx, userID, updates); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, apperr.NotFoundErr("User not found.")
		}
		return User{}, apperr.UnavailableErr("Could not update your profile. Please try again.", err)
	}
	return s.GetUser(ctx, userID)
}

func (s *Service) SetAvatar(ctx context.Context, userID, url string) (User, error) {
	if err := s.repo.UpdateUser(ctx, userID, map[string]any{"avatar_url": url}); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, apperr.NotFoundErr("User not found.")
		}
		return User{}, apperr.Wrap(err)
	}
	return s.GetUser(ctx, userID)
}

// CreateAdmin creates an admin account, or promotes and re-passwords an
// existing account with the same email.
func (s *Service) CreateAdmin(ctx context.Context, name, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if err := validation.Validator().Var(email, "required,email"); err != nil {
		return User{}, apperr.InvalidErr("Enter a valid email address.", validation.FieldErrors{"email": "Enter a valid email address."})
	}
	if len(password) < 6 {
		return User{}, apperr.InvalidErr("Password must be at least 6 characters.", validation.FieldErrors{"password": "Password must be at least 6 characters"})
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return User{}, apperr.Wrap(err)
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.repo.UpdateUser(ctx, existing.ID, map[string]any{
			"role":          RoleAdmin,
			"password_hash": string(hash),
		}); err != nil {
			return User{}, apperr.Wrap(err)
		}
		return s.GetUser(ctx, existing.ID)
	case !errors.Is(err, ErrUserNotFound):
		return User{}, apperr.Wrap(err)
	}

	if name == "" {
		name = "Admin"
	}
	now := s.now().UTC()
	u := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         RoleAdmin,
		Age:          DefaultAge,
		Budget:       DefaultBudget,
		Interests:    interestsJSON(nil),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateUser(ctx, &u); err != nil {
		return User{}, apperr.Wrap(err)
	}
	return u, nil
}

// PasswordChange is the body of a password change request.
type PasswordChange struct {
	Current string `json:"currentPassword" binding:"required"`
	New     string `json:"newPassword" binding:"required,min=6,max=72"`
}

// ChangePassword replaces the password of the signed-in user and revokes all
// of their other sessions. keepSessionID stays valid.
func (s *Service) ChangePassword(ctx context.Context, userID, keepSessionID string, in PasswordChange) error {
	if fields := validation.Struct(in); len(fields) > 0 {
		return apperr.InvalidErr("Please fix the highlighted fields.", fields)
	}
	u, err := s.repo.GetByID(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		return apperr.UnauthorizedErr("Please log in again.")
	}
	if err != nil {
		return apperr.Wrap(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Current)) != nil {
		return apperr.InvalidErr("Current password is incorrect.", validation.FieldErrors{"currentPassword": "Current password is incorrect."})
	}
	if in.Current == in.New {
		return apperr.InvalidErr("Choose a password you have not used here.", validation.FieldErrors{"newPassword": "Must differ from the current password."})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.New), s.bcryptCost)
	if err != nil {
		return apperr.Wrap(err)
	}
	if err := s.repo.UpdateUser(ctx, userID, map[string]any{"password_hash": string(hash)}); err != nil {
		return apperr.Wrap(err)
	}
	if _, err := s.repo.DeleteUserSessions(ctx, userID, keepSessionID); err != nil {
		return apperr.Wrap(err)
	}
	return nil
}

func (s *Service) CountUsers(ctx context.Context) (int64, error) {
	n, err := s.repo.CountUsers(ctx)
	if err != nil {
		return 0, apperr.Wrap(err)
	}
	return n, nil
}

func (s *Service) RecentUsers(ctx context.Context, limit int) ([]User, error) {
	if limit <= 0 {
		limit = 5
	}
	users, err := s.repo.RecentUsers(ctx, limit)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	return users, nil
}

// PurgeExpiredSessions deletes sessions past their expiry.
func (s *Service) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredSessions(ctx, s.now().UTC())
}

func (s *Service) startSession(ctx context.Context, u User, meta ClientMeta) (Result, error) {
	now := s.now().UTC()
	sess := Session{
		ID:         uuid.NewString(),
		UserID:     u.ID,
		UserAgent:  truncate(meta.UserAgent, 255),
		IP:         truncate(meta.IP, 64),
		ExpiresAt:  now.Add(s.sessionTTL),
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := s.repo.CreateSession(ctx, &sess); err != nil {
		return Result{}, apperr.UnavailableErr("Login is unavailable right now. Please try again.", err)
	}
	token, err := s.tokens.Issue(u, sess)
	if err != nil {
		return Result{}, apperr.Wrap(err)
	}
	return Result{User: u, Token: token, SessionID: sess.ID, ExpiresAt: sess.ExpiresAt}, nil
}

func emailTaken() error {
	ae := apperr.ConflictErr("An account with this email already exists.")
	ae.Fields = map[string]string{"email": "Email might already be in use"}
	return ae
}

func badCredentials() error {
	return apperr.UnauthorizedErr("Invalid email or password.")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
