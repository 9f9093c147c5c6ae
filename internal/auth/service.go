package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/vardanhq/vardan-api/internal/authz"
	"github.com/vardanhq/vardan-api/internal/common"
	"github.com/vardanhq/vardan-api/internal/store"
)

const (
	defaultAccessTTL  = time.Hour
	defaultRefreshTTL = 30 * 24 * time.Hour

	refreshTokenBytes = 48

	claimEmail = "email"
	claimRole  = "role"
)

// Service coordinates registration, credential checks, token issuance and
// session persistence.
type Service struct {
	queries    store.Querier
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	signer     jwa.SignatureAlgorithm
	validator  TokenValidator
	issuer     string
	audience   string
	clockSkew  time.Duration
}

// Config configures the auth service.
type Config struct {
	Queries         store.Querier
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Issuer          string
	Audience        string
	ClockSkew       time.Duration
}

// User is the safe subset of the account model returned to clients.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResult bundles token material returned after a successful login.
type LoginResult struct {
	User          User      `json:"user"`
	AccessToken   string    `json:"access_token"`
	RefreshToken  string    `json:"refresh_token"`
	AccessExpiry  time.Time `json:"access_expires_at"`
	RefreshExpiry time.Time `json:"refresh_expires_at"`
}

// RefreshResult represents the outcome of a refresh operation.
type RefreshResult struct {
	AccessToken   string    `json:"access_token"`
	AccessExpiry  time.Time `json:"access_expires_at"`
	RefreshToken  string    `json:"refresh_token"`
	RefreshExpiry time.Time `json:"refresh_expires_at"`
}

// NewService constructs a Service with sane defaults.
func NewService(cfg Config) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("auth: queries is required")
	}
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, errors.New("auth: secret is required")
	}

	s := &Service{
		queries:    cfg.Queries,
		secret:     []byte(secret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		now:        time.Now,
		signer:     jwa.HS256,
		issuer:     strings.TrimSpace(cfg.Issuer),
		audience:   strings.TrimSpace(cfg.Audience),
		clockSkew:  cfg.ClockSkew,
	}
	if s.accessTTL <= 0 {
		s.accessTTL = defaultAccessTTL
	}
	if s.refreshTTL <= 0 {
		s.refreshTTL = defaultRefreshTTL
	}
	if s.issuer == "" {
		s.issuer = "vardan-api"
	}
	if s.audience == "" {
		s.audience = "vardan-clients"
	}
	if s.clockSkew < 0 {
		s.clockSkew = 0
	}
	s.validator = TokenValidator{
		Issuer:    s.issuer,
		Audience:  s.audience,
		ClockSkew: s.clockSkew,
		Algorithm: s.signer,
	}
	return s, nil
}

// WithNow allows tests to override the time provider.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Register creates a new account. Role may be customer or seller; anything
// else is rejected so admin accounts can only be promoted by an admin.
func (s *Service) Register(ctx context.Context, name, email, password, phone, role string) (User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	switch {
	case name == "":
		return User{}, common.ErrValidation("name is required")
	case email == "":
		return User{}, common.ErrValidation("email is required")
	case len(password) < 8:
		return User{}, common.ErrValidation("password must be at least 8 characters")
	}
	if role = strings.TrimSpace(role); role == "" {
		role = string(authz.RoleCustomer)
	}
	if role != string(authz.RoleCustomer) && role != string(authz.RoleSeller) {
		return User{}, common.ErrValidation("role must be customer or seller")
	}

	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		ID:           store.NewID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Phone:        store.TextOrNull(strings.TrimSpace(phone)),
		Role:         role,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, common.NewAppError("EMAIL_ALREADY_USED", "email is already registered", http.StatusConflict, err)
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}

	return ConvertUser(created), nil
}

// Login verifies credentials and issues a new JWT/refresh token pair. Every
// failure path returns the same error so callers cannot probe for accounts.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, errInvalidCredentials(nil)
	}

	dbUser, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil || !dbUser.IsActive {
		return LoginResult{}, errInvalidCredentials(nil)
	}
	if ok, err := argon2id.ComparePasswordAndHash(password, dbUser.PasswordHash); err != nil || !ok {
		return LoginResult{}, errInvalidCredentials(err)
	}
	if store.UUIDString(dbUser.ID) == "" {
		return LoginResult{}, errors.New("auth: invalid user identifier")
	}

	accessToken, accessExpiry, err := s.signAccessToken(dbUser)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, refreshExpiry, err := s.createSession(ctx, dbUser.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("create session: %w", err)
	}

	return LoginResult{
		User:          ConvertUser(dbUser),
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		AccessExpiry:  accessExpiry,
		RefreshExpiry: refreshExpiry,
	}, nil
}

// Logout revokes the refresh token. A blank token is a no-op so logout is
// always safe to call.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	token := strings.TrimSpace(refreshToken)
	if token == "" {
		return nil
	}
	return s.queries.DeleteSessionByTokenHash(ctx, hashToken(token))
}

// Refresh validates and rotates a refresh token, issuing a fresh pair.
// Any invalid state revokes the session outright.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (RefreshResult, error) {
	token := strings.TrimSpace(refreshToken)
	if token == "" {
		return RefreshResult{}, common.ErrUnauthorized("invalid refresh token")
	}
	hashed := hashToken(token)

	session, err := s.queries.GetSessionByTokenHash(ctx, hashed)
	if err != nil {
		return RefreshResult{}, common.ErrUnauthorized("invalid refresh token")
	}
	if !session.ExpiresAt.Valid || s.now().After(session.ExpiresAt.Time) {
		_ = s.queries.DeleteSessionByTokenHash(ctx, hashed)
		return RefreshResult{}, common.ErrUnauthorized("invalid refresh token")
	}
	dbUser, err := s.queries.GetUserByID(ctx, session.UserID)
	if err != nil || !dbUser.IsActive {
		_ = s.queries.DeleteSessionByTokenHash(ctx, hashed)
		return RefreshResult{}, common.ErrUnauthorized("invalid refresh token")
	}

	accessToken, accessExpiry, err := s.signAccessToken(dbUser)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("sign access token: %w", err)
	}
	newRefresh, refreshExpiry, err := s.rotateSession(ctx, session.ID)
	if err != nil {
		_ = s.queries.DeleteSessionByTokenHash(ctx, hashed)
		return RefreshResult{}, fmt.Errorf("rotate session: %w", err)
	}

	return RefreshResult{
		AccessToken:   accessToken,
		AccessExpiry:  accessExpiry,
		RefreshToken:  newRefresh,
		RefreshExpiry: refreshExpiry,
	}, nil
}

// Me fetches the current authenticated user.
func (s *Service) Me(ctx context.Context, userID string) (User, error) {
	id, err := store.ToUUID(strings.TrimSpace(userID))
	if err != nil {
		return User{}, common.ErrUnauthorized("unauthorized")
	}
	dbUser, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		return User{}, common.ErrUnauthorized("unauthorized")
	}
	return ConvertUser(dbUser), nil
}

// ParseAccessToken validates an access token and returns the caller identity.
func (s *Service) ParseAccessToken(token string) (common.Identity, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return common.Identity{}, common.ErrUnauthorized("missing token")
	}

	alg, err := tokenAlgorithm(trimmed)
	if err != nil {
		return common.Identity{}, invalidToken(err)
	}
	if s.validator.Algorithm != "" && alg != s.validator.Algorithm {
		return common.Identity{}, invalidToken(fmt.Errorf("unexpected token algorithm %s", alg))
	}
	parsed, err := jwt.ParseString(trimmed, jwt.WithKey(alg, s.secret))
	if err != nil {
		return common.Identity{}, invalidToken(err)
	}
	if err := s.validator.Validate(parsed, alg, s.now()); err != nil {
		return common.Identity{}, invalidToken(err)
	}

	id := common.Identity{UserID: parsed.Subject()}
	if v, ok := parsed.Get(claimEmail); ok {
		id.Email, _ = v.(string)
	}
	if v, ok := parsed.Get(claimRole); ok {
		id.Role, _ = v.(string)
	}
	if id.UserID == "" || !authz.ValidRole(id.Role) {
		return common.Identity{}, common.ErrUnauthorized("invalid token")
	}
	return id, nil
}

// tokenAlgorithm reads the signing algorithm from the protected header
// without trusting the payload. A "none" algorithm is rejected here.
func tokenAlgorithm(token string) (jwa.SignatureAlgorithm, error) {
	message, err := jws.ParseString(token)
	if err != nil {
		return "", err
	}
	sigs := message.Signatures()
	if len(sigs) == 0 {
		return "", errors.New("auth: token contains no signatures")
	}
	var alg jwa.SignatureAlgorithm
	for _, sig := range sigs {
		headers := sig.ProtectedHeaders()
		if headers == nil {
			return "", errors.New("auth: token missing protected headers")
		}
		got := headers.Algorithm()
		switch {
		case got == "":
			return "", errors.New("auth: token missing algorithm")
		case got == jwa.NoSignature:
			return "", errors.New("auth: token uses none algorithm")
		case alg == "":
			alg = got
		case alg != got:
			return "", errors.New("auth: mixed token algorithms detected")
		}
	}
	return alg, nil
}

func (s *Service) signAccessToken(u store.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.accessTTL)
	token, err := jwt.NewBuilder().
		Subject(store.UUIDString(u.ID)).
		Issuer(s.issuer).
		Audience([]string{s.audience}).
		IssuedAt(now).
		NotBefore(now.Add(-s.clockSkew)).
		Expiration(expiresAt).
		Claim(claimEmail, u.Email).
		Claim(claimRole, u.Role).
		Build()
	if err != nil {
		return "", time.Time{}, err
	}
	signed, err := jwt.Sign(token, jwt.WithKey(s.signer, s.secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return string(signed), expiresAt, nil
}

func (s *Service) createSession(ctx context.Context, userID pgtype.UUID) (string, time.Time, error) {
	if !userID.Valid {
		return "", time.Time{}, errors.New("auth: invalid user identifier")
	}
	token, hashed, expiresAt, err := s.mintRefreshToken()
	if err != nil {
		return "", time.Time{}, err
	}
	_, err = s.queries.CreateSession(ctx, store.CreateSessionParams{
		ID:        store.NewID(),
		UserID:    userID,
		TokenHash: hashed,
		ExpiresAt: store.Timestamp(expiresAt),
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (s *Service) rotateSession(ctx context.Context, sessionID pgtype.UUID) (string, time.Time, error) {
	token, hashed, expiresAt, err := s.mintRefreshToken()
	if err != nil {
		return "", time.Time{}, err
	}
	_, err = s.queries.RotateSession(ctx, store.RotateSessionParams{
		ID:        sessionID,
		TokenHash: hashed,
		ExpiresAt: store.Timestamp(expiresAt),
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// mintRefreshToken returns the plaintext token for the client and the hash
// that gets persisted. Only the hash ever touches the database.
func (s *Service) mintRefreshToken() (string, string, time.Time, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", time.Time{}, err
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	return token, hashToken(token), s.now().Add(s.refreshTTL), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func errInvalidCredentials(err error) error {
	return common.NewAppError("INVALID_CREDENTIALS", "invalid email or password", http.StatusUnauthorized, err)
}

func invalidToken(err error) error {
	return common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized, err)
}

// ConvertUser maps a store user onto the client-facing shape.
func ConvertUser(u store.User) User {
	return User{
		ID:        store.UUIDString(u.ID),
		Name:      u.Name,
		Email:     u.Email,
		Phone:     store.TextValue(u.Phone),
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Time,
	}
}
