package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCredentials is returned when the supplied username or password
// does not match the configured pair.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Config holds the credential pair and token-signing settings. It is passed
// in explicitly at construction; the service reads no ambient state.
type Config struct {
	Username string
	Password string
	Key      string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Token is an issued access token together with its expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Service checks login credentials and issues signed HS256 access tokens.
type Service struct {
	cfg Config
	key []byte
	now func() time.Time
}

// NewService creates an auth Service from the given configuration. HS256
// requires a key of at least 256 bits; a shorter configured key is replaced
// by its SHA-256 digest.
func NewService(cfg Config) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}

	key := []byte(cfg.Key)
	if len(key) < sha256.Size {
		sum := sha256.Sum256(key)
		key = sum[:]
	}

	return &Service{
		cfg: cfg,
		key: key,
		now: time.Now,
	}
}

// Login validates the credential pair and returns a signed token. The
// comparison is constant-time to avoid leaking how much of the pair matched.
func (s *Service) Login(username, password string) (*Token, error) {
	if s.cfg.Username == "" || s.cfg.Password == "" {
		return nil, ErrInvalidCredentials
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Username))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password))
	if userOK&passOK != 1 {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	expires := now.Add(s.cfg.TTL)

	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	if s.cfg.Issuer != "" {
		claims.Issuer = s.cfg.Issuer
	}
	if s.cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{s.cfg.Audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return nil, errors.Wrap(err, "sign token")
	}

	return &Token{Value: signed, ExpiresAt: expires}, nil
}

// Verify parses and validates a bearer token, returning the subject claim.
func (s *Service) Verify(tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}
	if s.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(s.cfg.Audience))
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	}, opts...)
	if err != nil {
		return "", errors.Wrap(err, "parse token")
	}

	return claims.Subject, nil
}
