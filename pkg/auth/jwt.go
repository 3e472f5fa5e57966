package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims binds an account's identifier, email, and role at issuance
// time. The embedded role may go stale if the account changes after
// issuance; tokens stay valid until expiry (no revocation list).
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and validates signed session tokens.
type TokenService interface {
	Generate(userID, email, role string) (string, error)
	Validate(token string) (*Claims, error)
}

type jwtService struct {
	secret []byte
	expiry time.Duration
}

// NewJWTService creates an HS256 token service. Expiry defaults to the
// 8-hour session window when zero.
func NewJWTService(secret string, expiry time.Duration) TokenService {
	if expiry <= 0 {
		expiry = 8 * time.Hour
	}
	return &jwtService{secret: []byte(secret), expiry: expiry}
}

func (s *jwtService) Generate(userID, email, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *jwtService) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
