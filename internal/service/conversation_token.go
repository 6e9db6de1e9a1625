package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const conversationTokenType = "conversation"

var (
	ErrTokenInvalid = errors.New("conversation token invalid")
	ErrTokenExpired = errors.New("conversation token expired")
)

// ConversationClaims liga un token a una única conversación.
type ConversationClaims struct {
	ConversationID string `json:"cid"`
	TokenType      string `json:"typ"`
	jwt.RegisteredClaims
}

// ConversationTokenService emite y valida los tokens que dan acceso a una conversación.
type ConversationTokenService struct {
	secret    []byte
	ttl       time.Duration
	issuer    string
	store     TokenStore
	ephemeral bool
}

// NewConversationTokenService usa un secreto aleatorio si secret está vacío;
// en ese caso los tokens no sobreviven a un reinicio.
func NewConversationTokenService(secret string, ttl time.Duration, store TokenStore) *ConversationTokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if store == nil {
		store = NewMemoryTokenStore()
	}
	svc := &ConversationTokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "mbti-universe",
		store:  store,
	}
	if strings.TrimSpace(secret) == "" {
		svc.secret = randomSecret()
		svc.ephemeral = true
	}
	return svc
}

// Ephemeral indica si el secreto se generó al arrancar.
func (s *ConversationTokenService) Ephemeral() bool {
	return s != nil && s.ephemeral
}

func (s *ConversationTokenService) Issue(conversationID string) (string, error) {
	if s == nil || len(s.secret) == 0 {
		return "", ErrTokenInvalid
	}
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		return "", ErrTokenInvalid
	}
	now := time.Now().UTC()
	jti := uuid.NewString()
	claims := ConversationClaims{
		ConversationID: conversationID,
		TokenType:      conversationTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.issuer,
			Subject:   conversationID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}
	if err := s.store.Store(jti, conversationID, s.ttl); err != nil {
		return "", err
	}
	return signed, nil
}

// Parse valida firma, expiración, tipo y que el jti no haya sido revocado.
func (s *ConversationTokenService) Parse(tokenString string) (ConversationClaims, error) {
	if s == nil || len(s.secret) == 0 {
		return ConversationClaims{}, ErrTokenInvalid
	}
	if strings.TrimSpace(tokenString) == "" {
		return ConversationClaims{}, ErrTokenInvalid
	}
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return ConversationClaims{}, err
	}
	if !s.isValidClaims(claims) {
		return ConversationClaims{}, ErrTokenInvalid
	}
	ok, err := s.store.Exists(claims.ID)
	if err != nil || !ok {
		return ConversationClaims{}, ErrTokenInvalid
	}
	return claims, nil
}

// Revoke invalida el token; los siguientes Parse fallan.
func (s *ConversationTokenService) Revoke(tokenString string) error {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return err
	}
	return s.store.Revoke(claims.ID)
}

func (s *ConversationTokenService) parseToken(tokenString string) (ConversationClaims, error) {
	var claims ConversationClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ConversationClaims{}, ErrTokenExpired
		}
		return ConversationClaims{}, ErrTokenInvalid
	}
	return claims, nil
}

func (s *ConversationTokenService) isValidClaims(claims ConversationClaims) bool {
	if claims.TokenType != conversationTokenType {
		return false
	}
	if strings.TrimSpace(claims.ConversationID) == "" || claims.ID == "" {
		return false
	}
	if claims.Subject != claims.ConversationID {
		return false
	}
	return strings.TrimSpace(claims.Issuer) == s.issuer
}

func randomSecret() []byte {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return []byte(uuid.NewString())
	}
	return []byte(hex.EncodeToString(buf))
}
