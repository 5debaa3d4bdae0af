package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/google/uuid"

	"github.com/checks-dashboard/backend/internal/application/adapter"
	domainerror "github.com/checks-dashboard/backend/internal/domain/error"
)

// firebaseUserNamespace scopes the uuids derived from Firebase UIDs.
var firebaseUserNamespace = uuid.MustParse("6f1c1f0e-4f5d-4b8e-9a59-0b7c2a3d9e41")

// IDTokenVerifier is the subset of the Firebase auth client used to verify ID tokens.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// firebaseTokenService validates Firebase ID tokens issued to signed-in clients.
type firebaseTokenService struct {
	verifier IDTokenVerifier
}

// NewFirebaseTokenService creates a token service backed by Firebase Authentication.
func NewFirebaseTokenService(verifier IDTokenVerifier) adapter.TokenService {
	return &firebaseTokenService{verifier: verifier}
}

// GenerateAccessToken is not supported; Firebase issues tokens to clients directly.
func (s *firebaseTokenService) GenerateAccessToken(_ context.Context, _ uuid.UUID, _ string) (string, error) {
	return "", errors.New("firebase tokens are issued by Firebase Authentication")
}

// ValidateAccessToken verifies a Firebase ID token and maps its UID to an owner id.
func (s *firebaseTokenService) ValidateAccessToken(ctx context.Context, token string) (*adapter.TokenClaims, error) {
	verified, err := s.verifier.VerifyIDToken(ctx, token)
	if err != nil {
		if auth.IsIDTokenExpired(err) {
			return nil, fmt.Errorf("%w: %v", domainerror.ErrExpiredToken, err)
		}
		return nil, fmt.Errorf("%w: %v", domainerror.ErrInvalidToken, err)
	}

	email, _ := verified.Claims["email"].(string)

	return &adapter.TokenClaims{
		UserID:    FirebaseOwnerID(verified.UID),
		Email:     email,
		ExpiresAt: time.Unix(verified.Expires, 0).UTC(),
	}, nil
}

// FirebaseOwnerID derives the stable owner id for a Firebase UID.
func FirebaseOwnerID(uid string) uuid.UUID {
	return uuid.NewSHA1(firebaseUserNamespace, []byte(uid))
}
