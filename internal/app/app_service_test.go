package app

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/mryoshq/Accounting-AI/internal/core"
	"github.com/mryoshq/Accounting-AI/internal/credentials"
)

// stubUserService overrides only the token lookup; everything else panics
// via the embedded nil interface if touched.
type stubUserService struct {
	core.UserService
	cipher *string
}

func (s *stubUserService) APIToken(ctx context.Context, userID int) (*string, error) {
	return s.cipher, nil
}

func TestAPITokenPreview_UnusableStoredToken(t *testing.T) {
	cipher := "not-a-valid-stored-token"
	svc := NewAppService(Services{Users: &stubUserService{cipher: &cipher}}, nil, nil, "test-secret", zap.NewNop())

	_, err := svc.APITokenPreview(context.Background(), 7)
	if err == nil {
		t.Fatal("expected error for undecryptable stored token")
	}
	var credErr *credentials.CredentialError
	if !errors.As(err, &credErr) {
		t.Fatalf("expected CredentialError, got %T: %v", err, err)
	}
	if credErr.UserID != 7 {
		t.Errorf("expected user 7 in error, got %d", credErr.UserID)
	}
}

func TestAPITokenPreview_ValidStoredToken(t *testing.T) {
	rawKey := "sk-proj-abcdefghij1234567890"
	cipher, err := credentials.Encrypt([]byte("test-secret"), rawKey)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	svc := NewAppService(Services{Users: &stubUserService{cipher: &cipher}}, nil, nil, "test-secret", zap.NewNop())

	result, err := svc.APITokenPreview(context.Background(), 7)
	if err != nil {
		t.Fatalf("APITokenPreview: %v", err)
	}
	if want := credentials.Preview(rawKey); result.Preview != want {
		t.Errorf("expected preview %q, got %q", want, result.Preview)
	}
}

func TestAPITokenPreview_NoStoredToken(t *testing.T) {
	svc := NewAppService(Services{Users: &stubUserService{}}, nil, nil, "test-secret", zap.NewNop())

	_, err := svc.APITokenPreview(context.Background(), 7)
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
