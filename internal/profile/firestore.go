package profile

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const firestoreCollection = "risk_profiles"

type firestoreRecord struct {
	Profile   string    `firestore:"profile"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

// FirestoreStore keeps one document per user in the risk_profiles collection
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a client for projectID using ambient credentials
// (or FIRESTORE_EMULATOR_HOST)
func NewFirestoreStore(ctx context.Context, projectID string) (*FirestoreStore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("firestore project id is required")
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firestore: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) Get(ctx context.Context, userID string) (domain.RiskProfile, error) {
	if err := validateUser("profile_get", userID); err != nil {
		return "", err
	}
	doc, err := s.client.Collection(firestoreCollection).Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return "", notFound("profile_get", userID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read profile: %w", err)
	}
	var rec firestoreRecord
	if err := doc.DataTo(&rec); err != nil {
		return "", fmt.Errorf("failed to decode profile: %w", err)
	}
	return domain.RiskProfile(rec.Profile), nil
}

func (s *FirestoreStore) Set(ctx context.Context, userID string, p domain.RiskProfile) error {
	if err := validate("profile_set", userID, p); err != nil {
		return err
	}
	_, err := s.client.Collection(firestoreCollection).Doc(userID).Set(ctx, firestoreRecord{
		Profile:   string(p),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
