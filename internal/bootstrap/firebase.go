package bootstrap

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/reqboard/reqboard-backend/config"
)

// FirebaseClients bundles the document store and the image bucket, both
// served by one Firebase app.
type FirebaseClients struct {
	Firestore *firestore.Client
	Bucket    *storage.BucketHandle
}

// InitializeFirebase initializes the Firebase Admin SDK and returns the
// Firestore client plus the storage bucket. The bucket is nil when no
// bucket is configured; image uploads are then unavailable.
func InitializeFirebase(ctx context.Context, cfg *config.FirebaseConfig) (*FirebaseClients, error) {
	if cfg.CredentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}

	opt := option.WithCredentialsFile(cfg.CredentialsPath)
	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: cfg.StorageBucket}, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firestore client: %w", err)
	}

	clients := &FirebaseClients{Firestore: fs}
	if cfg.StorageBucket != "" {
		st, err := app.Storage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get Storage client: %w", err)
		}
		bucket, err := st.Bucket(cfg.StorageBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to open bucket %s: %w", cfg.StorageBucket, err)
		}
		clients.Bucket = bucket
	}

	return clients, nil
}
