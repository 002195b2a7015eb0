package gdrive

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
)

// Scopes are the read-only scopes the service account needs.
var Scopes = []string{
	drive.DriveReadonlyScope,
	docs.DocumentsReadonlyScope,
	sheets.SpreadsheetsReadonlyScope,
}

// Services bundles the Google API clients used by the store and readers.
// DriveLimiter paces every Drive call, listings and PDF downloads alike,
// so a quota backoff seen by one is honoured by the other.
type Services struct {
	Drive  *drive.Service
	Docs   *docs.Service
	Sheets *sheets.Service

	DriveLimiter *RateLimiter
}

// TokenSource builds service-account credentials from inline JSON or a key file.
// With neither set it falls back to application default credentials.
func TokenSource(ctx context.Context, s domain.DriveSettings) (oauth2.TokenSource, error) {
	data := []byte(s.ServiceAccountJSON)
	if len(data) == 0 && s.ServiceAccountFile != "" {
		var err error
		data, err = os.ReadFile(s.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("%w: read service account file: %v", domain.ErrInvalidConfig, err)
		}
	}

	if len(data) == 0 {
		creds, err := google.FindDefaultCredentials(ctx, Scopes...)
		if err != nil {
			return nil, fmt.Errorf("%w: no service account credentials: %v", domain.ErrInvalidConfig, err)
		}
		return creds.TokenSource, nil
	}

	cfg, err := google.JWTConfigFromJSON(data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: parse service account: %v", domain.ErrInvalidConfig, err)
	}
	return cfg.TokenSource(ctx), nil
}

// NewServices creates the Drive, Docs and Sheets clients sharing the given options.
func NewServices(ctx context.Context, opts ...option.ClientOption) (*Services, error) {
	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	docsSvc, err := docs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create docs service: %w", err)
	}
	sheetsSvc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Services{
		Drive:        driveSvc,
		Docs:         docsSvc,
		Sheets:       sheetsSvc,
		DriveLimiter: NewRateLimiter(APIDrive),
	}, nil
}

// Connect resolves credentials from settings and creates the clients.
func Connect(ctx context.Context, s domain.DriveSettings) (*Services, error) {
	ts, err := TokenSource(ctx, s)
	if err != nil {
		return nil, err
	}
	return NewServices(ctx, option.WithTokenSource(ts))
}
