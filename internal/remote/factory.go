package remote

import (
	"context"
	"fmt"

	"github.com/westy/filemaster/internal/config"
)

// New builds the backend a profile asks for.
func New(ctx context.Context, profile *config.Profile) (Backend, error) {
	switch profile.Provider {
	case "s3":
		return NewS3Backend(ctx, profile)
	case "azure":
		return NewAzureBackend(profile)
	default:
		return nil, fmt.Errorf("profile %s: unknown provider %q", profile.Name, profile.Provider)
	}
}
