package out

import (
	"context"

	"dpwrk/internal/modules/preferences/domain"
)

// Store loads and saves the whole preferences value. Load returns defaults
// alongside any error.
type Store interface {
	Load(ctx context.Context) (domain.Preferences, error)
	Save(ctx context.Context, prefs domain.Preferences) error
}
