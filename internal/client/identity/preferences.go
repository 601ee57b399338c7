package identity

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/myshelf/internal/client/repositories/metadata"
)

const keyOfflineMode = "offline_mode"

// Preferences holds user toggles. Offline mode forces every operation to
// stay local regardless of connectivity.
type Preferences struct {
	meta metadata.Repository
}

func NewPreferences(meta metadata.Repository) *Preferences {
	return &Preferences{meta: meta}
}

// OfflineMode is false unless explicitly enabled; read errors count as false.
func (p *Preferences) OfflineMode(ctx context.Context) bool {
	v, err := p.meta.Get(ctx, keyOfflineMode)
	if err != nil {
		return false
	}
	on, _ := strconv.ParseBool(v)
	return on
}

func (p *Preferences) SetOfflineMode(ctx context.Context, on bool) error {
	return p.meta.Set(ctx, keyOfflineMode, strconv.FormatBool(on))
}
