// Package access stores owner-controlled engine state: settings (owner,
// sale contract, pause flag, sale params) and the blacklist.
package access

import (
	"context"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
)

type Repository interface {
	// GetSettings returns common.ErrorNotFound until settings are saved once.
	GetSettings(ctx context.Context) (*models.Settings, error)
	SaveSettings(ctx context.Context, s *models.Settings) error
	IsBlacklisted(ctx context.Context, addr addrx.Address) (bool, error)
	SetBlacklisted(ctx context.Context, addr addrx.Address, blacklisted bool) error
}
