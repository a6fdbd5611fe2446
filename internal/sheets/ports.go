package sheets

import (
	"context"

	"kolipanel/internal/core"
)

// Ports for outbound adapters.
type (
	// SaleWriter appends a single sale row to an external sheet.
	SaleWriter interface {
		Append(ctx context.Context, s core.Sale) (rowRef string, err error)
	}

	// SaleSyncer replaces the full exported ledger in one call.
	SaleSyncer interface {
		SyncAll(ctx context.Context, sales []core.Sale) error
	}
)
