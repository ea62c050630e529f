// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"github.com/google/uuid"
)

// IngestResult summarizes one applied feed run.
type IngestResult struct {
	Shop       string
	Categories int
	Listings   int
}

// IngestUsecase applies one supplier feed file to the catalog.
// The whole feed is validated first and applied inside a single
// transaction, so a failing run leaves no partial catalog state.
type IngestUsecase interface {
	Ingest(ctx context.Context, userID uuid.UUID, fileName string) (*IngestResult, error)
}
