// Package service implements Rollbook's operations over the shared store:
// the student directory, academic records, attendance and fee ledgers, and
// the reports derived from them.
//
// Every mutation persists before returning. Checks (duplicate roll, unknown
// id) run before anything changes, so a failed call leaves the store as it
// was. Queries never fail: dangling rolls and subject ids read as "no data".
package service

import (
	"context"

	"github.com/mmynk/rollbook/internal/models"
)

// DataStore is the state holder the services operate on.
// *store.Store implements it.
type DataStore interface {
	// View runs fn with read access to the live state.
	View(fn func(d *models.Data))

	// Update runs fn against the live state and persists the result.
	Update(ctx context.Context, fn func(d *models.Data) error) error
}
