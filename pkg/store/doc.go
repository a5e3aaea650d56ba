// Package store defines the storage contracts consumed by the governance
// engine services.
//
// Each interface carries a Transaction method that runs the given function
// against a transactional view of the same store; if the function returns an
// error the transaction is rolled back. This is how multi-step operations
// (merge, cascade delete, bulk attach, dynamic recompute, provisioning) stay
// atomic.
//
// Implementations map raw database failures onto the errs taxonomy before
// returning: unique violations become errs.ErrConflict, missing rows become
// errs.ErrNotFound, and everything else becomes errs.ErrStore. See the gorm
// subpackage for the PostgreSQL implementation.
package store
