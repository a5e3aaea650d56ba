// Package gorm provides PostgreSQL implementations of the store contracts
// using GORM.
//
// Mutations are written as hand-rolled SQL via Exec/Raw so that rows-affected
// counts drive the denormalized counter deltas, and ON CONFLICT clauses give
// idempotent inserts without read-modify-write races. Uniqueness and cascade
// rules live in the schema (see db/migrations); this package maps the
// resulting driver errors onto the errs taxonomy.
package gorm
