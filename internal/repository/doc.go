// Package repository defines the data access interfaces for BioRoute.
//
// The Repository interface covers scenario persistence: saved routes, their
// last calculation results, share tokens and route fingerprints. The sqlite
// subpackage implements it on an embedded SQLite database.
//
// # Errors
//
// Implementations return ErrNotFound for missing records and ErrConflict
// when an id or share token is already taken. Callers match them with
// errors.Is.
package repository
