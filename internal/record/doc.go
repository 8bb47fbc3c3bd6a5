// Package record implements the active-record plumbing shared by every
// persisted entity: a generic Repository that synchronizes single rows with
// a SQL store, and an IdentityMap that guarantees one in-memory instance per
// persisted primary key.
//
// # Entities
//
// An entity embeds Key and is described by a Table, which names the backing
// table, its DDL, the persisted columns and how to read and write them.
// The id held by Key is zero until the instance is saved, and only the
// Repository can set it.
//
// # Identity reconciliation
//
// Rows loaded through FindByID, All or FindWhere are routed through the
// repository's IdentityMap. When the map already holds an instance for the
// row's id, that instance is returned unchanged and the row contents are
// discarded, so in-memory changes win over stale row data. Clear the map at
// a session boundary to observe the store again.
//
// # Errors
//
// Store errors are wrapped with %w and can be matched with errors.Is and
// errors.As. A lookup that matches no row returns a nil instance and a nil
// error.
package record
