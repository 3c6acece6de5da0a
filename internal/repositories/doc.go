// package repositories provides persistence layer implementations for the model types.
//
// Each repository implements models.Repository[T] for a specific entity type.
// Only search history is persisted: capability tokens and resolved links are
// transient by design and never touch the database.
package repositories
