// Package domain holds the persisted record types shared across repos,
// services, and handlers. All primary keys are UUIDs generated in Go so the
// same models work against both supported database drivers.
package domain
