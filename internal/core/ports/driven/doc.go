// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports).
//
// Services in internal/core/services depend on these interfaces, never on
// concrete adapters. Adapters in internal/adapters/driven implement them.
package driven
