// Package model provides the canonical data types for the order register.
//
// This package contains type definitions and their string encodings only.
// All other internal packages import model; model imports nothing internal,
// keeping it the foundational layer with no circular dependencies.
package model
