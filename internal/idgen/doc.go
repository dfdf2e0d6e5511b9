// Package idgen generates unique run identifiers.
package idgen
