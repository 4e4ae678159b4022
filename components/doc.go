// Package components defines the value types carried by simulation entities.
package components
