// Package domain contains core concepts of the relay system.
// No runtime, network, or UI logic should be added here.
package domain

// Identity is the pre-validated principal attached to a connection at accept
// time. It is resolved once by the identity provider and never mutated.
type Identity struct {
	UserID      string
	DisplayName string
	Email       string
}
