// Package domain contains core concepts of the room-assignment system.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

// Participant is an ephemeral identity, alive only while connected.
// The ID is caller-supplied and unique across the process.
type Participant struct {
	ID          string
	DisplayName string
}
