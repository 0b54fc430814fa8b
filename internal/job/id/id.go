// Package id provides unique identifier generation for video jobs.
package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generate creates a new unique job ID.
// Format: vid-<uuid>
// Example: vid-9f4c21d6-8e2b-4a7f-b1c3-0d5e6f7a8b9c
func Generate() string {
	return fmt.Sprintf("vid-%s", uuid.NewString())
}
