package leave_test

import (
	"os"
	"testing"

	"go-leave/internal/shared/apperror"
)

func TestMain(m *testing.M) {
	// Register the JSON tag name function before any test triggers
	// validation, since the shared validator caches struct field names
	// on first use. Mirrors the Init() call in cmd/api and cmd/worker.
	apperror.Init()
	os.Exit(m.Run())
}
