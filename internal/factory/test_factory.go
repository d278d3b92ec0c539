package factory

import (
	"time"

	"github.com/citygame/checkin/internal/dependencies/mocks"
	"github.com/citygame/checkin/internal/services/auth"
	"github.com/citygame/checkin/internal/storage/memory"
	"github.com/citygame/checkin/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2026, 5, 16, 9, 0, 0, 0, time.UTC))

	app := newWithDependencies(store, mockClock, auth.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}
