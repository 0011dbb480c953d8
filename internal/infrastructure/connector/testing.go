//go:build integration
// +build integration

package connector

// TestBucket is the bucket created in the fake-gcs-server emulator for tests.
// The client library talks to the emulator when STORAGE_EMULATOR_HOST is set.
const TestBucket = "vrm-test-documents"

// TestProjectID is the project used against the emulator
const TestProjectID = "test-project"
