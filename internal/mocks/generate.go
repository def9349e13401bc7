// Package mocks provides mock implementations for testing the verification pipeline.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the
// repository ports. Hand-written doubles for the provider-facing ports live in the
// verify subpackage; they are lightweight and suitable for unit tests without codegen.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
package mocks

// Generate mock for AccountRepository interface from internal/ports.
// This creates MockAccountRepository with methods: Upsert, Get, Delete.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=account_repository_mock.go github.com/membershield/membershield/internal/ports AccountRepository

// Generate mock for GroupConfigRepository interface from internal/ports.
// This creates MockGroupConfigRepository with methods: Get.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=group_config_repository_mock.go github.com/membershield/membershield/internal/ports GroupConfigRepository
