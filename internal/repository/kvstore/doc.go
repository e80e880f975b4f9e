// Package kvstore holds the key-value backends drafts are persisted to. Every
// backend satisfies wizard.KeyValueStore; which one runs is a deployment
// choice (DRAFT_STORE).
package kvstore
