// Package state provides a lightweight FSM/session manager for Telegram bots.
// It is intentionally domain-agnostic so conversation flows can be layered on top.
package state
