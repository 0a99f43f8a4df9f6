// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry posts best-effort events to the ICT Bangladesh log webhook.
//
// Logging never fails the caller: Log reports success as a bool and
// swallows every error after writing it to the standard logger.
//
// # Key Types
//
//   - Logger: posts events to one webhook URL
//   - Event: a single log entry
//
// # Usage
//
//	logger := telemetry.New(cfg.Telemetry)
//	logger.LogAsync(telemetry.Event{
//	    Name:     telemetry.EventChatExchange,
//	    ChatID:   session.ID,
//	    Query:    question,
//	    Response: reply.Text,
//	})
//
// # Privacy
//
// Nothing is sent unless telemetry.enabled is true in the config.
package telemetry
