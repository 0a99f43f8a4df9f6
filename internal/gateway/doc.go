// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway sends chat turns to the ICT Bangladesh AI webhook.
//
// One POST per question, no retries. The webhook's JSON reply is reduced to
// display text by package extract; citation links are lifted from a
// top-level "sources" array when present.
//
// Failures collapse to two user-facing outcomes:
//   - KindBusy: network error, non-2xx status, or a body that is not JSON
//   - KindTimeout: the request outlived the configured timeout
//
// Cancellation by the caller is reported as ErrCanceled.
//
// # Usage
//
//	client := gateway.New(cfg.Gateway.ChatURL, gateway.WithTimeout(cfg.Gateway.Timeout()))
//	reply, err := client.Send(ctx, gateway.Request{
//	    Input:     "What is Smart Bangladesh?",
//	    SessionID: session.ID,
//	    Config:    cfg.Chat,
//	})
package gateway
