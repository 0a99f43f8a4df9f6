// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the chat domain types shared by the transport,
// storage and UI layers.
//
// # Key Types
//
//   - Session: one conversation in the sidebar (id, title, messages, last update)
//   - Message: a single user or assistant turn, with optional citation sources
//   - Source: a citation link returned by the gateway
//   - ChatConfig: audience / topic / language sent with every request
//
// # Usage
//
//	s := model.NewSession(time.Now())
//	s.Messages = append(s.Messages, model.NewUserMessage("Which courses run in May?"))
//	s.DeriveTitle() // "Which courses run in May?"
package model
