// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"strconv"
	"strings"

	"github.com/jeranaias/ictchat/internal/model"
	"github.com/jeranaias/ictchat/internal/util"
)

// =============================================================================
// SESSION LIST FORMATTING
// =============================================================================

// FormatSessionList renders sessions as a plain table for the CLI.
func FormatSessionList(sessions []model.Session) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}

	var sb strings.Builder
	sb.WriteString("Sessions:\n")
	sb.WriteString("------------------------------------------------------------------\n")
	sb.WriteString(util.PadWidth("ID", 20) + " " + util.PadWidth("Updated", 17) + " " + util.PadWidth("Msgs", 5) + " Title\n")
	sb.WriteString("------------------------------------------------------------------\n")

	for _, s := range sessions {
		sb.WriteString(util.PadWidth(s.ID, 20) + " " +
			util.PadWidth(s.LastUpdated.Local().Format("2006-01-02 15:04"), 17) + " " +
			util.PadWidth(strconv.Itoa(len(s.Messages)), 5) + " " +
			util.TruncateWidth(s.DisplayTitle(), 36) + "\n")
	}
	return sb.String()
}
