/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import "time"

const (
	// the publisher rejects default library user agents
	UserAgent = "pdxsched/0.4.0 (+https://github.com/mikeb26/pdxsched)"

	ScheduleBaseURL     = "https://pdxindoorsoccer.com/wp-content/schedules"
	DefaultWorkers      = 3
	DefaultFetchTimeout = 2 * time.Second
	DefaultCacheTTL     = 6 * time.Hour

	BadLinesFile = "bad_lines.txt"
)
