/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package schedule harvests the weekly plain-text schedules published by PDX
// Indoor Soccer and turns them into game records.
//
// Each league/division/subdivision file is fetched, decoded and cleaned line by
// line (Normalizer), matched against the fixture grammar (LineParser), and the
// year-less kickoff time is resolved to a timestamp (TimeResolver). Every game
// yields one GameRecord per team, collected in a GameSink and written out in the
// pipe-delimited interchange format read by the teamvite uploader.
package schedule
