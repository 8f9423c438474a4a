// =============================================================================
// Travel Desk Sync - Main Entry Point
// =============================================================================
//
// USAGE:
//   travel-desk reconcile   - Sync the arrival sheet into the calendar
//   travel-desk validate    - Check the arrival sheet rows only
//   travel-desk purge       - Delete every event in the purge span
//   travel-desk watch       - Re-sync whenever the sheet file changes
//   travel-desk version     - Display the application version
//
// LAYOUT:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Validation, grouping, classification, reconciliation
//                      and the data source and event store adapters
//   - pkg/           : Report writing
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/travel-desk/cmd"
)

func main() {
	cmd.Execute()
}
