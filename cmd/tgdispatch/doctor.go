package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/basket/tgdispatch/internal/config"
	"github.com/basket/tgdispatch/internal/doctor"
)

// runDoctorCommand runs every startup diagnostic check and prints the
// result, returning the process exit code (0 on all-pass, 1 on any FAIL).
func runDoctorCommand(ctx context.Context, cfg *config.Config, jsonOutput bool) int {
	diag := doctor.Run(ctx, cfg)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(diag); err != nil {
			fmt.Fprintf(os.Stderr, "error encoding json: %v\n", err)
			return 1
		}
		if !diag.OK() {
			return 1
		}
		return 0
	}

	fmt.Printf("tgdispatch doctor report (%s)\n", diag.Timestamp.Format(time.RFC3339))
	fmt.Printf("system: %s/%s (%s)\n", diag.System.OS, diag.System.Arch, diag.System.Go)
	fmt.Println("---")

	for _, res := range diag.Results {
		icon := "ok"
		switch res.Status {
		case "FAIL":
			icon = "FAIL"
		case "WARN":
			icon = "warn"
		case "SKIP":
			icon = "skip"
		}
		fmt.Printf("[%-4s] %-15s %s\n", icon, res.Name, res.Message)
	}

	if !diag.OK() {
		return 1
	}
	return 0
}
