package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/thisdougb/logattrs"
)

// processLogfile runs one registry-wide extraction plus evaluation pass and
// prints each attribute's value and status. One attribute's failure is
// reported without aborting the rest of the pass.
func processLogfile(ctx context.Context, state *logattrs.State, logfile string) error {
	fmt.Printf("Processing log file: %s\n", logfile)

	if err := state.ProcessLog(ctx, logfile); err != nil {
		fmt.Printf("Processing errors:\n%v\n", err)
	}

	values := state.Values()
	statuses := state.EvaluateAll(nil)

	names := make([]string, 0, len(statuses))
	for name := range statuses {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nExtracted Metrics:")
	for _, name := range names {
		value, ok := values[name]
		if !ok {
			fmt.Printf("  %s: <unset>\n", name)
			continue
		}
		fmt.Printf("  %s: %v\n", name, value)
	}

	fmt.Println("\nEvaluation Results:")
	for _, name := range names {
		fmt.Printf("  [%s] %s\n", statuses[name], name)
	}

	return nil
}

// save serializes the registry and current batch into the SQLite database at
// dbPath.
func save(state *logattrs.State, dbPath string) {
	batchID, err := state.SaveTo(dbPath)
	if err != nil {
		fmt.Printf("Error saving to database: %v\n", err)
		return
	}
	fmt.Printf("Metrics stored in database: %s (batch %s)\n", dbPath, batchID)
}

func printHelp() {
	fmt.Println("\nLog Attributes Monitor")
	fmt.Println("======================")
	fmt.Println("Commands:")
	fmt.Println("  process <logfile>     - Process a log file and extract metrics")
	fmt.Println("  save [db_path]        - Save current metrics to database")
	fmt.Println("  status                - Show current values and statuses")
	fmt.Println("  help                  - Show this help information")
	fmt.Println("  exit                  - Exit the program")
}

// runShell is the interactive command loop.
func runShell(ctx context.Context, state *logattrs.State, cfg appConfig) error {
	printHelp()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nCommand> ")
		if !scanner.Scan() {
			break
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch strings.ToLower(parts[0]) {
		case "exit":
			return nil

		case "help":
			printHelp()

		case "process":
			if len(parts) < 2 {
				fmt.Println("Error: Missing log file path")
				continue
			}
			if err := processLogfile(ctx, state, parts[1]); err != nil {
				fmt.Printf("Error processing log file: %v\n", err)
			}

		case "save":
			dbPath := cfg.DBPath
			if len(parts) > 1 {
				dbPath = parts[1]
			}
			save(state, dbPath)

		case "status":
			fmt.Println(state.Dump())

		default:
			fmt.Printf("Unknown command: %s\n", parts[0])
			printHelp()
		}
	}

	return scanner.Err()
}
