// Command-line tool for querying the dupesweep deletion history
// database.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"dupesweep/internal/config"
	"dupesweep/internal/exitcodes"
	"dupesweep/internal/history"
)

const dateLayout = "2006-01-02"

func main() {
	dbPath := flag.String("db", config.Default().HistoryPath, "Path to history database")
	recent := flag.Int("recent", 0, "Show N most recent deletion events")
	action := flag.String("action", "", "Filter by action (deleted, trashed, dry_run)")
	name := flag.String("name", "", "Filter by exact file name")
	since := flag.String("since", "", "Start of date range (YYYY-MM-DD)")
	until := flag.String("until", "", "End of date range (YYYY-MM-DD), defaults to now")
	vacuum := flag.Bool("vacuum", false, "Compact the database and exit")
	jsonOutput := flag.Bool("json", false, "Output in JSON format")

	flag.Parse()

	if *dbPath == "" {
		log.Fatalf("ERROR: no history database path available; pass -db")
	}

	db, err := history.New(*dbPath)
	if err != nil {
		log.Fatalf("ERROR: failed to open database %s: %v", *dbPath, err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("WARN: failed to close database: %v", err)
		}
	}()

	switch {
	case *vacuum:
		if err := db.Vacuum(); err != nil {
			log.Fatalf("ERROR: vacuum failed: %v", err)
		}
		fmt.Println("Database compacted")

	case *recent > 0:
		records, err := db.Recent(*recent)
		show(records, err, *jsonOutput)

	case *action != "":
		records, err := db.ByAction(*action)
		show(records, err, *jsonOutput)

	case *name != "":
		records, err := db.ByFileName(*name)
		show(records, err, *jsonOutput)

	case *since != "" || *until != "":
		start, end, err := parseRange(*since, *until)
		if err != nil {
			log.Fatalf("ERROR: %v", err)
		}
		records, err := db.ByDateRange(start, end)
		show(records, err, *jsonOutput)

	default:
		flag.Usage()
		fmt.Println("\nExamples:")
		fmt.Println("  dupesweep-history -recent 20")
		fmt.Println("  dupesweep-history -action trashed")
		fmt.Println("  dupesweep-history -name test.txt -json")
		fmt.Println("  dupesweep-history -since 2026-08-01 -until 2026-08-25")
		fmt.Println("  dupesweep-history -vacuum")
		os.Exit(exitcodes.InvalidUsage)
	}
}

// parseRange turns -since/-until values into a query window. A missing
// start means the beginning of time, a missing end means now.
func parseRange(since, until string) (time.Time, time.Time, error) {
	start := time.Time{}
	end := time.Now().UTC()

	if since != "" {
		parsed, err := time.Parse(dateLayout, since)
		if err != nil {
			return start, end, fmt.Errorf("invalid -since date %q: %w", since, err)
		}
		start = parsed
	}
	if until != "" {
		parsed, err := time.Parse(dateLayout, until)
		if err != nil {
			return start, end, fmt.Errorf("invalid -until date %q: %w", until, err)
		}
		// Inclusive end: cover the whole day
		end = parsed.AddDate(0, 0, 1)
	}
	return start, end, nil
}

func show(records []history.Record, err error, jsonOutput bool) {
	if err != nil {
		log.Fatalf("ERROR: query failed: %v", err)
	}

	if jsonOutput {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			log.Fatalf("ERROR: failed to marshal records: %v", err)
		}
		fmt.Println(string(data))
		return
	}

	printRecords(records)
}

func printRecords(records []history.Record) {
	if len(records) == 0 {
		fmt.Println("No deletion events found")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTimestamp\tAction\tFile\tCreated\tPath\tError")

	for _, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Action,
			r.FileName,
			r.CreationDate,
			r.Path,
			r.ErrorMessage,
		)
	}

	w.Flush()
	fmt.Printf("\nTotal: %d events\n", len(records))
}
