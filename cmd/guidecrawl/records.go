package main

import (
	"fmt"

	"github.com/fwojciec/guidecrawl"
	"github.com/fwojciec/guidecrawl/sqlite"
)

// Run executes the records command.
func (c *RecordsCmd) Run(deps *Dependencies) error {
	db := sqlite.NewDB(c.SQLite)
	if err := db.Open(); err != nil {
		return fmt.Errorf("failed to open database at %q: %w", c.SQLite, err)
	}
	defer db.Close()

	records, err := sqlite.NewRecordStore(db).FindRecords(deps.Ctx, sqlite.RecordFilter{
		Platform: c.Platform,
		URL:      c.URL,
		Limit:    c.Limit,
		Offset:   c.Offset,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", guidecrawl.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No records found. Use 'guidecrawl crawl --sqlite' to create some.")
		return nil
	}

	for _, r := range records {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n", r.Record.Platform, r.ContentHash, r.Record.URL, r.Record.Title)
		if c.Full {
			fmt.Fprintf(deps.Stdout, "    category: %s\n    %s\n\n", r.Record.Category, r.Record.Content)
		}
	}
	return nil
}
