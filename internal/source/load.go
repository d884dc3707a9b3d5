package source

import (
	"fmt"
	"log/slog"

	"github.com/Player6734/slskd-stats/internal/record"
)

// Load reads every requested source and concatenates the raw rows into one
// sequence, in argument order. A source that cannot be read or that yields no
// rows becomes a warning rather than aborting the run; partial analysis is
// more useful than none. An error is returned only when every source failed.
func Load(dbPaths, htmlPaths []string) (rows []record.RawRow, warnings []string, err error) {
	requested := len(dbPaths) + len(htmlPaths)
	failed := 0

	for _, path := range dbPaths {
		db, err := Open(path)
		if err != nil {
			slog.Warn("skipping database", "path", path, "error", err)
			warnings = append(warnings, fmt.Sprintf("database %s: %v", path, err))
			failed++
			continue
		}
		dbRows, err := db.Transfers()
		db.Close()
		if err != nil {
			slog.Warn("skipping database", "path", path, "error", err)
			warnings = append(warnings, fmt.Sprintf("database %s: %v", path, err))
			failed++
			continue
		}
		if len(dbRows) == 0 {
			warnings = append(warnings, fmt.Sprintf("database %s: no transfer rows", path))
		}
		rows = append(rows, dbRows...)
	}

	for _, path := range htmlPaths {
		htmlRows, err := ParseHTMLFile(path)
		if err != nil {
			slog.Warn("skipping html export", "path", path, "error", err)
			warnings = append(warnings, fmt.Sprintf("html export %s: %v", path, err))
			failed++
			continue
		}
		if len(htmlRows) == 0 {
			warnings = append(warnings, fmt.Sprintf("html export %s: no transfer rows", path))
		}
		rows = append(rows, htmlRows...)
	}

	if requested > 0 && failed == requested {
		return nil, warnings, fmt.Errorf("no readable sources out of %d requested", requested)
	}

	slog.Info("sources loaded", "rows", len(rows), "sources", requested-failed, "failed", failed)
	return rows, warnings, nil
}
