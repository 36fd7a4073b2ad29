package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/anveshk/rideshare-board/internal/database"
	"github.com/anveshk/rideshare-board/internal/model"
	"github.com/anveshk/rideshare-board/internal/repository"
)

// logHeader is the column layout of the scraper's whatsapp_log.csv.
var logHeader = []string{"wa_date", "wa_time", "phone", "message"}

// Options configure one import run.
type Options struct {
	LogPath    string // scraped WhatsApp log
	PlacesPath string // place synonym table
	Home       string // canonical origin implied by bare "to X" messages
}

// Result summarizes an import run.
type Result struct {
	Scanned    int // log rows read
	Imported   int // rides written to the board
	General    int // messages classified as chatter
	Duplicates int // rows repeating an earlier date|time|phone key
}

// Run classifies every message in the scraped log and appends the
// ride-related ones to the board. Imported rides have an empty
// createdBy, so like any legacy row they cannot be edited or deleted
// through the API; the sender's phone number stands in for both the
// poster's name and contact, and the raw message is kept in the notes.
// Rows repeating an earlier row's wa_date|wa_time|phone key are
// skipped, the same dedupe rule the scraper applies.
func Run(opts Options, rides *repository.RideRepo) (Result, error) {
	places, err := LoadPlaces(opts.PlacesPath)
	if err != nil {
		return Result{}, err
	}
	clf := &Classifier{Places: places, Home: opts.Home}

	table := database.NewTable(opts.LogPath, logHeader, len(logHeader))
	rows, err := table.ReadRows()
	if err != nil {
		return Result{}, err
	}

	seen := make(map[string]struct{})
	var res Result
	for _, row := range rows {
		res.Scanned++
		waDate, waTime, phone, message := row[0], row[1], row[2], row[3]

		key := waDate + "|" + waTime + "|" + phone
		if _, dup := seen[key]; dup {
			res.Duplicates++
			continue
		}
		seen[key] = struct{}{}

		route := clf.Classify(message)
		if route.Category != CategoryRide {
			res.General++
			continue
		}

		date, depTime := ExtractDateTime(message, parsePostDate(waDate))
		ride := model.Ride{
			Type:    RideType(message),
			From:    route.From,
			To:      route.To,
			Date:    date,
			Time:    depTime,
			Seats:   1,
			Name:    phone,
			Contact: phone,
			Notes:   strings.TrimSpace(message),
		}
		if _, err := rides.Add(ride); err != nil {
			return res, fmt.Errorf("add ride: %w", err)
		}
		res.Imported++
	}
	return res, nil
}

// parsePostDate reads the scraper's YYYY-MM-DD posting date, falling
// back to today when the column is malformed.
func parsePostDate(s string) time.Time {
	if t, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err == nil {
		return t
	}
	return time.Now()
}
