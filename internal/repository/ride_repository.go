package repository // repository implements CSV backed data access for rides

import (
	"log"
	"strconv"
	"sync"

	"github.com/anveshk/rideshare-board/internal/database"
	"github.com/anveshk/rideshare-board/internal/model"
	"github.com/anveshk/rideshare-board/internal/utils"
)

// rideHeader is the column layout of rides.csv. Order matters because
// records round-trip through these positions.
var rideHeader = []string{"id", "type", "from", "to", "date", "time", "seats", "price", "name", "contact", "notes", "createdBy"}

// rideMinFields is the minimum number of columns a row needs to be
// kept. Rows imported from the WhatsApp archive predate the notes and
// createdBy columns, so anything with at least 10 fields is accepted
// and padded.
const rideMinFields = 10

// RideRepo provides methods to work with ride listings in the CSV
// store. The most recent parse is cached together with the file's
// modification time; reads re-parse only when the mtime changes, so
// polling an untouched file costs a single stat call.
type RideRepo struct {
	table *database.Table

	mu           sync.Mutex // guards cached and lastModified
	cached       []model.Ride
	lastModified int64
}

// NewRideRepo constructs a RideRepo backed by the CSV file at path.
func NewRideRepo(path string) *RideRepo {
	return &RideRepo{table: database.NewTable(path, rideHeader, rideMinFields)}
}

// Initialize creates the backing file with a header line when missing.
func (r *RideRepo) Initialize() error {
	return r.table.Initialize()
}

// GetRides returns all ride listings in file order together with the
// epoch-millisecond modification time of the backing file. Read
// failures degrade to the previously cached state rather than an
// error. Callers must not mutate the returned slice.
func (r *RideRepo) GetRides() ([]model.Ride, int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.table.Initialize(); err != nil {
		log.Printf("ride store: initialize: %v", err)
		return r.cached, r.lastModified
	}
	mod, err := r.table.ModTimeMillis()
	if err != nil {
		log.Printf("ride store: stat: %v", err)
		return r.cached, r.lastModified
	}
	if mod != r.lastModified {
		r.cached = r.loadAll()
		r.lastModified = mod
	}
	return r.cached, r.lastModified
}

// CheckUpdates reports the current listing count and file timestamp
// without transferring the full list. Clients poll this and refresh
// only when lastModified moves.
func (r *RideRepo) CheckUpdates() (int, int64) {
	rides, mod := r.GetRides()
	return len(rides), mod
}

// Add appends a new listing and rewrites the whole file. The id is
// generated here; callers supply everything else including createdBy.
func (r *RideRepo) Add(ride model.Ride) (model.Ride, error) {
	if err := r.table.Initialize(); err != nil {
		return model.Ride{}, err
	}
	ride.ID = utils.NewID("ride")
	rides := append(r.loadAll(), ride)
	if err := r.saveAll(rides); err != nil {
		return model.Ride{}, err
	}
	return ride, nil
}

// Update replaces the listing fields of the ride with the given id.
// Rows without a createdBy (imported from the WhatsApp archive) are
// immutable through the API, and owned rows may only be changed by
// their owner. The id and createdBy columns are never touched.
func (r *RideRepo) Update(id, callerID string, in model.Ride) (model.Ride, error) {
	if err := r.table.Initialize(); err != nil {
		return model.Ride{}, err
	}
	rides := r.loadAll()
	for i := range rides {
		if rides[i].ID != id {
			continue
		}
		if rides[i].CreatedBy == "" || rides[i].CreatedBy != callerID {
			return model.Ride{}, ErrForbidden
		}
		in.ID = rides[i].ID
		in.CreatedBy = rides[i].CreatedBy
		rides[i] = in
		if err := r.saveAll(rides); err != nil {
			return model.Ride{}, err
		}
		return rides[i], nil
	}
	return model.Ride{}, ErrNotFound
}

// Delete removes the ride with the given id, subject to the same
// ownership rules as Update.
func (r *RideRepo) Delete(id, callerID string) error {
	if err := r.table.Initialize(); err != nil {
		return err
	}
	rides := r.loadAll()
	for i := range rides {
		if rides[i].ID != id {
			continue
		}
		if rides[i].CreatedBy == "" || rides[i].CreatedBy != callerID {
			return ErrForbidden
		}
		rides = append(rides[:i], rides[i+1:]...)
		return r.saveAll(rides)
	}
	return ErrNotFound
}

// loadAll reads and parses every row. Read failures degrade to an
// empty list so a broken file never takes down the request path.
func (r *RideRepo) loadAll() []model.Ride {
	rows, err := r.table.ReadRows()
	if err != nil {
		log.Printf("ride store: read: %v", err)
		return nil
	}
	rides := make([]model.Ride, 0, len(rows))
	for _, row := range rows {
		rides = append(rides, rideFromRow(row))
	}
	return rides
}

func (r *RideRepo) saveAll(rides []model.Ride) error {
	rows := make([][]string, 0, len(rides))
	for _, ride := range rides {
		rows = append(rows, rideToRow(ride))
	}
	return r.table.WriteRows(rows)
}

func rideFromRow(row []string) model.Ride {
	seats := parseIntDefault(row[6], 1)
	if seats < 1 {
		seats = 1
	}
	return model.Ride{
		ID:        row[0],
		Type:      row[1],
		From:      row[2],
		To:        row[3],
		Date:      row[4],
		Time:      row[5],
		Seats:     seats,
		Price:     parseFloatDefault(row[7], 0),
		Name:      row[8],
		Contact:   row[9],
		Notes:     row[10],
		CreatedBy: row[11],
	}
}

func rideToRow(r model.Ride) []string {
	return []string{
		r.ID, r.Type, r.From, r.To, r.Date, r.Time,
		strconv.Itoa(r.Seats), formatFloat(r.Price),
		r.Name, r.Contact, r.Notes, r.CreatedBy,
	}
}
