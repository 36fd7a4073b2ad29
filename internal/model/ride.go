package model

// Ride type values. A listing either offers seats in a car or asks for one.
const (
	RideTypeOffering = "offering"
	RideTypeSeeking  = "seeking"
)

// Ride represents one listing on the board as stored in rides.csv. Each
// field corresponds to a column; the column order is fixed because rows
// round-trip through the file on every mutation.
//
// Fields:
//  ID        – generated identifier of the form ride_<millis>_<suffix>.
//  Type      – "offering" or "seeking".
//  From, To  – origin and destination as free text.
//  Date      – travel date as entered (the board does not normalize it).
//  Time      – departure time as entered.
//  Seats     – seats offered or wanted, at least 1.
//  Price     – asking price per seat, 0 when unset.
//  Name      – display name of the poster.
//  Contact   – phone number or other contact handle.
//  Notes     – optional free text.
//  CreatedBy – id of the posting user. Empty for rows imported from the
//              WhatsApp archive; such rows have no owner and cannot be
//              edited or deleted through the API.
type Ride struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	Seats     int     `json:"seats"`
	Price     float64 `json:"price"`
	Name      string  `json:"name"`
	Contact   string  `json:"contact"`
	Notes     string  `json:"notes,omitempty"`
	CreatedBy string  `json:"createdBy,omitempty"`
}
