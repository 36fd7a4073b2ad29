package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/anveshk/rideshare-board/internal/model"
	"github.com/anveshk/rideshare-board/internal/repository"
)

// RideHandler bundles dependencies for the ride listing endpoints.
type RideHandler struct {
	Rides *repository.RideRepo
}

// NewRideHandler constructs a RideHandler and panics if the repo is nil.
func NewRideHandler(rides *repository.RideRepo) *RideHandler {
	if rides == nil {
		panic("nil repository passed to NewRideHandler")
	}
	return &RideHandler{Rides: rides}
}

type rideReq struct {
	Type    string  `json:"type"`
	From    string  `json:"from"`
	To      string  `json:"to"`
	Date    string  `json:"date"`
	Time    string  `json:"time"`
	Seats   int     `json:"seats"`
	Price   float64 `json:"price"`
	Name    string  `json:"name"`
	Contact string  `json:"contact"`
	Notes   string  `json:"notes"`
}

// validate normalizes the request into a Ride, returning a non-empty
// message describing the first problem found.
func (r rideReq) validate() (model.Ride, string) {
	ride := model.Ride{
		Type:    strings.ToLower(strings.TrimSpace(r.Type)),
		From:    strings.TrimSpace(r.From),
		To:      strings.TrimSpace(r.To),
		Date:    strings.TrimSpace(r.Date),
		Time:    strings.TrimSpace(r.Time),
		Seats:   r.Seats,
		Price:   r.Price,
		Name:    strings.TrimSpace(r.Name),
		Contact: strings.TrimSpace(r.Contact),
		Notes:   strings.TrimSpace(r.Notes),
	}
	if ride.Type != model.RideTypeOffering && ride.Type != model.RideTypeSeeking {
		return ride, "type must be offering or seeking"
	}
	if ride.From == "" || ride.To == "" {
		return ride, "from and to required"
	}
	if ride.Date == "" || ride.Time == "" {
		return ride, "date and time required"
	}
	if ride.Name == "" || ride.Contact == "" {
		return ride, "name and contact required"
	}
	if ride.Seats < 1 {
		ride.Seats = 1
	}
	if ride.Price < 0 {
		return ride, "price must be non-negative"
	}
	return ride, ""
}

// List returns every listing plus the change-detection timestamp.
func (h *RideHandler) List(c echo.Context) error {
	rides, lastModified := h.Rides.GetRides()
	if rides == nil {
		rides = []model.Ride{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"rides":        rides,
		"total":        len(rides),
		"lastModified": lastModified,
	})
}

// CheckUpdates is the polling companion to List: same timestamp, no
// payload, so clients can diff cheaply every few seconds.
func (h *RideHandler) CheckUpdates(c echo.Context) error {
	total, lastModified := h.Rides.CheckUpdates()
	return c.JSON(http.StatusOK, echo.Map{
		"total":        total,
		"lastModified": lastModified,
	})
}

// Create adds a listing owned by the caller.
func (h *RideHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req rideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ride, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ride.CreatedBy = uid

	saved, err := h.Rides.Add(ride)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save ride failed"})
	}
	return c.JSON(http.StatusCreated, saved)
}

// Update replaces a listing's fields. Only the owner may edit, and
// rows imported from the archive have no owner at all.
func (h *RideHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req rideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ride, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	updated, err := h.Rides.Update(c.Param("id"), uid, ride)
	if err != nil {
		switch err {
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ride not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "you can only edit your own rides"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update ride failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a listing, with the same ownership rules as Update.
func (h *RideHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Rides.Delete(c.Param("id"), uid); err != nil {
		switch err {
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ride not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "you can only delete your own rides"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete ride failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
