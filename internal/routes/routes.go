package routes

const (
	// Health
	Health = "/health"

	// Tags
	Tags = "/api/v1/tags"

	// Offices
	Offices      = "/api/v1/offices"
	Office       = "/api/v1/offices/{officeID}"
	OfficeImages = "/api/v1/offices/{officeID}/images"
	OfficeImage  = "/api/v1/offices/{officeID}/images/{imageID}"

	// Visitor reservations
	Reservations = "/api/v1/reservations"
	Reservation  = "/api/v1/reservations/{reservationID}"

	// Host reservations
	HostReservations = "/api/v1/reservations/host"
)
