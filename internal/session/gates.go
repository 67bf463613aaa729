package session

// RegionStatus is the tri-state result of the location check. It stays
// unknown until a geolocation lookup succeeds.
type RegionStatus string

const (
	RegionUnknown RegionStatus = "UNKNOWN"
	RegionInside  RegionStatus = "INSIDE"
	RegionOutside RegionStatus = "OUTSIDE"
)

// Gates holds the access preconditions for the post-gate surface. State is
// process-lifetime only; nothing here touches durable storage.
type Gates struct {
	LocationVerified bool         `json:"location_verified"`
	Region           RegionStatus `json:"region"`
	AgeVerified      bool         `json:"age_verified"`
	LoggedIn         bool         `json:"logged_in"`
}

// Cleared reports whether every routing gate passes.
func (g Gates) Cleared() bool {
	return g.LocationVerified && g.Region == RegionInside && g.AgeVerified
}
