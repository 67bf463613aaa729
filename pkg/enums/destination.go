package enums

import "fmt"

// Destination names a navigable screen. The session router resolves gate
// state to one of these, or to none when the user may stay put.
type Destination string

const (
	DestinationLocationVerification Destination = "location-verification"
	DestinationLocationRestricted   Destination = "location-restricted"
	DestinationAgeVerification      Destination = "age-verification"
	DestinationHome                 Destination = "home"
	DestinationShop                 Destination = "shop"
	DestinationEvents               Destination = "events"
	DestinationEntertainment        Destination = "entertainment"
	DestinationProfile              Destination = "profile"
	DestinationCart                 Destination = "cart"
	DestinationProductDetail        Destination = "product-detail"
	DestinationDealDetail           Destination = "deal-detail"
	DestinationPastPurchases        Destination = "past-purchases"
	DestinationDiscountCodes        Destination = "discount-codes"
	DestinationSettings             Destination = "settings"
	DestinationMyInfo               Destination = "my-info"
	DestinationLounge               Destination = "lounge"
	DestinationAbout                Destination = "about"
)

var validDestinations = []Destination{
	DestinationLocationVerification,
	DestinationLocationRestricted,
	DestinationAgeVerification,
	DestinationHome,
	DestinationShop,
	DestinationEvents,
	DestinationEntertainment,
	DestinationProfile,
	DestinationCart,
	DestinationProductDetail,
	DestinationDealDetail,
	DestinationPastPurchases,
	DestinationDiscountCodes,
	DestinationSettings,
	DestinationMyInfo,
	DestinationLounge,
	DestinationAbout,
}

// postGateDestinations are reachable only after every gate has cleared.
// Landing on any of them does not trigger a redirect.
var postGateDestinations = map[Destination]struct{}{
	DestinationHome:          {},
	DestinationShop:          {},
	DestinationEvents:        {},
	DestinationEntertainment: {},
	DestinationProfile:       {},
	DestinationCart:          {},
	DestinationProductDetail: {},
	DestinationDealDetail:    {},
	DestinationPastPurchases: {},
	DestinationDiscountCodes: {},
	DestinationSettings:      {},
	DestinationMyInfo:        {},
	DestinationLounge:        {},
	DestinationAbout:         {},
}

// String implements fmt.Stringer.
func (d Destination) String() string {
	return string(d)
}

// IsValid reports whether the value is a known Destination.
func (d Destination) IsValid() bool {
	for _, candidate := range validDestinations {
		if candidate == d {
			return true
		}
	}
	return false
}

// IsPostGate reports whether the destination sits behind the session gates.
func (d Destination) IsPostGate() bool {
	_, ok := postGateDestinations[d]
	return ok
}

// ParseDestination converts raw input into a Destination.
func ParseDestination(value string) (Destination, error) {
	for _, candidate := range validDestinations {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid destination %q", value)
}
