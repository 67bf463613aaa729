package session

import "github.com/barbarycoast/storefront-backend/pkg/enums"

// ResolveRoute decides whether the user must be redirected given the gate
// state and where they currently are. It is a pure priority-ordered decision
// list: rules are evaluated top to bottom and the first match wins. ok=false
// means stay put.
//
// Each rule excludes its own destination, so re-evaluating with unchanged
// inputs never produces a second redirect and the router cannot loop.
func ResolveRoute(gates Gates, current enums.Destination) (enums.Destination, bool) {
	if !gates.LocationVerified {
		if current == enums.DestinationLocationVerification {
			return "", false
		}
		return enums.DestinationLocationVerification, true
	}

	// a known out-of-region user is terminal: no further gates apply
	if gates.Region == RegionOutside {
		if current == enums.DestinationLocationRestricted {
			return "", false
		}
		return enums.DestinationLocationRestricted, true
	}

	if gates.Region == RegionInside && !gates.AgeVerified {
		if current == enums.DestinationAgeVerification {
			return "", false
		}
		return enums.DestinationAgeVerification, true
	}

	if gates.Cleared() && !current.IsPostGate() {
		return enums.DestinationHome, true
	}

	return "", false
}
