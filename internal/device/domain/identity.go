package domain

import "strings"

// Unknown is reported for any identity field the host could not provide.
const Unknown = "unknown"

// Identity is the best-effort local network identity of the machine running the console.
// Recomputed for every request and never persisted.
type Identity struct {
	IP            string
	MAC           string
	InterfaceName string
}

// UnknownIdentity returns the sentinel identity used when the lookup fails.
func UnknownIdentity() Identity {
	return Identity{IP: Unknown, MAC: Unknown}
}

// Normalize upper-cases the MAC address and replaces empty fields with Unknown.
func (i Identity) Normalize() Identity {
	out := Identity{
		IP:            strings.TrimSpace(i.IP),
		MAC:           strings.ToUpper(strings.TrimSpace(i.MAC)),
		InterfaceName: strings.TrimSpace(i.InterfaceName),
	}
	if out.IP == "" {
		out.IP = Unknown
	}
	if out.MAC == "" || out.MAC == strings.ToUpper(Unknown) {
		out.MAC = Unknown
	}
	return out
}
