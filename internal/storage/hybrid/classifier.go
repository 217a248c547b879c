package hybrid

import "github.com/mhalloran/golfsync/internal/path"

// Shared namespace roots. Paths under these prefixes are synchronized
// across devices; everything else stays on-device.
var sharedRoots = map[string]bool{
	"activeRounds":   true,
	"users":          true,
	"credentials":    true,
	"usernames":      true,
	"supportTickets": true,
}

// IsShared classifies a path as shared (routed to the remote synchronized
// store) or private (routed to the local store). It is a pure predicate
// over the path's namespace root and is consulted on every reference
// creation, never cached.
func IsShared(p path.Path) bool {
	return sharedRoots[p.Root()]
}
