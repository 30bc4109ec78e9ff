package version

// Set through -ldflags "-X github.com/bnema/teamrelay/internal/version.Version=...".
var (
	Version = "0.9.5-dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return Version + " (" + Commit + ", " + Date + ")"
}
