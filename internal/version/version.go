package version

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String returns a single-line version description for logs.
func String() string {
	return Version + " (" + GitSHA + ", " + BuildTime + ")"
}
