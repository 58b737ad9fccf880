package gnkreport

var (
	// Version of the application. It is set during build.
	Version = "v0.1.0"
	// Build timestamp. It is set during build.
	Build = "n/a"
)
