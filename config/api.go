package config

// GetAuthSkipperPaths returns a list of paths to skip authentication for
func GetAuthSkipperPaths() []string {
	// Health probe and the signed realtime feed carry their own checks
	return []string{"/healthz", "/api/realtime/stock"}
}
