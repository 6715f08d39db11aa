package forward

// Config is the forwarding service configuration.
type Config struct {
	// Address to listen on (e.g., ":8080")
	ListenAddr string
}
