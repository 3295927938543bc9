package server

import "fmt"

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo() {
	scheme := "http"
	if s.AppConfig.Server.TLS.Enabled() {
		scheme = "https"
	}
	fmt.Printf("Editor running at %s://%s:%s\n", scheme, s.Host, s.Port)
	fmt.Printf("CV source: %s\n", s.sourcePath())
	fmt.Printf("LLM provider: %s\n", s.providerName())

	s.displayAuthInfo()
	s.displayRequestLimitInfo()
	s.displayRateLimitInfo()
}

// displayAuthInfo shows authentication configuration
func (s *Server) displayAuthInfo() {
	if len(s.APIKeys) > 0 {
		fmt.Printf("API authentication: ENABLED (%d keys configured)\n", len(s.APIKeys))
	} else {
		fmt.Println("API authentication: DISABLED (open access)")
	}
}

// displayRequestLimitInfo shows request size limit configuration
func (s *Server) displayRequestLimitInfo() {
	if s.MaxRequestSize > 0 {
		fmt.Printf("Request size limit: %d bytes\n", s.MaxRequestSize)
	} else {
		fmt.Println("Request size limit: DISABLED")
	}
}

// displayRateLimitInfo shows rate limit configuration
func (s *Server) displayRateLimitInfo() {
	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Printf("Rate limiting: ENABLED (%d req/min, burst %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
	} else {
		fmt.Println("Rate limiting: DISABLED")
	}
}
