package assistant

import (
	"net"
	"net/url"
	"time"
)

// ConnectivityCheckResult holds the result of a TCP reachability probe against
// the gateway. If Error is nil, the check succeeded. Latency is the time to
// establish the connection.
type ConnectivityCheckResult struct {
	Success bool
	Latency time.Duration
	Error   error
}

// CheckGatewayConnectivity dials the gateway's host and port over TCP. It is a
// cheaper, faster signal than the HTTP health check, used at startup to report
// whether the configured gateway address is reachable at all.
func CheckGatewayConnectivity(baseURL string) ConnectivityCheckResult {
	var result ConnectivityCheckResult

	parsed, err := url.Parse(baseURL)
	if err != nil {
		result.Error = err
		return result
	}
	host := parsed.Hostname()
	port := parsed.Port()
	if port == "" {
		if parsed.Scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}

	start := time.Now()
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, port), 5*time.Second)
	result.Latency = time.Since(start)
	if err != nil {
		result.Error = err
		return result
	}
	result.Success = true
	_ = conn.Close()
	return result
}
