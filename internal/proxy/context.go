package proxy

import (
	"net"
	"net/http"
	"net/url"

	"github.com/guscost-opensea/unleash-proxy/internal/unleash"
)

// BuildContext turns inbound query parameters into an evaluation context.
// Well-known Unleash fields map to their struct fields, everything else is
// copied into Properties. When the query carries no remoteAddress (or an
// empty one), fallbackRemoteAddress fills it in. The query is not mutated.
func BuildContext(query url.Values, fallbackRemoteAddress string) unleash.Context {
	ec := unleash.Context{}

	for key, values := range query {
		if len(values) == 0 {
			continue
		}
		value := values[0]

		switch key {
		case "userId":
			ec.UserID = value
		case "sessionId":
			ec.SessionID = value
		case "remoteAddress":
			ec.RemoteAddress = value
		case "environment":
			ec.Environment = value
		case "appName":
			ec.AppName = value
		default:
			if ec.Properties == nil {
				ec.Properties = make(map[string]string)
			}
			ec.Properties[key] = value
		}
	}

	if ec.RemoteAddress == "" {
		ec.RemoteAddress = fallbackRemoteAddress
	}

	return ec
}

// peerAddress extracts the transport-level peer IP. RealIP middleware may
// already have rewritten RemoteAddr to a bare IP, so the port is optional.
func peerAddress(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
