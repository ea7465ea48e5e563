package api

import (
	"context"
	"net"
	"net/http"
	"strings"

	"snowpool/internal/models"

	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
)

const clientKeyUnknown = "unknown"

func callerFromRequest(r *http.Request, header string) models.Caller {
	return models.Caller{ID: strings.TrimSpace(r.Header.Get(header))}
}

func callerFromContext(ctx context.Context, header string) models.Caller {
	md, _ := metadata.FromIncomingContext(ctx)
	return models.Caller{ID: first(md.Get(strings.ToLower(header)))}
}

// httpClientKey identifies the client for rate limiting: the caller id when present,
// otherwise the remote host.
func httpClientKey(r *http.Request, header string) string {
	if id := strings.TrimSpace(r.Header.Get(header)); id != "" {
		return "caller:" + id
	}
	return hostKey(r.RemoteAddr)
}

func grpcClientKey(ctx context.Context, header string) string {
	if caller := callerFromContext(ctx, header); !caller.Anonymous() {
		return "caller:" + caller.ID
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		return hostKey(p.Addr.String())
	}
	return clientKeyUnknown
}

// hostKey drops the port so that every connection from one host shares a bucket.
func hostKey(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err == nil && host != "" {
		return "ip:" + host
	}
	return clientKeyUnknown
}

func first(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return strings.TrimSpace(vals[0])
}
