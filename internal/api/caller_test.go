package api

import (
	"context"
	"net"
	"net/http/httptest"
	"testing"

	"snowpool/internal/models"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
)

func peerContext(addr string) context.Context {
	tcpAddr, _ := net.ResolveTCPAddr("tcp", addr)
	return peer.NewContext(context.Background(), &peer.Peer{Addr: tcpAddr})
}

func TestGRPCClientKey_IgnoresPort(t *testing.T) {
	first := grpcClientKey(peerContext("10.0.0.1:5001"), models.DefaultCallerHeader)
	second := grpcClientKey(peerContext("10.0.0.1:5002"), models.DefaultCallerHeader)

	assert.Equal(t, "ip:10.0.0.1", first)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, grpcClientKey(peerContext("10.0.0.2:5001"), models.DefaultCallerHeader))
}

func TestGRPCClientKey_Caller(t *testing.T) {
	ctx := metadata.NewIncomingContext(peerContext("10.0.0.1:5001"), metadata.Pairs(models.DefaultCallerHeader, "customer-9"))
	assert.Equal(t, "caller:customer-9", grpcClientKey(ctx, models.DefaultCallerHeader))

	assert.Equal(t, clientKeyUnknown, grpcClientKey(context.Background(), models.DefaultCallerHeader))
}

func TestClientKeys_MatchAcrossTransports(t *testing.T) {
	for _, addr := range []string{"10.0.0.1:5001", "10.0.0.1:5002"} {
		r := httptest.NewRequest("GET", "/api/v1/postal-areas", nil)
		r.RemoteAddr = addr
		assert.Equal(t, httpClientKey(r, models.DefaultCallerHeader), grpcClientKey(peerContext(addr), models.DefaultCallerHeader))
	}
}
