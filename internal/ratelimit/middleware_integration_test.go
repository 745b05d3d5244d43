//go:build integration

package ratelimit

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"nftmarket/internal/platform/redis"
	"nftmarket/pkg/requestcontext"
	"nftmarket/pkg/testutil/containers"
)

type LimiterSuite struct {
	suite.Suite
	redis  *containers.RedisContainer
	client *redis.Client
	ctx    context.Context
}

func TestLimiterSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(LimiterSuite))
}

func (s *LimiterSuite) SetupSuite() {
	s.ctx = context.Background()
	s.redis = containers.NewRedisContainer(s.T())

	client, err := redis.New(s.redis.URL)
	s.Require().NoError(err)
	s.client = client
}

func (s *LimiterSuite) TearDownSuite() {
	_ = s.client.Close()
	_ = s.redis.Container.Terminate(s.ctx)
}

func (s *LimiterSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
}

func (s *LimiterSuite) handler(limit int) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	limiter := NewLimiter(s.client, limit, time.Minute, log)
	return limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func (s *LimiterSuite) TestEnforcesLimitPerCaller() {
	h := s.handler(3)

	request := func(caller string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(requestcontext.WithCaller(req.Context(), "account-"+caller))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	for range 3 {
		s.Equal(http.StatusOK, request("a"))
	}
	s.Equal(http.StatusServiceUnavailable, request("a"))

	// A different caller has its own budget.
	s.Equal(http.StatusOK, request("b"))
}

func (s *LimiterSuite) TestSetsRetryAfterWhenExceeded() {
	h := s.handler(1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(requestcontext.WithCaller(req.Context(), "account-retry"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	s.Require().Equal(http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	s.Equal(http.StatusServiceUnavailable, rr.Code)
	s.Equal("60", rr.Header().Get("Retry-After"))
}

func (s *LimiterSuite) TestKeysAnonymousCallersByRemoteAddr() {
	h := s.handler(1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	s.Require().Equal(http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	s.Equal(http.StatusServiceUnavailable, rr.Code)
}
