package health

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

type fakePinger struct {
	fail atomic.Bool
}

func (p *fakePinger) Ping(context.Context) error {
	if p.fail.Load() {
		return errors.New("database is locked")
	}
	return nil
}

type recorder struct {
	mu      sync.Mutex
	results []bool
}

func (r *recorder) SetStorageServing(ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, ok)
}

func (r *recorder) snapshot() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.results...)
}

func TestStartProbeReportsImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &fakePinger{}
	p.fail.Store(true)
	rec := &recorder{}

	StartProbe(ctx, p, rec, time.Hour)

	got := rec.snapshot()
	if len(got) != 1 || got[0] {
		t.Fatalf("Expected one failing result, got %v", got)
	}
}

func TestStartProbeTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &fakePinger{}
	rec := &recorder{}
	StartProbe(ctx, p, rec, 10*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for len(rec.snapshot()) < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("Expected repeated probes, got %v", rec.snapshot())
		}
		time.Sleep(5 * time.Millisecond)
	}
	for _, ok := range rec.snapshot() {
		if !ok {
			t.Error("Expected every probe to succeed")
		}
	}
}

func dialHealth(t *testing.T, srv *Server) healthpb.HealthClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Shutdown)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return healthpb.NewHealthClient(conn)
}

func TestServerReportsStorageStatus(t *testing.T) {
	srv := NewServer(nil)
	client := dialHealth(t, srv)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: StorageService})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("Expected NOT_SERVING before first probe, got %v", resp.GetStatus())
	}

	srv.SetStorageServing(true)

	for _, svc := range []string{"", StorageService} {
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: svc})
		if err != nil {
			t.Fatalf("Check(%q) failed: %v", svc, err)
		}
		if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
			t.Errorf("Expected SERVING for %q, got %v", svc, resp.GetStatus())
		}
	}
}
