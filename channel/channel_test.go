package channel

import (
	"bytes"
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"
)

func TestLossyInvalidConfig(t *testing.T) {
	for _, rate := range []float64{-0.1, 1.5} {
		if _, err := NewLossy(&LossyConfig{DropRate: rate}); err == nil {
			t.Fatalf("expected an error for drop rate %v", rate)
		}
	}
}

func TestLossyStatistics(t *testing.T) {
	const n = 100_000
	for _, rate := range []float64{0, 0.1, 0.5, 0.9, 1} {
		lossy, err := NewLossy(&LossyConfig{DropRate: rate, Source: rand.NewSource(1)})
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < n; i++ {
			lossy.Deliver()
		}
		stats := lossy.Stats()
		if stats.Sent != n {
			t.Fatalf("expected %d sent, got %d", n, stats.Sent)
		}
		if stats.Dropped+stats.Delivered != stats.Sent {
			t.Fatalf("dropped %d and delivered %d do not add up to %d", stats.Dropped, stats.Delivered, stats.Sent)
		}
		observed := float64(stats.Dropped) / n
		if math.Abs(observed-rate) > 0.01 {
			t.Errorf("drop rate %v: observed %v", rate, observed)
		}
	}
}

func TestLossyReproducible(t *testing.T) {
	a, err := NewLossy(&LossyConfig{DropRate: 0.5, Source: rand.NewSource(7)})
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewLossy(&LossyConfig{DropRate: 0.5, Source: rand.NewSource(7)})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 1000; i++ {
		if a.Deliver() != b.Deliver() {
			t.Fatalf("channels with the same seed diverged at packet %d", i)
		}
	}
}

func TestLossyTransmit(t *testing.T) {
	perfect, err := NewLossy(&LossyConfig{DropRate: 0})
	if err != nil {
		t.Fatal(err)
	}
	packet, ok := perfect.Transmit([]byte{1, 2})
	if !ok || !bytes.Equal(packet, []byte{1, 2}) {
		t.Fatal("a perfect channel must deliver every packet")
	}

	dead, err := NewLossy(&LossyConfig{DropRate: 1})
	if err != nil {
		t.Fatal(err)
	}
	if packet, ok := dead.Transmit([]byte{1, 2}); ok || packet != nil {
		t.Fatal("a dead channel must drop every packet")
	}
}

func TestPipe(t *testing.T) {
	a, b := Pipe(nil, 4)
	defer a.Close()

	buf := []byte{1, 2, 3}
	if err := a.Send(buf); err != nil {
		t.Fatal(err)
	}
	// The pipe keeps its own copy
	buf[0] = 9

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	packet, err := b.Receive(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(packet, []byte{1, 2, 3}) {
		t.Fatalf("unexpected packet %v", packet)
	}

	if err := b.Send([]byte{4}); err != nil {
		t.Fatal(err)
	}
	packet, err = a.Receive(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(packet, []byte{4}) {
		t.Fatalf("unexpected packet %v", packet)
	}
	if a.LocalAddr().String() != b.RemoteAddr().String() {
		t.Fatal("addresses of the two ends do not match")
	}
}

func TestPipeDropsWhenFull(t *testing.T) {
	a, b := Pipe(nil, 2)
	for i := 0; i < 5; i++ {
		if err := a.Send([]byte{byte(i)}); err != nil {
			t.Fatal(err)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	for i := 0; i < 2; i++ {
		packet, err := b.Receive(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if packet[0] != byte(i) {
			t.Fatalf("expected packet %d, got %d", i, packet[0])
		}
	}
	if _, err := b.Receive(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected the deadline to expire, got %v", err)
	}
}

func TestPipeWithLoss(t *testing.T) {
	lossy, err := NewLossy(&LossyConfig{DropRate: 0.5, Source: rand.NewSource(3)})
	if err != nil {
		t.Fatal(err)
	}
	a, b := Pipe(lossy, 1000)
	for i := 0; i < 1000; i++ {
		if err := a.Send([]byte{byte(i)}); err != nil {
			t.Fatal(err)
		}
	}
	if len(b.incoming) != int(lossy.Stats().Delivered) {
		t.Fatalf("%d packets buffered, %d delivered", len(b.incoming), lossy.Stats().Delivered)
	}
	if lossy.Stats().Dropped == 0 {
		t.Fatal("expected some packets to be dropped")
	}
}

func TestPipeClose(t *testing.T) {
	a, b := Pipe(nil, 4)

	done := make(chan error, 1)
	go func() {
		_, err := b.Receive(context.Background())
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	a.Close()

	select {
	case err := <-done:
		if !errors.Is(err, ErrClosed) {
			t.Fatalf("expected ErrClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("receive did not return after close")
	}
	if err := b.Send([]byte{1}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
