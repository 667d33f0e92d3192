package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errBackend = errors.New("backend unavailable")

// fakeClock 手动推进的时钟，避免测试里Sleep
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(trip uint32, changes *[]string) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 8, 8, 10, 0, 0, 0, time.Local)}
	cb := NewCircuitBreaker("api", Config{
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= trip
		},
		OnStateChange: func(name string, from State, to State) {
			if changes != nil {
				*changes = append(*changes, from.String()+"->"+to.String())
			}
		},
	})
	cb.now = clock.now
	cb.toNewGeneration(clock.now())
	return cb, clock
}

// TestCircuitBreaker_ClosedState 正常请求保持CLOSED
func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb, _ := newTestBreaker(5, nil)

	for i := 0; i < 10; i++ {
		if err := cb.Execute(func() error { return nil }); err != nil {
			t.Fatalf("期望成功，实际失败: %v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("期望状态为CLOSED，实际%s", cb.State())
	}
	if counts := cb.Counts(); counts.TotalSuccesses != 10 {
		t.Errorf("期望成功10次，实际%d次", counts.TotalSuccesses)
	}
}

// TestCircuitBreaker_OpenState 连续失败后快速失败，不再调用后端
func TestCircuitBreaker_OpenState(t *testing.T) {
	cb, _ := newTestBreaker(3, nil)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errBackend })
	}
	if cb.State() != StateOpen {
		t.Fatalf("期望状态为OPEN，实际%s", cb.State())
	}

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrOpenState) {
		t.Errorf("期望返回ErrOpenState，实际%v", err)
	}
	if called {
		t.Error("熔断器打开时不应该调用实际函数")
	}
}

// TestCircuitBreaker_ContextCanceled 调用方取消不算后端失败
func TestCircuitBreaker_ContextCanceled(t *testing.T) {
	cb, _ := newTestBreaker(1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	err := cb.ExecuteContext(ctx, func(ctx context.Context) error {
		cancel()
		return ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("期望返回context.Canceled，实际%v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("取消不应打开熔断器，实际%s", cb.State())
	}
	if counts := cb.Counts(); counts.Requests != 0 || counts.TotalFailures != 0 {
		t.Errorf("取消的请求不应计数，实际%+v", counts)
	}

	called := false
	err = cb.ExecuteContext(ctx, func(context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) || called {
		t.Errorf("已取消的ctx不应发出请求，err=%v called=%v", err, called)
	}

	err = cb.ExecuteContext(context.Background(), func(context.Context) error { return errBackend })
	if !errors.Is(err, errBackend) || cb.State() != StateOpen {
		t.Errorf("期望后端失败打开熔断器，err=%v state=%s", err, cb.State())
	}
}

// TestCircuitBreaker_Recovery 超时后半开探测，成功则关闭
func TestCircuitBreaker_Recovery(t *testing.T) {
	var changes []string
	cb, clock := newTestBreaker(3, &changes)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errBackend })
	}
	clock.advance(31 * time.Second)

	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatalf("半开状态探测请求期望成功，实际%v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("期望状态转为CLOSED，实际%s", cb.State())
	}

	expected := []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}
	if len(changes) != len(expected) {
		t.Fatalf("期望%d次状态变化，实际%d次: %v", len(expected), len(changes), changes)
	}
	for i := range expected {
		if changes[i] != expected[i] {
			t.Errorf("第%d次状态变化期望%s，实际%s", i, expected[i], changes[i])
		}
	}
}

// TestCircuitBreaker_HalfOpenToOpen 半开探测失败立即转回OPEN
func TestCircuitBreaker_HalfOpenToOpen(t *testing.T) {
	cb, clock := newTestBreaker(3, nil)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errBackend })
	}
	clock.advance(31 * time.Second)
	_ = cb.Execute(func() error { return errBackend })

	if cb.State() != StateOpen {
		t.Errorf("期望状态转回OPEN，实际%s", cb.State())
	}
}

// TestCircuitBreaker_HalfOpenLimit 半开状态只放行MaxRequests个请求
func TestCircuitBreaker_HalfOpenLimit(t *testing.T) {
	cb, clock := newTestBreaker(1, nil)

	_ = cb.Execute(func() error { return errBackend })
	clock.advance(31 * time.Second)

	done := make(chan struct{})
	go func() {
		_ = cb.Execute(func() error {
			<-done
			return nil
		})
	}()
	// 等待探测请求进入后端
	for cb.Counts().Requests == 0 {
		time.Sleep(time.Millisecond)
	}

	if err := cb.Execute(func() error { return nil }); !errors.Is(err, ErrOpenState) {
		t.Errorf("探测请求未返回前，第二个请求期望ErrOpenState，实际%v", err)
	}
	close(done)
}

// TestCircuitBreaker_IntervalReset 统计窗口过期后计数清零
func TestCircuitBreaker_IntervalReset(t *testing.T) {
	cb, clock := newTestBreaker(3, nil)

	_ = cb.Execute(func() error { return errBackend })
	_ = cb.Execute(func() error { return errBackend })
	clock.advance(11 * time.Second)
	_ = cb.Execute(func() error { return errBackend })

	if cb.State() != StateClosed {
		t.Errorf("窗口重置后不应熔断，实际%s", cb.State())
	}
	if counts := cb.Counts(); counts.ConsecutiveFailures != 1 {
		t.Errorf("期望连续失败1次，实际%d次", counts.ConsecutiveFailures)
	}
}

// TestCircuitBreaker_IsSuccessful 业务失败不计入熔断
func TestCircuitBreaker_IsSuccessful(t *testing.T) {
	errBusiness := errors.New("该副本不可借")
	cb := NewCircuitBreaker("api", Config{
		ReadyToTrip:  func(counts Counts) bool { return counts.ConsecutiveFailures >= 1 },
		IsSuccessful: func(err error) bool { return err == nil || errors.Is(err, errBusiness) },
	})

	for i := 0; i < 5; i++ {
		if err := cb.Execute(func() error { return errBusiness }); !errors.Is(err, errBusiness) {
			t.Fatalf("业务错误应原样返回，实际%v", err)
		}
	}
	if cb.State() != StateClosed {
		t.Errorf("业务错误不应触发熔断，实际%s", cb.State())
	}
}

// TestCircuitBreaker_FailureRate 基于失败率的熔断
func TestCircuitBreaker_FailureRate(t *testing.T) {
	cb := NewCircuitBreaker("api", Config{
		Interval: time.Hour,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts Counts) bool {
			return counts.Requests >= 10 && counts.FailureRate() > 0.5
		},
	})

	for i := 0; i < 10; i++ {
		index := i
		_ = cb.Execute(func() error {
			if index < 4 {
				return nil
			}
			return errBackend
		})
	}

	if cb.State() != StateOpen {
		t.Errorf("期望状态为OPEN（失败率超过50%%），实际%s", cb.State())
	}
}

func TestState_String(t *testing.T) {
	if StateHalfOpen.String() != "HALF_OPEN" || State(9).String() != "UNKNOWN" {
		t.Error("状态字符串不正确")
	}
}

func BenchmarkCircuitBreaker(b *testing.B) {
	cb := NewCircuitBreaker("bench", Config{Interval: 10 * time.Second, Timeout: 30 * time.Second})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cb.Execute(func() error { return nil })
	}
}
