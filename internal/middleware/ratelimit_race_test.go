package middleware

import (
	"sync"
	"testing"
	"time"
)

// TestRateLimiterConcurrentAccess verifies the rate limiter is safe under concurrent access.
// Run with: go test -race -count=1 ./internal/middleware/ -run TestRateLimiterConcurrentAccess
func TestRateLimiterConcurrentAccess(t *testing.T) {
	limiter := NewRateLimiter(100, time.Minute, "test-concurrent")

	var wg sync.WaitGroup
	// 50 goroutines each making 20 requests with varying IPs
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(goroutineID int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				// Mix of same IP and different IPs to stress both paths
				ip := "192.168.1.1"
				if j%3 == 0 {
					ip = "10.0.0." + string(rune('0'+goroutineID%10))
				}
				allowed, count := limiter.isAllowed(ip)
				_ = allowed
				_ = count
			}
		}(i)
	}
	wg.Wait()
}

// TestRateLimiterConcurrentWithCleanup verifies no race between request handling and cleanup.
func TestRateLimiterConcurrentWithCleanup(t *testing.T) {
	// Use a very short window so cleanup runs during the test
	limiter := NewRateLimiter(5, 50*time.Millisecond, "test-cleanup-race")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				ip := "10.0.0." + string(rune('0'+id%10))
				limiter.isAllowed(ip)
				if j%10 == 0 {
					time.Sleep(time.Millisecond)
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestRateLimiterWindowReset(t *testing.T) {
	limiter := NewRateLimiter(2, 20*time.Millisecond, "test-reset")

	ip := "192.168.1.50"
	for i := 0; i < 2; i++ {
		if allowed, _ := limiter.isAllowed(ip); !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if allowed, _ := limiter.isAllowed(ip); allowed {
		t.Fatal("third request inside the window should be rejected")
	}

	time.Sleep(30 * time.Millisecond)
	if allowed, _ := limiter.isAllowed(ip); !allowed {
		t.Fatal("request after the window should be allowed again")
	}
}
