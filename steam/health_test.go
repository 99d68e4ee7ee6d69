package steam_test

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ddevcap/steam-profile-api/steam"
)

// stubPinger answers Ping according to a toggle.
type stubPinger struct {
	healthy atomic.Bool
	calls   atomic.Int32
}

func (p *stubPinger) Ping(context.Context) error {
	p.calls.Add(1)
	if p.healthy.Load() {
		return nil
	}
	return errors.New("connection refused")
}

var _ = Describe("HealthChecker", func() {
	It("assumes the upstream is available before the first check", func() {
		hc := steam.NewHealthChecker(&stubPinger{}, time.Hour)
		Expect(hc.IsAvailable()).To(BeTrue())
	})

	It("marks a failing upstream unavailable only after consecutive failures", func() {
		p := &stubPinger{}
		hc := steam.NewHealthChecker(p, 50*time.Millisecond)
		hc.Start(context.Background())
		defer hc.Stop()

		Eventually(p.calls.Load, 2*time.Second, 10*time.Millisecond).Should(BeNumerically(">=", 2))
		Eventually(hc.IsAvailable, 2*time.Second, 10*time.Millisecond).Should(BeFalse())
		Expect(hc.Status().LastError).To(ContainSubstring("connection refused"))
	})

	It("recovers when the upstream comes back", func() {
		p := &stubPinger{}
		hc := steam.NewHealthChecker(p, 50*time.Millisecond)
		hc.Start(context.Background())
		defer hc.Stop()

		Eventually(hc.IsAvailable, 2*time.Second, 10*time.Millisecond).Should(BeFalse())

		p.healthy.Store(true)
		Eventually(hc.IsAvailable, 2*time.Second, 10*time.Millisecond).Should(BeTrue())
		Expect(hc.Status().FailureCount).To(BeZero())
		Expect(hc.Status().LastError).To(BeEmpty())
	})

	It("stops the loop on Stop", func() {
		p := &stubPinger{}
		p.healthy.Store(true)
		hc := steam.NewHealthChecker(p, 20*time.Millisecond)
		hc.Start(context.Background())

		Eventually(p.calls.Load, time.Second, 10*time.Millisecond).Should(BeNumerically(">=", 1))
		hc.Stop()
		n := p.calls.Load()
		Consistently(p.calls.Load, 100*time.Millisecond, 20*time.Millisecond).Should(Equal(n))
	})
})
