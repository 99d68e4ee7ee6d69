package cache_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ddevcap/steam-profile-api/cache"
	"github.com/ddevcap/steam-profile-api/metrics"
)

var _ = Describe("Cache", func() {
	var c *cache.Cache[string]

	BeforeEach(func() {
		c = cache.New[string](time.Hour)
	})

	It("returns a value immediately after Set", func() {
		c.Set("steam-user-1", "profile", time.Minute)

		v, ok := c.Get("steam-user-1")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("profile"))
	})

	It("reports absent for unknown keys", func() {
		_, ok := c.Get("missing")
		Expect(ok).To(BeFalse())
	})

	It("expires entries lazily on read", func() {
		c.Set("k", "v", 30*time.Millisecond)
		Expect(c.Len()).To(Equal(1))

		time.Sleep(60 * time.Millisecond)

		_, ok := c.Get("k")
		Expect(ok).To(BeFalse())
		Expect(c.Len()).To(BeZero())
	})

	It("updates the item gauge when a read drops an expired entry", func() {
		c.Set("a", "v", 30*time.Millisecond)
		c.Set("b", "v", 30*time.Millisecond)
		Expect(testutil.ToFloat64(metrics.CacheItems)).To(Equal(2.0))

		time.Sleep(60 * time.Millisecond)

		_, ok := c.Get("a")
		Expect(ok).To(BeFalse())
		Expect(testutil.ToFloat64(metrics.CacheItems)).To(Equal(1.0))

		_, ok = c.Peek("b")
		Expect(ok).To(BeFalse())
		Expect(testutil.ToFloat64(metrics.CacheItems)).To(BeZero())
	})

	It("does not extend the lifetime on reads", func() {
		c.Set("k", "v", 80*time.Millisecond)
		expiry, ok := c.ExpiryOf("k")
		Expect(ok).To(BeTrue())

		time.Sleep(20 * time.Millisecond)
		_, ok = c.Get("k")
		Expect(ok).To(BeTrue())

		again, _ := c.ExpiryOf("k")
		Expect(again).To(Equal(expiry))
	})

	It("overwrites on Set", func() {
		c.Set("k", "old", time.Minute)
		c.Set("k", "new", time.Minute)

		v, _ := c.Get("k")
		Expect(v).To(Equal("new"))
		Expect(c.Len()).To(Equal(1))
	})

	It("keeps per-entry TTLs independent", func() {
		c.Set("short", "a", 30*time.Millisecond)
		c.Set("long", "b", time.Minute)

		time.Sleep(60 * time.Millisecond)

		_, ok := c.Get("short")
		Expect(ok).To(BeFalse())
		_, ok = c.Get("long")
		Expect(ok).To(BeTrue())
	})

	It("ignores non-positive TTLs", func() {
		c.Set("k", "v", 0)
		_, ok := c.Get("k")
		Expect(ok).To(BeFalse())
	})

	It("exposes stored and expiry times through Peek", func() {
		before := time.Now()
		c.Set("k", "v", time.Minute)

		e, ok := c.Peek("k")
		Expect(ok).To(BeTrue())
		Expect(e.Value).To(Equal("v"))
		Expect(e.StoredAt).To(BeTemporally("~", before, time.Second))
		Expect(e.ExpiresAt.Sub(e.StoredAt)).To(Equal(time.Minute))
	})

	It("deletes and clears", func() {
		c.Set("a", "1", time.Minute)
		c.Set("b", "2", time.Minute)

		c.Delete("a")
		_, ok := c.Get("a")
		Expect(ok).To(BeFalse())
		Expect(c.Len()).To(Equal(1))

		c.Clear()
		Expect(c.Len()).To(BeZero())
		_, ok = c.ExpiryOf("b")
		Expect(ok).To(BeFalse())
	})

	Describe("sweeper", func() {
		It("removes expired entries without any reads", func() {
			swept := cache.New[string](20 * time.Millisecond)
			swept.Set("k", "v", 10*time.Millisecond)
			swept.Set("keep", "v", time.Minute)

			swept.Start(context.Background())
			defer swept.Stop()

			Eventually(swept.Len, time.Second, 10*time.Millisecond).Should(Equal(1))
		})

		It("stops cleanly and tolerates repeated Stop calls", func() {
			swept := cache.New[string](10 * time.Millisecond)
			swept.Start(context.Background())
			swept.Stop()
			swept.Stop()

			swept.Set("k", "v", 5*time.Millisecond)
			Consistently(swept.Len, 60*time.Millisecond, 10*time.Millisecond).Should(Equal(1))
		})

		It("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			swept := cache.New[string](10 * time.Millisecond)
			swept.Start(ctx)
			cancel()
			swept.Stop()
		})
	})
})
