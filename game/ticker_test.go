package game_test

import (
	"context"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github/sabouaram/towerd/game"
)

var _ = Describe("Ticker", func() {
	It("is idle with zero uptime before Start", func() {
		tck := New(10*time.Millisecond, func(context.Context, *time.Ticker) error { return nil })
		Expect(tck.IsRunning()).To(BeFalse())
		Expect(tck.Uptime()).To(Equal(time.Duration(0)))
	})

	It("invokes fn periodically once started, and stops cleanly", func() {
		var calls atomic.Int32
		tck := New(10*time.Millisecond, func(context.Context, *time.Ticker) error {
			calls.Add(1)
			return nil
		})

		ctx := context.Background()
		Expect(tck.Start(ctx)).To(Succeed())
		Expect(tck.IsRunning()).To(BeTrue())

		Eventually(func() int32 { return calls.Load() }, time.Second, 5*time.Millisecond).Should(BeNumerically(">=", 2))
		Expect(tck.Uptime()).To(BeNumerically(">", 0))

		Expect(tck.Stop(ctx)).To(Succeed())
		Expect(tck.IsRunning()).To(BeFalse())
		Expect(tck.Uptime()).To(Equal(time.Duration(0)))
	})
})
