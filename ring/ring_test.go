package ring_test

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libring "github/sabouaram/towerd/ring"
)

var _ = Describe("Ring[T]", func() {
	It("pops values in the same order they were pushed", func() {
		r := libring.New[int](8)
		for i := 0; i < 5; i++ {
			Expect(r.Push(i)).To(BeTrue())
		}
		for i := 0; i < 5; i++ {
			v, ok := r.Pop()
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(i))
		}
		_, ok := r.Pop()
		Expect(ok).To(BeFalse())
	})

	It("enforces usable capacity of N-1 and recovers after one pop", func() {
		const capacity = 8
		r := libring.New[int](capacity)

		for i := 0; i < capacity-1; i++ {
			Expect(r.Push(i)).To(BeTrue())
		}
		Expect(r.IsFull()).To(BeTrue())
		Expect(r.Push(999)).To(BeFalse())

		v, ok := r.Pop()
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(0))

		Expect(r.Push(999)).To(BeTrue())
	})

	It("Peek reads the head without advancing it", func() {
		r := libring.New[string](4)
		r.Push("a")
		r.Push("b")

		v, ok := r.Peek()
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("a"))

		v, ok = r.Pop()
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("a"))
	})

	It("is empty immediately after construction", func() {
		r := libring.New[int](4)
		Expect(r.IsEmpty()).To(BeTrue())
		Expect(r.Len()).To(Equal(0))
	})

	It("survives concurrent single-producer/single-consumer traffic", func() {
		const n = 20000
		r := libring.New[int](256)

		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer wg.Done()
			for i := 0; i < n; i++ {
				for !r.Push(i) {
				}
			}
		}()

		received := make([]int, 0, n)
		go func() {
			defer wg.Done()
			for len(received) < n {
				if v, ok := r.Pop(); ok {
					received = append(received, v)
				}
			}
		}()

		wg.Wait()

		Expect(received).To(HaveLen(n))
		for i, v := range received {
			Expect(v).To(Equal(i))
		}
	})
})
