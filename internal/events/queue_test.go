package events

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("queue", Ordered, func() {
	Context("queue", func() {
		It("push keeps arrival order", func() {
			q := newQueue()

			q.push(&envelope{kind: StatementMessageKind, data: []byte("msg1")})
			Expect(q.len()).To(Equal(1))
			Expect(q.head).NotTo(BeNil())
			Expect(q.tail).NotTo(BeNil())

			q.push(&envelope{kind: StatementMessageKind, data: []byte("msg2")})
			Expect(q.len()).To(Equal(2))
			Expect(q.head.data).To(Equal([]byte("msg1")))
			Expect(q.tail.data).To(Equal([]byte("msg2")))

			q.push(&envelope{kind: StatementMessageKind, data: []byte("msg3")})
			Expect(q.len()).To(Equal(3))
			Expect(q.head.data).To(Equal([]byte("msg1")))
			Expect(q.tail.data).To(Equal([]byte("msg3")))
		})

		It("pop drains front to back", func() {
			q := newQueue()

			q.push(&envelope{kind: StatementMessageKind, data: []byte("msg1")})
			q.push(&envelope{kind: StatementMessageKind, data: []byte("msg2")})
			q.push(&envelope{kind: StatementMessageKind, data: []byte("msg3")})
			Expect(q.len()).To(Equal(3))

			e := q.pop()
			Expect(e).NotTo(BeNil())
			Expect(e.data).To(Equal([]byte("msg1")))
			Expect(q.len()).To(Equal(2))

			e = q.pop()
			Expect(e).NotTo(BeNil())
			Expect(e.data).To(Equal([]byte("msg2")))
			Expect(q.len()).To(Equal(1))

			e = q.pop()
			Expect(e).NotTo(BeNil())
			Expect(e.data).To(Equal([]byte("msg3")))
			Expect(q.len()).To(Equal(0))
			Expect(q.head).To(BeNil())
			Expect(q.tail).To(BeNil())

			e = q.pop()
			Expect(e).To(BeNil())
		})
	})
})
