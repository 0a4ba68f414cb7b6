package errors_test

import (
	stderrors "errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	liberr "github/sabouaram/towerd/errors"
)

const (
	testCode1 liberr.CodeError = liberr.MinAvailable + iota
	testCode2
)

func testMessage(code liberr.CodeError) string {
	switch code {
	case testCode1:
		return "test error one"
	case testCode2:
		return "test error two"
	default:
		return ""
	}
}

var _ = Describe("Error", func() {
	BeforeEach(func() {
		if !liberr.ExistInMapMessage(testCode1) {
			liberr.RegisterIdFctMessage(liberr.MinAvailable, testMessage)
		}
	})

	It("carries its code and message", func() {
		e := testCode1.Error()
		Expect(e.Code()).To(Equal(testCode1))
		Expect(e.Error()).To(Equal("test error one"))
	})

	It("chains parents and reports HasCode transitively", func() {
		root := stderrors.New("socket closed")
		e := testCode2.Error(root)
		Expect(e.HasParent()).To(BeTrue())
		Expect(e.HasCode(testCode2)).To(BeTrue())
	})

	It("is compatible with errors.Is for equal code+message", func() {
		a := testCode1.Error()
		b := testCode1.Error()
		Expect(stderrors.Is(a, b)).To(BeTrue())
	})

	It("falls back to UnknownMessage for unregistered codes", func() {
		e := liberr.CodeError(65000).Error()
		Expect(e.Error()).To(Equal(liberr.UnknownMessage))
	})
})
