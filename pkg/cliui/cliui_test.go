package cliui_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/marqlabs/marq/pkg/cliui"
)

func TestCliui(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cliui Suite")
}

var _ = Describe("Step", func() {
	It("reports success and runs the function", func() {
		var buf bytes.Buffer
		ran := false

		err := cliui.Step(&buf, "doing work", func() error {
			ran = true
			return nil
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(ran).To(BeTrue())
		Expect(buf.String()).To(ContainSubstring("doing work"))
	})

	It("returns the function's error", func() {
		var buf bytes.Buffer
		boom := errors.New("boom")

		err := cliui.Step(&buf, "doing work", func() error {
			return boom
		})

		Expect(err).To(MatchError(boom))
	})
})

var _ = Describe("Mark", func() {
	It("marks nil errors as success", func() {
		Expect(cliui.Mark(nil)).To(Equal(cliui.SuccessMark))
	})

	It("marks errors as failure", func() {
		Expect(cliui.Mark(errors.New("x"))).To(Equal(cliui.FailMark))
	})
})

var _ = Describe("FormatDuration", func() {
	It("formats sub-second durations in milliseconds", func() {
		Expect(cliui.FormatDuration(42 * time.Millisecond)).To(Equal("42ms"))
	})

	It("formats longer durations in seconds", func() {
		Expect(cliui.FormatDuration(3200 * time.Millisecond)).To(Equal("3.2s"))
	})
})
