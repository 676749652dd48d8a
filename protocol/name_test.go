package protocol_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/maxleiko/bsc/protocol"
)

var _ = Describe("ValidName()", func() {
	It("accepts names a server would accept", func() {
		for _, name := range []string{
			"default",
			"Jobs",
			"jobs.high",
			"a-b",
			"+queue",
			"$tmp",
			"under_score",
			"(group)",
			"a/b;c",
		} {
			Expect(protocol.ValidName(name)).To(BeTrue(), name)
		}
	})

	It("rejects the empty name", func() {
		Expect(protocol.ValidName("")).To(BeFalse())
	})

	It("rejects a leading hyphen", func() {
		Expect(protocol.ValidName("-queue")).To(BeFalse())
	})

	It("rejects digits anywhere", func() {
		Expect(protocol.ValidName("1abc")).To(BeFalse())
		Expect(protocol.ValidName("abc1")).To(BeFalse())
	})

	It("rejects whitespace", func() {
		Expect(protocol.ValidName("has space")).To(BeFalse())
		Expect(protocol.ValidName("tab\there")).To(BeFalse())
	})

	It("rejects bytes outside the ASCII name alphabet", func() {
		Expect(protocol.ValidName("naïve")).To(BeFalse())
	})
})
