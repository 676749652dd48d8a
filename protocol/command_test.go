package protocol_test

import (
	"bytes"
	"math"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/maxleiko/bsc/protocol"
)

func encoded(cmd protocol.Command) string {
	return string(protocol.Encode(cmd))
}

var _ = Describe("Encoding", func() {
	Describe("Encode()", func() {
		It("encodes put with the body length and a trailing terminator", func() {
			cmd := protocol.Put{Priority: 1, Delay: 2, TTR: 3, Body: []byte("123456")}
			Expect(encoded(cmd)).To(Equal("put 1 2 3 6\r\n123456\r\n"))
		})

		It("encodes put with an empty body", func() {
			cmd := protocol.Put{Body: nil}
			Expect(encoded(cmd)).To(Equal("put 0 0 0 0\r\n\r\n"))
		})

		It("counts terminator bytes inside a body as part of its length", func() {
			cmd := protocol.Put{Body: []byte("a\r\nb")}
			Expect(encoded(cmd)).To(Equal("put 0 0 0 4\r\na\r\nb\r\n"))
		})

		It("encodes use", func() {
			Expect(encoded(protocol.Use{Tube: "jobs"})).To(Equal("use jobs\r\n"))
		})

		It("encodes reserve", func() {
			Expect(encoded(protocol.Reserve{})).To(Equal("reserve\r\n"))
		})

		It("encodes reserve-with-timeout", func() {
			Expect(encoded(protocol.ReserveWithTimeout{Seconds: 5})).To(Equal("reserve-with-timeout 5\r\n"))
		})

		It("encodes reserve-job", func() {
			Expect(encoded(protocol.ReserveJob{ID: 42})).To(Equal("reserve-job 42\r\n"))
		})

		It("encodes delete", func() {
			Expect(encoded(protocol.Delete{ID: 42})).To(Equal("delete 42\r\n"))
		})

		It("encodes release with priority and delay", func() {
			Expect(encoded(protocol.Release{ID: 1, Priority: 2, Delay: 3})).To(Equal("release 1 2 3\r\n"))
		})

		It("encodes bury with a priority", func() {
			Expect(encoded(protocol.Bury{ID: 1, Priority: 10})).To(Equal("bury 1 10\r\n"))
		})

		It("encodes touch", func() {
			Expect(encoded(protocol.Touch{ID: 9})).To(Equal("touch 9\r\n"))
		})

		It("encodes watch", func() {
			Expect(encoded(protocol.Watch{Tube: "events"})).To(Equal("watch events\r\n"))
		})

		It("encodes ignore", func() {
			Expect(encoded(protocol.Ignore{Tube: "default"})).To(Equal("ignore default\r\n"))
		})

		It("encodes peek", func() {
			Expect(encoded(protocol.Peek{ID: 3})).To(Equal("peek 3\r\n"))
		})

		It("encodes peek-ready", func() {
			Expect(encoded(protocol.PeekReady{})).To(Equal("peek-ready\r\n"))
		})

		It("encodes peek-delayed", func() {
			Expect(encoded(protocol.PeekDelayed{})).To(Equal("peek-delayed\r\n"))
		})

		It("encodes peek-buried", func() {
			Expect(encoded(protocol.PeekBuried{})).To(Equal("peek-buried\r\n"))
		})

		It("encodes kick with a bound", func() {
			Expect(encoded(protocol.Kick{Bound: 100})).To(Equal("kick 100\r\n"))
		})

		It("encodes kick-job", func() {
			Expect(encoded(protocol.KickJob{ID: 13})).To(Equal("kick-job 13\r\n"))
		})

		It("encodes stats-job", func() {
			Expect(encoded(protocol.StatsJob{ID: 7})).To(Equal("stats-job 7\r\n"))
		})

		It("encodes stats-tube", func() {
			Expect(encoded(protocol.StatsTube{Tube: "default"})).To(Equal("stats-tube default\r\n"))
		})

		It("encodes stats", func() {
			Expect(encoded(protocol.Stats{})).To(Equal("stats\r\n"))
		})

		It("encodes list-tubes", func() {
			Expect(encoded(protocol.ListTubes{})).To(Equal("list-tubes\r\n"))
		})

		It("encodes list-tube-used", func() {
			Expect(encoded(protocol.ListTubeUsed{})).To(Equal("list-tube-used\r\n"))
		})

		It("encodes list-tubes-watched", func() {
			Expect(encoded(protocol.ListTubesWatched{})).To(Equal("list-tubes-watched\r\n"))
		})

		It("encodes pause-tube with a delay", func() {
			Expect(encoded(protocol.PauseTube{Tube: "default", Delay: 60})).To(Equal("pause-tube default 60\r\n"))
		})

		It("encodes quit", func() {
			Expect(encoded(protocol.Quit{})).To(Equal("quit\r\n"))
		})

		It("renders the largest arguments in full", func() {
			cmd := protocol.Put{Priority: math.MaxUint32, TTR: math.MaxUint32}
			Expect(encoded(cmd)).To(Equal("put 4294967295 0 4294967295 0\r\n\r\n"))

			Expect(encoded(protocol.ReserveJob{ID: math.MaxUint64})).
				To(Equal("reserve-job 18446744073709551615\r\n"))
		})

		It("does not quote or escape tube names", func() {
			Expect(encoded(protocol.Use{Tube: "tube with spaces"})).To(Equal("use tube with spaces\r\n"))
		})
	})

	Describe("WriteCommand()", func() {
		It("writes the encoded bytes to the writer", func() {
			var buf bytes.Buffer

			err := protocol.WriteCommand(&buf, protocol.Delete{ID: 42})
			Expect(err).To(Succeed())
			Expect(buf.String()).To(Equal("delete 42\r\n"))
		})

		It("writes a command line and its payload together", func() {
			var buf bytes.Buffer

			err := protocol.WriteCommand(&buf, protocol.Put{TTR: 60, Body: []byte("job")})
			Expect(err).To(Succeed())
			Expect(buf.String()).To(Equal("put 0 0 60 3\r\njob\r\n"))
		})
	})

	Describe("Verb()", func() {
		It("names the wire verb of a command", func() {
			Expect(protocol.Put{}.Verb()).To(Equal(protocol.VerbPut))
			Expect(protocol.ListTubesWatched{}.Verb()).To(Equal(protocol.VerbListTubesWatched))
		})
	})
})
