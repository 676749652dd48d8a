package client_test

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/maxleiko/bsc/client"
	"github.com/maxleiko/bsc/protocol"
)

// step is one exchange of a scripted server session: the exact bytes
// the server must receive, then the chunks it writes back. Splitting a
// reply across chunks lets a spec drive the client through partial
// reads.
type step struct {
	expect string
	chunks []string
}

// startServer runs a scripted server on a loopback listener and returns
// its address. After the last step it holds the connection open until
// the client closes it.
func startServer(steps ...step) string {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).To(Succeed())

	go func() {
		defer GinkgoRecover()
		defer ln.Close()

		conn, err := ln.Accept()
		Expect(err).To(Succeed())
		defer conn.Close()

		for _, s := range steps {
			got := make([]byte, len(s.expect))

			_, err := io.ReadFull(conn, got)
			Expect(err).To(Succeed())
			Expect(string(got)).To(Equal(s.expect))

			for _, chunk := range s.chunks {
				_, err := conn.Write([]byte(chunk))
				Expect(err).To(Succeed())
			}
		}

		_, _ = io.Copy(io.Discard, conn)
	}()

	return ln.Addr().String()
}

func dial(addr string) *client.Conn {
	c := client.New(client.Options{Addr: addr})
	Expect(c.Connect(context.Background())).To(Succeed())

	return c
}

var _ = Describe("Conn", func() {
	ctx := context.Background()

	Describe("Connect()", func() {
		It("fails when nothing listens on the address", func() {
			ln, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).To(Succeed())

			addr := ln.Addr().String()
			Expect(ln.Close()).To(Succeed())

			c := client.New(client.Options{Addr: addr, DialTimeout: time.Second})
			Expect(c.Connect(ctx)).NotTo(Succeed())
		})

		It("refuses commands before a connection exists", func() {
			c := client.New(client.Options{Addr: "127.0.0.1:0"})

			err := c.Delete(ctx, 1)
			Expect(errors.Is(err, client.ErrClosed)).To(BeTrue())
		})
	})

	Describe("Put()", func() {
		It("returns the new job id", func() {
			c := dial(startServer(step{
				expect: "put 0 0 60 3\r\njob\r\n",
				chunks: []string{"INSERTED 42\r\n"},
			}))
			defer c.Close()

			id, err := c.Put(ctx, []byte("job"), 0, 0, time.Minute)
			Expect(err).To(Succeed())
			Expect(id).To(Equal(uint64(42)))
		})

		It("returns the id and ErrBuried when the server buries the job", func() {
			c := dial(startServer(step{
				expect: "put 0 0 60 3\r\njob\r\n",
				chunks: []string{"BURIED 7\r\n"},
			}))
			defer c.Close()

			id, err := c.Put(ctx, []byte("job"), 0, 0, time.Minute)
			Expect(errors.Is(err, client.ErrBuried)).To(BeTrue())
			Expect(id).To(Equal(uint64(7)))
		})

		It("surfaces a refusing reply as a ServerError", func() {
			c := dial(startServer(step{
				expect: "put 0 0 60 3\r\njob\r\n",
				chunks: []string{"JOB_TOO_BIG\r\n"},
			}))
			defer c.Close()

			_, err := c.Put(ctx, []byte("job"), 0, 0, time.Minute)

			var serr *client.ServerError
			Expect(errors.As(err, &serr)).To(BeTrue())
			Expect(serr.Reply).To(Equal(protocol.KeywordJobTooBig))
		})
	})

	Describe("Reserve()", func() {
		It("assembles a job from a reply split across reads", func() {
			c := dial(startServer(step{
				expect: "reserve\r\n",
				chunks: []string{"RESER", "VED 42 6\r\n123", "456\r\n"},
			}))
			defer c.Close()

			job, err := c.Reserve(ctx)
			Expect(err).To(Succeed())
			Expect(job).To(Equal(client.Job{ID: 42, Body: []byte("123456")}))
		})

		It("maps DEADLINE_SOON to its sentinel", func() {
			c := dial(startServer(step{
				expect: "reserve\r\n",
				chunks: []string{"DEADLINE_SOON\r\n"},
			}))
			defer c.Close()

			_, err := c.Reserve(ctx)
			Expect(errors.Is(err, client.ErrDeadlineSoon)).To(BeTrue())
		})

		It("gives up when the context deadline passes with no reply", func() {
			c := dial(startServer(step{expect: "reserve\r\n"}))
			defer c.Close()

			shortCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
			defer cancel()

			_, err := c.Reserve(shortCtx)

			var nerr net.Error
			Expect(errors.As(err, &nerr)).To(BeTrue())
			Expect(nerr.Timeout()).To(BeTrue())
		})
	})

	Describe("ReserveWithTimeout()", func() {
		It("maps TIMED_OUT to its sentinel", func() {
			c := dial(startServer(step{
				expect: "reserve-with-timeout 0\r\n",
				chunks: []string{"TIMED_OUT\r\n"},
			}))
			defer c.Close()

			_, err := c.ReserveWithTimeout(ctx, 0)
			Expect(errors.Is(err, client.ErrTimedOut)).To(BeTrue())
		})
	})

	Describe("job lifecycle", func() {
		It("runs use, delete, release, bury and touch", func() {
			c := dial(startServer(
				step{expect: "use jobs\r\n", chunks: []string{"USING jobs\r\n"}},
				step{expect: "delete 1\r\n", chunks: []string{"DELETED\r\n"}},
				step{expect: "release 5 10 0\r\n", chunks: []string{"BURIED\r\n"}},
				step{expect: "bury 4 0\r\n", chunks: []string{"BURIED\r\n"}},
				step{expect: "touch 9\r\n", chunks: []string{"TOUCHED\r\n"}},
			))
			defer c.Close()

			Expect(c.Use(ctx, "jobs")).To(Succeed())
			Expect(c.Delete(ctx, 1)).To(Succeed())
			Expect(errors.Is(c.Release(ctx, 5, 10, 0), client.ErrBuried)).To(BeTrue())
			Expect(c.Bury(ctx, 4, 0)).To(Succeed())
			Expect(c.Touch(ctx, 9)).To(Succeed())
		})

		It("maps NOT_FOUND to its sentinel", func() {
			c := dial(startServer(step{
				expect: "delete 1\r\n",
				chunks: []string{"NOT_FOUND\r\n"},
			}))
			defer c.Close()

			Expect(errors.Is(c.Delete(ctx, 1), client.ErrNotFound)).To(BeTrue())
		})
	})

	Describe("watch list", func() {
		It("returns the watch list size", func() {
			c := dial(startServer(step{
				expect: "watch events\r\n",
				chunks: []string{"WATCHING 2\r\n"},
			}))
			defer c.Close()

			count, err := c.Watch(ctx, "events")
			Expect(err).To(Succeed())
			Expect(count).To(Equal(uint64(2)))
		})

		It("maps NOT_IGNORED to its sentinel", func() {
			c := dial(startServer(step{
				expect: "ignore default\r\n",
				chunks: []string{"NOT_IGNORED\r\n"},
			}))
			defer c.Close()

			_, err := c.Ignore(ctx, "default")
			Expect(errors.Is(err, client.ErrNotIgnored)).To(BeTrue())
		})
	})

	Describe("peeking and kicking", func() {
		It("returns the inspected job", func() {
			c := dial(startServer(step{
				expect: "peek 3\r\n",
				chunks: []string{"FOUND 3 3\r\nabc\r\n"},
			}))
			defer c.Close()

			job, err := c.Peek(ctx, 3)
			Expect(err).To(Succeed())
			Expect(job).To(Equal(client.Job{ID: 3, Body: []byte("abc")}))
		})

		It("returns how many jobs a kick moved", func() {
			c := dial(startServer(
				step{expect: "kick 100\r\n", chunks: []string{"KICKED 10\r\n"}},
				step{expect: "kick-job 7\r\n", chunks: []string{"KICKED\r\n"}},
			))
			defer c.Close()

			count, err := c.Kick(ctx, 100)
			Expect(err).To(Succeed())
			Expect(count).To(Equal(uint64(10)))

			Expect(c.KickJob(ctx, 7)).To(Succeed())
		})
	})

	Describe("statistics", func() {
		It("decodes a stats document", func() {
			c := dial(startServer(step{
				expect: "stats\r\n",
				chunks: []string{"OK 12\r\n---\npid: 42\n\r\n"},
			}))
			defer c.Close()

			doc, err := c.Stats(ctx)
			Expect(err).To(Succeed())
			Expect(doc).To(Equal(protocol.Map{"pid": protocol.UintScalar(42)}))
		})

		It("decodes the tube listing", func() {
			c := dial(startServer(step{
				expect: "list-tubes\r\n",
				chunks: []string{"OK 25\r\n---\n - default\n - events\n\r\n"},
			}))
			defer c.Close()

			tubes, err := c.ListTubes(ctx)
			Expect(err).To(Succeed())
			Expect(tubes).To(Equal(protocol.List{
				protocol.TextScalar("default"),
				protocol.TextScalar("events"),
			}))
		})

		It("returns the used tube name", func() {
			c := dial(startServer(step{
				expect: "list-tube-used\r\n",
				chunks: []string{"USING default\r\n"},
			}))
			defer c.Close()

			tube, err := c.ListTubeUsed(ctx)
			Expect(err).To(Succeed())
			Expect(tube).To(Equal("default"))
		})

		It("pauses a tube", func() {
			c := dial(startServer(step{
				expect: "pause-tube default 60\r\n",
				chunks: []string{"PAUSED\r\n"},
			}))
			defer c.Close()

			Expect(c.PauseTube(ctx, "default", time.Minute)).To(Succeed())
		})
	})

	Describe("stream handling", func() {
		It("serves a second reply from the buffer without reading", func() {
			c := dial(startServer(
				step{expect: "delete 1\r\n", chunks: []string{"DELETED\r\nTOUCHED\r\n"}},
				step{expect: "touch 2\r\n"},
			))
			defer c.Close()

			Expect(c.Delete(ctx, 1)).To(Succeed())
			Expect(c.Touch(ctx, 2)).To(Succeed())
		})

		It("rejects a valid reply that does not answer the command", func() {
			c := dial(startServer(step{
				expect: "delete 9\r\n",
				chunks: []string{"USING foo\r\n"},
			}))
			defer c.Close()

			err := c.Delete(ctx, 9)
			Expect(errors.Is(err, client.ErrUnexpectedReply)).To(BeTrue())
		})

		It("poisons the connection on a desynchronised stream", func() {
			c := dial(startServer(step{
				expect: "delete 1\r\n",
				chunks: []string{"GARBAGE\r\n"},
			}))
			defer c.Close()

			err := c.Delete(ctx, 1)
			Expect(errors.Is(err, protocol.ErrUnknownReply)).To(BeTrue())

			// The second call must fail identically without touching the
			// wire; the scripted server expects nothing more.
			err = c.Delete(ctx, 2)
			Expect(errors.Is(err, protocol.ErrUnknownReply)).To(BeTrue())
		})
	})

	Describe("Close()", func() {
		It("sends quit and refuses later commands", func() {
			c := dial(startServer(step{expect: "quit\r\n"}))

			Expect(c.Close()).To(Succeed())

			err := c.Delete(ctx, 1)
			Expect(errors.Is(err, client.ErrClosed)).To(BeTrue())
		})

		It("is a no-op on an unconnected Conn", func() {
			c := client.New(client.Options{Addr: "127.0.0.1:0"})
			Expect(c.Close()).To(Succeed())
		})
	})
})
