package stats_test

import (
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/maxleiko/bsc/protocol"
	"github.com/maxleiko/bsc/stats"
)

func decodeMap(doc string) protocol.Map {
	m, err := protocol.DecodeMap([]byte(doc))
	Expect(err).To(Succeed())

	return m
}

var _ = Describe("Stats records", func() {
	Describe("JobFromDoc()", func() {
		It("maps a full stats-job document", func() {
			job := stats.JobFromDoc(decodeMap("---\n" +
				"id: 42\n" +
				"tube: default\n" +
				"state: reserved\n" +
				"pri: 1024\n" +
				"age: 10\n" +
				"delay: 0\n" +
				"ttr: 60\n" +
				"time-left: 55\n" +
				"file: 0\n" +
				"reserves: 3\n" +
				"timeouts: 1\n" +
				"releases: 2\n" +
				"buries: 0\n" +
				"kicks: 0\n"))

			Expect(job).To(Equal(stats.Job{
				ID:       42,
				Tube:     "default",
				State:    stats.StateReserved,
				Priority: 1024,
				Age:      10 * time.Second,
				TTR:      60 * time.Second,
				TimeLeft: 55 * time.Second,
				Reserves: 3,
				Timeouts: 1,
				Releases: 2,
			}))
		})

		It("leaves missing keys at their zero value", func() {
			job := stats.JobFromDoc(decodeMap("---\nid: 7\nstate: buried\n"))

			Expect(job.ID).To(Equal(uint64(7)))
			Expect(job.State).To(Equal(stats.StateBuried))
			Expect(job.Tube).To(BeEmpty())
			Expect(job.TTR).To(BeZero())
		})
	})

	Describe("TubeFromDoc()", func() {
		It("maps a stats-tube document", func() {
			tube := stats.TubeFromDoc(decodeMap("---\n" +
				"name: jobs.high\n" +
				"current-jobs-urgent: 0\n" +
				"current-jobs-ready: 5\n" +
				"current-jobs-reserved: 1\n" +
				"current-jobs-delayed: 2\n" +
				"current-jobs-buried: 0\n" +
				"total-jobs: 100\n" +
				"current-using: 3\n" +
				"current-waiting: 1\n" +
				"current-watching: 4\n" +
				"pause: 0\n" +
				"cmd-delete: 90\n" +
				"cmd-pause-tube: 1\n" +
				"pause-time-left: 30\n"))

			Expect(tube).To(Equal(stats.Tube{
				Name:                "jobs.high",
				CurrentJobsReady:    5,
				CurrentJobsReserved: 1,
				CurrentJobsDelayed:  2,
				TotalJobs:           100,
				CurrentUsing:        3,
				CurrentWaiting:      1,
				CurrentWatching:     4,
				CmdDelete:           90,
				CmdPauseTube:        1,
				PauseTimeLeft:       30 * time.Second,
			}))
		})
	})

	Describe("ServerFromDoc()", func() {
		It("maps the interesting corners of a stats document", func() {
			srv := stats.ServerFromDoc(decodeMap("---\n" +
				"current-jobs-ready: 12\n" +
				"cmd-put: 1000\n" +
				"pid: 4242\n" +
				"version: 1.12\n" +
				"rusage-utime: 0.5\n" +
				"rusage-stime: 0.25\n" +
				"uptime: 3600\n" +
				"binlog-max-size: 10485760\n" +
				"draining: true\n" +
				"id: f00dfeed\n" +
				"hostname: queue-1\n" +
				"os: Linux 5.4\n" +
				"platform: x86_64\n"))

			Expect(srv.CurrentJobsReady).To(Equal(uint32(12)))
			Expect(srv.CmdPut).To(Equal(uint32(1000)))
			Expect(srv.PID).To(Equal(uint32(4242)))
			Expect(srv.Version).To(Equal("1.12"))
			Expect(srv.RusageUTime).To(Equal(0.5))
			Expect(srv.RusageSTime).To(Equal(0.25))
			Expect(srv.Uptime).To(Equal(time.Hour))
			Expect(srv.BinlogMaxSize).To(Equal(uint64(10485760)))
			Expect(srv.Draining).To(BeTrue())
			Expect(srv.ID).To(Equal("f00dfeed"))
			Expect(srv.Hostname).To(Equal("queue-1"))
			Expect(srv.OS).To(Equal("Linux 5.4"))
			Expect(srv.Platform).To(Equal("x86_64"))
		})

		It("tolerates a document with no entries", func() {
			Expect(stats.ServerFromDoc(protocol.Map{})).To(Equal(stats.Server{}))
		})
	})
})
