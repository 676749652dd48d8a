// Package stats maps decoded statistics documents onto typed records.
//
// Every record mirrors one document shape key for key. Conversion is
// tolerant: a key that is missing or holds an unexpected scalar kind
// leaves its field at the zero value, so records survive servers that
// are older or newer than this package.
package stats

import (
	"time"

	"github.com/maxleiko/bsc/protocol"
)

// State is the lifecycle position of a job.
type State string

const (
	StateReady    State = "ready"
	StateDelayed  State = "delayed"
	StateReserved State = "reserved"
	StateBuried   State = "buried"
)

// Job is the stats-job document for a single job.
type Job struct {
	ID       uint64 `json:"id"`
	Tube     string `json:"tube"`
	State    State  `json:"state"`
	Priority uint32 `json:"pri"`

	Age   time.Duration `json:"age"`
	Delay time.Duration `json:"delay"`
	TTR   time.Duration `json:"ttr"`

	// TimeLeft is only meaningful while the job is reserved or delayed.
	TimeLeft time.Duration `json:"time-left"`

	// File is the number of the earliest binlog file containing the job,
	// zero when the server runs without a binlog.
	File uint32 `json:"file"`

	Reserves uint32 `json:"reserves"`
	Timeouts uint32 `json:"timeouts"`
	Releases uint32 `json:"releases"`
	Buries   uint32 `json:"buries"`
	Kicks    uint32 `json:"kicks"`
}

// JobFromDoc builds a Job from a decoded stats-job document.
func JobFromDoc(doc protocol.Map) Job {
	return Job{
		ID:       docUint(doc, "id"),
		Tube:     docText(doc, "tube"),
		State:    State(docText(doc, "state")),
		Priority: uint32(docUint(doc, "pri")),
		Age:      docSeconds(doc, "age"),
		Delay:    docSeconds(doc, "delay"),
		TTR:      docSeconds(doc, "ttr"),
		TimeLeft: docSeconds(doc, "time-left"),
		File:     uint32(docUint(doc, "file")),
		Reserves: uint32(docUint(doc, "reserves")),
		Timeouts: uint32(docUint(doc, "timeouts")),
		Releases: uint32(docUint(doc, "releases")),
		Buries:   uint32(docUint(doc, "buries")),
		Kicks:    uint32(docUint(doc, "kicks")),
	}
}

// Tube is the stats-tube document for a single tube.
type Tube struct {
	Name string `json:"name"`

	// CurrentJobsUrgent counts ready jobs with priority below 1024.
	CurrentJobsUrgent   uint32 `json:"current-jobs-urgent"`
	CurrentJobsReady    uint32 `json:"current-jobs-ready"`
	CurrentJobsReserved uint32 `json:"current-jobs-reserved"`
	CurrentJobsDelayed  uint32 `json:"current-jobs-delayed"`
	CurrentJobsBuried   uint32 `json:"current-jobs-buried"`

	TotalJobs       uint32 `json:"total-jobs"`
	CurrentUsing    uint32 `json:"current-using"`
	CurrentWaiting  uint32 `json:"current-waiting"`
	CurrentWatching uint32 `json:"current-watching"`

	Pause         time.Duration `json:"pause"`
	CmdDelete     uint32        `json:"cmd-delete"`
	CmdPauseTube  uint32        `json:"cmd-pause-tube"`
	PauseTimeLeft time.Duration `json:"pause-time-left"`
}

// TubeFromDoc builds a Tube from a decoded stats-tube document.
func TubeFromDoc(doc protocol.Map) Tube {
	return Tube{
		Name:                docText(doc, "name"),
		CurrentJobsUrgent:   uint32(docUint(doc, "current-jobs-urgent")),
		CurrentJobsReady:    uint32(docUint(doc, "current-jobs-ready")),
		CurrentJobsReserved: uint32(docUint(doc, "current-jobs-reserved")),
		CurrentJobsDelayed:  uint32(docUint(doc, "current-jobs-delayed")),
		CurrentJobsBuried:   uint32(docUint(doc, "current-jobs-buried")),
		TotalJobs:           uint32(docUint(doc, "total-jobs")),
		CurrentUsing:        uint32(docUint(doc, "current-using")),
		CurrentWaiting:      uint32(docUint(doc, "current-waiting")),
		CurrentWatching:     uint32(docUint(doc, "current-watching")),
		Pause:               docSeconds(doc, "pause"),
		CmdDelete:           uint32(docUint(doc, "cmd-delete")),
		CmdPauseTube:        uint32(docUint(doc, "cmd-pause-tube")),
		PauseTimeLeft:       docSeconds(doc, "pause-time-left"),
	}
}

// Server is the server-wide stats document.
type Server struct {
	CurrentJobsUrgent   uint32 `json:"current-jobs-urgent"`
	CurrentJobsReady    uint32 `json:"current-jobs-ready"`
	CurrentJobsReserved uint32 `json:"current-jobs-reserved"`
	CurrentJobsDelayed  uint32 `json:"current-jobs-delayed"`
	CurrentJobsBuried   uint32 `json:"current-jobs-buried"`

	CmdPut              uint32 `json:"cmd-put"`
	CmdPeek             uint32 `json:"cmd-peek"`
	CmdPeekReady        uint32 `json:"cmd-peek-ready"`
	CmdPeekDelayed      uint32 `json:"cmd-peek-delayed"`
	CmdPeekBuried       uint32 `json:"cmd-peek-buried"`
	CmdReserve          uint32 `json:"cmd-reserve"`
	CmdUse              uint32 `json:"cmd-use"`
	CmdWatch            uint32 `json:"cmd-watch"`
	CmdIgnore           uint32 `json:"cmd-ignore"`
	CmdDelete           uint32 `json:"cmd-delete"`
	CmdRelease          uint32 `json:"cmd-release"`
	CmdBury             uint32 `json:"cmd-bury"`
	CmdKick             uint32 `json:"cmd-kick"`
	CmdStats            uint32 `json:"cmd-stats"`
	CmdStatsJob         uint32 `json:"cmd-stats-job"`
	CmdStatsTube        uint32 `json:"cmd-stats-tube"`
	CmdListTubes        uint32 `json:"cmd-list-tubes"`
	CmdListTubeUsed     uint32 `json:"cmd-list-tube-used"`
	CmdListTubesWatched uint32 `json:"cmd-list-tubes-watched"`
	CmdPauseTube        uint32 `json:"cmd-pause-tube"`

	JobTimeouts uint32 `json:"job-timeouts"`
	TotalJobs   uint32 `json:"total-jobs"`
	MaxJobSize  uint32 `json:"max-job-size"`

	CurrentTubes       uint32 `json:"current-tubes"`
	CurrentConnections uint32 `json:"current-connections"`
	CurrentProducers   uint32 `json:"current-producers"`
	CurrentWorkers     uint32 `json:"current-workers"`
	CurrentWaiting     uint32 `json:"current-waiting"`
	TotalConnections   uint32 `json:"total-connections"`

	PID     uint32 `json:"pid"`
	Version string `json:"version"`

	// CPU time split the way getrusage reports it.
	RusageUTime float64 `json:"rusage-utime"`
	RusageSTime float64 `json:"rusage-stime"`

	Uptime time.Duration `json:"uptime"`

	BinlogOldestIndex     uint64 `json:"binlog-oldest-index"`
	BinlogCurrentIndex    uint64 `json:"binlog-current-index"`
	BinlogMaxSize         uint64 `json:"binlog-max-size"`
	BinlogRecordsWritten  uint64 `json:"binlog-records-written"`
	BinlogRecordsMigrated uint64 `json:"binlog-records-migrated"`

	Draining bool `json:"draining"`

	// ID is regenerated every time the server process starts.
	ID       string `json:"id"`
	Hostname string `json:"hostname"`
	OS       string `json:"os"`
	Platform string `json:"platform"`
}

// ServerFromDoc builds a Server from a decoded stats document.
func ServerFromDoc(doc protocol.Map) Server {
	return Server{
		CurrentJobsUrgent:     uint32(docUint(doc, "current-jobs-urgent")),
		CurrentJobsReady:      uint32(docUint(doc, "current-jobs-ready")),
		CurrentJobsReserved:   uint32(docUint(doc, "current-jobs-reserved")),
		CurrentJobsDelayed:    uint32(docUint(doc, "current-jobs-delayed")),
		CurrentJobsBuried:     uint32(docUint(doc, "current-jobs-buried")),
		CmdPut:                uint32(docUint(doc, "cmd-put")),
		CmdPeek:               uint32(docUint(doc, "cmd-peek")),
		CmdPeekReady:          uint32(docUint(doc, "cmd-peek-ready")),
		CmdPeekDelayed:        uint32(docUint(doc, "cmd-peek-delayed")),
		CmdPeekBuried:         uint32(docUint(doc, "cmd-peek-buried")),
		CmdReserve:            uint32(docUint(doc, "cmd-reserve")),
		CmdUse:                uint32(docUint(doc, "cmd-use")),
		CmdWatch:              uint32(docUint(doc, "cmd-watch")),
		CmdIgnore:             uint32(docUint(doc, "cmd-ignore")),
		CmdDelete:             uint32(docUint(doc, "cmd-delete")),
		CmdRelease:            uint32(docUint(doc, "cmd-release")),
		CmdBury:               uint32(docUint(doc, "cmd-bury")),
		CmdKick:               uint32(docUint(doc, "cmd-kick")),
		CmdStats:              uint32(docUint(doc, "cmd-stats")),
		CmdStatsJob:           uint32(docUint(doc, "cmd-stats-job")),
		CmdStatsTube:          uint32(docUint(doc, "cmd-stats-tube")),
		CmdListTubes:          uint32(docUint(doc, "cmd-list-tubes")),
		CmdListTubeUsed:       uint32(docUint(doc, "cmd-list-tube-used")),
		CmdListTubesWatched:   uint32(docUint(doc, "cmd-list-tubes-watched")),
		CmdPauseTube:          uint32(docUint(doc, "cmd-pause-tube")),
		JobTimeouts:           uint32(docUint(doc, "job-timeouts")),
		TotalJobs:             uint32(docUint(doc, "total-jobs")),
		MaxJobSize:            uint32(docUint(doc, "max-job-size")),
		CurrentTubes:          uint32(docUint(doc, "current-tubes")),
		CurrentConnections:    uint32(docUint(doc, "current-connections")),
		CurrentProducers:      uint32(docUint(doc, "current-producers")),
		CurrentWorkers:        uint32(docUint(doc, "current-workers")),
		CurrentWaiting:        uint32(docUint(doc, "current-waiting")),
		TotalConnections:      uint32(docUint(doc, "total-connections")),
		PID:                   uint32(docUint(doc, "pid")),
		Version:               docText(doc, "version"),
		RusageUTime:           docFloat(doc, "rusage-utime"),
		RusageSTime:           docFloat(doc, "rusage-stime"),
		Uptime:                docSeconds(doc, "uptime"),
		BinlogOldestIndex:     docUint(doc, "binlog-oldest-index"),
		BinlogCurrentIndex:    docUint(doc, "binlog-current-index"),
		BinlogMaxSize:         docUint(doc, "binlog-max-size"),
		BinlogRecordsWritten:  docUint(doc, "binlog-records-written"),
		BinlogRecordsMigrated: docUint(doc, "binlog-records-migrated"),
		Draining:              docBool(doc, "draining"),
		ID:                    docText(doc, "id"),
		Hostname:              docText(doc, "hostname"),
		OS:                    docText(doc, "os"),
		Platform:              docText(doc, "platform"),
	}
}

func docUint(doc protocol.Map, key string) uint64 {
	s, ok := doc[key]
	if !ok || s.Kind != protocol.ScalarInt {
		return 0
	}

	return s.Uint
}

// docText renders any scalar kind, so a version like 1.12 that decodes
// as a float still comes back as text.
func docText(doc protocol.Map, key string) string {
	s, ok := doc[key]
	if !ok {
		return ""
	}

	return s.String()
}

func docBool(doc protocol.Map, key string) bool {
	s, ok := doc[key]
	if !ok || s.Kind != protocol.ScalarBool {
		return false
	}

	return s.Bool
}

func docFloat(doc protocol.Map, key string) float64 {
	s, ok := doc[key]
	if !ok {
		return 0
	}

	switch s.Kind {
	case protocol.ScalarFloat:
		return s.Float
	case protocol.ScalarInt:
		return float64(s.Uint)
	}

	return 0
}

func docSeconds(doc protocol.Map, key string) time.Duration {
	return time.Duration(docUint(doc, key)) * time.Second
}
