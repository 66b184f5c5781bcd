package buildpipeline

import "time"

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// FuncSink adapts a function.
type FuncSink func(Event)

func (f FuncSink) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

// TimingSink records the elapsed time of finished events into Timings and
// passes everything on to Next.
type TimingSink struct {
	Timings *Timings
	Next    ProgressSink
}

func (s TimingSink) OnEvent(evt Event) {
	if evt.File == "" && evt.Elapsed > 0 && (evt.Status == StatusDone || evt.Status == StatusError) {
		s.Timings.Add(evt.Stage, evt.Elapsed)
	}
	if s.Next != nil {
		s.Next.OnEvent(evt)
	}
}

// Emit sends one event; a nil sink is allowed.
func Emit(sink ProgressSink, file string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}

// EmitQueued marks every file as queued.
func EmitQueued(sink ProgressSink, files []string) {
	for _, f := range files {
		Emit(sink, f, StageParse, StatusQueued, nil, 0)
	}
}

// EmitStage moves every file to stage/status.
func EmitStage(sink ProgressSink, files []string, stage Stage, status Status, err error) {
	for _, f := range files {
		Emit(sink, f, stage, status, err, 0)
	}
}
