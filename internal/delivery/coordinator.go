package delivery

import (
	"context"

	"go.uber.org/zap"

	"github.com/jask/practicum/internal/export"
)

// Report is the outcome of one delivery.
type Report struct {
	RunID     string
	Filename  string
	Remote    string // sink name, empty when no remote is configured
	RemoteErr error
	LocalPath string
	LocalErr  error
	EncodeErr error
}

// RemoteOK reports whether a configured remote accepted the export.
func (r Report) RemoteOK() bool {
	return r.Remote != "" && r.RemoteErr == nil && r.EncodeErr == nil
}

// Saved reports whether the local copy was written.
func (r Report) Saved() bool {
	return r.LocalPath != "" && r.LocalErr == nil
}

// Coordinator runs the remote attempt followed by the local save.
type Coordinator struct {
	Remote Sink // may be nil
	Local  LocalSaver
	Log    *zap.Logger
}

func NewCoordinator(remote Sink, local LocalSaver, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{Remote: remote, Local: local, Log: log}
}

// Deliver encodes a once, makes a single remote attempt when a sink is set,
// then saves locally whatever the remote outcome was. An encoding failure
// stops everything.
func (c *Coordinator) Deliver(ctx context.Context, a *export.Artifact) Report {
	log := c.logger().With(zap.String("run_id", a.RunID), zap.String("filename", a.Filename))
	rep := Report{RunID: a.RunID, Filename: a.Filename}

	data, err := a.Encode()
	if err != nil {
		log.Error("encode export", zap.Error(err))
		rep.EncodeErr = err
		return rep
	}
	p := Payload{RunID: a.RunID, Filename: a.Filename, MIMEType: a.MIMEType, Data: data}

	if c.Remote != nil {
		rep.Remote = c.Remote.Name()
		if err := c.Remote.Send(ctx, p); err != nil {
			log.Warn("remote delivery failed", zap.String("sink", rep.Remote), zap.Error(err))
			rep.RemoteErr = err
		} else {
			log.Info("remote delivery ok", zap.String("sink", rep.Remote), zap.Int("bytes", len(data)))
		}
	}

	path, err := c.Local.Save(a.Filename, data)
	if err != nil {
		log.Error("local save failed", zap.Error(err))
		rep.LocalErr = err
		return rep
	}
	rep.LocalPath = path
	log.Info("export saved", zap.String("path", path))
	return rep
}

// Submit runs Deliver in the background. The channel yields exactly one
// report and is then closed.
func (c *Coordinator) Submit(ctx context.Context, a *export.Artifact) <-chan Report {
	done := make(chan Report, 1)
	go func() {
		defer close(done)
		done <- c.Deliver(ctx, a)
	}()
	return done
}

func (c *Coordinator) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}
