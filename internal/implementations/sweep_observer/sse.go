package sweepobserver

import (
	"context"
	"encoding/json"
	e "remindbot/internal/core/domain/errors"
	"remindbot/internal/core/domain/sweep"

	"github.com/r3labs/sse/v2"
)

const (
	SweepStream = "sweeps"
	sweepEvent  = "sweep"
)

// SSEPublisher publishes sweep summaries to the "sweeps" stream of an SSE
// server.
type SSEPublisher struct {
	server *sse.Server
}

func NewSSEPublisher(server *sse.Server) *SSEPublisher {
	if server == nil {
		panic(e.NewNilArgumentError("server"))
	}
	if !server.StreamExists(SweepStream) {
		server.CreateStream(SweepStream)
	}
	return &SSEPublisher{server: server}
}

func (p *SSEPublisher) SweepFinished(ctx context.Context, s sweep.Summary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	p.server.Publish(SweepStream, &sse.Event{Event: []byte(sweepEvent), Data: data})
	return nil
}
