package channel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wirelink-io/wirelink/transport"
)

type recordingSink struct {
	frames []transport.Frame
	opened int
	closed int
}

func (s *recordingSink) HandleFrame(frame transport.Frame) { s.frames = append(s.frames, frame) }
func (s *recordingSink) ConnectionOpened()                 { s.opened++ }
func (s *recordingSink) ConnectionClosed(err error)        { s.closed++ }

func TestLoopbackEchoesToOwnSink(t *testing.T) {
	e := Loopback()
	sink := &recordingSink{}
	require.NoError(t, e.Open(context.Background(), sink))
	assert.Equal(t, 1, sink.opened)

	require.NoError(t, e.Send(transport.Frame{Data: []byte("hello")}))

	require.Len(t, sink.frames, 1)
	assert.Equal(t, []byte("hello"), sink.frames[0].Data)
}

func TestPipeDeliversToPeer(t *testing.T) {
	a, b := Pipe()
	sinkA := &recordingSink{}
	sinkB := &recordingSink{}
	require.NoError(t, a.Open(context.Background(), sinkA))
	require.NoError(t, b.Open(context.Background(), sinkB))

	require.NoError(t, a.Send(transport.Frame{Binary: true, Data: []byte{1, 2}}))
	require.NoError(t, b.Send(transport.Frame{Data: []byte("reply")}))

	require.Len(t, sinkB.frames, 1)
	assert.True(t, sinkB.frames[0].Binary)
	require.Len(t, sinkA.frames, 1)
	assert.Equal(t, []byte("reply"), sinkA.frames[0].Data)
}

func TestSendToUnopenedPeerFails(t *testing.T) {
	a, _ := Pipe()
	sinkA := &recordingSink{}
	require.NoError(t, a.Open(context.Background(), sinkA))

	err := a.Send(transport.Frame{Data: []byte("x")})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "peer is not connected")
}

func TestCloseNotifiesBothSinks(t *testing.T) {
	a, b := Pipe()
	sinkA := &recordingSink{}
	sinkB := &recordingSink{}
	require.NoError(t, a.Open(context.Background(), sinkA))
	require.NoError(t, b.Open(context.Background(), sinkB))

	require.NoError(t, a.Close())
	assert.Equal(t, 1, sinkA.closed)
	assert.Equal(t, 1, sinkB.closed)

	// Closed endpoints reject further traffic, and a second close is a no-op.
	assert.Error(t, b.Send(transport.Frame{Data: []byte("x")}))
	require.NoError(t, b.Close())
	assert.Equal(t, 1, sinkB.closed)
}

func TestOpenAfterCloseFails(t *testing.T) {
	e := Loopback()
	require.NoError(t, e.Close())

	err := e.Open(context.Background(), &recordingSink{})
	assert.Error(t, err)
}

func TestTransportIsRegistered(t *testing.T) {
	assert.True(t, transport.DefaultRegistry.Has(TransportName))
}
