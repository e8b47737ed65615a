package ingress

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"

	"github.com/whodunit/parlor/pkg/server/protocol"
)

func dialTestServer(t *testing.T, ctx context.Context) (*websocket.Conn, *WSIngress) {
	t.Helper()

	server := NewWSIngress()
	httpServer := httptest.NewServer(server)
	t.Cleanup(httpServer.Close)

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(httpServer.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close(websocket.StatusNormalClosure, "")
	})
	return conn, server
}

func awaitClient(t *testing.T, ctx context.Context, server *WSIngress) *Client {
	t.Helper()
	select {
	case client := <-server.ReceiveClients():
		return client
	case <-ctx.Done():
		t.Fatal("no client came through the ingress")
		return nil
	}
}

func TestFramesAreDecodedIntoMessages(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, server := dialTestServer(t, ctx)
	client := awaitClient(t, ctx, server)

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`{"op":"end_turn"}`)))

	select {
	case message := <-client.Receive():
		assert.Equal(t, protocol.EndTurnOp, message.InboundOp())
	case <-ctx.Done():
		t.Fatal("frame never reached the consumer")
	}
}

func TestGarbageFramesAnswerWithoutClosing(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, server := dialTestServer(t, ctx)
	client := awaitClient(t, ctx, server)

	// An unknown op comes straight back as an error frame; the connection
	// stays up and later frames still go through.
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`{"op":"dance"}`)))

	typ, frame, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageText, typ)
	assert.Contains(t, string(frame), protocol.KindBadRequest)

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`{"op":"end_turn"}`)))
	select {
	case message := <-client.Receive():
		assert.Equal(t, protocol.EndTurnOp, message.InboundOp())
	case <-ctx.Done():
		t.Fatal("connection died on a bad frame")
	}
}

func TestSendReachesTheWire(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, server := dialTestServer(t, ctx)
	client := awaitClient(t, ctx, server)

	client.Send(protocol.ErrorMessage{
		Op:      protocol.ErrorOp,
		Kind:    "not_your_turn",
		Message: "it is not your turn",
	})

	typ, frame, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageText, typ)
	assert.Contains(t, string(frame), `"op":"error"`)
	assert.Contains(t, string(frame), "not_your_turn")
}

func TestDisconnectEndsTheClientSession(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, server := dialTestServer(t, ctx)
	client := awaitClient(t, ctx, server)

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, "done"))

	select {
	case <-client.Session().Ctx().Done():
	case <-ctx.Done():
		t.Fatal("session survived the disconnect")
	}
}
