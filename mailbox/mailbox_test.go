package mailbox_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidlabs/actorhsm/mailbox"
)

func TestTrySendFullThenDrain(t *testing.T) {
	sender, receiver := mailbox.New[int](2)

	require.NoError(t, sender.TrySend(1))
	require.NoError(t, sender.TrySend(2))

	err := sender.TrySend(3)
	require.Error(t, err)
	var sendErr *mailbox.SendError[int]
	require.ErrorAs(t, err, &sendErr)
	assert.Equal(t, mailbox.Full, sendErr.Kind)
	assert.Equal(t, 3, sendErr.Msg)

	msg, ok := receiver.TryRecv()
	require.True(t, ok)
	assert.Equal(t, 1, msg)

	require.NoError(t, sender.TrySend(3))
}

func TestSendAwaitsSpaceThenCompletes(t *testing.T) {
	sender, receiver := mailbox.New[int](2)
	require.NoError(t, sender.TrySend(1))
	require.NoError(t, sender.TrySend(2))

	done := make(chan error, 1)
	go func() {
		done <- sender.Send(context.Background(), 3)
	}()

	select {
	case <-done:
		t.Fatal("Send returned before space was freed")
	case <-time.After(20 * time.Millisecond):
	}

	msg, ok := receiver.TryRecv()
	require.True(t, ok)
	assert.Equal(t, 1, msg)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Send never completed after space freed")
	}
}

func TestCloseProducesClosedSendError(t *testing.T) {
	sender, receiver := mailbox.New[int](2)
	require.NoError(t, sender.TrySend(1))
	require.NoError(t, sender.TrySend(2))
	receiver.Close()

	_, ok := receiver.TryRecv()
	require.True(t, ok) // buffered message 1 still delivers

	err := sender.Send(context.Background(), 3)
	require.Error(t, err)
	var sendErr *mailbox.SendError[int]
	require.ErrorAs(t, err, &sendErr)
	assert.Equal(t, mailbox.Closed, sendErr.Kind)
}

func TestRecvCanceledByContext(t *testing.T) {
	_, receiver := mailbox.New[int](1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, ok := receiver.Recv(ctx)
	assert.False(t, ok)
}
