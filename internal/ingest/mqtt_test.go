package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"scale-monitor-backend/internal/apperr"
)

func TestNewSubscriber_Pattern(t *testing.T) {
	svc := NewService(&fakeStore{}, zap.NewNop())

	_, err := NewSubscriber(svc, "scales/+/weight", zap.NewNop())
	assert.NoError(t, err)

	for _, bad := range []string{"scales/weight", "scales/+/+/weight", "scales/#"} {
		_, err := NewSubscriber(svc, bad, zap.NewNop())
		assert.Error(t, err, bad)
	}
}

func TestSubscriber_DeviceID(t *testing.T) {
	sub, err := NewSubscriber(NewService(&fakeStore{}, zap.NewNop()), "scales/+/weight", zap.NewNop())
	require.NoError(t, err)

	id, err := sub.DeviceID("scales/SCALE-001/weight")
	require.NoError(t, err)
	assert.Equal(t, "SCALE-001", id)

	for _, bad := range []string{"scales/SCALE-001/battery", "scales//weight", "other/SCALE-001/weight", "scales/SCALE-001"} {
		_, err := sub.DeviceID(bad)
		assert.Error(t, err, bad)
	}
}

func TestSubscriber_HandleMessage(t *testing.T) {
	store := newFakeStore(t)
	sub, err := NewSubscriber(NewService(store, zap.NewNop()), "scales/+/weight", zap.NewNop())
	require.NoError(t, err)

	err = sub.HandleMessage("scales/SCALE-001/weight", []byte(`{"deviceKey":"devkey-001","timestamp":"2024-01-01T00:00:00Z","weight":4.1,"battery":90}`))
	require.NoError(t, err)
	require.Len(t, store.created, 1)
	assert.Equal(t, "north", store.created[0].BranchID)
	require.NotNil(t, store.created[0].Battery)
	assert.Equal(t, 90.0, *store.created[0].Battery)

	err = sub.HandleMessage("scales/SCALE-001/weight", []byte(`{"deviceKey":"wrong","timestamp":"2024-01-01T00:00:00Z","weight":4.1}`))
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	err = sub.HandleMessage("scales/SCALE-001/weight", []byte(`not json`))
	assert.Error(t, err)
	assert.Len(t, store.created, 1)
}
