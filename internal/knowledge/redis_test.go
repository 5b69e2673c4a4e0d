package knowledge

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedInsight() Insight {
	return Insight{
		ID:        "ins-1",
		Source:    "reputation-engine",
		Kind:      KindSentimentAnalysis,
		Payload:   json.RawMessage(`{"score":42}`),
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRedisStore_Append(t *testing.T) {
	client, mock := redismock.NewClientMock()
	s := NewRedisStore(client, 100)

	insight := fixedInsight()
	raw, err := json.Marshal(insight)
	require.NoError(t, err)

	mock.ExpectLPush(redisKey, raw).SetVal(1)
	mock.ExpectLTrim(redisKey, 0, 99).SetVal("OK")

	require.NoError(t, s.Append(context.Background(), insight))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Recent(t *testing.T) {
	client, mock := redismock.NewClientMock()
	s := NewRedisStore(client, 100)

	insight := fixedInsight()
	raw, err := json.Marshal(insight)
	require.NoError(t, err)

	mock.ExpectLRange(redisKey, 0, 4).SetVal([]string{string(raw)})

	got, err := s.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, insight.ID, got[0].ID)
	assert.Equal(t, insight.Kind, got[0].Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_RecentDecodeError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	s := NewRedisStore(client, 100)

	mock.ExpectLRange(redisKey, 0, 0).SetVal([]string{"not-json"})

	_, err := s.Recent(context.Background(), 1)
	assert.Error(t, err)
}
