package reminder

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"lexicards/internal/deck"
	"lexicards/internal/domain"
	"lexicards/internal/service"
	"lexicards/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStats(repo *testutil.MockStateRepository) *service.StatsService {
	d := deck.NewDeck([]domain.VocabEntry{
		testutil.NewTestEntry("Venom", "poison"),
		testutil.NewTestEntry("Thickset", "stocky"),
		testutil.NewTestEntry("Abridge", "shorten"),
	})
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	return service.NewStatsService(d, repo, testutil.FixedClock(now), testutil.NewTestLogger())
}

func isTelegram(key string) bool {
	return strings.HasPrefix(key, "tg:")
}

func TestReminder_CheckAndNotify(t *testing.T) {
	repo := new(testutil.MockStateRepository)
	repo.On("Keys", mock.Anything).Return([]string{"tg:1", "tg:2", "tg:3", "tg:4", "web:alice"}, nil)
	repo.On("Load", mock.Anything, "tg:1").Return(map[string]domain.ReviewState{
		"venom":    testutil.NewTestState(1, 1, "2025-06-15"),
		"abridge":  testutil.NewTestState(0, 1, "2025-06-14"),
		"thickset": testutil.NewTestState(2, 6, "2025-06-20"),
	}, nil)
	repo.On("Load", mock.Anything, "tg:2").Return(map[string]domain.ReviewState{
		"venom": testutil.NewTestState(2, 6, "2025-06-18"),
	}, nil)
	repo.On("Load", mock.Anything, "tg:3").Return(nil, fmt.Errorf("db error"))
	repo.On("Load", mock.Anything, "tg:4").Return(map[string]domain.ReviewState{
		"venom": testutil.NewTestState(1, 1, "2025-06-15"),
	}, nil)

	notifier := new(testutil.MockNotifier)
	for _, key := range []string{"tg:1", "tg:2", "tg:3", "tg:4", "web:alice"} {
		notifier.On("Accepts", key).Return(isTelegram(key))
	}
	notifier.On("NotifyDue", "tg:1", 2).Return(nil)
	notifier.On("NotifyDue", "tg:4", 1).Return(fmt.Errorf("bot was blocked by the user"))

	r := New("0 9 * * *", newStats(repo), notifier, testutil.NewTestLogger())
	sent, err := r.CheckAndNotify(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	notifier.AssertExpectations(t)
	notifier.AssertNotCalled(t, "NotifyDue", "tg:2", mock.Anything)
	repo.AssertNotCalled(t, "Load", mock.Anything, "web:alice")
}

func TestReminder_CheckAndNotifyKeysError(t *testing.T) {
	repo := new(testutil.MockStateRepository)
	repo.On("Keys", mock.Anything).Return(nil, fmt.Errorf("db error"))

	r := New("0 9 * * *", newStats(repo), new(testutil.MockNotifier), testutil.NewTestLogger())
	sent, err := r.CheckAndNotify(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 0, sent)
}

func TestReminder_StartStop(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{name: "daily", spec: "0 9 * * *"},
		{name: "every hour", spec: "0 * * * *"},
		{name: "malformed", spec: "not a cron line", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(testutil.MockStateRepository)
			r := New(tt.spec, newStats(repo), new(testutil.MockNotifier), testutil.NewTestLogger())

			err := r.Start()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			r.Stop()
		})
	}
}
