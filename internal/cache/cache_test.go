package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/skitrip/internal/cache"
	"github.com/neexbeast/skitrip/internal/forecast"
)

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewCache(client), mr
}

func sampleReport() *forecast.Report {
	return &forecast.Report{
		Days: []forecast.Day{{
			Date: "Saturday 17",
			Periods: []forecast.Period{
				{Time: forecast.SlotAM, Temp: -4, Weather: forecast.LightSnow, Snowfall: 2.5},
				{Time: forecast.SlotPM, Temp: -1, Weather: forecast.Cloudy},
				{Time: forecast.SlotNight, Temp: -9, Weather: forecast.Clear},
			},
		}},
		Snow: forecast.SnowConditions{TopDepth: 185, LastSnowfall: "14 Jan"},
	}
}

func TestCache_SetAndGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "Avoriaz", sampleReport()))

	got, err := c.Get(ctx, "Avoriaz")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Days, 1)
	assert.Equal(t, forecast.LightSnow, got.Days[0].Periods[0].Weather)
	assert.Equal(t, 2.5, got.Days[0].Periods[0].Snowfall)
	assert.Equal(t, 185, got.Snow.TopDepth)
}

func TestCache_Get_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	got, err := c.Get(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Nil(t, got, "cache miss should return nil, nil")
}

func TestCache_ResortKeyIsLowercased(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, " AVORIAZ ", sampleReport()))
	assert.True(t, mr.Exists("forecast:avoriaz"))

	got, err := c.Get(ctx, "avoriaz")
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestCache_ResortKeyIgnoresCaseAndSpace(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "Les Gets", sampleReport()))
	assert.True(t, mr.Exists("forecast:les gets"))

	for _, resort := range []string{"les gets", "LES GETS", "  Les Gets\t"} {
		got, err := c.Get(ctx, resort)
		require.NoError(t, err, resort)
		assert.NotNil(t, got, resort)
	}

	require.NoError(t, c.Delete(ctx, " les GETS "))
	assert.False(t, mr.Exists("forecast:les gets"))
}

func TestCache_ErrorsNameTheResort(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	mr.Close()

	_, err := c.Get(ctx, "Avoriaz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `reading cached forecast for "Avoriaz"`)

	err = c.Set(ctx, "Avoriaz", sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `caching forecast for "Avoriaz"`)

	err = c.Delete(ctx, "Avoriaz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `evicting cached forecast for "Avoriaz"`)
}

func TestCache_Get_CorruptValue(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("forecast:avoriaz", "{not json"))

	_, err := c.Get(context.Background(), "Avoriaz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding cached forecast")
}

func TestCache_Delete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "Avoriaz", sampleReport()))
	require.NoError(t, c.Delete(ctx, "Avoriaz"))

	got, err := c.Get(ctx, "Avoriaz")
	require.NoError(t, err)
	assert.Nil(t, got, "entry should be gone after delete")

	// Deleting a key that doesn't exist should not error.
	require.NoError(t, c.Delete(ctx, "Avoriaz"))
}

func TestCache_Set_NilReport(t *testing.T) {
	c, _ := newTestCache(t)
	require.NoError(t, c.Set(context.Background(), "Avoriaz", nil))
}

func TestCache_TTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "Avoriaz", sampleReport()))
	assert.Equal(t, cache.ForecastTTL, mr.TTL("forecast:avoriaz"))

	mr.FastForward(29 * time.Minute)
	got, err := c.Get(ctx, "Avoriaz")
	require.NoError(t, err)
	assert.NotNil(t, got, "entry should still be cached before the TTL")

	mr.FastForward(2 * time.Minute)
	got, err = c.Get(ctx, "Avoriaz")
	require.NoError(t, err)
	assert.Nil(t, got, "entry should be expired after TTL")
}

func TestConnect(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := cache.Connect(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, cache.Pinger{Client: client}.Ping(context.Background()))
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := cache.Connect(context.Background(), "not-a-url")
	require.Error(t, err)
}

func TestConnect_UnreachableServer(t *testing.T) {
	_, err := cache.Connect(context.Background(), "redis://localhost:19999")
	require.Error(t, err)
}
