package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewWithClient(client, "plc_kb"), mr
}

func TestFingerprint(t *testing.T) {
	t.Run("matches the documented key format", func(t *testing.T) {
		sum := sha256.Sum256([]byte("what is a PLC?:gpt-4o:5"))
		want := "plc_kb:" + hex.EncodeToString(sum[:])
		assert.Equal(t, want, Fingerprint("plc_kb", "what is a PLC?", "gpt-4o", 5))
	})

	t.Run("is byte-identical across calls", func(t *testing.T) {
		a := Fingerprint("plc_kb", "Find reproducibles about collaborative teams", "gpt-4o", 5)
		b := Fingerprint("plc_kb", "Find reproducibles about collaborative teams", "gpt-4o", 5)
		assert.Equal(t, a, b)
	})

	t.Run("collapses surrounding and repeated whitespace", func(t *testing.T) {
		assert.Equal(t,
			Fingerprint("plc_kb", "what is  a PLC?", "gpt-4o", 5),
			Fingerprint("plc_kb", "  what is a\tPLC? \n", "gpt-4o", 5),
		)
	})

	t.Run("model and top-k are part of the key", func(t *testing.T) {
		base := Fingerprint("plc_kb", "q", "gpt-4o", 5)
		assert.NotEqual(t, base, Fingerprint("plc_kb", "q", "gpt-4o-mini", 5))
		assert.NotEqual(t, base, Fingerprint("plc_kb", "q", "gpt-4o", 6))
		assert.NotEqual(t, base, Fingerprint("other", "q", "gpt-4o", 5))
	})
}

func TestCache_RoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	key := c.Key("what is a PLC?", "gpt-4o", 5)

	err := c.Put(ctx, key, Entry{Answer: "A PLC is...", UsedWeb: true}, time.Hour)
	require.NoError(t, err)

	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A PLC is...", got.Answer)
	assert.True(t, got.UsedWeb)

	raw, err := mr.Get(key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"answer":"A PLC is...","used_web":true}`, raw)
	assert.Equal(t, time.Hour, mr.TTL(key))
}

func TestCache_DefaultTTL(t *testing.T) {
	c, mr := newTestCache(t)
	key := c.Key("q", "m", 1)

	require.NoError(t, c.Put(context.Background(), key, Entry{Answer: "a"}, 0))
	assert.Equal(t, DefaultTTL, mr.TTL(key))
}

func TestCache_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	_, ok, err := c.Get(context.Background(), c.Key("never stored", "gpt-4o", 5))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_Expiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	key := c.Key("q", "m", 5)

	require.NoError(t, c.Put(ctx, key, Entry{Answer: "a"}, time.Minute))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_CorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	key := c.Key("q", "m", 5)
	require.NoError(t, mr.Set(key, "not json"))

	_, ok, err := c.Get(context.Background(), key)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestCache_ServerDown(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "plc_kb:x")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, c.Put(ctx, "plc_kb:x", Entry{Answer: "a"}, time.Minute))
	assert.Error(t, c.Ping(ctx))
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New("not-a-url", "plc_kb")
	assert.Error(t, err)
}
