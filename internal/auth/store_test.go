package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/libconsole/internal/domain/user"
)

func adminSession() *user.Session {
	return &user.Session{
		AccessToken: "mock-token-1",
		User: &user.Profile{
			ID:       "1",
			Username: "admin",
			Nickname: "管理员",
			Status:   user.StatusEnabled,
			Roles:    []string{user.RoleAdmin},
		},
	}
}

func TestStore_SetAndClear(t *testing.T) {
	backend := NewMemoryBackend()
	s := NewStore(backend)

	events := 0
	unsubscribe := s.Subscribe(func() { events++ })

	t.Run("未登录", func(t *testing.T) {
		assert.Empty(t, s.Token())
		assert.Nil(t, s.User())
		assert.False(t, s.IsAuthenticated())
		assert.False(t, s.HasRole(user.RoleAdmin))
	})

	t.Run("保存会话", func(t *testing.T) {
		require.NoError(t, s.SetAuth(adminSession()))
		assert.Equal(t, 1, events)
		assert.Equal(t, "mock-token-1", s.Token())
		assert.True(t, s.IsAuthenticated())
		assert.True(t, s.HasRole(user.RoleAdmin))
		assert.True(t, s.HasAnyRole(user.RoleReader, user.RoleAdmin))
		assert.False(t, s.HasAnyRole())
		assert.Equal(t, "admin", s.User().Username)

		raw, ok, _ := backend.Get(context.Background(), DefaultUserKey)
		require.True(t, ok)
		assert.Contains(t, raw, `"roles":["ADMIN"]`)
	})

	t.Run("只保存出现的部分", func(t *testing.T) {
		require.NoError(t, s.SetAuth(&user.Session{AccessToken: "mock-token-9"}))
		assert.Equal(t, "mock-token-9", s.Token())
		assert.Equal(t, "admin", s.User().Username)
		assert.Equal(t, 2, events)
	})

	t.Run("nil会话不触发通知", func(t *testing.T) {
		require.NoError(t, s.SetAuth(nil))
		assert.Equal(t, 2, events)
	})

	t.Run("清除是幂等的", func(t *testing.T) {
		require.NoError(t, s.ClearAuth())
		require.NoError(t, s.ClearAuth())
		assert.Equal(t, 4, events)
		assert.Empty(t, s.Token())
		assert.Nil(t, s.User())
	})

	t.Run("取消订阅", func(t *testing.T) {
		unsubscribe()
		unsubscribe()
		require.NoError(t, s.SetAuth(adminSession()))
		assert.Equal(t, 4, events)
	})
}

func TestStore_CorruptProfile(t *testing.T) {
	backend := NewMemoryBackend()
	s := NewStore(backend)
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, DefaultTokenKey, "mock-token-1"))
	require.NoError(t, backend.Set(ctx, DefaultUserKey, "{not json"))

	assert.Nil(t, s.User())
	_, ok, _ := backend.Get(ctx, DefaultUserKey)
	assert.False(t, ok, "损坏的快照应被清除")
	assert.True(t, s.IsAuthenticated(), "令牌不受影响")
}

func TestStore_CustomKeys(t *testing.T) {
	backend := NewMemoryBackend()
	s := NewStore(backend, WithKeys("tok", ""))
	require.NoError(t, s.SetAuth(adminSession()))

	_, ok, _ := backend.Get(context.Background(), "tok")
	assert.True(t, ok)
	_, ok, _ = backend.Get(context.Background(), DefaultUserKey)
	assert.True(t, ok)
}

type failingBackend struct{ MemoryBackend }

func (*failingBackend) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("backend down")
}

func (*failingBackend) Set(context.Context, string, string) error {
	return errors.New("backend down")
}

func TestStore_BackendFailure(t *testing.T) {
	s := NewStore(&failingBackend{})
	events := 0
	s.Subscribe(func() { events++ })

	assert.Empty(t, s.Token(), "读取失败视为未登录")
	assert.Error(t, s.SetAuth(adminSession()))
	assert.Equal(t, 0, events, "写入失败不通知")
}

func TestStore_ListenerCanReadStore(t *testing.T) {
	s := NewStore(NewMemoryBackend())
	var seen string
	s.Subscribe(func() { seen = s.Token() })
	require.NoError(t, s.SetAuth(adminSession()))
	assert.Equal(t, "mock-token-1", seen)
}

func TestFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	ctx := context.Background()

	t.Run("跨实例保留会话", func(t *testing.T) {
		require.NoError(t, NewStore(NewFileBackend(path)).SetAuth(adminSession()))

		restored := NewStore(NewFileBackend(path))
		assert.Equal(t, "mock-token-1", restored.Token())
		assert.Equal(t, "管理员", restored.User().Nickname)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("清除后文件为空对象", func(t *testing.T) {
		require.NoError(t, NewStore(NewFileBackend(path)).ClearAuth())
		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(raw))
	})

	t.Run("文件不存在视为空", func(t *testing.T) {
		b := NewFileBackend(filepath.Join(t.TempDir(), "missing.json"))
		_, ok, err := b.Get(ctx, DefaultTokenKey)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("损坏的文件读取报错写入重建", func(t *testing.T) {
		broken := filepath.Join(t.TempDir(), "broken.json")
		require.NoError(t, os.WriteFile(broken, []byte("garbage"), 0o600))
		b := NewFileBackend(broken)

		_, _, err := b.Get(ctx, DefaultTokenKey)
		assert.Error(t, err)

		require.NoError(t, b.Set(ctx, DefaultTokenKey, "t"))
		v, ok, err := b.Get(ctx, DefaultTokenKey)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "t", v)
	})
}
