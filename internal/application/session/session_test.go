package session

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/libconsole/internal/auth"
	"github.com/xiebiao/libconsole/internal/client"
	"github.com/xiebiao/libconsole/internal/dispatcher"
	"github.com/xiebiao/libconsole/internal/domain/user"
	"github.com/xiebiao/libconsole/internal/dto"
	"github.com/xiebiao/libconsole/internal/engine"
	"github.com/xiebiao/libconsole/internal/infrastructure/persistence/memory"
)

func newService(t *testing.T) (*Service, *auth.Store) {
	t.Helper()
	store, err := memory.NewStore(bcrypt.MinCost)
	require.NoError(t, err)
	sessions := auth.NewStore(auth.NewMemoryBackend())
	d := dispatcher.New(
		dispatcher.NewMockTransport(engine.New(store, engine.WithLatency(0))),
		sessions,
		dispatcher.WithNotifier(&dispatcher.Recorder{}),
	)
	return NewService(client.New(d), sessions, zerolog.Nop()), sessions
}

func TestService_Login(t *testing.T) {
	svc, sessions := newService(t)
	ctx := context.Background()

	changes := 0
	unsubscribe := sessions.Subscribe(func() { changes++ })
	defer unsubscribe()

	t.Run("登录成功写入会话", func(t *testing.T) {
		session, err := svc.Login(ctx, "admin", "admin")
		require.NoError(t, err)
		assert.Equal(t, session.AccessToken, sessions.Token())
		assert.True(t, sessions.HasRole(user.RoleAdmin))
		assert.Equal(t, "admin", svc.Current().Username)
		assert.Equal(t, 1, changes)
	})

	t.Run("密码错误不改变会话", func(t *testing.T) {
		_, err := svc.Login(ctx, "admin", "wrong")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
		assert.True(t, sessions.IsAuthenticated())
		assert.Equal(t, 1, changes)
	})

	t.Run("登出清除会话", func(t *testing.T) {
		require.NoError(t, svc.Logout(ctx))
		assert.False(t, sessions.IsAuthenticated())
		assert.Nil(t, svc.Current())
		assert.Equal(t, 2, changes)
	})
}

func TestService_Register(t *testing.T) {
	svc, sessions := newService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, dto.RegisterRequest{Username: "alice", Password: "pw", Nickname: "爱丽丝"})
	require.NoError(t, err)
	assert.Equal(t, []string{user.RoleReader}, session.User.Roles)
	assert.True(t, sessions.HasRole(user.RoleReader))

	t.Run("重复注册", func(t *testing.T) {
		_, err := svc.Register(ctx, dto.RegisterRequest{Username: "alice", Password: "pw", Nickname: "x"})
		assert.ErrorIs(t, err, user.ErrUsernameTaken)
	})

	t.Run("重置密码后用新密码登录", func(t *testing.T) {
		require.NoError(t, svc.ResetPassword(ctx, "alice", "pw2"))
		_, err := svc.Login(ctx, "alice", "pw2")
		assert.NoError(t, err)
	})
}

// fakeAPI 登出失败的接口
type fakeAPI struct {
	API
	logoutErr error
	session   *user.Session
}

func (f *fakeAPI) Logout(context.Context) error { return f.logoutErr }

func (f *fakeAPI) Login(context.Context, dto.LoginRequest) (*user.Session, error) {
	return f.session, nil
}

func TestService_Edges(t *testing.T) {
	sessions := auth.NewStore(auth.NewMemoryBackend())
	require.NoError(t, sessions.SetAuth(&user.Session{AccessToken: "t"}))

	t.Run("登出接口失败仍清除会话", func(t *testing.T) {
		cause := errors.New("网络异常")
		svc := NewService(&fakeAPI{logoutErr: cause}, sessions, zerolog.Nop())
		err := svc.Logout(context.Background())
		assert.ErrorIs(t, err, cause)
		assert.False(t, sessions.IsAuthenticated())
	})

	t.Run("空令牌视为失败", func(t *testing.T) {
		svc := NewService(&fakeAPI{session: &user.Session{}}, sessions, zerolog.Nop())
		_, err := svc.Login(context.Background(), "a", "b")
		assert.ErrorIs(t, err, ErrEmptySession)
		assert.False(t, sessions.IsAuthenticated())
	})
}
