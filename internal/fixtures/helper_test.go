package fixtures

import (
	"context"
	"errors"
	"testing"

	"atkctl/internal/config"
	"atkctl/internal/drush"
	"atkctl/internal/executor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockDrush composes with the real composer so assertions read as the
// command lines Drush would receive.
type mockDrush struct {
	mock.Mock
}

func compose(spec drush.Spec) string {
	cmd, _ := drush.Compose("drush", spec)
	return cmd
}

func (m *mockDrush) Execute(ctx context.Context, spec drush.Spec) (*executor.Result, error) {
	args := m.Called(compose(spec))
	res, _ := args.Get(0).(*executor.Result)
	if res != nil {
		res.Command = compose(spec)
	}
	return res, args.Error(1)
}

func (m *mockDrush) Output(ctx context.Context, spec drush.Spec) (string, error) {
	args := m.Called(compose(spec))
	return args.String(0), args.Error(1)
}

func newTestHelper() (*Helper, *mockDrush) {
	cfg := config.GetDefaultConfig()
	cfg.BaseURL = "https://site.test"
	m := &mockDrush{}
	return NewHelper(cfg, m), m
}

func TestCreateUserWithUserObject(t *testing.T) {
	h, m := newTestHelper()
	account := Account{
		UserName:     "alice",
		UserEmail:    "a@example.com",
		UserPassword: "pw",
		UserRoles:    []string{"editor"},
	}

	m.On("Execute", "drush user:create 'alice' --mail='a@example.com' --password='pw'").
		Return(&executor.Result{Stderr: " [success] Created a new user with uid 17\n"}, nil).Once()
	m.On("Output", "drush user:role:add 'reviewer' 'alice'").Return("", nil).Once()
	m.On("Output", "drush user:role:add 'editor' 'alice'").Return("", nil).Once()

	uid, err := h.CreateUserWithUserObject(context.Background(), account, []string{"reviewer", "editor"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 17, uid)
	m.AssertExpectations(t)
}

func TestCreateUserWithUserObject_FailureStopsRoles(t *testing.T) {
	h, m := newTestHelper()
	account := Account{UserName: "bob", UserEmail: "b@example.com", UserPassword: "pw", UserRoles: []string{"editor"}}

	m.On("Execute", mock.Anything).Return(&executor.Result{ExitCode: 1, Stderr: "name taken"}, nil).Once()

	_, err := h.CreateUserWithUserObject(context.Background(), account, nil, nil, nil)
	var exitErr *executor.ExitError
	require.True(t, errors.As(err, &exitErr))
	m.AssertNotCalled(t, "Output", mock.Anything)
}

func TestDeleteUserCommands(t *testing.T) {
	ctx := context.Background()

	t.Run("by uid", func(t *testing.T) {
		h, m := newTestHelper()
		m.On("Output", "drush user:cancel -y dummy --uid=42 --delete-content").Return("", nil).Once()
		_, err := h.DeleteUserWithUid(ctx, 42, nil)
		require.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("by uid with caller options first", func(t *testing.T) {
		h, m := newTestHelper()
		m.On("Output", "drush user:cancel -y dummy --notify --uid=42 --delete-content").Return("", nil).Once()
		_, err := h.DeleteUserWithUid(ctx, 42, []string{"--notify"})
		require.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("by email", func(t *testing.T) {
		h, m := newTestHelper()
		m.On("Output", "drush user:cancel -y dummy --mail='x@example.com' --delete-content").Return("", nil).Once()
		_, err := h.DeleteUserWithEmail(ctx, "x@example.com", nil)
		require.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("by name", func(t *testing.T) {
		h, m := newTestHelper()
		m.On("Output", "drush user:cancel -y 'Jane Doe' --delete-content").Return("", nil).Once()
		_, err := h.DeleteUserWithUserName(ctx, "Jane Doe", nil, []string{"--delete-content"})
		require.NoError(t, err)
		m.AssertExpectations(t)
	})
}

func TestDeleteEntities(t *testing.T) {
	ctx := context.Background()
	h, m := newTestHelper()

	m.On("Output", "drush entity:delete node 5").Return("", nil).Once()
	m.On("Output", "drush entity:delete taxonomy_term 6").Return("", nil).Once()
	m.On("Output", "drush entity:delete media 7").Return("", nil).Once()
	m.On("Output", "drush entity:delete menu_link_content 8").Return("", nil).Once()

	_, err := h.DeleteNodeWithNid(ctx, 5)
	require.NoError(t, err)
	_, err = h.DeleteTermWithTid(ctx, 6)
	require.NoError(t, err)
	_, err = h.DeleteMediaWithMid(ctx, 7)
	require.NoError(t, err)
	_, err = h.DeleteMenuItemWithMid(ctx, 8)
	require.NoError(t, err)
	m.AssertExpectations(t)
}

func TestUserLookups(t *testing.T) {
	ctx := context.Background()
	h, m := newTestHelper()

	m.On("Execute", "drush user:info --mail='e@example.com' --format=json").
		Return(&executor.Result{Stdout: `{"9":{"uid":"9","name":"editor","mail":"e@example.com"}}`}, nil)

	uid, err := h.GetUidWithEmail(ctx, "e@example.com")
	require.NoError(t, err)
	assert.Equal(t, 9, uid)

	name, err := h.GetUsernameWithEmail(ctx, "e@example.com")
	require.NoError(t, err)
	assert.Equal(t, "editor", name)
}

func TestUserLookups_NoMatch(t *testing.T) {
	h, m := newTestHelper()
	m.On("Execute", mock.Anything).Return(&executor.Result{ExitCode: 1, Stderr: "Unable to find a matching user"}, nil)

	uid, err := h.GetUidWithEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Zero(t, uid)

	name, err := h.GetUsernameWithEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestUserLookups_MalformedOutput(t *testing.T) {
	h, m := newTestHelper()
	m.On("Execute", mock.Anything).Return(&executor.Result{Stdout: "<html>"}, nil)

	_, err := h.GetUidWithEmail(context.Background(), "x@example.com")
	var pe *drush.ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestSetDrupalConfiguration(t *testing.T) {
	h, m := newTestHelper()
	m.On("Output", "drush cset -y 'system.site' 'page.front' '/node'").Return("", nil).Once()

	_, err := h.SetDrupalConfiguration(context.Background(), "system.site", "page.front", "/node")
	require.NoError(t, err)
	m.AssertExpectations(t)
}

func TestFileProperties(t *testing.T) {
	h, m := newTestHelper()
	m.On("Output", "drush fprop 'sites/default/files/x.xml' --format=json").
		Return(`[{"directory":"sites/default/files","filename":"x.xml","filesize":10,"filectime":1,"filemtime":2,"fileatime":2}]`, nil)

	props, err := h.FileProperties(context.Background(), "sites/default/files/x.xml")
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, int64(2), props[0].Filemtime)
}

func TestRebuildSitemap(t *testing.T) {
	h, m := newTestHelper()
	m.On("Output", "drush xmlsitemap:rebuild").Return("", nil).Once()
	_, err := h.RebuildSitemap(context.Background())
	require.NoError(t, err)
	m.AssertExpectations(t)
}

func TestLoginURL(t *testing.T) {
	h, m := newTestHelper()
	m.On("Output", "drush user:login --uid=1 --uri=https://site.test").
		Return("https://site.test/user/reset/1/1700000000/abc/login\n", nil).Once()

	url, err := h.LoginURL(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "https://site.test/user/reset/1/1700000000/abc/login", url)
	m.AssertExpectations(t)
}

func TestHelperPropagatesInfrastructureErrors(t *testing.T) {
	h, m := newTestHelper()
	spawn := &executor.SpawnError{Command: "drush", Err: errors.New("missing")}
	m.On("Output", mock.Anything).Return("", spawn)

	_, err := h.DeleteNodeWithNid(context.Background(), 1)
	var se *executor.SpawnError
	assert.True(t, errors.As(err, &se))
}

func TestHelperQuotesScalarValues(t *testing.T) {
	ctx := context.Background()
	h, m := newTestHelper()

	m.On("Output", `drush cset -y 'system.site' 'name' 'QA site; echo X'`).Return("", nil).Once()
	m.On("Output", `drush user:cancel -y dummy --mail='a@b.c; echo X #' --delete-content`).Return("", nil).Once()
	m.On("Output", `drush fprop 'public://a b.png; rm -rf x' --format=json`).Return("[]", nil).Once()
	m.On("Execute", `drush user:info --mail='o'\''brien@example.com' --format=json`).
		Return(&executor.Result{ExitCode: 1}, nil).Once()

	_, err := h.SetDrupalConfiguration(ctx, "system.site", "name", "QA site; echo X")
	require.NoError(t, err)
	_, err = h.DeleteUserWithEmail(ctx, "a@b.c; echo X #", nil)
	require.NoError(t, err)
	_, err = h.FileProperties(ctx, "public://a b.png; rm -rf x")
	require.NoError(t, err)
	_, err = h.UserInfoByEmail(ctx, "o'brien@example.com")
	require.NoError(t, err)
	m.AssertExpectations(t)
}

func TestDeleteEntity_RejectsInvalidType(t *testing.T) {
	h, m := newTestHelper()

	_, err := h.DeleteEntity(context.Background(), "node; echo X", 1)
	require.Error(t, err)
	m.AssertNotCalled(t, "Output", mock.Anything)
}
