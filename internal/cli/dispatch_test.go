package cli_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"todoapp/internal/adapters/output/memory"
	"todoapp/internal/cli"
	"todoapp/internal/core/domain/entities"
	"todoapp/internal/core/repository"
	"todoapp/internal/core/service"
	"todoapp/internal/exitcode"
	"todoapp/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type harness struct {
	dispatcher *cli.Dispatcher
	repo       *testutil.FakeRepository
	opened     int
	closed     int
}

func newHarness(t *testing.T, tasks ...*entities.Task) *harness {
	t.Helper()
	h := &harness{repo: testutil.NewFakeRepository(tasks...)}
	svc, err := service.NewTaskService(h.repo, zaptest.NewLogger(t))
	require.NoError(t, err)

	h.dispatcher = cli.NewDispatcher(func(context.Context) (*cli.Backend, error) {
		h.opened++
		return &cli.Backend{Tasks: svc, Close: func() { h.closed++ }}, nil
	})
	return h
}

func (h *harness) run(args ...string) (int, string, string) {
	var out, errOut bytes.Buffer
	code := h.dispatcher.Run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_DefaultsToList(t *testing.T) {
	h := newHarness(t)

	code, out, _ := h.run()
	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "no tasks\n", out)
	assert.Equal(t, 1, h.closed)
}

func TestRun_AddListShow(t *testing.T) {
	h := newHarness(t)

	code, out, errOut := h.run("add", "-title", "Buy milk", "-description", "2%")
	require.Equal(t, exitcode.Success, code, errOut)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	code, out, _ = h.run("list")
	require.Equal(t, exitcode.Success, code)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "active")

	code, out, _ = h.run("show", id)
	require.Equal(t, exitcode.Success, code)
	assert.Contains(t, out, "description: 2%")
}

func TestRun_ListFilter(t *testing.T) {
	h := newHarness(t,
		entities.RestoreTask("1", "open", "", false),
		entities.RestoreTask("2", "closed", "", true),
	)

	code, out, _ := h.run("list", "-filter", "completed")
	require.Equal(t, exitcode.Success, code)
	assert.Contains(t, out, "closed")
	assert.NotContains(t, out, "open")

	code, _, errOut := h.run("list", "-filter", "someday")
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, errOut, "someday")
}

func TestRun_EditKeepsUnsetFields(t *testing.T) {
	h := newHarness(t, entities.RestoreTask("1", "title", "details", true))

	code, _, errOut := h.run("edit", "1", "-title", "renamed")
	require.Equal(t, exitcode.Success, code, errOut)

	code, out, _ := h.run("show", "1")
	require.Equal(t, exitcode.Success, code)
	assert.Contains(t, out, "title:       renamed")
	assert.Contains(t, out, "description: details")
	assert.Contains(t, out, "status:      done")

	code, _, _ = h.run("edit", "1")
	assert.Equal(t, exitcode.UserError, code)
}

func TestRun_FlagsAroundPositionals(t *testing.T) {
	h := newHarness(t, entities.RestoreTask("1", "title", "details", false))

	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "flags after id", args: []string{"edit", "1", "-title", "after"}, want: "title:       after"},
		{name: "flags before id", args: []string{"edit", "-title", "before", "1"}, want: "title:       before"},
		{name: "flags on both sides", args: []string{"edit", "-title", "both", "1", "-description", "sides"}, want: "description: sides"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, errOut := h.run(tc.args...)
			require.Equal(t, exitcode.Success, code, errOut)

			code, out, _ := h.run("show", "1")
			require.Equal(t, exitcode.Success, code)
			assert.Contains(t, out, tc.want)
		})
	}

	code, _, errOut := h.run("edit", "1", "-title", "x", "2")
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, errOut, "expects 1 argument")

	code, _, errOut = h.run("show", "--", "-1")
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, errOut, "task not found", "after -- a dash-led id is positional")
}

func TestRun_StatusCommands(t *testing.T) {
	h := newHarness(t,
		entities.RestoreTask("1", "a", "", false),
		entities.RestoreTask("2", "b", "", false),
	)

	require.Equal(t, exitcode.Success, first(h.run("done", "1")))
	require.Equal(t, exitcode.Success, first(h.run("done", "2")))
	require.Equal(t, exitcode.Success, first(h.run("activate", "2")))

	code, out, _ := h.run("stats")
	require.Equal(t, exitcode.Success, code)
	assert.Contains(t, out, "active:    1 (50.0%)")
	assert.Contains(t, out, "completed: 1 (50.0%)")

	require.Equal(t, exitcode.Success, first(h.run("clear")))
	require.Equal(t, exitcode.Success, first(h.run("rm", "2")))

	code, out, _ = h.run("list")
	require.Equal(t, exitcode.Success, code)
	assert.Equal(t, "no tasks\n", out)

	code, out, _ = h.run("refresh")
	require.Equal(t, exitcode.Success, code)
	assert.Equal(t, "refreshed 0 task(s)\n", out)
	assert.Equal(t, 1, h.repo.Refreshes())
}

func TestRun_UserErrors(t *testing.T) {
	h := newHarness(t)

	testCases := []struct {
		name string
		args []string
	}{
		{name: "unknown command", args: []string{"frobnicate"}},
		{name: "unknown flag", args: []string{"list", "-bogus"}},
		{name: "missing id", args: []string{"done"}},
		{name: "extra args", args: []string{"clear", "now"}},
		{name: "empty task", args: []string{"add"}},
		{name: "unknown id", args: []string{"show", "missing"}},
		{name: "complete unknown id", args: []string{"done", "missing"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, errOut := h.run(tc.args...)
			assert.Equal(t, exitcode.UserError, code)
			assert.True(t, strings.HasPrefix(errOut, "error: "), errOut)
		})
	}
	assert.Zero(t, h.opened-h.closed)
}

func TestRun_BackendErrors(t *testing.T) {
	h := newHarness(t)
	h.repo.SetShouldFail(true)

	code, _, errOut := h.run("list")
	assert.Equal(t, exitcode.BackendError, code)
	assert.Contains(t, errOut, testutil.ErrForcedFailure.Error())

	broken := cli.NewDispatcher(func(context.Context) (*cli.Backend, error) {
		return nil, errors.New("connection refused")
	})
	var out, errBuf bytes.Buffer
	code = broken.Run(context.Background(), []string{"stats"}, &out, &errBuf)
	assert.Equal(t, exitcode.BackendError, code)
	assert.Contains(t, errBuf.String(), "backend error")
}

func TestRun_Help(t *testing.T) {
	h := newHarness(t)

	code, out, _ := h.run("help")
	assert.Equal(t, exitcode.Success, code)
	assert.Contains(t, out, "smoke")
	assert.Zero(t, h.opened, "help does not connect")
}

func TestRun_SmokeOverRepository(t *testing.T) {
	log := zaptest.NewLogger(t)
	remote := memory.NewTaskDataSource(entities.RestoreTask("seed", "seeded", "", false))
	local := memory.NewTaskDataSource()
	repo, err := repository.NewTasksRepository(remote, local, log)
	require.NoError(t, err)
	svc, err := service.NewTaskService(repo, log)
	require.NoError(t, err)

	dispatcher := cli.NewDispatcher(func(context.Context) (*cli.Backend, error) {
		return &cli.Backend{Tasks: svc, Log: log}, nil
	})

	var out, errOut bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"smoke"}, &out, &errOut)
	require.Equal(t, exitcode.Success, code, errOut.String())
	assert.Equal(t, "smoke test passed\n", out.String())

	remaining, err := remote.GetTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "seed", remaining[0].ID())
}

func first(code int, _, _ string) int {
	return code
}
