package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/lumen-cli/internal/lumen"
	"github.com/glabrego/lumen-cli/internal/pager"
)

// Default timeouts. LoadMoreTimeoutFor keeps the same headroom over a
// configured fetch timeout.
const (
	FetchTimeout    = 10 * time.Second
	LoadMoreTimeout = 12 * time.Second
)

func LoadMoreTimeoutFor(fetch time.Duration) time.Duration {
	return fetch + LoadMoreTimeout - FetchTimeout
}

type ListOp string

const (
	OpStart    ListOp = "start"
	OpParams   ListOp = "params"
	OpEnable   ListOp = "enable"
	OpLoadMore ListOp = "load_more"
	OpRefresh  ListOp = "refresh"
)

// ListDoneMsg reports that a controller operation returned. The model reads
// the outcome from the controller snapshot; List names which controller.
type ListDoneMsg struct {
	List     string
	Op       ListOp
	Duration time.Duration
}

type HugService interface {
	ToggleHug(ctx context.Context, postID string, viewer lumen.User) (bool, error)
	ToggleCommentHug(ctx context.Context, commentID string, viewer lumen.User) (bool, error)
}

type HugSuccessMsg struct {
	Target lumen.TargetType
	ID     string
	Hugged bool
	Status string
}

type HugErrorMsg struct {
	Target lumen.TargetType
	ID     string
	Err    error
}

type OpenURLSuccessMsg struct {
	Status string
	Opened bool
}

type OpenURLErrorMsg struct {
	Err error
}

func StartCmd[T pager.Item, P comparable](list string, c *pager.Controller[T, P], timeout time.Duration) tea.Cmd {
	return listCmd(list, OpStart, timeout, c.Start)
}

func SetParamsCmd[T pager.Item, P comparable](list string, c *pager.Controller[T, P], params P, timeout time.Duration) tea.Cmd {
	return listCmd(list, OpParams, timeout, func(ctx context.Context) {
		c.SetParams(ctx, params)
	})
}

// EnableCmd turns automatic fetching on, which runs the first load of a
// controller created with pager.WithEnabled(false).
func EnableCmd[T pager.Item, P comparable](list string, c *pager.Controller[T, P], timeout time.Duration) tea.Cmd {
	return listCmd(list, OpEnable, timeout, func(ctx context.Context) {
		c.SetEnabled(ctx, true)
	})
}

func LoadMoreCmd[T pager.Item, P comparable](list string, c *pager.Controller[T, P], timeout time.Duration) tea.Cmd {
	return listCmd(list, OpLoadMore, timeout, c.LoadMore)
}

func RefreshCmd[T pager.Item, P comparable](list string, c *pager.Controller[T, P], timeout time.Duration) tea.Cmd {
	return listCmd(list, OpRefresh, timeout, c.Refresh)
}

func listCmd(list string, op ListOp, timeout time.Duration, run func(context.Context)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		start := time.Now()

		run(ctx)
		return ListDoneMsg{List: list, Op: op, Duration: time.Since(start)}
	}
}

// ToggleHugCmd flips a hug on a post or comment. The caller applies the
// returned state to its lists only on HugSuccessMsg.
func ToggleHugCmd(service HugService, target lumen.TargetType, id string, viewer lumen.User, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var (
			hugged bool
			err    error
		)
		switch target {
		case lumen.TargetComment:
			hugged, err = service.ToggleCommentHug(ctx, id, viewer)
		default:
			target = lumen.TargetPost
			hugged, err = service.ToggleHug(ctx, id, viewer)
		}
		if err != nil {
			return HugErrorMsg{Target: target, ID: id, Err: err}
		}

		status := "Hug removed"
		if hugged {
			status = "Sent a hug"
		}
		return HugSuccessMsg{Target: target, ID: id, Hugged: hugged, Status: status}
	}
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened image in browser", Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, image URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open image URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Image URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy image URL to clipboard")}
	}
}
