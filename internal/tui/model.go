package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/glabrego/lumen-cli/internal/app"
	"github.com/glabrego/lumen-cli/internal/logging"
	"github.com/glabrego/lumen-cli/internal/lumen"
	"github.com/glabrego/lumen-cli/internal/pager"
	"github.com/glabrego/lumen-cli/internal/tui/actions"
	tuiplatform "github.com/glabrego/lumen-cli/internal/tui/platform"
	tuistate "github.com/glabrego/lumen-cli/internal/tui/state"
	tuitheme "github.com/glabrego/lumen-cli/internal/tui/theme"
	tuiview "github.com/glabrego/lumen-cli/internal/tui/view"
)

const (
	feedList     = "feed"
	commentsList = "comments"
)

type (
	FeedController     = pager.Controller[lumen.Post, app.FeedParams]
	CommentsController = pager.Controller[lumen.Comment, app.CommentParams]
)

// ErrorReporter persists errors shown to the user.
type ErrorReporter interface {
	LogError(ctx context.Context, err error, ec app.ErrorContext)
}

type Config struct {
	Hugs       actions.HugService
	Viewer     lumen.User
	Feed       *FeedController
	Comments   *CommentsController
	Categories []lumen.Category
	Errors     ErrorReporter
	Logger     *log.Logger

	// FetchTimeout bounds each request; zero means actions.FetchTimeout.
	FetchTimeout time.Duration
	// Search is the initial feed filter.
	Search       string
}

type clearStatusMsg struct {
	id int
}

type Model struct {
	hugs       actions.HugService
	viewer     lumen.User
	feed       *FeedController
	comments   *CommentsController
	categories []lumen.Category
	errors     ErrorReporter
	logger     *log.Logger
	theme      tuitheme.Theme
	spinner    spinner.Model

	cursor     int
	selectedID string

	// search filters the loaded feed locally; params and paging are untouched.
	search      string
	searching   bool
	searchInput textinput.Model

	inDetail      bool
	detailPost    lumen.Post
	detailTop     int
	commentCursor int
	commentSort   lumen.CommentSortOption

	width    int
	height   int
	status   string
	statusID int
	err      error

	fetchTimeout    time.Duration
	loadMoreTimeout time.Duration

	openURLFn func(string) error
	copyURLFn func(string) error
	nowFn     func() time.Time
}

// NewModel builds the feed screen. The comments controller should be
// created disabled; it is enabled the first time a post is opened.
func NewModel(cfg Config) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = actions.FetchTimeout
	}
	th := tuitheme.Default()
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = th.StateLoad
	in := textinput.New()
	in.Prompt = "/ "
	in.Placeholder = "search titles and content"
	in.CharLimit = 100
	return Model{
		hugs:            cfg.Hugs,
		viewer:          cfg.Viewer,
		feed:            cfg.Feed,
		comments:        cfg.Comments,
		categories:      cfg.Categories,
		errors:          cfg.Errors,
		logger:          logger.WithPrefix("tui"),
		theme:           th,
		spinner:         s,
		search:          strings.TrimSpace(cfg.Search),
		searchInput:     in,
		commentSort:     lumen.CommentOldest,
		fetchTimeout:    fetchTimeout,
		loadMoreTimeout: actions.LoadMoreTimeoutFor(fetchTimeout),
		openURLFn:       tuiplatform.OpenURLInBrowser,
		copyURLFn:       tuiplatform.CopyURLToClipboard,
		nowFn:           time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		actions.StartCmd(feedList, m.feed, m.fetchTimeout),
		m.spinner.Tick,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearchKey(msg)
		}
		if m.inDetail {
			return m.updateDetailKey(msg)
		}
		return m.updateListKey(msg)
	case actions.ListDoneMsg:
		return m.handleListDone(msg)
	case actions.HugSuccessMsg:
		m.err = nil
		switch msg.Target {
		case lumen.TargetComment:
			m.comments.UpdateItem(msg.ID, app.ApplyCommentHug(msg.Hugged))
		default:
			m.feed.UpdateItem(msg.ID, app.ApplyPostHug(msg.Hugged))
			if m.detailPost.ID == msg.ID {
				m.detailPost = app.ApplyPostHug(msg.Hugged)(m.detailPost)
			}
		}
		return m.setStatus(msg.Status, 3*time.Second)
	case actions.HugErrorMsg:
		m.status = ""
		m.err = msg.Err
		return m, m.reportCmd(msg.Err, "hug_"+string(msg.Target))
	case actions.OpenURLSuccessMsg:
		m.err = nil
		return m.setStatus(msg.Status, 3*time.Second)
	case actions.OpenURLErrorMsg:
		m.err = nil
		return m.setStatus(msg.Err.Error(), 4*time.Second)
	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		return m.moveCursorBy(-1)
	case "down", "j":
		return m.moveCursorBy(1)
	case "pgup", "ctrl+b":
		return m.moveCursorBy(-tuistate.PageStep(m.height, m.status != ""))
	case "pgdown", "ctrl+f":
		return m.moveCursorBy(tuistate.PageStep(m.height, m.status != ""))
	case "g":
		return m.moveCursorBy(-len(m.visiblePosts()))
	case "G":
		return m.moveCursorBy(len(m.visiblePosts()))
	case "n":
		snap := m.feed.Snapshot()
		if !snap.HasMore {
			return m.setStatus("No more posts", 3*time.Second)
		}
		return m, m.loadMoreFeed(snap)
	case "r":
		m.err = nil
		m.status = ""
		return m, actions.RefreshCmd(feedList, m.feed, m.fetchTimeout)
	case "h":
		post, ok := m.currentPost()
		if !ok {
			return m, nil
		}
		return m, actions.ToggleHugCmd(m.hugs, lumen.TargetPost, post.ID, m.viewer, m.fetchTimeout)
	case "c":
		params := m.feed.Snapshot().Params
		params.CategoryID = m.nextCategory(params.CategoryID)
		return m.changeParams(params, "Category: "+m.categoryLabel(params.CategoryID))
	case "s":
		params := m.feed.Snapshot().Params
		params.Sort = params.Sort.Next()
		return m.changeParams(params, "Sort: "+params.Sort.Label())
	case "t":
		params := m.feed.Snapshot().Params
		if params.Sort == lumen.SortNewest || params.Sort == "" {
			return m.setStatus("Time range applies to the popular and most comments sorts", 3*time.Second)
		}
		params.TimeRange = params.TimeRange.Next()
		return m.changeParams(params, "Range: "+params.TimeRange.Label())
	case "enter":
		post, ok := m.currentPost()
		if !ok {
			return m, nil
		}
		return m.openDetail(post)
	case "o":
		return m.openImage()
	case "y":
		return m.copyImage()
	case "/":
		m.searching = true
		m.searchInput.SetValue(m.search)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()
	}
	return m, nil
}

func (m Model) updateSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		return m.applySearch(m.searchInput.Value())
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) applySearch(query string) (tea.Model, tea.Cmd) {
	m.search = strings.TrimSpace(query)
	m.cursor = 0
	m.rememberSelection(m.visiblePosts())
	if m.search == "" {
		return m.setStatus("Search cleared", 3*time.Second)
	}
	return m.setStatus(fmt.Sprintf("Search %q: %d matches", m.search, len(m.visiblePosts())), 3*time.Second)
}

// visiblePosts is the loaded feed narrowed by the active search.
func (m Model) visiblePosts() []lumen.Post {
	return lumen.FilterPosts(m.feed.Snapshot().Items, m.search)
}

func (m Model) updateDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.inDetail = false
		m.detailTop = 0
		return m, nil
	case "up", "k":
		if m.detailTop > 0 {
			m.detailTop--
		}
		return m, nil
	case "down", "j":
		maxTop := tuiview.DetailMaxTop(len(m.detailLines()), m.detailBodyHeight())
		if m.detailTop < maxTop {
			m.detailTop++
		}
		return m, nil
	case "[":
		if m.commentCursor > 0 {
			m.commentCursor--
		}
		return m, nil
	case "]":
		snap := m.comments.Snapshot()
		if m.commentCursor < len(snap.Items)-1 {
			m.commentCursor++
			if tuistate.NearEnd(m.commentCursor, len(snap.Items)) && snap.HasMore {
				return m, actions.LoadMoreCmd(commentsList, m.comments, m.loadMoreTimeout)
			}
		}
		return m, nil
	case "n":
		if !m.comments.Snapshot().HasMore {
			return m.setStatus("No more comments", 3*time.Second)
		}
		return m, actions.LoadMoreCmd(commentsList, m.comments, m.loadMoreTimeout)
	case "r":
		return m, actions.RefreshCmd(commentsList, m.comments, m.fetchTimeout)
	case "h":
		return m, actions.ToggleHugCmd(m.hugs, lumen.TargetPost, m.detailPost.ID, m.viewer, m.fetchTimeout)
	case "S":
		m.commentSort = m.commentSort.Next()
		m.commentCursor = 0
		params := m.comments.Snapshot().Params
		params.Sort = m.commentSort
		m.status = "Comments: " + m.commentSort.Label()
		return m, actions.SetParamsCmd(commentsList, m.comments, params, m.fetchTimeout)
	case "H":
		items := m.comments.Snapshot().Items
		if len(items) == 0 {
			return m, nil
		}
		c := items[tuistate.ClampCursor(m.commentCursor, len(items))]
		return m, actions.ToggleHugCmd(m.hugs, lumen.TargetComment, c.ID, m.viewer, m.fetchTimeout)
	case "o":
		return m.openImage()
	case "y":
		return m.copyImage()
	}
	return m, nil
}

func (m Model) handleListDone(msg actions.ListDoneMsg) (tea.Model, tea.Cmd) {
	switch msg.List {
	case feedList:
		snap := m.feed.Snapshot()
		visible := m.visiblePosts()
		m.cursor = tuistate.FollowItem(visible, m.selectedID, m.cursor)
		m.rememberSelection(visible)
		if snap.Err != nil {
			m.err = snap.Err
			return m, m.reportCmd(snap.Err, "feed_"+string(msg.Op))
		}
		m.err = nil
		m.logger.Debug("feed updated", "op", msg.Op, "items", len(snap.Items), "more", snap.HasMore, "took", msg.Duration)
		switch msg.Op {
		case actions.OpRefresh:
			return m.setStatus(fmt.Sprintf("Refreshed in %dms", msg.Duration.Milliseconds()), 3*time.Second)
		case actions.OpLoadMore:
			return m.setStatus(fmt.Sprintf("%d posts loaded", len(snap.Items)), 3*time.Second)
		case actions.OpParams:
			return m.setStatus(m.status, 3*time.Second)
		}
		return m, nil
	case commentsList:
		snap := m.comments.Snapshot()
		m.commentCursor = tuistate.ClampCursor(m.commentCursor, len(snap.Items))
		if snap.Err != nil {
			m.err = snap.Err
			return m, m.reportCmd(snap.Err, "comments_"+string(msg.Op))
		}
		m.err = nil
		if msg.Op == actions.OpParams && m.status != "" {
			return m.setStatus(m.status, 3*time.Second)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) moveCursorBy(delta int) (tea.Model, tea.Cmd) {
	snap := m.feed.Snapshot()
	items := m.visiblePosts()
	if len(items) == 0 {
		return m, nil
	}
	m.cursor = tuistate.ClampCursor(m.cursor+delta, len(items))
	m.selectedID = items[m.cursor].ID
	if delta > 0 && tuistate.NearEnd(m.cursor, len(items)) {
		return m, m.loadMoreFeed(snap)
	}
	return m, nil
}

func (m Model) loadMoreFeed(snap pager.State[lumen.Post, app.FeedParams]) tea.Cmd {
	if !snap.HasMore || snap.IsLoadingMore || snap.IsLoading || snap.IsRefreshing {
		return nil
	}
	return actions.LoadMoreCmd(feedList, m.feed, m.loadMoreTimeout)
}

func (m Model) changeParams(params app.FeedParams, status string) (tea.Model, tea.Cmd) {
	m.cursor = 0
	m.selectedID = ""
	m.err = nil
	m.status = status
	return m, actions.SetParamsCmd(feedList, m.feed, params, m.fetchTimeout)
}

func (m Model) openDetail(post lumen.Post) (tea.Model, tea.Cmd) {
	m.inDetail = true
	m.detailPost = post
	m.detailTop = 0
	m.commentCursor = 0
	m.selectedID = post.ID

	params := app.CommentParams{PostID: post.ID, Sort: m.commentSort}
	if !m.comments.Enabled() {
		// Disabled controllers only record params; enabling runs the first fetch.
		m.comments.SetParams(context.Background(), params)
		return m, actions.EnableCmd(commentsList, m.comments, m.fetchTimeout)
	}
	if m.comments.Snapshot().Params == params {
		return m, actions.RefreshCmd(commentsList, m.comments, m.fetchTimeout)
	}
	return m, actions.SetParamsCmd(commentsList, m.comments, params, m.fetchTimeout)
}

func (m Model) currentPost() (lumen.Post, bool) {
	items := m.visiblePosts()
	if len(items) == 0 {
		return lumen.Post{}, false
	}
	return items[tuistate.ClampCursor(m.cursor, len(items))], true
}

func (m *Model) rememberSelection(items []lumen.Post) {
	if len(items) == 0 {
		m.selectedID = ""
		return
	}
	m.selectedID = items[m.cursor].ID
}

func (m Model) imagePost() (lumen.Post, bool) {
	if m.inDetail {
		return m.detailPost, true
	}
	return m.currentPost()
}

func (m Model) openImage() (tea.Model, tea.Cmd) {
	post, ok := m.imagePost()
	if !ok {
		return m, nil
	}
	url, err := tuiplatform.ValidateImageURL(post.ImageURL)
	if err != nil {
		return m.setStatus(err.Error(), 3*time.Second)
	}
	return m, actions.OpenURLCmd(url, m.openURLFn, m.copyURLFn)
}

func (m Model) copyImage() (tea.Model, tea.Cmd) {
	post, ok := m.imagePost()
	if !ok {
		return m, nil
	}
	url, err := tuiplatform.ValidateImageURL(post.ImageURL)
	if err != nil {
		return m.setStatus(err.Error(), 3*time.Second)
	}
	return m, actions.CopyURLCmd(url, m.copyURLFn)
}

func (m Model) nextCategory(current string) string {
	if len(m.categories) == 0 {
		return ""
	}
	if current == "" {
		return m.categories[0].ID
	}
	for i, c := range m.categories {
		if c.ID == current {
			if i == len(m.categories)-1 {
				return ""
			}
			return m.categories[i+1].ID
		}
	}
	return ""
}

func (m Model) categoryLabel(id string) string {
	if id == "" {
		return "All"
	}
	return lumen.CategoryInfo(id).Name
}

func (m Model) setStatus(status string, after time.Duration) (tea.Model, tea.Cmd) {
	m.status = status
	m.statusID++
	return m, clearStatusCmd(m.statusID, after)
}

func (m Model) reportCmd(err error, action string) tea.Cmd {
	if m.errors == nil || err == nil {
		return nil
	}
	reporter, userID := m.errors, m.viewer.ID
	screen := "feed"
	if m.inDetail {
		screen = "post_detail"
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.fetchTimeout)
		defer cancel()
		reporter.LogError(ctx, err, app.ErrorContext{UserID: userID, Screen: screen, Action: action})
		return nil
	}
}

func clearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Lumen"))
	b.WriteString(" ")
	b.WriteString(m.theme.ModePill.Render(m.viewer.AnonymousName))
	b.WriteString("\n")
	if m.searching {
		b.WriteString(m.searchInput.View())
	} else {
		b.WriteString(m.theme.MetaLabel.Render(tuiview.Toolbar(m.inDetail)))
	}
	b.WriteString("\n\n")

	if m.inDetail {
		b.WriteString(tuiview.RenderDetailLines(m.detailLines(), m.detailTop, m.detailBodyHeight()))
	} else {
		b.WriteString(m.listView())
	}

	b.WriteString("\n")
	b.WriteString(m.messagePanel())
	b.WriteString("\n")
	b.WriteString(m.footer())
	b.WriteString("\n")
	return b.String()
}

func (m Model) listView() string {
	snap := m.feed.Snapshot()
	if snap.IsLoading && len(snap.Items) == 0 {
		return m.spinner.View() + " Loading posts...\n"
	}
	if len(snap.Items) == 0 {
		if snap.Err != nil {
			return "Could not load posts. Press r to retry.\n"
		}
		return "No posts here yet.\n"
	}
	items := m.visiblePosts()
	if len(items) == 0 {
		hint := "No loaded posts match %q. Press / to change the search."
		if snap.HasMore {
			hint = "No loaded posts match %q. Press n to load more or / to change the search."
		}
		return fmt.Sprintf(hint, m.search) + "\n"
	}

	cursor := tuistate.ClampCursor(m.cursor, len(items))
	start, end := tuistate.CenteredWindow(len(items), cursor, m.listHeight())
	footer := ""
	switch {
	case snap.IsLoadingMore:
		footer = "   " + m.spinner.View() + " Loading more..."
	case !snap.HasMore:
		footer = m.theme.MetaLabel.Render("   · end of feed ·")
	}
	return tuiview.RenderListBody(tuiview.ListRenderInput{
		Count:  len(items),
		Start:  start,
		End:    end,
		Cursor: cursor,
		Footer: footer,
		RenderLine: func(i int, active bool) string {
			return tuiview.RenderPostLine(tuiview.PostLineParams{
				Post:   items[i],
				Now:    m.nowFn(),
				Pos:    i,
				Active: active,
				Width:  m.contentWidth(),
			}, m.theme)
		},
	})
}

func (m Model) detailLines() []string {
	post := m.detailPost
	if idx := tuistate.IndexByID(m.feed.Snapshot().Items, post.ID); idx >= 0 {
		post = m.feed.Snapshot().Items[idx]
	}
	snap := m.comments.Snapshot()
	state := tuiview.CommentsState{
		Items:    snap.Items,
		Selected: m.commentCursor,
		Sort:     m.commentSort.Label(),
		Loading:  snap.IsLoading || snap.IsLoadingMore || snap.IsRefreshing,
		HasMore:  snap.HasMore,
	}
	if snap.Err != nil {
		state.LoadError = snap.Err.Error()
	}
	return tuiview.DetailLines(post, state, m.nowFn(), m.contentWidth(), tuiview.WrapText)
}

func (m Model) messagePanel() string {
	snap := m.feed.Snapshot()
	loading := snap.IsLoading || snap.IsLoadingMore || snap.IsRefreshing
	warning := ""
	if m.err != nil {
		warning = m.err.Error()
	}
	return tuiview.CompactMessage(loading, m.err != nil, m.status, warning, m.theme)
}

func (m Model) footer() string {
	snap := m.feed.Snapshot()
	info := tuiview.FooterInfo{
		Category: m.categoryLabel(snap.Params.CategoryID),
		Sort:     snap.Params.Sort.Label(),
		Shown:    len(m.visiblePosts()),
		Search:   m.search,
		HasMore:  snap.HasMore,
	}
	if snap.Params.Sort != lumen.SortNewest && snap.Params.Sort != "" {
		info.TimeRange = snap.Params.EffectiveTimeRange().Label()
	}
	return tuiview.CompactFooter(info, m.theme)
}

func (m Model) contentWidth() int {
	if m.width > 0 {
		return m.width - 1
	}
	return 100
}

func (m Model) listHeight() int {
	if m.height > 0 {
		if h := m.height - 7; h > 3 {
			return h
		}
		return 3
	}
	return 0
}

func (m Model) detailBodyHeight() int {
	if m.height > 0 {
		usedByHeader := 7
		if h := m.height - usedByHeader; h > 3 {
			return h
		}
	}
	return 16
}
