// Package tui provides the interactive plugin browser.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/plugdex/plugdex/internal/domain/compat"
	"github.com/plugdex/plugdex/internal/domain/install"
	"github.com/plugdex/plugdex/internal/domain/inventory"
	"github.com/plugdex/plugdex/internal/domain/registry"
	"github.com/plugdex/plugdex/internal/domain/search"
	"github.com/plugdex/plugdex/internal/ports"
)

// knownLoaders is the fixed set of toggleable platform loaders.
var knownLoaders = []string{"paper", "spigot", "bukkit", "purpur", "fabric"}

// catalog is the slice of the registry client the browser needs.
type catalog interface {
	GetProject(ctx context.Context, idOrSlug string) (*registry.Project, error)
	GetVersions(ctx context.Context, idOrSlug string, loaders []string) ([]registry.Version, error)
}

// enqueuer schedules background artifact downloads.
type enqueuer interface {
	Enqueue(url, filename string) (uuid.UUID, error)
}

// depResolver installs missing required dependencies of a chosen version.
type depResolver interface {
	ResolveAndInstall(ctx context.Context, version registry.Version, allowedLoaders []string) []install.DependencyResult
}

// inventoryStore lists and deletes installed artifacts.
type inventoryStore interface {
	List() ([]inventory.Artifact, error)
	Delete(name string) error
}

// querySession is the slice of the search session the browser drives.
type querySession interface {
	SetQuery(text string)
	Submit()
	LoadMore()
	SetLoaders(loaders []string)
}

// Deps wires the engine into the browser.
type Deps struct {
	Catalog   catalog
	Session   querySession
	Installer enqueuer
	Resolver  depResolver
	Inventory inventoryStore
	Logger    ports.Logger

	// Events carries engine events (session updates, notifications,
	// inventory changes) into the Bubble Tea loop.
	Events chan tea.Msg

	// Loaders is the initially enabled loader set.
	Loaders []string
}

// Engine event messages.
type (
	sessionUpdateMsg    search.Update
	notificationMsg     ports.Notification
	inventoryChangedMsg struct{}
	inventoryLoadedMsg  struct{ artifacts []inventory.Artifact }
	projectLoadedMsg    struct {
		summary    registry.ProjectSummary
		project    *registry.Project
		candidates []compat.Candidate
	}
	projectLoadFailedMsg struct{ slug string }
)

// focusArea identifies the pane receiving key input.
type focusArea int

const (
	focusSearch focusArea = iota
	focusResults
	focusVersions
	focusInstalled
)

// browseModel is the Bubble Tea model for the plugin browser.
type browseModel struct {
	deps   Deps
	styles styles

	focus       focusArea
	searchInput textinput.Model
	results     table.Model
	spinner     spinner.Model
	fetching    bool
	hasMore     bool

	hits       []registry.ProjectSummary
	summary    registry.ProjectSummary
	project    *registry.Project
	candidates []compat.Candidate
	details    viewport.Model
	verCursor  int

	artifacts []inventory.Artifact
	invCursor int

	enabled map[string]bool

	status        ports.Notification
	statusSet     bool
	width, height int
	quitting      bool
}

// NewBrowseModel creates the browser model.
func NewBrowseModel(deps Deps) browseModel {
	input := textinput.New()
	input.Placeholder = "Search for plugins..."
	input.CharLimit = 120
	input.Focus()

	results := table.New(table.WithColumns([]table.Column{
		{Title: "Plugin", Width: 28},
		{Title: "Author", Width: 14},
		{Title: "Downloads", Width: 10},
	}))

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	enabled := make(map[string]bool, len(deps.Loaders))
	for _, loader := range deps.Loaders {
		enabled[loader] = true
	}

	return browseModel{
		deps:        deps,
		styles:      defaultStyles(),
		searchInput: input,
		results:     results,
		spinner:     sp,
		details:     viewport.New(60, 12),
		enabled:     enabled,
		width:       100,
		height:      30,
	}
}

// Init implements tea.Model.
func (m browseModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.waitForEvent(),
		m.loadInventory(),
	)
}

// waitForEvent bridges one engine event into the update loop.
func (m browseModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.deps.Events
	}
}

// loadInventory rescans the target directory.
func (m browseModel) loadInventory() tea.Cmd {
	return func() tea.Msg {
		artifacts, err := m.deps.Inventory.List()
		if err != nil {
			m.deps.Logger.Warn("failed to scan plugin directory", "err", err)
			return inventoryLoadedMsg{}
		}
		return inventoryLoadedMsg{artifacts: artifacts}
	}
}

// loadProject fetches the project record and its loader-filtered versions.
func (m browseModel) loadProject(summary registry.ProjectSummary) tea.Cmd {
	loaders := m.activeLoaders()
	return func() tea.Msg {
		project, err := m.deps.Catalog.GetProject(context.Background(), summary.Slug)
		if err != nil {
			m.deps.Logger.Warn("failed to load project", "slug", summary.Slug, "err", err)
			return projectLoadFailedMsg{slug: summary.Slug}
		}
		versions, err := m.deps.Catalog.GetVersions(context.Background(), summary.Slug, loaders)
		if err != nil {
			m.deps.Logger.Warn("failed to load versions", "slug", summary.Slug, "err", err)
		}
		return projectLoadedMsg{
			summary:    summary,
			project:    project,
			candidates: compat.Filter(versions, loaders),
		}
	}
}

// installCandidate queues the artifact download and resolves required
// dependencies off the interactive path.
func (m browseModel) installCandidate(c compat.Candidate) tea.Cmd {
	loaders := m.activeLoaders()
	return func() tea.Msg {
		if _, err := m.deps.Installer.Enqueue(c.File.URL, c.File.Filename); err != nil {
			m.deps.Logger.Error("failed to queue download", "filename", c.File.Filename, "err", err)
			return nil
		}
		m.deps.Resolver.ResolveAndInstall(context.Background(), c.Version, loaders)
		return nil
	}
}

// deleteArtifact removes the selected artifact.
func (m browseModel) deleteArtifact(name string) tea.Cmd {
	return func() tea.Msg {
		if err := m.deps.Inventory.Delete(name); err != nil {
			return notificationMsg(ports.Errorf("Failed to delete %s: %v", name, err))
		}
		return inventoryChangedMsg{}
	}
}

// activeLoaders returns the enabled loaders in canonical order.
func (m browseModel) activeLoaders() []string {
	var loaders []string
	for _, loader := range knownLoaders {
		if m.enabled[loader] {
			loaders = append(loaders, loader)
		}
	}
	return loaders
}

// Update implements tea.Model.
func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.SetHeight(max(4, m.height-14))
		m.details.Width = max(30, m.width/2-6)
		m.details.Height = max(4, m.height-18)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sessionUpdateMsg:
		return m.applySessionUpdate(search.Update(msg))

	case notificationMsg:
		m.status = ports.Notification(msg)
		m.statusSet = true
		return m, m.waitForEvent()

	case inventoryChangedMsg:
		return m, tea.Batch(m.loadInventory(), m.waitForEvent())

	case inventoryLoadedMsg:
		m.artifacts = msg.artifacts
		if m.invCursor >= len(m.artifacts) {
			m.invCursor = max(0, len(m.artifacts)-1)
		}
		return m, nil

	case projectLoadedMsg:
		m.fetching = false
		m.summary = msg.summary
		m.project = msg.project
		m.candidates = msg.candidates
		m.verCursor = 0
		m.details.SetContent(m.project.LongText())
		m.details.GotoTop()
		return m, nil

	case projectLoadFailedMsg:
		m.fetching = false
		m.status = ports.Errorf("Error loading details for %s", msg.slug)
		m.statusSet = true
		return m, nil
	}

	return m, nil
}

func (m browseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyTab:
		m.focus = (m.focus + 1) % 4
		m.syncFocus()
		return m, nil
	case tea.KeyShiftTab:
		m.focus = (m.focus + 3) % 4
		m.syncFocus()
		return m, nil
	}

	if m.focus == focusSearch {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "/":
		m.focus = focusSearch
		m.syncFocus()
		return m, nil
	case "1", "2", "3", "4", "5":
		idx, _ := strconv.Atoi(msg.String())
		loader := knownLoaders[idx-1]
		m.enabled[loader] = !m.enabled[loader]
		m.deps.Session.SetLoaders(m.activeLoaders())
		return m, nil
	}

	switch m.focus {
	case focusResults:
		return m.handleResultsKey(msg)
	case focusVersions:
		return m.handleVersionsKey(msg)
	case focusInstalled:
		return m.handleInstalledKey(msg)
	}
	return m, nil
}

func (m browseModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.deps.Session.Submit()
		m.fetching = true
		return m, nil
	case tea.KeyEsc:
		m.focus = focusResults
		m.syncFocus()
		return m, nil
	}

	prev := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() != prev {
		m.deps.Session.SetQuery(m.searchInput.Value())
	}
	return m, cmd
}

func (m browseModel) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		row := m.results.Cursor()
		if row < 0 || row >= len(m.hits) {
			// Selection out of sync with the visible set; ignore.
			m.deps.Logger.Error("result selection out of range", "row", row, "visible", len(m.hits))
			return m, nil
		}
		m.fetching = true
		return m, m.loadProject(m.hits[row])
	case "m":
		if m.hasMore {
			m.deps.Session.LoadMore()
			m.fetching = true
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m browseModel) handleVersionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.verCursor > 0 {
			m.verCursor--
		}
		return m, nil
	case "down", "j":
		if m.verCursor < len(m.candidates)-1 {
			m.verCursor++
		}
		return m, nil
	case "enter", "i":
		if m.verCursor < 0 || m.verCursor >= len(m.candidates) {
			m.deps.Logger.Error("version selection out of range", "cursor", m.verCursor, "candidates", len(m.candidates))
			return m, nil
		}
		return m, m.installCandidate(m.candidates[m.verCursor])
	}

	var cmd tea.Cmd
	m.details, cmd = m.details.Update(msg)
	return m, cmd
}

func (m browseModel) handleInstalledKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.invCursor > 0 {
			m.invCursor--
		}
	case "down", "j":
		if m.invCursor < len(m.artifacts)-1 {
			m.invCursor++
		}
	case "d", "x":
		if m.invCursor >= 0 && m.invCursor < len(m.artifacts) {
			return m, m.deleteArtifact(m.artifacts[m.invCursor].Name)
		}
	case "r":
		return m, m.loadInventory()
	}
	return m, nil
}

func (m *browseModel) syncFocus() {
	if m.focus == focusSearch {
		m.searchInput.Focus()
	} else {
		m.searchInput.Blur()
	}
	if m.focus == focusResults {
		m.results.Focus()
	} else {
		m.results.Blur()
	}
}

func (m browseModel) applySessionUpdate(update search.Update) (tea.Model, tea.Cmd) {
	m.fetching = update.State == search.StateFetching
	m.hits = update.Results
	m.hasMore = update.HasMore

	rows := make([]table.Row, 0, len(update.Results))
	for _, hit := range update.Results {
		rows = append(rows, table.Row{hit.Title, hit.Author, strconv.Itoa(hit.Downloads)})
	}
	m.results.SetRows(rows)
	if m.results.Cursor() >= len(rows) {
		m.results.SetCursor(max(0, len(rows)-1))
	}

	switch {
	case update.Warning != "":
		m.status = ports.Warnf("%s", update.Warning)
		m.statusSet = true
	case update.State == search.StateSettledEnd && len(update.Results) == 0 && update.Query != "":
		m.status = ports.Warnf("No results found for %q", update.Query)
		m.statusSet = true
	}

	return m, m.waitForEvent()
}

// View implements tea.Model.
func (m browseModel) View() string {
	if m.quitting {
		return ""
	}

	header := m.styles.Title.Render("plugdex") + "  " + m.loaderBar()

	searchPanel := m.panelStyle(focusSearch).Width(m.width - 4).Render(m.searchInput.View())

	left := m.panelStyle(focusResults).Render(
		m.styles.PanelTitle.Render("Results") + "\n" + m.resultsView(),
	)
	right := m.panelStyle(focusVersions).Render(
		m.styles.PanelTitle.Render("Details") + "\n" + m.detailsView(),
	)
	installed := m.panelStyle(focusInstalled).Width(m.width - 4).Render(
		m.styles.PanelTitle.Render(fmt.Sprintf("Installed (%d)", len(m.artifacts))) + "\n" + m.installedView(),
	)

	var b strings.Builder
	b.WriteString(header + "\n")
	b.WriteString(searchPanel + "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n")
	b.WriteString(installed + "\n")
	b.WriteString(m.statusLine() + "\n")
	b.WriteString(m.styles.Help.Render("tab: switch pane · enter: select/install · m: load more · d: delete · 1-5: toggle loaders · q: quit"))
	return b.String()
}

func (m browseModel) panelStyle(area focusArea) lipgloss.Style {
	if m.focus == area {
		return m.styles.PanelActive
	}
	return m.styles.Panel
}

func (m browseModel) loaderBar() string {
	parts := make([]string, 0, len(knownLoaders))
	for i, loader := range knownLoaders {
		label := fmt.Sprintf("[%d] %s", i+1, loader)
		if m.enabled[loader] {
			parts = append(parts, m.styles.LoaderOn.Render(label))
		} else {
			parts = append(parts, m.styles.Loader.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

func (m browseModel) resultsView() string {
	if len(m.hits) == 0 {
		if m.fetching {
			return m.spinner.View() + " searching..."
		}
		return m.styles.Muted.Render("Type to search the registry.")
	}

	view := m.results.View()
	if m.hasMore {
		view += "\n" + m.styles.Muted.Render("press m for more results")
	}
	return view
}

func (m browseModel) detailsView() string {
	if m.project == nil {
		return m.styles.Muted.Render("Select a plugin to view details.")
	}

	var b strings.Builder
	author := m.summary.Author
	if author == "" {
		author = "Unknown"
	}
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("%s (by %s)", m.project.Title, author)) + "\n")
	b.WriteString(m.details.View() + "\n")
	b.WriteString(m.styles.PanelTitle.Render("Versions") + "\n")

	if len(m.candidates) == 0 {
		b.WriteString(m.styles.Muted.Render("No compatible versions for the enabled loaders."))
		return b.String()
	}

	for i, c := range m.candidates {
		label := fmt.Sprintf("%s (%s)", c.Version.DisplayName(), strings.Join(c.Version.Loaders, ", "))
		if deps := c.Version.RequiredDependencies(); len(deps) > 0 {
			label += fmt.Sprintf(" · %d deps", len(deps))
		}
		if i == m.verCursor {
			b.WriteString(m.styles.ListActive.Render("> "+label) + "\n")
		} else {
			b.WriteString(m.styles.ListItem.Render("  "+label) + "\n")
		}
	}
	return b.String()
}

func (m browseModel) installedView() string {
	if len(m.artifacts) == 0 {
		return m.styles.Muted.Render("No plugins installed.")
	}

	var b strings.Builder
	for i, artifact := range m.artifacts {
		label := fmt.Sprintf("%s (%s)", artifact.Name, formatSize(artifact.Size))
		if i == m.invCursor && m.focus == focusInstalled {
			b.WriteString(m.styles.ListActive.Render("> "+label) + "\n")
		} else {
			b.WriteString(m.styles.ListItem.Render("  "+label) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m browseModel) statusLine() string {
	if !m.statusSet {
		return ""
	}
	switch m.status.Severity {
	case ports.SeverityWarning:
		return m.styles.StatusWarn.Render(m.status.Message)
	case ports.SeverityError:
		return m.styles.StatusError.Render(m.status.Message)
	default:
		return m.styles.StatusInfo.Render(m.status.Message)
	}
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
