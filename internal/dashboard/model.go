package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"nps-explorer/pkg/model"
)

type tab int

const (
	tabParks tab = iota
	tabVisitorCenters
	tabEvents
	tabEventsPerPark
	tabCentersPerPark
	tabRankings
	tabCount
)

var tabNames = [tabCount]string{
	"Parks",
	"Visitor centers",
	"Events",
	"Events per park",
	"Centers per park",
	"Rankings",
}

// Options are the filters applied to every refresh
type Options struct {
	StateCode string
	ParkCode  string
	Year      *int
	FreeOnly  bool
	TopLimit  int
}

// API is the subset of the HTTP API the dashboard renders. *APIClient implements it.
type API interface {
	Parks(ctx context.Context, stateCode string, maxFee *int) ([]model.Park, error)
	VisitorCenters(ctx context.Context, parkCode string) ([]model.VisitorCenterWithPark, error)
	Events(ctx context.Context, eq EventQuery) ([]model.Event, error)
	EventsPerPark(ctx context.Context, year *int) ([]model.EventCountPerPark, error)
	VisitorCentersPerPark(ctx context.Context) ([]model.VisitorCenterCountPerPark, error)
	AboveAverageEventParks(ctx context.Context, year *int) ([]model.AboveAverageEventPark, error)
	TopFreeEventParks(ctx context.Context, limit int) ([]model.FreeEventCountPerPark, error)
	UnderservedParks(ctx context.Context, maxEvents int, year *int) ([]model.EventCountPerPark, error)
	QualifyingParks(ctx context.Context, minCenters, minEvents int, year *int) ([]model.QualifyingPark, error)
}

// snapshot is everything one refresh fetched
type snapshot struct {
	parks          []model.Park
	centers        []model.VisitorCenterWithPark
	events         []model.Event
	eventsPerPark  []model.EventCountPerPark
	centersPerPark []model.VisitorCenterCountPerPark
	aboveAverage   []model.AboveAverageEventPark
	topFree        []model.FreeEventCountPerPark
	underserved    []model.EventCountPerPark
	qualifying     []model.QualifyingPark
}

type loadedMsg struct {
	snap snapshot
	at   time.Time
	err  error
}

type Model struct {
	theme   Theme
	api     API
	opts    Options
	timeout time.Duration

	active  tab
	loading bool
	snap    snapshot
	loaded  time.Time
	err     error
	width   int
}

// NewModel creates the dashboard model
func NewModel(api API, opts Options, timeout time.Duration) Model {
	if opts.TopLimit <= 0 {
		opts.TopLimit = 5
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return Model{
		theme:   DefaultTheme(),
		api:     api,
		opts:    opts,
		timeout: timeout,
		loading: true,
		width:   80,
	}
}

// Run starts the dashboard in the alternate screen
func Run(api API, opts Options, timeout time.Duration) error {
	p := tea.NewProgram(NewModel(api, opts, timeout), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd { return cmdLoad(m.api, m.opts, m.timeout) }

func cmdLoad(api API, opts Options, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		snap, err := fetchSnapshot(ctx, api, opts)
		return loadedMsg{snap: snap, at: time.Now(), err: err}
	}
}

func fetchSnapshot(ctx context.Context, api API, opts Options) (snapshot, error) {
	var s snapshot
	var err error

	if s.parks, err = api.Parks(ctx, opts.StateCode, nil); err != nil {
		return s, fmt.Errorf("parks: %w", err)
	}
	if s.centers, err = api.VisitorCenters(ctx, opts.ParkCode); err != nil {
		return s, fmt.Errorf("visitor centers: %w", err)
	}
	if s.events, err = api.Events(ctx, EventQuery{ParkCode: opts.ParkCode, FreeOnly: opts.FreeOnly}); err != nil {
		return s, fmt.Errorf("events: %w", err)
	}
	if s.eventsPerPark, err = api.EventsPerPark(ctx, opts.Year); err != nil {
		return s, fmt.Errorf("events per park: %w", err)
	}
	if s.centersPerPark, err = api.VisitorCentersPerPark(ctx); err != nil {
		return s, fmt.Errorf("visitor centers per park: %w", err)
	}
	if s.aboveAverage, err = api.AboveAverageEventParks(ctx, opts.Year); err != nil {
		return s, fmt.Errorf("above average: %w", err)
	}
	if s.topFree, err = api.TopFreeEventParks(ctx, opts.TopLimit); err != nil {
		return s, fmt.Errorf("top free: %w", err)
	}
	if s.underserved, err = api.UnderservedParks(ctx, 2, opts.Year); err != nil {
		return s, fmt.Errorf("underserved: %w", err)
	}
	if s.qualifying, err = api.QualifyingParks(ctx, 1, 6, opts.Year); err != nil {
		return s, fmt.Errorf("qualifying: %w", err)
	}
	return s, nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.snap = msg.snap
			m.loaded = msg.at
		}
		return m, nil

	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab", "right", "l":
			m.active = (m.active + 1) % tabCount
		case "shift+tab", "left", "h":
			m.active = (m.active + tabCount - 1) % tabCount
		case "r":
			if !m.loading {
				m.loading = true
				return m, cmdLoad(m.api, m.opts, m.timeout)
			}
		default:
			if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= int(tabCount) {
				m.active = tab(n - 1)
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)

	header := m.theme.Title.Render("NPS Explorer") + "\n" +
		m.theme.Subtitle.Render(m.filterSummary()) + "\n"

	tabs := make([]string, 0, tabCount)
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if tab(i) == m.active {
			tabs = append(tabs, m.theme.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, m.theme.Tab.Render(label))
		}
	}

	var body string
	switch {
	case m.err != nil:
		body = m.theme.Error.Render("Error: "+m.err.Error()) + "\n" +
			m.theme.Help.Render("Is the API running? Press r to retry.")
	case m.loading && m.loaded.IsZero():
		body = m.theme.Subtitle.Render("Loading...")
	default:
		body = m.renderTab()
	}

	status := "tab/←→/1-6 switch • r refresh • q quit"
	if !m.loaded.IsZero() {
		status = "updated " + m.loaded.Format("15:04:05") + " • " + status
	}

	return wrap.Render(header + "\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n\n" +
		m.theme.Card.Render(body) + "\n" +
		m.theme.Help.Render(status))
}

func (m Model) filterSummary() string {
	parts := []string{}
	if m.opts.StateCode != "" {
		parts = append(parts, "state "+strings.ToUpper(m.opts.StateCode))
	}
	if m.opts.ParkCode != "" {
		parts = append(parts, "park "+strings.ToUpper(m.opts.ParkCode))
	}
	if m.opts.Year != nil {
		parts = append(parts, "year "+strconv.Itoa(*m.opts.Year))
	}
	if m.opts.FreeOnly {
		parts = append(parts, "free events only")
	}
	if len(parts) == 0 {
		return "all parks, all years"
	}
	return strings.Join(parts, " • ")
}

func (m Model) renderTab() string {
	chartWidth := m.width - 12
	s := m.snap

	switch m.active {
	case tabParks:
		rows := make([][]string, len(s.parks))
		for i, p := range s.parks {
			rows[i] = []string{strings.ToUpper(p.ParkCode), p.Name, p.StateCode,
				"$" + strconv.Itoa(p.EntranceFee), strconv.Itoa(p.TotalActivities)}
		}
		return renderTable(m.theme, []string{"CODE", "NAME", "STATE", "FEE", "ACTIVITIES"}, rows)

	case tabVisitorCenters:
		rows := make([][]string, len(s.centers))
		for i, vc := range s.centers {
			rows[i] = []string{vc.CenterName, strings.ToUpper(vc.ParkCode), vc.ParkName}
		}
		return renderTable(m.theme, []string{"CENTER", "PARK", "PARK NAME"}, rows)

	case tabEvents:
		rows := make([][]string, len(s.events))
		for i, ev := range s.events {
			end := ""
			if ev.EndDate != nil {
				end = ev.EndDate.String()
			}
			free := "no"
			if ev.IsFree {
				free = "yes"
			}
			rows[i] = []string{ev.StartDate.String(), end, strings.ToUpper(ev.ParkCode), ev.EventTitle, free}
		}
		return renderTable(m.theme, []string{"START", "END", "PARK", "TITLE", "FREE"}, rows)

	case tabEventsPerPark:
		bars := make([]bar, len(s.eventsPerPark))
		for i, r := range s.eventsPerPark {
			bars[i] = bar{label: r.Name, value: r.EventCount}
		}
		return m.theme.Header.Render("Events per park") + "\n\n" + renderBarChart(m.theme, bars, chartWidth)

	case tabCentersPerPark:
		bars := make([]bar, len(s.centersPerPark))
		for i, r := range s.centersPerPark {
			bars[i] = bar{label: r.Name, value: r.VisitorCenterCount}
		}
		return m.theme.Header.Render("Visitor centers per park") + "\n\n" + renderBarChart(m.theme, bars, chartWidth)

	default:
		return m.renderRankings()
	}
}

func (m Model) renderRankings() string {
	s := m.snap
	sections := []string{}

	above := make([][]string, len(s.aboveAverage))
	for i, r := range s.aboveAverage {
		above[i] = []string{r.Name, strconv.Itoa(r.EventCount), strconv.FormatFloat(r.AverageEventCount, 'f', 2, 64)}
	}
	sections = append(sections, m.theme.Header.Render("Above-average event parks")+"\n"+
		renderTable(m.theme, []string{"PARK", "EVENTS", "AVERAGE"}, above))

	free := make([]bar, len(s.topFree))
	for i, r := range s.topFree {
		free[i] = bar{label: r.Name, value: r.FreeEventCount}
	}
	sections = append(sections, m.theme.Header.Render(fmt.Sprintf("Top %d parks by free events", m.opts.TopLimit))+"\n"+
		renderBarChart(m.theme, free, m.width-12))

	under := make([][]string, len(s.underserved))
	for i, r := range s.underserved {
		under[i] = []string{r.Name, strconv.Itoa(r.EventCount)}
	}
	sections = append(sections, m.theme.Header.Render("Underserved parks (≤ 2 events)")+"\n"+
		renderTable(m.theme, []string{"PARK", "EVENTS"}, under))

	qual := make([][]string, len(s.qualifying))
	for i, r := range s.qualifying {
		qual[i] = []string{r.Name, strconv.Itoa(r.VisitorCenterCount), strconv.Itoa(r.EventCount)}
	}
	sections = append(sections, m.theme.Header.Render("Qualifying parks (≥ 1 center, ≥ 6 events)")+"\n"+
		renderTable(m.theme, []string{"PARK", "CENTERS", "EVENTS"}, qual))

	return strings.Join(sections, "\n\n")
}
