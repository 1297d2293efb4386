package report

// ChartOptions are per-chart content toggles. A chart with no stored options
// inherits the report-level IncludeAnalysis / IncludeInsights toggles. The
// flags only matter when the chart's parsed analysis or insights text is
// non-empty; renderers skip empty blocks regardless.
type ChartOptions struct {
	IncludeAnalysis bool `yaml:"includeAnalysis" json:"includeAnalysis"`
	IncludeInsights bool `yaml:"includeInsights" json:"includeInsights"`
}

// State is the persisted report-building state of a project: the
// configuration record, the ordered chart selection, and any per-chart
// overrides.
type State struct {
	Config       Config                  `yaml:"config" json:"config"`
	Selection    Selection               `yaml:"selection" json:"selection"`
	ChartOptions map[string]ChartOptions `yaml:"chartOptions,omitempty" json:"chartOptions,omitempty"`
}

// NewState returns report state with a fully defaulted configuration.
func NewState() State {
	return State{Config: DefaultConfig()}
}

// OptionsFor resolves the effective content options for a chart, falling back
// to the global toggles when no per-chart entry exists.
func (s *State) OptionsFor(chartID string) ChartOptions {
	if opts, ok := s.ChartOptions[chartID]; ok {
		return opts
	}
	return ChartOptions{
		IncludeAnalysis: s.Config.IncludeAnalysis,
		IncludeInsights: s.Config.IncludeInsights,
	}
}

// SetOptions stores a per-chart override.
func (s *State) SetOptions(chartID string, opts ChartOptions) {
	if s.ChartOptions == nil {
		s.ChartOptions = make(map[string]ChartOptions)
	}
	s.ChartOptions[chartID] = opts
}

// ClearOptions removes a per-chart override so the chart inherits the global
// toggles again.
func (s *State) ClearOptions(chartID string) {
	delete(s.ChartOptions, chartID)
}
