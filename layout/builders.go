package layout

import (
	"time"

	"github.com/gogpu/deckcanvas"
	"github.com/gogpu/deckcanvas/widget"
)

type builder func(s *WidgetSpec, m deckcanvas.Model) (widget.Widget, error)

var builders = map[string]builder{
	"button":         buildButton,
	"progress":       buildProgress,
	"waveform":       buildWaveform,
	"vu_meter":       buildVUMeter,
	"spectrum":       buildSpectrum,
	"rotary_volume":  buildRotary,
	"gauge":          buildGauge,
	"line_graph":     buildLineGraph,
	"pie_chart":      buildPieChart,
	"grid":           buildGrid,
	"timer":          buildTimer,
	"scrolling_text": buildScrollingText,
	"spinner":        buildSpinner,
	"matrix_rain":    buildMatrixRain,
	"breathing_rect": buildBreathingRect,
}

// set copies v into *dst when the property was given.
func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func buildButton(s *WidgetSpec, _ deckcanvas.Model) (widget.Widget, error) {
	var p struct {
		Icon        string  `yaml:"icon"`
		Label       string  `yaml:"label"`
		Background  *string `yaml:"background"`
		IconColor   *string `yaml:"icon_color"`
		LabelColor  *string `yaml:"label_color"`
		Border      *bool   `yaml:"border"`
		BorderColor *string `yaml:"border_color"`
	}
	if err := s.Props(&p); err != nil {
		return nil, err
	}
	b, err := widget.NewButton(s.Col, s.Row, p.Icon, p.Label)
	if err != nil {
		return nil, err
	}
	set(&b.Background, p.Background)
	set(&b.IconColor, p.IconColor)
	set(&b.LabelColor, p.LabelColor)
	set(&b.Border, p.Border)
	set(&b.BorderColor, p.BorderColor)
	return b, nil
}

func buildProgress(s *WidgetSpec, _ deckcanvas.Model) (widget.Widget, error) {
	var p struct {
		Value          float64 `yaml:"value"`
		Fill           *string `yaml:"fill"`
		Background     *string `yaml:"background"`
		BorderColor    *string `yaml:"border_color"`
		ShowPercentage *bool   `yaml:"show_percentage"`
	}
	if err := s.Props(&p); err != nil {
		return nil, err
	}
	w, _ := s.size()
	b, err := widget.NewProgressBar(s.Col, s.Row, w)
	if err != nil {
		return nil, err
	}
	b.SetProgress(p.Value)
	set(&b.Fill, p.Fill)
	set(&b.Background, p.Background)
	set(&b.BorderColor, p.BorderColor)
	set(&b.ShowPercentage, p.ShowPercentage)
	return b, nil
}

func buildWaveform(s *WidgetSpec, _ deckcanvas.Model) (widget.Widget, error) {
	var p struct {
		Progress      float64   `yaml:"progress"`
		Cues          []float64 `yaml:"cues"`
		PlayedColor   *string   `yaml:"played_color"`
		UnplayedColor *string   `yaml:"unplayed_color"`
	}
	if err := s.Props(&p); err != nil {
		return nil, err
	}
	w, _ := s.size()
	wf, err := widget.NewWaveform(s.Col, s.Row, w)
	if err != nil {
		return nil, err
	}
	wf.SetProgress(p.Progress)
	for _, c := range p.Cues {
		wf.AddCue(c)
	}
	set(&wf.PlayedColor, p.PlayedColor)
	set(&wf.UnplayedColor, p.UnplayedColor)
	return wf, nil
}

func buildVUMeter(s *WidgetSpec, _ deckcanvas.Model) (widget.Widget, error) {
	var p struct {
		Level float64 `yaml:"level"`
	}
	if err := s.Props(&p); err != nil {
		return nil, err
	}
	_, h := s.size()
	v, err := widget.NewVUMeter(s.Col, s.Row, h)
	if err != nil {
		return nil, err
	}
	v.SetLevel(p.Level)
	return v, nil
}

func buildSpectrum(s *WidgetSpec, _ deckcanvas.Model) (widget.Widget, error) {
	var p struct {
		Bars     int       `yaml:"bars"`
		Values   []float64 `yaml:"values"`
		BarColor *string   `yaml:"bar_color"`
	}
	if err := s.Props(&p); err != nil {
		return nil, err
	}
	w, h := s.size()
	sp, err := widget.NewSpectrum(s.Col, s.Row, w, h, p.Bars)
	if err != nil {
		return nil, err
	}
	if p.Values != nil {
		sp.SetValues(p.Values)
	}
	set(&sp.BarColor, p.BarColor)
	return sp, nil
}

func buildRotary(s *WidgetSpec, _ deckcanvas.Model) (widget.Widget, error) {
	var p struct {
		Level       *float64 `yaml:"level"`
		ActiveColor *string  `yaml:"active_color"`
	}
	if err := s.Props(&p); err != nil {
		return nil, err
	}
	v, err := widget.NewRotaryVolume(s.Col, s.Row)
	if err != nil {
		return nil, err
	}
	if p.Level != nil {
		v.SetLevel(*p.Level)
	}
	set(&v.ActiveColor, p.ActiveColor)
	return v, nil
}

func buildGauge(s *WidgetSpec, _ deckcanvas.Model) (widget.Widget, error) {
	var p struct {
		Label string   `yaml:"label"`
		Value float64  `yaml:"value"`
		Min   *float64 `yaml:"min"`
		Max   *float64 `yaml:"max"`
		Color *string  `yaml:"color"`
	}
	if err := s.Props(&p); err != nil {
		return nil, err
	}
	g, err := widget.NewRadialGauge(s.Col, s.Row, p.Label)
	if err != nil {
		return nil, err
	}
	set(&g.Min, p.Min)
	set(&g.Max, p.Max)
	set(&g.Color, p.Color)
	g.SetValue(p.Value)
	return g, nil
}

func buildLineGraph(s *WidgetSpec, _ deckcanvas.Model) (widget.Widget, error) {
	var p struct {
		Values    []float64 `yaml:"values"`
		MaxPoints *int      `yaml:"max_points"`
		Color     *string   `yaml:"color"`
		MinY      *float64  `yaml:"min_y"`
		MaxY      *float64  `yaml:"max_y"`
	}
	if err := s.Props(&p); err != nil {
		return nil, err
	}
	w, h := s.size()
	g, err := widget.NewLineGraph(s.Col, s.Row, w, h)
	if err != nil {
		return nil, err
	}
	set(&g.MaxPoints, p.MaxPoints)
	set(&g.LineColor, p.Color)
	if p.MinY != nil || p.MaxY != nil {
		g.AutoScale = false
		set(&g.MinY, p.MinY)
		set(&g.MaxY, p.MaxY)
	}
	for _, v := range p.Values {
		g.AddValue(v)
	}
	return g, nil
}

func buildPieChart(s *WidgetSpec, _ deckcanvas.Model) (widget.Widget, error) {
	var p struct {
		Values []float64 `yaml:"values"`
		Colors []string  `yaml:"colors"`
	}
	if err := s.Props(&p); err != nil {
		return nil, err
	}
	return widget.NewPieChart(s.Col, s.Row, p.Values, p.Colors)
}

// buildGrid covers the whole page; placement is ignored.
func buildGrid(s *WidgetSpec, m deckcanvas.Model) (widget.Widget, error) {
	var p struct {
		Color       *string `yaml:"color"`
		ShowNumbers bool    `yaml:"show_numbers"`
	}
	if err := s.Props(&p); err != nil {
		return nil, err
	}
	g, err := widget.NewGrid(m.Cols, m.Rows)
	if err != nil {
		return nil, err
	}
	set(&g.Color, p.Color)
	g.ShowNumbers = p.ShowNumbers
	return g, nil
}

func buildTimer(s *WidgetSpec, _ deckcanvas.Model) (widget.Widget, error) {
	var p struct {
		Current time.Duration  `yaml:"current"`
		Total   *time.Duration `yaml:"total"`
		Color   *string        `yaml:"color"`
	}
	if err := s.Props(&p); err != nil {
		return nil, err
	}
	t, err := widget.NewTimer(s.Col, s.Row)
	if err != nil {
		return nil, err
	}
	if p.Total != nil {
		if err := t.SetTotal(*p.Total); err != nil {
			return nil, err
		}
	}
	if err := t.SetTime(p.Current); err != nil {
		return nil, err
	}
	set(&t.Color, p.Color)
	return t, nil
}

func buildScrollingText(s *WidgetSpec, _ deckcanvas.Model) (widget.Widget, error) {
	var p struct {
		Text  string  `yaml:"text"`
		Speed *int    `yaml:"speed"`
		Color *string `yaml:"color"`
	}
	if err := s.Props(&p); err != nil {
		return nil, err
	}
	w, _ := s.size()
	t, err := widget.NewScrollingText(s.Col, s.Row, w, p.Text)
	if err != nil {
		return nil, err
	}
	if p.Speed != nil {
		if err := t.SetSpeed(*p.Speed); err != nil {
			return nil, err
		}
	}
	set(&t.Color, p.Color)
	return t, nil
}

func buildSpinner(s *WidgetSpec, _ deckcanvas.Model) (widget.Widget, error) {
	var p struct {
		Color *string `yaml:"color"`
	}
	if err := s.Props(&p); err != nil {
		return nil, err
	}
	sp, err := widget.NewLoadingSpinner(s.Col, s.Row)
	if err != nil {
		return nil, err
	}
	set(&sp.Color, p.Color)
	return sp, nil
}

func buildMatrixRain(s *WidgetSpec, _ deckcanvas.Model) (widget.Widget, error) {
	var p struct {
		Seed uint64 `yaml:"seed"`
	}
	if err := s.Props(&p); err != nil {
		return nil, err
	}
	w, h := s.size()
	return widget.NewMatrixRain(s.Col, s.Row, w, h, p.Seed)
}

func buildBreathingRect(s *WidgetSpec, _ deckcanvas.Model) (widget.Widget, error) {
	var p struct {
		Color *string  `yaml:"color"`
		Speed *float64 `yaml:"speed"`
	}
	if err := s.Props(&p); err != nil {
		return nil, err
	}
	r, err := widget.NewBreathingRect(s.Col, s.Row)
	if err != nil {
		return nil, err
	}
	set(&r.Color, p.Color)
	set(&r.Speed, p.Speed)
	return r, nil
}
