package gantt

// Options configures chart and bar layout. Zero ColumnWidth or Step take
// the preset for the view mode.
type Options struct {
	HeaderHeight    float64  `mapstructure:"header_height" json:"header_height" yaml:"header_height"`
	ColumnWidth     float64  `mapstructure:"column_width" json:"column_width" yaml:"column_width"`
	Step            float64  `mapstructure:"step" json:"step" yaml:"step"` // hours per column
	ViewMode        ViewMode `mapstructure:"view_mode" json:"view_mode" yaml:"view_mode"`
	BarHeight       float64  `mapstructure:"bar_height" json:"bar_height" yaml:"bar_height"`
	BarCornerRadius float64  `mapstructure:"bar_corner_radius" json:"bar_corner_radius" yaml:"bar_corner_radius"`
	ArrowCurve      float64  `mapstructure:"arrow_curve" json:"arrow_curve" yaml:"arrow_curve"`
	Padding         float64  `mapstructure:"padding" json:"padding" yaml:"padding"`
	PopupTrigger    string   `mapstructure:"popup_trigger" json:"popup_trigger" yaml:"popup_trigger"`
	Language        string   `mapstructure:"language" json:"language" yaml:"language"`
	BarTextAlign    string   `mapstructure:"bar_text_align" json:"bar_text_align" yaml:"bar_text_align"`
	FontSize        int      `mapstructure:"font_size" json:"font_size" yaml:"font_size"`
}

// viewScale holds the preset column geometry for a view mode.
type viewScale struct {
	step        float64
	columnWidth float64
}

var viewScales = map[ViewMode]viewScale{
	ViewQuarterDay: {step: 24 / 4, columnWidth: 38},
	ViewHalfDay:    {step: 24 / 2, columnWidth: 38},
	ViewDay:        {step: 24, columnWidth: 38},
	ViewWeek:       {step: 24 * 7, columnWidth: 140},
	ViewMonth:      {step: 24 * 30, columnWidth: 120},
	ViewYear:       {step: 24 * 365, columnWidth: 120},
}

// DefaultOptions returns the stock layout. ColumnWidth and Step are left
// zero so the view mode preset applies.
func DefaultOptions() Options {
	return Options{
		HeaderHeight:    50,
		ViewMode:        ViewDay,
		BarHeight:       20,
		BarCornerRadius: 3,
		ArrowCurve:      5,
		Padding:         18,
		PopupTrigger:    "click",
		Language:        "en",
		BarTextAlign:    AlignCenter,
		FontSize:        12,
	}
}

// ViewModes lists the supported modes in increasing column span.
func ViewModes() []ViewMode {
	return []ViewMode{ViewQuarterDay, ViewHalfDay, ViewDay, ViewWeek, ViewMonth, ViewYear}
}

// Resolve fills unset fields from DefaultOptions and the view mode preset.
func (o Options) Resolve() Options {
	def := DefaultOptions()
	if _, ok := viewScales[o.ViewMode]; !ok {
		o.ViewMode = def.ViewMode
	}
	scale := viewScales[o.ViewMode]
	o.Step = getFloat64(o.Step, scale.step)
	o.ColumnWidth = getFloat64(o.ColumnWidth, scale.columnWidth)
	o.HeaderHeight = getFloat64(o.HeaderHeight, def.HeaderHeight)
	o.BarHeight = getFloat64(o.BarHeight, def.BarHeight)
	o.Padding = getFloat64(o.Padding, def.Padding)
	o.ArrowCurve = getFloat64(o.ArrowCurve, def.ArrowCurve)
	o.PopupTrigger = getString(o.PopupTrigger, def.PopupTrigger)
	o.Language = getString(o.Language, def.Language)
	o.BarTextAlign = getString(o.BarTextAlign, def.BarTextAlign)
	if o.FontSize <= 0 {
		o.FontSize = def.FontSize
	}
	return o
}
