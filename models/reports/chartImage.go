package reports

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"

	"github.com/EliandyDumortier/pilotage-eclair/models"
	"github.com/disintegration/imaging"
	chart "github.com/wcharczuk/go-chart/v2"
)

// RenderChartPNG rasterizes a chart specification. The chart is drawn at
// twice the requested width and downsampled, which keeps text crisp when
// the image is embedded in a PDF.
func RenderChartPNG(spec models.ChartSpec, width, height int) ([]byte, error) {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 400
	}

	var raw bytes.Buffer
	var err error
	switch spec.Kind {
	case models.ChartKindLine:
		err = renderLineChart(spec, width*2, height*2, &raw)
	case models.ChartKindBar:
		err = renderBarChart(spec, width*2, height*2, &raw)
	case models.ChartKindPie:
		err = renderPieChart(spec, width*2, height*2, &raw)
	default:
		err = fmt.Errorf("unsupported chart kind %q", spec.Kind)
	}
	if err != nil {
		return nil, err
	}

	img, err := png.Decode(bytes.NewReader(raw.Bytes()))
	if err != nil {
		return nil, err
	}
	resized := imaging.Resize(img, width, 0, imaging.Lanczos)

	var out bytes.Buffer
	if err := png.Encode(&out, resized); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func renderLineChart(spec models.ChartSpec, width, height int, w *bytes.Buffer) error {
	series := make([]chart.Series, 0, len(spec.Series))
	for _, s := range spec.Series {
		if len(s.Points) == 0 {
			continue
		}
		ts := chart.TimeSeries{Name: s.Nom}
		for _, p := range s.Points {
			ts.XValues = append(ts.XValues, p.Date)
			ts.YValues = append(ts.YValues, p.Valeur)
		}
		series = append(series, ts)
	}
	if len(series) == 0 {
		return errors.New("no data to chart")
	}

	graph := chart.Chart{
		Title:  spec.Titre,
		Width:  width,
		Height: height,
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(chart.PNG, w)
}

func renderBarChart(spec models.ChartSpec, width, height int, w *bytes.Buffer) error {
	var bars []chart.Value
	for _, s := range spec.Series {
		for _, p := range s.Points {
			bars = append(bars, chart.Value{
				Label: fmt.Sprintf("%s %s", s.Nom, p.Date.Format("02/01")),
				Value: p.Valeur,
			})
		}
	}
	if len(bars) == 0 {
		return errors.New("no data to chart")
	}

	graph := chart.BarChart{
		Title:    spec.Titre,
		Width:    width,
		Height:   height,
		BarWidth: 40,
		Bars:     bars,
	}
	return graph.Render(chart.PNG, w)
}

func renderPieChart(spec models.ChartSpec, width, height int, w *bytes.Buffer) error {
	values := make([]chart.Value, 0, len(spec.Slices))
	for _, s := range spec.Slices {
		values = append(values, chart.Value{Label: s.Nom, Value: s.Total})
	}
	if len(values) == 0 {
		return errors.New("no data to chart")
	}

	graph := chart.PieChart{
		Title:  spec.Titre,
		Width:  width,
		Height: height,
		Values: values,
	}
	return graph.Render(chart.PNG, w)
}
