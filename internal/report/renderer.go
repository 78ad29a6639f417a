package report

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/t-800m101/spothinta/internal/prices"
)

const (
	priceDecimalPlacesConstant       = 2
	barGraphRuneConstant             = "█"
	hourLabelLayoutConstant          = "15"
	dateLabelTemplateConstant        = "%s %d.%d."
	noVisiblePricesErrorConstant     = "no price periods at or after the reference time"
	pageTemplateNameConstant         = "price-page"
	pageTemplateExecutionErrorFormat = "unable to render price page: %w"
)

var finnishWeekdayAbbreviations = map[time.Weekday]string{
	time.Monday:    "ma",
	time.Tuesday:   "ti",
	time.Wednesday: "ke",
	time.Thursday:  "to",
	time.Friday:    "pe",
	time.Saturday:  "la",
	time.Sunday:    "su",
}

const pageTemplateTextConstant = `<!doctype html>

<html lang="{{.Language}}">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="height=device-height, initial-scale=1">
    <title>{{.Title}}</title>
    <meta name="description" content="{{.Description}}">
    <meta name="author" content="{{.Author}}">

    <style>
        body {
            background-color: #f9f9f9;
        }
        table.prices {
            height:85vh;
            border-spacing: 0px;
            font-size:1.7vh;
            white-space: nowrap;
            padding-bottom: 4px;
        }
        tr {
            padding: 0px;
            margin: 0px;
        }
        th, td {
            padding-top: 0px;
            padding-bottom: 0px;
            padding-left: 2px;
            padding-right: 0px;
            text-align: center;
        }
        td.bargraph {
            font-family: 'Courier New', monospace;
            text-align: left;
            color: #1a5fb4;
            letter-spacing: 0px;
        }
        td.pricecol {
            text-align: right;
            padding-right: 2px;
        }
        p{
            font-size:1.3vh;
        }
        button.refresh {
            width: 98%;
            height: 5vh;
        }
        .button {
            font-size: 1.7vh;
            font-weight: bold;
            text-decoration: none;
            background-color: #EFEFEF;
            padding: 2px 6px 2px 6px;
            border-right: 2px solid #101010;
            border-bottom: 2px solid #101010;
            display: block;
            width: 90%;
            height: 5vh;
            text-align: center;
        }
    </style>
</head>
<body>
<table class="prices">
  <tr><th>{{.DateHeader}}</th><th>{{.HourHeader}}</th><th>{{.PriceHeader}}</th><th>{{.UnitHeader}}</th></tr>
{{- range .Rows}}
  <tr><td>{{.DateLabel}}</td><td>{{.HourLabel}}</td><td class="pricecol">{{.PriceLabel}}</td><td class="bargraph">{{.BarGraph}}</td></tr>
{{- end}}
</table>
<a href="{{.RefreshLinkURL}}" class="button">{{.RefreshLinkLabel}}</a>
</body>
</html>
`

// TableRow is a single rendered hour of the price table.
type TableRow struct {
	DateLabel  string
	HourLabel  string
	PriceLabel string
	BarGraph   string
}

type pageTemplateData struct {
	Language         string
	Title            string
	Description      string
	Author           string
	DateHeader       string
	HourHeader       string
	PriceHeader      string
	UnitHeader       string
	Rows             []TableRow
	RefreshLinkURL   string
	RefreshLinkLabel string
}

// ErrNoVisiblePrices reports that every price period ended before the reference time.
var ErrNoVisiblePrices = errors.New(noVisiblePricesErrorConstant)

// Renderer turns a price sheet into the published HTML page.
type Renderer struct {
	configuration RenderConfiguration
	location      *time.Location
	pageTemplate  *template.Template
}

// NewRenderer constructs a Renderer for the provided configuration and display timezone.
func NewRenderer(configuration RenderConfiguration, location *time.Location) *Renderer {
	if location == nil {
		location = time.UTC
	}

	return &Renderer{
		configuration: configuration.Sanitize(),
		location:      location,
		pageTemplate:  template.Must(template.New(pageTemplateNameConstant).Parse(pageTemplateTextConstant)),
	}
}

// Render produces the HTML page for the price periods visible from referenceTime onward.
func (renderer *Renderer) Render(priceSheet prices.PriceSheet, referenceTime time.Time) ([]byte, error) {
	tableRows, rowsError := renderer.BuildRows(priceSheet, referenceTime)
	if rowsError != nil {
		return nil, rowsError
	}

	templateData := pageTemplateData{
		Language:         renderer.configuration.PageLanguage,
		Title:            renderer.configuration.PageTitle,
		Description:      renderer.configuration.PageDescription,
		Author:           renderer.configuration.PageAuthor,
		DateHeader:       renderer.configuration.DateColumnHeader,
		HourHeader:       renderer.configuration.HourColumnHeader,
		PriceHeader:      renderer.configuration.PriceColumnHeader,
		UnitHeader:       renderer.configuration.UnitColumnHeader,
		Rows:             tableRows,
		RefreshLinkURL:   renderer.configuration.RefreshLinkURL,
		RefreshLinkLabel: renderer.configuration.RefreshLinkLabel,
	}

	var renderedPage bytes.Buffer
	if executionError := renderer.pageTemplate.Execute(&renderedPage, templateData); executionError != nil {
		return nil, fmt.Errorf(pageTemplateExecutionErrorFormat, executionError)
	}

	return renderedPage.Bytes(), nil
}

// BuildRows selects, orders, and formats the visible price periods.
func (renderer *Renderer) BuildRows(priceSheet prices.PriceSheet, referenceTime time.Time) ([]TableRow, error) {
	visiblePrices := renderer.selectVisiblePrices(priceSheet, referenceTime)
	if len(visiblePrices) == 0 {
		return nil, ErrNoVisiblePrices
	}

	roundedPrices := make([]decimal.Decimal, len(visiblePrices))
	maximumPrice := decimal.Zero
	for priceIndex, pricePoint := range visiblePrices {
		roundedPrice := pricePoint.Price.Round(priceDecimalPlacesConstant)
		roundedPrices[priceIndex] = roundedPrice
		if priceIndex == 0 || roundedPrice.GreaterThan(maximumPrice) {
			maximumPrice = roundedPrice
		}
	}

	tableRows := make([]TableRow, 0, len(visiblePrices))
	previousDateLabel := ""
	for priceIndex, pricePoint := range visiblePrices {
		localStart := pricePoint.StartDate.In(renderer.location)

		dateLabel := renderer.formatDateLabel(localStart)
		displayedDateLabel := dateLabel
		if dateLabel == previousDateLabel {
			displayedDateLabel = ""
		} else {
			previousDateLabel = dateLabel
		}

		tableRows = append(tableRows, TableRow{
			DateLabel:  displayedDateLabel,
			HourLabel:  localStart.Format(hourLabelLayoutConstant),
			PriceLabel: roundedPrices[priceIndex].StringFixed(priceDecimalPlacesConstant),
			BarGraph:   renderer.buildBarGraph(roundedPrices[priceIndex], maximumPrice),
		})
	}

	return tableRows, nil
}

func (renderer *Renderer) selectVisiblePrices(priceSheet prices.PriceSheet, referenceTime time.Time) []prices.PricePoint {
	orderedPrices := priceSheet.Ascending()
	if renderer.configuration.ShowHistory {
		return orderedPrices
	}

	visiblePrices := make([]prices.PricePoint, 0, len(orderedPrices))
	for _, pricePoint := range orderedPrices {
		if pricePoint.StartDate.Before(referenceTime) {
			continue
		}
		visiblePrices = append(visiblePrices, pricePoint)
	}
	return visiblePrices
}

func (renderer *Renderer) formatDateLabel(localStart time.Time) string {
	weekdayAbbreviation := finnishWeekdayAbbreviations[localStart.Weekday()]
	return fmt.Sprintf(dateLabelTemplateConstant, weekdayAbbreviation, localStart.Day(), int(localStart.Month()))
}

// buildBarGraph repeats the bar rune proportionally to the price, scaled so the
// most expensive visible hour fills the configured maximum width.
func (renderer *Renderer) buildBarGraph(roundedPrice decimal.Decimal, maximumPrice decimal.Decimal) string {
	maximumPriceFloat, _ := maximumPrice.Float64()
	if maximumPriceFloat <= 0 {
		return ""
	}

	priceFloat, _ := roundedPrice.Float64()
	barLength := int(math.Round(priceFloat * renderer.configuration.BarMaximumWidth / maximumPriceFloat))
	if barLength <= 0 {
		return ""
	}

	return strings.Repeat(barGraphRuneConstant, barLength)
}
