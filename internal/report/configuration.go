package report

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultPageTitleConstant        = "Sähkön hinta nyt"
	defaultPageDescriptionConstant  = "Sähkön spot-hinta nykyhetkestä eteenpäin yksinkertaisessa taulukossa ilman mainoksia ja muuta tauhkaa."
	defaultPageAuthorConstant       = "t-800m101"
	defaultPageLanguageConstant     = "fi"
	defaultRefreshLinkURLConstant   = "https://htmlpreview.github.io/?https://github.com/t-800m101/spot-hinta/blob/main/spot-hintataulukko.html"
	defaultRefreshLinkLabelConstant = "Päivitä"
	defaultBarMaximumWidthConstant  = 23.0

	defaultDateColumnHeaderConstant  = "Päivä"
	defaultHourColumnHeaderConstant  = "Tunti"
	defaultPriceColumnHeaderConstant = "Hinta"
	defaultUnitColumnHeaderConstant  = "(snt/kWh, alv. 24 %)"

	renderConfigurationReadErrorTemplateConstant  = "unable to read render configuration %s: %w"
	renderConfigurationParseErrorTemplateConstant = "unable to parse render configuration %s: %w"
)

// RenderConfiguration controls the look of the generated page.
type RenderConfiguration struct {
	PageTitle        string  `yaml:"page_title"`
	PageDescription  string  `yaml:"page_description"`
	PageAuthor       string  `yaml:"page_author"`
	PageLanguage     string  `yaml:"page_language"`
	RefreshLinkURL   string  `yaml:"refresh_link_url"`
	RefreshLinkLabel string  `yaml:"refresh_link_label"`
	BarMaximumWidth  float64 `yaml:"bar_maximum_width"`
	ShowHistory      bool    `yaml:"show_history"`

	DateColumnHeader  string `yaml:"date_column_header"`
	HourColumnHeader  string `yaml:"hour_column_header"`
	PriceColumnHeader string `yaml:"price_column_header"`
	UnitColumnHeader  string `yaml:"unit_column_header"`
}

// DefaultRenderConfiguration returns the configuration matching the published page.
func DefaultRenderConfiguration() RenderConfiguration {
	return RenderConfiguration{
		PageTitle:         defaultPageTitleConstant,
		PageDescription:   defaultPageDescriptionConstant,
		PageAuthor:        defaultPageAuthorConstant,
		PageLanguage:      defaultPageLanguageConstant,
		RefreshLinkURL:    defaultRefreshLinkURLConstant,
		RefreshLinkLabel:  defaultRefreshLinkLabelConstant,
		BarMaximumWidth:   defaultBarMaximumWidthConstant,
		ShowHistory:       false,
		DateColumnHeader:  defaultDateColumnHeaderConstant,
		HourColumnHeader:  defaultHourColumnHeaderConstant,
		PriceColumnHeader: defaultPriceColumnHeaderConstant,
		UnitColumnHeader:  defaultUnitColumnHeaderConstant,
	}
}

// Sanitize fills empty fields with defaults so partial configuration files stay usable.
func (configuration RenderConfiguration) Sanitize() RenderConfiguration {
	defaults := DefaultRenderConfiguration()

	sanitized := configuration
	if len(strings.TrimSpace(sanitized.PageTitle)) == 0 {
		sanitized.PageTitle = defaults.PageTitle
	}
	if len(strings.TrimSpace(sanitized.PageDescription)) == 0 {
		sanitized.PageDescription = defaults.PageDescription
	}
	if len(strings.TrimSpace(sanitized.PageAuthor)) == 0 {
		sanitized.PageAuthor = defaults.PageAuthor
	}
	if len(strings.TrimSpace(sanitized.PageLanguage)) == 0 {
		sanitized.PageLanguage = defaults.PageLanguage
	}
	if len(strings.TrimSpace(sanitized.RefreshLinkURL)) == 0 {
		sanitized.RefreshLinkURL = defaults.RefreshLinkURL
	}
	if len(strings.TrimSpace(sanitized.RefreshLinkLabel)) == 0 {
		sanitized.RefreshLinkLabel = defaults.RefreshLinkLabel
	}
	if sanitized.BarMaximumWidth <= 0 {
		sanitized.BarMaximumWidth = defaults.BarMaximumWidth
	}
	if len(strings.TrimSpace(sanitized.DateColumnHeader)) == 0 {
		sanitized.DateColumnHeader = defaults.DateColumnHeader
	}
	if len(strings.TrimSpace(sanitized.HourColumnHeader)) == 0 {
		sanitized.HourColumnHeader = defaults.HourColumnHeader
	}
	if len(strings.TrimSpace(sanitized.PriceColumnHeader)) == 0 {
		sanitized.PriceColumnHeader = defaults.PriceColumnHeader
	}
	if len(strings.TrimSpace(sanitized.UnitColumnHeader)) == 0 {
		sanitized.UnitColumnHeader = defaults.UnitColumnHeader
	}

	return sanitized
}

// LoadRenderConfiguration reads a YAML render configuration file and merges it over the defaults.
// An empty path yields the defaults.
func LoadRenderConfiguration(filePath string) (RenderConfiguration, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return DefaultRenderConfiguration(), nil
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return RenderConfiguration{}, fmt.Errorf(renderConfigurationReadErrorTemplateConstant, trimmedPath, readError)
	}

	var configuration RenderConfiguration
	if unmarshalError := yaml.Unmarshal(contentBytes, &configuration); unmarshalError != nil {
		return RenderConfiguration{}, fmt.Errorf(renderConfigurationParseErrorTemplateConstant, trimmedPath, unmarshalError)
	}

	return configuration.Sanitize(), nil
}
