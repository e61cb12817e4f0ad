package datasets

type DataSet struct {
	Identifier    string
	DataSourceRef string `json:"-"`
	Format        DataSetFormat

	Provider Provider

	Source               string
	SourceAuthentication SourceAuthentication `json:"-"`

	CoordinateSystem string

	// Limit and SelectedOnly are defaults for this dataset, command line
	// and request options win when given
	Limit        int
	SelectedOnly bool
}

type SourceAuthentication struct {
	Query  map[string]string
	Header map[string]string
}

type DataSetFormat string

const (
	DataSetFormatMATSimScenario   DataSetFormat = "matsim-scenario"
	DataSetFormatMATSimPlans      DataSetFormat = "matsim-plans"
	DataSetFormatMATSimTrips      DataSetFormat = "matsim-trips"
	DataSetFormatMATSimNetwork    DataSetFormat = "matsim-network"
	DataSetFormatMATSimFacilities DataSetFormat = "matsim-facilities"
)

type Provider struct {
	Name    string
	Website string
}
