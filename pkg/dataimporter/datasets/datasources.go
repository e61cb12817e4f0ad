package datasets

// DataSource groups the scenario runs published by one provider
type DataSource struct {
	Identifier string
	Region     string
	Provider   Provider
	Datasets   []DataSet

	SourceAuthentication *SourceAuthentication
}
