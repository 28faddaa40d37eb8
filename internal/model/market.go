package model

// MarketSnapshot captures first-page result density for the primary
// query and location. It feeds competition scoring; counts exclude
// directory listings.
type MarketSnapshot struct {
	AdsCount     int
	OrganicCount int
	MapsCount    int
	// Names holds every business name and headline seen on the
	// primary first pages, for franchise detection downstream.
	Names []string
}

// Empty reports whether the snapshot carries no search context.
func (m MarketSnapshot) Empty() bool {
	return m.AdsCount == 0 && m.OrganicCount == 0 && m.MapsCount == 0 && len(m.Names) == 0
}
