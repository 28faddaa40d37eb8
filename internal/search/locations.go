package search

import (
	"math"
	"sort"
	"strings"
)

type coord struct {
	Lat float64
	Lon float64
}

// suburbCoords maps known Australian metro suburbs to coordinates.
// Location expansion is a lookup table, not a geocoder; unknown
// locations pass through unexpanded.
var suburbCoords = map[string]coord{
	// Brisbane metro
	"Brisbane":         {-27.4698, 153.0251},
	"Brisbane CBD":     {-27.4698, 153.0251},
	"South Brisbane":   {-27.4809, 153.0176},
	"Fortitude Valley": {-27.4570, 153.0341},
	"West End":         {-27.4847, 153.0096},
	"New Farm":         {-27.4679, 153.0480},
	"Paddington":       {-27.4600, 152.9990},
	"Toowong":          {-27.4858, 152.9927},
	"Chermside":        {-27.3858, 153.0307},
	"Carindale":        {-27.5058, 153.1023},
	"Mount Gravatt":    {-27.5390, 153.0789},
	"Indooroopilly":    {-27.4987, 152.9729},
	"Logan":            {-27.6392, 153.1093},
	"Ipswich":          {-27.6143, 152.7608},
	"Redcliffe":        {-27.2307, 153.1025},

	// Sydney metro
	"Sydney":       {-33.8688, 151.2093},
	"Sydney CBD":   {-33.8688, 151.2093},
	"Parramatta":   {-33.8150, 151.0011},
	"Bondi":        {-33.8908, 151.2743},
	"Manly":        {-33.7971, 151.2858},
	"Chatswood":    {-33.7967, 151.1833},
	"Newtown":      {-33.8988, 151.1785},
	"Surry Hills":  {-33.8845, 151.2120},
	"North Sydney": {-33.8389, 151.2070},
	"Penrith":      {-33.7510, 150.6942},
	"Liverpool":    {-33.9200, 150.9230},
	"Blacktown":    {-33.7668, 150.9054},

	// Melbourne metro
	"Melbourne":     {-37.8136, 144.9631},
	"Melbourne CBD": {-37.8136, 144.9631},
	"Richmond":      {-37.8183, 145.0014},
	"St Kilda":      {-37.8676, 144.9809},
	"Fitzroy":       {-37.7984, 144.9784},
	"South Yarra":   {-37.8396, 144.9926},
	"Footscray":     {-37.7995, 144.9005},
	"Box Hill":      {-37.8190, 145.1225},
	"Dandenong":     {-37.9810, 145.2150},
	"Geelong":       {-38.1499, 144.3617},

	// Other capitals
	"Perth":          {-31.9523, 115.8613},
	"Adelaide":       {-34.9285, 138.6007},
	"Canberra":       {-35.2809, 149.1300},
	"Hobart":         {-42.8821, 147.3272},
	"Darwin":         {-12.4634, 130.8456},
	"Gold Coast":     {-28.0167, 153.4000},
	"Sunshine Coast": {-26.6500, 153.0667},
	"Newcastle":      {-32.9283, 151.7817},
	"Wollongong":     {-34.4278, 150.8931},
}

const earthRadiusKM = 6371.0

// haversineKM returns the great-circle distance between two points.
func haversineKM(a, b coord) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}

// lookupCoord resolves a free-text location against the suburb table,
// matching case-insensitively on the first comma-separated segment.
func lookupCoord(location string) (coord, string, bool) {
	name := strings.TrimSpace(location)
	if i := strings.Index(name, ","); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	for known, c := range suburbCoords {
		if strings.EqualFold(known, name) {
			return c, known, true
		}
	}
	return coord{}, "", false
}

// NearbySuburbs returns the location plus nearby known suburbs within
// radiusKM, closest first, capped at maxResults. Unknown locations
// return just the input.
func NearbySuburbs(location string, radiusKM float64, maxResults int) []string {
	if maxResults < 1 {
		maxResults = 1
	}

	origin, canonical, ok := lookupCoord(location)
	if !ok {
		return []string{location}
	}

	type nearby struct {
		name string
		dist float64
	}
	var candidates []nearby
	for name, c := range suburbCoords {
		if name == canonical {
			continue
		}
		if d := haversineKM(origin, c); d <= radiusKM {
			candidates = append(candidates, nearby{name, d})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].name < candidates[j].name
	})

	out := []string{canonical}
	for _, c := range candidates {
		if len(out) >= maxResults {
			break
		}
		out = append(out, c.name)
	}
	return out
}

// ExpandQueryVariations renders query templates against the base
// business type. The base query is always first; duplicates are
// dropped.
func ExpandQueryVariations(query string, templates []string) []string {
	out := []string{query}
	seen := map[string]bool{strings.ToLower(query): true}

	for _, tmpl := range templates {
		expanded := strings.ReplaceAll(tmpl, "{business_type}", query)
		key := strings.ToLower(strings.TrimSpace(expanded))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, expanded)
	}
	return out
}
