package score

import (
	"fmt"
	"strings"
)

// Industry value categories. Multiplier reflects how much a client in
// that market will pay: commoditised trades race to the bottom while
// specialists face almost no competition.
const (
	IndustryCommoditised = "commoditised"
	IndustryStandard     = "standard"
	IndustryNiche        = "niche"
	IndustrySpecialist   = "specialist"
)

// IndustryClassification is the value-tier result for one business.
type IndustryClassification struct {
	Category   string
	Multiplier float64
	Confidence float64
	Matched    []string
	Notes      string
}

type industryPattern struct {
	keywords   []string
	category   string
	multiplier float64
	notes      string
}

var industryPatterns = []industryPattern{
	// Commoditised (0.4-0.6): high volume, low margin
	{[]string{"lawn mow", "mowing", "grass cut"}, IndustryCommoditised, 0.4, "Highly commoditised, price war market"},
	{[]string{"cleaner", "cleaning service", "house clean", "office clean", "domestic clean"}, IndustryCommoditised, 0.5, "High competition, low margins"},
	{[]string{"rubbish removal", "junk removal", "skip bin", "waste removal"}, IndustryCommoditised, 0.5, "Price-driven commodity"},
	{[]string{"plumber", "plumbing", "blocked drain", "gas fitter", "hot water"}, IndustryCommoditised, 0.6, "Franchise-heavy market"},
	{[]string{"electrician", "electrical", "sparky"}, IndustryCommoditised, 0.6, "Commoditised trade"},
	{[]string{"painter", "painting service", "house paint"}, IndustryCommoditised, 0.55, "Low barrier to entry"},
	{[]string{"handyman", "odd jobs", "home repair"}, IndustryCommoditised, 0.5, "Gig economy competition"},
	{[]string{"removalist", "moving service", "furniture remov"}, IndustryCommoditised, 0.55, "Seasonal, price-sensitive"},
	{[]string{"pest control", "termite", "exterminator"}, IndustryCommoditised, 0.6, "Some franchise competition"},
	{[]string{"carpet clean", "upholstery clean"}, IndustryCommoditised, 0.5, "Low differentiation"},
	{[]string{"pressure wash", "pressure clean"}, IndustryCommoditised, 0.5, "Easy entry market"},
	{[]string{"gutter clean", "roof clean"}, IndustryCommoditised, 0.55, "Seasonal commodity"},
	{[]string{"locksmith"}, IndustryCommoditised, 0.55, "Emergency service commodity"},
	{[]string{"towing", "tow truck"}, IndustryCommoditised, 0.55, "Emergency service"},

	// Standard (0.8-1.0): normal service businesses
	{[]string{"accountant", "accounting", "bookkeeper", "tax agent", "bas agent"}, IndustryStandard, 0.9, "Professional service"},
	{[]string{"lawyer", "solicitor", "legal service"}, IndustryStandard, 1.0, "Regulated profession"},
	{[]string{"dentist", "dental"}, IndustryStandard, 0.95, "Healthcare, location-dependent"},
	{[]string{"physio", "physiotherap", "chiropractor", "osteopath"}, IndustryStandard, 0.9, "Allied health"},
	{[]string{"mechanic", "auto repair", "car service"}, IndustryStandard, 0.85, "Established trade"},
	{[]string{"hairdresser", "hair salon", "barber", "beauty salon"}, IndustryStandard, 0.85, "Personal service"},
	{[]string{"real estate agent", "property manager"}, IndustryStandard, 0.9, "Franchise presence"},
	{[]string{"mortgage broker", "finance broker"}, IndustryStandard, 0.95, "Financial service"},
	{[]string{"photographer", "videographer"}, IndustryStandard, 0.85, "Creative, portfolio-driven"},
	{[]string{"web design", "web develop", "website design"}, IndustryStandard, 0.9, "Technical service"},
	{[]string{"personal trainer", "fitness coach"}, IndustryStandard, 0.8, "Personal service"},
	{[]string{"florist", "flower shop"}, IndustryStandard, 0.85, "Retail/service hybrid"},
	{[]string{"vet", "veterinar"}, IndustryStandard, 0.9, "Healthcare"},
	{[]string{"optometrist", "optical"}, IndustryStandard, 0.9, "Healthcare retail"},
	{[]string{"psycholog", "counsell", "therapist"}, IndustryStandard, 0.95, "Mental health professional"},
	{[]string{"massage", "remedial massage"}, IndustryStandard, 0.85, "Wellness service"},
	{[]string{"podiatr", "foot clinic"}, IndustryStandard, 0.9, "Allied health"},
	{[]string{"baker", "bakery", "cake shop"}, IndustryStandard, 0.85, "Food retail"},
	{[]string{"restaurant", "cafe", "coffee shop"}, IndustryStandard, 0.8, "Hospitality"},
	{[]string{"caterer", "catering"}, IndustryStandard, 0.85, "Event service"},

	// Niche (1.2-1.4): specialised services
	{[]string{"buyer's agent", "buyers agent", "buyer agent", "buyers advocate"}, IndustryNiche, 1.4, "High-value property niche"},
	{[]string{"architect", "architectural"}, IndustryNiche, 1.3, "Professional design"},
	{[]string{"interior design"}, IndustryNiche, 1.25, "Design specialist"},
	{[]string{"landscape architect", "landscape design", "garden design"}, IndustryNiche, 1.25, "Outdoor design specialist"},
	{[]string{"heritage", "restoration", "conservation"}, IndustryNiche, 1.4, "Heritage specialist"},
	{[]string{"migration agent", "immigration", "visa agent"}, IndustryNiche, 1.35, "Specialist legal"},
	{[]string{"financial planner", "wealth advis", "financial advis"}, IndustryNiche, 1.3, "High-value professional"},
	{[]string{"building certif", "building inspect", "pre-purchase inspect"}, IndustryNiche, 1.2, "Specialist inspection"},
	{[]string{"quantity survey", "cost estimat"}, IndustryNiche, 1.25, "Construction specialist"},
	{[]string{"town planner", "urban planner", "planning consult"}, IndustryNiche, 1.3, "Development specialist"},
	{[]string{"acoustic", "noise consult", "sound engineer"}, IndustryNiche, 1.35, "Technical specialist"},
	{[]string{"survey", "land survey", "cadastral"}, IndustryNiche, 1.25, "Licensed specialist"},
	{[]string{"arborist", "tree surgeon"}, IndustryNiche, 1.2, "Specialist trade"},
	{[]string{"pool build", "swimming pool construct"}, IndustryNiche, 1.2, "Specialist construction"},
	{[]string{"commercial fitout", "office fitout", "shopfitt"}, IndustryNiche, 1.3, "Commercial specialist"},
	{[]string{"strata manag", "body corporate"}, IndustryNiche, 1.35, "Property management niche"},
	{[]string{"customs broker", "freight forward"}, IndustryNiche, 1.3, "Import/export specialist"},
	{[]string{"ip lawyer", "patent attorney", "trademark"}, IndustryNiche, 1.4, "Specialist legal"},
	{[]string{"family law", "divorce lawyer"}, IndustryNiche, 1.25, "Specialist legal"},
	{[]string{"conveyancer", "conveyancing"}, IndustryNiche, 1.2, "Property legal specialist"},
	{[]string{"executive coach", "business coach", "leadership coach"}, IndustryNiche, 1.35, "High-value consulting"},
	{[]string{"hr consult", "recruitment agency"}, IndustryNiche, 1.25, "Business service"},
	{[]string{"solar install", "solar panel"}, IndustryNiche, 1.2, "Renewable energy (becoming commoditised)"},

	// Specialist (1.4-1.6): very low competition
	{[]string{"aviation", "aircraft", "helicopter", "pilot training"}, IndustrySpecialist, 1.6, "Highly specialised"},
	{[]string{"marine survey", "boat survey", "vessel inspect"}, IndustrySpecialist, 1.5, "Marine specialist"},
	{[]string{"marine engineer", "boat mechanic"}, IndustrySpecialist, 1.45, "Marine trade"},
	{[]string{"medical equipment", "healthcare equipment"}, IndustrySpecialist, 1.5, "Medical industry"},
	{[]string{"veterinary specialist", "animal surgeon", "equine vet"}, IndustrySpecialist, 1.45, "Specialist vet"},
	{[]string{"mining consult", "resources consult", "geolog"}, IndustrySpecialist, 1.5, "Resources sector"},
	{[]string{"environmental consult", "ecology", "contamination"}, IndustrySpecialist, 1.4, "Environmental specialist"},
	{[]string{"elevator", "lift service", "escalator"}, IndustrySpecialist, 1.45, "Vertical transport"},
	{[]string{"fire protection", "fire engineer", "sprinkler system"}, IndustrySpecialist, 1.4, "Fire safety specialist"},
	{[]string{"data centre", "server room"}, IndustrySpecialist, 1.5, "IT infrastructure"},
	{[]string{"ev charger", "electric vehicle charg"}, IndustrySpecialist, 1.4, "Emerging specialist"},
	{[]string{"cybersecurity", "penetration test", "security audit"}, IndustrySpecialist, 1.5, "IT security"},
	{[]string{"forensic account", "fraud investigat"}, IndustrySpecialist, 1.5, "Specialist accounting"},
	{[]string{"medical special", "surgeon", "cardiolog", "oncolog"}, IndustrySpecialist, 1.5, "Medical specialist"},
	{[]string{"aerospace", "defence contractor"}, IndustrySpecialist, 1.6, "High-security sector"},
	{[]string{"nuclear", "radiation"}, IndustrySpecialist, 1.6, "Regulated specialist"},
	{[]string{"subsea", "offshore", "diving contractor"}, IndustrySpecialist, 1.5, "Marine/oil & gas"},
}

// ClassifyIndustry maps a business type (usually the search query) and
// optional business name onto a value tier. The best pattern wins by
// matched-keyword count, with longest matched keyword as tiebreak.
func ClassifyIndustry(businessType, businessName string) IndustryClassification {
	searchText := strings.ToLower(businessType)
	if businessName != "" {
		searchText += " " + strings.ToLower(businessName)
	}

	var best *industryPattern
	var bestScore float64
	var bestMatched []string

	for i := range industryPatterns {
		p := &industryPatterns[i]

		var matched []string
		longest := 0
		for _, kw := range p.keywords {
			if strings.Contains(searchText, kw) {
				matched = append(matched, kw)
				if len(kw) > longest {
					longest = len(kw)
				}
			}
		}
		if len(matched) == 0 {
			continue
		}

		matchScore := float64(len(matched)) + float64(longest)/100
		if matchScore > bestScore {
			bestScore = matchScore
			best = p
			bestMatched = matched
		}
	}

	if best != nil {
		return IndustryClassification{
			Category:   best.category,
			Multiplier: best.multiplier,
			Confidence: min(1.0, bestScore*0.4),
			Matched:    bestMatched,
			Notes:      best.notes,
		}
	}

	return IndustryClassification{
		Category:   IndustryStandard,
		Multiplier: 1.0,
		Confidence: 0.2,
		Notes:      "Unclassified - using default",
	}
}

// IndustryNotes renders the classification as a one-line note.
func IndustryNotes(c IndustryClassification) string {
	categoryText := map[string]string{
		IndustryCommoditised: "Commoditised market",
		IndustryStandard:     "Standard service market",
		IndustryNiche:        "Niche specialist market",
		IndustrySpecialist:   "Highly specialised market",
	}
	return fmt.Sprintf("%s (%gx); %s", categoryText[c.Category], c.Multiplier, c.Notes)
}
