// Package parser extracts structured listing data from Centris property
// sheets. Input is raw text; extraction is regex based with a confidence
// score reflecting how many fields were recognized.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParsedListing is one comparable extracted from a Centris document.
type ParsedListing struct {
	Source   Source   `json:"source"`
	Property Property `json:"property"`
	Pricing  Pricing  `json:"pricing"`
	Notes    Notes    `json:"notes"`
}

type Source struct {
	Type            string  `json:"type"`
	Filename        string  `json:"filename"`
	StoragePath     string  `json:"storage_path"`
	ParsedAt        string  `json:"parsed_at"`
	ParseConfidence float64 `json:"parse_confidence"`
}

type Property struct {
	AddressFull       string  `json:"address_full"`
	AddressStreet     string  `json:"address_street"`
	AddressCity       string  `json:"address_city"`
	AddressRegion     string  `json:"address_region"`
	AddressPostalCode string  `json:"address_postal_code"`
	PropertyType      string  `json:"property_type"`
	OwnershipType     string  `json:"ownership_type"`
	YearBuilt         *int    `json:"year_built"`
	LivingAreaSqft    *int    `json:"living_area_sqft"`
	LotAreaSqft       *int    `json:"lot_area_sqft"`
	Rooms             Rooms   `json:"rooms"`
	Parking           Parking `json:"parking"`
}

type Rooms struct {
	Bedrooms    *int `json:"bedrooms"`
	Bathrooms   *int `json:"bathrooms"`
	PowderRooms *int `json:"powder_rooms"`
}

type Parking struct {
	Garage  *int `json:"garage"`
	Outdoor *int `json:"outdoor"`
}

type Pricing struct {
	ListPrice *int    `json:"list_price"`
	SoldPrice *int    `json:"sold_price"`
	SoldDate  *string `json:"sold_date"`
}

type Notes struct {
	Highlights     []string `json:"highlights"`
	RawTextExcerpt string   `json:"raw_text_excerpt"`
}

// Address is the location block pulled out of a listing.
type Address struct {
	Full       string
	Street     string
	City       string
	Region     string
	PostalCode string
}

const (
	priceMin   = 50000
	priceMax   = 10000000
	excerptLen = 600
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	zeroWidthRe  = regexp.MustCompile(`[\x{200B}-\x{200D}\x{FEFF}]`)

	pricePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\$?\s?(\d{1,3}(?:\s?\d{3})*)`),
		regexp.MustCompile(`(?i)prix[:\s]+\$?\s?(\d{1,3}(?:\s?\d{3})*)`),
		regexp.MustCompile(`(\d{1,3}(?:\s?\d{3})*)\s?\$`),
	}

	addressRe = regexp.MustCompile(`(?i)(\d+[A-Z]?\s+[^,\n]{5,50}?),\s*([^,\n]{3,30}?),?\s*(QC|Québec)?`)
	postalRe  = regexp.MustCompile(`(?i)([A-Z]\d[A-Z]\s?\d[A-Z]\d)`)

	bedroomPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*(?:ch(?:ambres?)?|bed(?:rooms?)?)`),
		regexp.MustCompile(`(?i)chambres?\s*[:\s]+(\d+)`),
	}
	bathroomPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*(?:salles? de bains?|sdb|bath(?:rooms?)?)`),
		regexp.MustCompile(`(?i)salles? de bains?\s*[:\s]+(\d+)`),
	}
	powderRe = regexp.MustCompile(`(?i)(\d+)\s*salles? d'eau`)
	yearRe   = regexp.MustCompile(`(?i)(?:constru(?:ction|it)e?|année)[:\s]+(\d{4})`)

	areaPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d{1,4}(?:[.,]\d{1,2})?)\s*(?:pi[²2]|p\.c\.|pieds? carr)`),
		regexp.MustCompile(`(?i)superficie[:\s]+(\d{1,4})`),
	}
	garageRe = regexp.MustCompile(`(?i)garage[:\s]+(\d+)`)
)

// NormalizeText collapses whitespace and strips zero-width characters.
func NormalizeText(text string) string {
	out := whitespaceRe.ReplaceAllString(text, " ")
	out = zeroWidthRe.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// ParsePrice returns the first plausible listing price found in the text.
// Amounts outside the residential window are skipped.
func ParsePrice(text string) *int {
	for _, pattern := range pricePatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			numStr := strings.ReplaceAll(match[1], " ", "")
			num, err := strconv.Atoi(numStr)
			if err != nil {
				continue
			}
			if num >= priceMin && num <= priceMax {
				return &num
			}
		}
	}
	return nil
}

// ParseAddress pulls the civic address and postal code out of the text.
func ParseAddress(text string) Address {
	var result Address

	if match := addressRe.FindStringSubmatch(text); match != nil {
		result.Street = strings.TrimSpace(match[1])
		result.City = strings.TrimSpace(match[2])
		result.Region = strings.TrimSpace(match[3])
		if result.Region == "" {
			result.Region = "QC"
		}
		result.Full = result.Street + ", " + result.City
		if result.Region != "" {
			result.Full += ", " + result.Region
		}
	}

	if match := postalRe.FindStringSubmatch(text); match != nil {
		result.PostalCode = strings.ToUpper(strings.ReplaceAll(match[1], " ", ""))
	}

	return result
}

// ExtractListingData parses one Centris document into a comparable. The
// confidence reflects the recognized fields: address and price weigh the
// most, room counts and construction year less.
func ExtractListingData(text, filename, storagePath string, now time.Time) ParsedListing {
	normalized := NormalizeText(text)
	confidence := 0.0

	address := ParseAddress(normalized)
	if address.Full != "" {
		confidence += 0.25
	}

	listPrice := ParsePrice(normalized)
	if listPrice != nil {
		confidence += 0.2
	}

	bedrooms := firstInt(normalized, bedroomPatterns)
	if bedrooms != nil {
		confidence += 0.15
	}

	bathrooms := firstInt(normalized, bathroomPatterns)
	if bathrooms != nil {
		confidence += 0.15
	}

	var powderRooms *int
	if match := powderRe.FindStringSubmatch(normalized); match != nil {
		powderRooms = atoiPtr(match[1])
		if powderRooms != nil {
			confidence += 0.1
		}
	}

	var yearBuilt *int
	if match := yearRe.FindStringSubmatch(normalized); match != nil {
		if year, err := strconv.Atoi(match[1]); err == nil && year >= 1800 && year <= now.Year() {
			yearBuilt = &year
			confidence += 0.1
		}
	}

	var livingArea *int
	for _, pattern := range areaPatterns {
		if match := pattern.FindStringSubmatch(normalized); match != nil {
			areaStr := strings.ReplaceAll(match[1], ",", ".")
			if area, err := strconv.ParseFloat(areaStr, 64); err == nil {
				rounded := int(area + 0.5)
				livingArea = &rounded
				confidence += 0.1
			}
			break
		}
	}

	var garage *int
	if match := garageRe.FindStringSubmatch(normalized); match != nil {
		garage = atoiPtr(match[1])
	}

	excerpt := normalized
	if runes := []rune(normalized); len(runes) > excerptLen {
		excerpt = string(runes[:excerptLen])
	}

	if confidence > 1.0 {
		confidence = 1.0
	}

	return ParsedListing{
		Source: Source{
			Type:            "centris_pdf",
			Filename:        filename,
			StoragePath:     storagePath,
			ParsedAt:        now.Format(time.RFC3339),
			ParseConfidence: confidence,
		},
		Property: Property{
			AddressFull:       address.Full,
			AddressStreet:     address.Street,
			AddressCity:       address.City,
			AddressRegion:     address.Region,
			AddressPostalCode: address.PostalCode,
			YearBuilt:         yearBuilt,
			LivingAreaSqft:    livingArea,
			Rooms: Rooms{
				Bedrooms:    bedrooms,
				Bathrooms:   bathrooms,
				PowderRooms: powderRooms,
			},
			Parking: Parking{
				Garage: garage,
			},
		},
		Pricing: Pricing{
			ListPrice: listPrice,
		},
		Notes: Notes{
			Highlights:     []string{},
			RawTextExcerpt: excerpt,
		},
	}
}

func firstInt(text string, patterns []*regexp.Regexp) *int {
	for _, pattern := range patterns {
		if match := pattern.FindStringSubmatch(text); match != nil {
			return atoiPtr(match[1])
		}
	}
	return nil
}

func atoiPtr(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
