// Package domain holds the lead lifecycle vocabulary shared by the leads services.
package domain

// Lead status values as stored in the leads table.
const (
	StatusUnassigned = "unassigned"
	StatusAssigned   = "assigned"
)

// Finalization form types.
const (
	FormTypeStandard       = "standard"
	FormTypeIncomeProperty = "income_property"
)

// incomePropertyTypes are the property types whose finalization goes through
// the income-property questionnaire. The short names are legacy aliases from
// earlier landing pages and must keep routing the same way.
var incomePropertyTypes = map[string]bool{
	"immeuble-revenus-5-et-plus": true,
	"immeuble-revenus":           true,
	"duplex":                     true,
	"triplex":                    true,
	"quadruplex":                 true,
}

// FormTypeFor returns the finalization form variant for a property type.
func FormTypeFor(propertyType string) string {
	if incomePropertyTypes[propertyType] {
		return FormTypeIncomeProperty
	}
	return FormTypeStandard
}

// OccupancyToBool maps the French occupancy answer to the stored boolean.
// "Vacant" and anything unrecognized store NULL.
func OccupancyToBool(answer string) *bool {
	switch answer {
	case "Propriétaire occupant":
		v := true
		return &v
	case "Locataire":
		v := false
		return &v
	default:
		return nil
	}
}

// YesNoToBool maps "Oui"/"Non" to a boolean, anything else to NULL.
func YesNoToBool(answer string) *bool {
	switch answer {
	case "Oui":
		v := true
		return &v
	case "Non":
		v := false
		return &v
	default:
		return nil
	}
}

// BuyingHelpToBool maps the buying-help answer. "Peut-être" deliberately
// stores NULL, same as an absent answer.
func BuyingHelpToBool(answer string) *bool {
	switch answer {
	case "Oui":
		v := true
		return &v
	case "Non":
		v := false
		return &v
	default:
		return nil
	}
}
