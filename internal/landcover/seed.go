package landcover

// Reference data of the Oumé department classified forests. Values come
// from the field inventory campaign; areas are the legally gazetted
// surfaces in hectares.

// Nomenclature is the canonical cover-type table, in display order.
var Nomenclature = []CoverType{
	{Code: "FORET_DENSE", LabelFR: "Forêt dense", ColorHex: "#006400", DisplayOrder: 1, BiomassTHa: 1739.16, CarbonTCHa: 869.10, CarbonRefT: 3186.70},
	{Code: "FORET_CLAIRE", LabelFR: "Forêt claire", ColorHex: "#32CD32", DisplayOrder: 2, BiomassTHa: 1804.16, CarbonTCHa: 902.08, CarbonRefT: 3307.62},
	{Code: "FORET_DEGRADEE", LabelFR: "Forêt dégradée", ColorHex: "#9ACD32", DisplayOrder: 3, BiomassTHa: 1062.09, CarbonTCHa: 531.04, CarbonRefT: 1947.15},
	{Code: "JACHERE", LabelFR: "Jachère / Reboisement jeune", ColorHex: "#FFFF00", DisplayOrder: 4, BiomassTHa: 1671.98, CarbonTCHa: 792.66, CarbonRefT: 2906.42},
	{Code: "CACAO", LabelFR: "Cacao", ColorHex: "#FFA500", DisplayOrder: 5},
	{Code: "CAFE", LabelFR: "Café", ColorHex: "#8B4513", DisplayOrder: 6},
	{Code: "HEVEA", LabelFR: "Hévéa", ColorHex: "#FFB6C1", DisplayOrder: 7},
	{Code: "CULTURE_HERBACEE", LabelFR: "Culture annuelle / Herbacée", ColorHex: "#DA70D6", DisplayOrder: 8},
	{Code: "SOL_NU", LabelFR: "Sol nu", ColorHex: "#E0FFFF", DisplayOrder: 9},
}

// Forests is the canonical forest registry.
var Forests = []Forest{
	{Code: "TENE", Name: "Forêt Classée de TENÉ", LegalAreaHa: 29549},
	{Code: "DOKA", Name: "Forêt Classée de DOKA", LegalAreaHa: 10945},
	{Code: "SANGOUE", Name: "Forêt Classée de SANGOUÉ", LegalAreaHa: 27360},
	{Code: "LAHOUDA", Name: "Forêt Classée de LAHOUDA", LegalAreaHa: 3300},
	{Code: "ZOUEKE_1", Name: "Forêt Classée de ZOUÉKÉ Bloc I", LegalAreaHa: 6825},
	{Code: "ZOUEKE_2", Name: "Forêt Classée de ZOUÉKÉ Bloc II", LegalAreaHa: 3077},
}

// TotalLegalAreaHa is the gazetted surface of all six forests combined.
const TotalLegalAreaHa = 81056.0

// CarbonFactor returns the carbon reference factor (tC/ha) for a cover
// code, 0 for non-forest covers.
func CarbonFactor(coverCode string) float64 {
	for _, ct := range Nomenclature {
		if ct.Code == coverCode {
			return ct.CarbonTCHa
		}
	}
	return 0
}
