package catalog

// Siding is the exterior wall material of a house.
type Siding string

const (
	SidingBrick    Siding = "Brick"
	SidingMetal    Siding = "Metal"
	SidingVinyl    Siding = "Vinyl"
	SidingShiplap  Siding = "Shiplap"
	SidingHardieLP Siding = "Hardie/LP"
	SidingLog      Siding = "Log/Half-Log"
)

// Sidings lists every declared siding type.
func Sidings() []Siding {
	return []Siding{SidingBrick, SidingMetal, SidingVinyl, SidingShiplap, SidingHardieLP, SidingLog}
}

// Valid reports whether s is a declared siding type.
func (s Siding) Valid() bool { return contains(Sidings(), s) }

// CleaningMethod is how a house is washed.
type CleaningMethod string

const (
	CleaningSoapScrub CleaningMethod = "Soap/Scrub"
	CleaningSoftWash  CleaningMethod = "SH"
)

// CleaningMethods lists every declared cleaning method.
func CleaningMethods() []CleaningMethod {
	return []CleaningMethod{CleaningSoapScrub, CleaningSoftWash}
}

// Valid reports whether m is a declared cleaning method.
func (m CleaningMethod) Valid() bool { return contains(CleaningMethods(), m) }

// Stories is a story count, half stories included. It is a string so it can
// key catalog tables and survive JSON untouched.
type Stories string

const (
	Stories1   Stories = "1"
	Stories1_5 Stories = "1.5"
	Stories2   Stories = "2"
	Stories2_5 Stories = "2.5"
	Stories3   Stories = "3"
)

// AllStories lists every declared story count in ascending order.
func AllStories() []Stories {
	return []Stories{Stories1, Stories1_5, Stories2, Stories2_5, Stories3}
}

// Valid reports whether s is a declared story count.
func (s Stories) Valid() bool { return contains(AllStories(), s) }

// StructureType is the kind of building treated for pests.
type StructureType string

const (
	StructureResidential StructureType = "Residential"
	StructureCommercial  StructureType = "Commercial"
)

// StructureTypes lists every declared structure type.
func StructureTypes() []StructureType {
	return []StructureType{StructureResidential, StructureCommercial}
}

// Valid reports whether t is a declared structure type.
func (t StructureType) Valid() bool { return contains(StructureTypes(), t) }

// Infestation is the observed pest condition.
type Infestation string

const (
	InfestationNone   Infestation = "none"
	InfestationMedium Infestation = "medium"
	InfestationHeavy  Infestation = "heavy"
)

// Infestations lists every declared infestation level.
func Infestations() []Infestation {
	return []Infestation{InfestationNone, InfestationMedium, InfestationHeavy}
}

// Valid reports whether i is a declared infestation level.
func (i Infestation) Valid() bool { return contains(Infestations(), i) }

// RoofMaterial is the roof surface for a roof treatment.
type RoofMaterial string

const (
	RoofAsphalt RoofMaterial = "Asphalt"
	RoofOther   RoofMaterial = "Other"
)

// RoofMaterials lists every declared roof material.
func RoofMaterials() []RoofMaterial {
	return []RoofMaterial{RoofAsphalt, RoofOther}
}

// Valid reports whether m is a declared roof material.
func (m RoofMaterial) Valid() bool { return contains(RoofMaterials(), m) }

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
