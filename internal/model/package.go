package model

// PetType of the animal a package or booking is for.
type PetType string

const (
	PetDog PetType = "dog"
	PetCat PetType = "cat"
)

// Valid reports whether the pet type is one of the known values.
func (p PetType) Valid() bool {
	return p == PetDog || p == PetCat
}

// Package is a grooming service offering. Static seed data, read-only.
type Package struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     PetType `json:"type"`
	Price    float64 `json:"price"`
	Duration int     `json:"duration"` // minutes
}

// DefaultPackages is the catalogue installed on first open of an empty store.
var DefaultPackages = []Package{
	{ID: "dog-basic", Name: "Basic Grooming", Type: PetDog, Price: 45, Duration: 60},
	{ID: "dog-full", Name: "Full Grooming", Type: PetDog, Price: 75, Duration: 90},
	{ID: "dog-bath", Name: "Bath & Brush", Type: PetDog, Price: 35, Duration: 45},
	{ID: "cat-basic", Name: "Basic Grooming", Type: PetCat, Price: 50, Duration: 60},
	{ID: "cat-full", Name: "Full Grooming", Type: PetCat, Price: 80, Duration: 90},
	{ID: "cat-bath", Name: "Bath Only", Type: PetCat, Price: 40, Duration: 45},
}

// FindPackage returns the package with the given id, if present.
func FindPackage(packages []Package, id string) (Package, bool) {
	for _, p := range packages {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}
