package domain

// RequirementCategory names one of the four requirement collections a
// project document carries. Category fields hold ordered arrays of
// schemaless requirement items, each with a stable "id".
type RequirementCategory string

const (
	CategoryEP  RequirementCategory = "EP"
	CategoryHU  RequirementCategory = "HU"
	CategoryRF  RequirementCategory = "RF"
	CategoryRNF RequirementCategory = "RNF"
)

// RequirementCategories is the closed set of category field names.
var RequirementCategories = []RequirementCategory{CategoryEP, CategoryHU, CategoryRF, CategoryRNF}

// IsRequirementCategory reports whether key names a requirement array field.
func IsRequirementCategory(key string) bool {
	for _, c := range RequirementCategories {
		if string(c) == key {
			return true
		}
	}
	return false
}

// Project is the fixed-shape projection returned for a single project.
// The underlying document is schemaless; fields missing on the document
// stay nil here.
type Project struct {
	ID                  string `json:"id"`
	NombreProyecto      any    `json:"nombreProyecto"`
	Descripcion         any    `json:"descripcion"`
	Estatus             any    `json:"estatus"`
	EP                  any    `json:"EP"`
	HU                  any    `json:"HU"`
	RF                  any    `json:"RF"`
	RNF                 any    `json:"RNF"`
	FechaCreacion       any    `json:"fechaCreacion"`
	ImageURL            any    `json:"imageUrl,omitempty"`
	ModificationHistory []any  `json:"modificationHistory"`
}

// FromDocument builds the projection for a document's field map.
func FromDocument(id string, data map[string]any) Project {
	p := Project{
		ID:             id,
		NombreProyecto: data["nombreProyecto"],
		Descripcion:    data["descripcion"],
		Estatus:        data["estatus"],
		EP:             data["EP"],
		HU:             data["HU"],
		RF:             data["RF"],
		RNF:            data["RNF"],
		FechaCreacion:  data["fechaCreacion"],
		ImageURL:       data["imageUrl"],
	}
	if hist, ok := data["modificationHistory"].([]any); ok {
		p.ModificationHistory = hist
	} else {
		p.ModificationHistory = []any{}
	}
	return p
}

// TeamMember is one row of the Users_Projects ⋈ Users join.
type TeamMember struct {
	UserID   int    `json:"UserID"`
	Username string `json:"username"`
	Lastname string `json:"lastname"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// RequirementUpdate is one element of a batch requirement update: the
// target document id plus the two editable fields.
type RequirementUpdate struct {
	ID          string `json:"id"`
	Descripcion string `json:"descripcion"`
	Estatus     string `json:"estatus"`
}

// Actor identifies the user performing a mutation, as recorded in the
// modification history.
type Actor struct {
	UserID int
}
