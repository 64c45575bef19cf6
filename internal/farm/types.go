package farm

// Read defaults.
const (
	// DefaultImageURL is the app asset shown for farms and crops without an image.
	DefaultImageURL = "assets/images/farm_default.png"

	// DefaultCropName replaces a null crop name.
	DefaultCropName = "Unnamed crop"
)

// Farm is a row of the farms table.
type Farm struct {
	ID          string  `json:"farm_id"`
	UserUID     string  `json:"user_uid"`
	Name        string  `json:"farm_name"`
	ImageURL    *string `json:"image_url"`
	Location    *string `json:"location"`
	Description *string `json:"description"`

	// Status is the active flag.
	Status bool `json:"status"`
}

// Summary is the list_user_farms projection.
type Summary struct {
	ID       string `json:"farm_id"`
	Name     string `json:"farm_name"`
	ImageURL string `json:"imageUrl"`
}

// Crop is the get_farm_crops projection of a crops row.
type Crop struct {
	ID       string  `json:"crop_id"`
	FarmID   string  `json:"farm_id"`
	Name     string  `json:"crop_name"`
	ImageURL string  `json:"image_url"`
	Status   *string `json:"status"`
}

// CreateRequest is the create_farm JSON body.
//
// Name and Status are untyped so validation can report a non-string name
// and coerce string statuses.
type CreateRequest struct {
	Name        any     `json:"farm_name"`
	ImageURL    *string `json:"image_url"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	Status      any     `json:"status"`
}
