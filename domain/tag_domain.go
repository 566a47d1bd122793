package domain

var (
	MessageSuccessGetTags   = "success get tags"
	MessageSuccessGetTag    = "success get tag"
	MessageSuccessCreateTag = "tag created successfully"
	MessageFailedGetTags    = "failed to get tags"
	MessageFailedGetTag     = "failed to get tag"
	MessageFailedCreateTag  = "failed to create tag"
	MessageFailedDeleteTag  = "failed to delete tag"

	ErrTagNotFound = NotFound("tag not found")
	ErrTagExists   = Business("tag with this name, color or slug already exists")
)

// TagColors is the palette a tag colour must be picked from.
var TagColors = map[string]string{
	"#E26C2D": "orange",
	"#49B64E": "green",
	"#8775D2": "purple",
	"#FF0000": "red",
	"#0000FF": "blue",
	"#FFFF00": "yellow",
	"#000000": "black",
	"#FFFFFF": "white",
}

type (
	CreateTagRequest struct {
		Name  string `json:"name" validate:"required,max=200"`
		Color string `json:"color" validate:"required,tagcolor"`
		Slug  string `json:"slug" validate:"required,max=200,slug"`
	}

	TagResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
		Slug  string `json:"slug"`
	}
)
