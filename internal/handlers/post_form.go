package handlers

import (
	"strings"

	"github.com/J5Chen/Climate-Stories-Map/internal/models"
)

// PostForm is the flattened shape the admin panel edits: the nested
// content/location sub-objects are spread into scalar fields and the
// optional tags joined into one comma-separated string. FromPost and
// ToPost are exact inverses of each other (modulo tag whitespace).
type PostForm struct {
	Title              string  `form:"title"`
	ContentDescription string  `form:"content_description"`
	ContentImage       string  `form:"content_image"`
	LocationLatitude   float64 `form:"location_latitude"`
	LocationLongitude  float64 `form:"location_longitude"`
	Tag                string  `form:"tag"`
	OptionalTags       string  `form:"optionalTags"`
	Status             string  `form:"status"`
}

// FromPost populates the flattened fields from the stored nested shape.
func FromPost(p *models.Post) PostForm {
	f := PostForm{
		Title:              p.Title,
		ContentDescription: p.Content.Description,
		LocationLongitude:  p.Location.Coordinates[0],
		LocationLatitude:   p.Location.Coordinates[1],
		Tag:                p.Tag,
		OptionalTags:       strings.Join(p.OptionalTags, ", "),
		Status:             p.Status,
	}
	if p.Content.Image != nil {
		f.ContentImage = *p.Content.Image
	}
	return f
}

// ToPost reassembles the nested content/location sub-objects and re-splits
// the optional-tags string; the flattened fields do not survive into the
// stored document.
func (f PostForm) ToPost() models.Post {
	post := models.Post{
		Title: f.Title,
		Content: models.Content{
			Description: f.ContentDescription,
		},
		Location: models.Location{
			Type:        "Point",
			Coordinates: [2]float64{f.LocationLongitude, f.LocationLatitude},
		},
		Tag:          f.Tag,
		OptionalTags: splitTags(f.OptionalTags),
		Status:       f.Status,
	}
	if f.ContentImage != "" {
		img := f.ContentImage
		post.Content.Image = &img
	}
	return post
}

func splitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
