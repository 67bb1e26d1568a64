package handlers

import (
	"reflect"
	"testing"

	"github.com/J5Chen/Climate-Stories-Map/internal/models"
)

func TestPostFormRoundTrip(t *testing.T) {
	img := "https://cdn.example/i/abc.jpg"
	post := models.Post{
		Title: "Flood",
		Content: models.Content{
			Description: "The river burst its banks.",
			Image:       &img,
		},
		Location: models.Location{
			Type:        "Point",
			Coordinates: [2]float64{13.4, 52.5},
		},
		Tag:          models.TagNegative,
		OptionalTags: []string{"flood", "drought"},
		Status:       models.StatusApproved,
	}

	form := FromPost(&post)

	if form.ContentDescription != post.Content.Description {
		t.Errorf("ContentDescription = %q", form.ContentDescription)
	}
	if form.ContentImage != img {
		t.Errorf("ContentImage = %q", form.ContentImage)
	}
	if form.LocationLongitude != 13.4 || form.LocationLatitude != 52.5 {
		t.Errorf("coordinates flattened wrong: lng=%v lat=%v", form.LocationLongitude, form.LocationLatitude)
	}
	if form.OptionalTags != "flood, drought" {
		t.Errorf("OptionalTags = %q", form.OptionalTags)
	}

	back := form.ToPost()
	if !reflect.DeepEqual(back.Content, post.Content) {
		t.Errorf("Content round trip: %+v != %+v", back.Content, post.Content)
	}
	if !reflect.DeepEqual(back.Location, post.Location) {
		t.Errorf("Location round trip: %+v != %+v", back.Location, post.Location)
	}
	if !reflect.DeepEqual(back.OptionalTags, post.OptionalTags) {
		t.Errorf("OptionalTags round trip: %v", back.OptionalTags)
	}
	if back.Status != post.Status || back.Tag != post.Tag || back.Title != post.Title {
		t.Errorf("scalar fields round trip: %+v", back)
	}
}

func TestToPostWithoutImage(t *testing.T) {
	form := PostForm{
		Title:              "Calm",
		ContentDescription: "Nothing happened.",
		Tag:                models.TagNeutral,
	}

	post := form.ToPost()
	if post.Content.Image != nil {
		t.Error("empty image field should map to no image")
	}
	if post.Location.Type != "Point" {
		t.Errorf("Location.Type = %q, want Point", post.Location.Type)
	}
	if len(post.OptionalTags) != 0 {
		t.Errorf("OptionalTags = %v, want empty", post.OptionalTags)
	}
}

func TestSplitTags(t *testing.T) {
	got := splitTags(" flood ,drought,, heat wave ")
	want := []string{"flood", "drought", "heat wave"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitTags = %v, want %v", got, want)
	}

	if got := splitTags(""); len(got) != 0 {
		t.Errorf("splitTags(\"\") = %v, want empty", got)
	}
}
