package schemas

import (
	"strings"
	"testing"

	"github.com/J5Chen/Climate-Stories-Map/internal/models"
)

const validPayload = `{
	"title": "Flood",
	"content": {"description": "The river burst its banks."},
	"location": {"type": "Point", "coordinates": [13.4, 52.5]},
	"tag": "Negative",
	"captchaToken": "tok"
}`

func TestLoadPostValid(t *testing.T) {
	in, err := LoadPost([]byte(validPayload))
	if err != nil {
		t.Fatalf("LoadPost failed: %v", err)
	}

	if in.Title != "Flood" {
		t.Errorf("Title = %q, want Flood", in.Title)
	}
	if in.Status != models.StatusPending {
		t.Errorf("Status default = %q, want pending", in.Status)
	}
	if in.OptionalTags == nil || len(in.OptionalTags) != 0 {
		t.Errorf("OptionalTags default = %v, want empty list", in.OptionalTags)
	}
	if in.Location.Coordinates[0] != 13.4 || in.Location.Coordinates[1] != 52.5 {
		t.Errorf("Coordinates = %v", in.Location.Coordinates)
	}
}

func TestLoadPostMissingFields(t *testing.T) {
	_, err := LoadPost([]byte(`{"content": {"description": "x"}, "location": {"type": "Point", "coordinates": [0, 0]}}`))
	if err == nil {
		t.Fatal("expected validation error")
	}
	fe, ok := err.(FieldErrors)
	if !ok {
		t.Fatalf("expected FieldErrors, got %T", err)
	}

	for _, field := range []string{"title", "tag", "captchaToken"} {
		if _, present := fe[field]; !present {
			t.Errorf("expected error for field %q, got %v", field, fe)
		}
	}
	if _, present := fe["content.description"]; present {
		t.Errorf("content.description was provided, should not be flagged: %v", fe)
	}
}

func TestLoadPostBadTag(t *testing.T) {
	payload := strings.Replace(validPayload, "Negative", "Angry", 1)
	_, err := LoadPost([]byte(payload))
	if err == nil {
		t.Fatal("expected validation error for bad tag")
	}
	fe := err.(FieldErrors)
	if msg, present := fe["tag"]; !present {
		t.Errorf("expected tag error, got %v", fe)
	} else if !strings.Contains(msg, "Positive") {
		t.Errorf("tag message should name the enum values, got %q", msg)
	}
	if len(fe) != 1 {
		t.Errorf("only the tag should be flagged, got %v", fe)
	}
}

func TestLoadPostInvalidJSON(t *testing.T) {
	_, err := LoadPost([]byte(`{not json`))
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if _, ok := err.(FieldErrors); !ok {
		t.Fatalf("expected FieldErrors, got %T", err)
	}
}

func TestLoadPostStatusOverride(t *testing.T) {
	payload := strings.Replace(validPayload, `"tag"`, `"status": "approved", "tag"`, 1)
	in, err := LoadPost([]byte(payload))
	if err != nil {
		t.Fatalf("LoadPost failed: %v", err)
	}
	if in.Status != models.StatusApproved {
		t.Errorf("Status = %q, want approved", in.Status)
	}
}

func TestLoadTagFilter(t *testing.T) {
	f, err := LoadTagFilter("", nil)
	if err != nil {
		t.Fatalf("empty filter should validate: %v", err)
	}
	if f.OptionalTags == nil {
		t.Error("OptionalTags should default to an empty list")
	}

	if _, err := LoadTagFilter("Positive", []string{"flood"}); err != nil {
		t.Errorf("valid filter rejected: %v", err)
	}

	_, err = LoadTagFilter("Angry", nil)
	if err == nil {
		t.Fatal("expected error for tag outside the enum")
	}
	fe := err.(FieldErrors)
	if _, present := fe["tag"]; !present {
		t.Errorf("expected tag error, got %v", fe)
	}
}
