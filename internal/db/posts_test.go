package db

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestListFilter(t *testing.T) {
	tests := []struct {
		name         string
		tag          string
		optionalTags []string
		want         bson.M
	}{
		{
			name: "no filters restricts to approved",
			want: bson.M{"status": "approved"},
		},
		{
			name: "tag only",
			tag:  "Positive",
			want: bson.M{"status": "approved", "tag": "Positive"},
		},
		{
			name:         "optional tags only",
			optionalTags: []string{"flood", "drought"},
			want: bson.M{
				"status":        "approved",
				"optional_tags": bson.M{"$all": []string{"flood", "drought"}},
			},
		},
		{
			name:         "both combine with logical AND",
			tag:          "Negative",
			optionalTags: []string{"flood"},
			want: bson.M{
				"status": "approved",
				"$and": []bson.M{
					{"tag": "Negative"},
					{"optional_tags": bson.M{"$all": []string{"flood"}}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ListFilter(tt.tag, tt.optionalTags)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ListFilter(%q, %v) = %v, want %v", tt.tag, tt.optionalTags, got, tt.want)
			}
		})
	}
}
