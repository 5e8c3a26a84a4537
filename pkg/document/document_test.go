package document

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRelationshipDecode(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantNull bool
		wantOne  *Identity
		wantMany []Identity
	}{
		{
			name:     "ExplicitNull",
			raw:      `{"data": null}`,
			wantNull: true,
		},
		{
			name:    "ToOne",
			raw:     `{"data": {"type": "author", "id": "9"}}`,
			wantOne: &Identity{Type: "author", ID: "9"},
		},
		{
			name: "ToMany",
			raw:  `{"data": [{"type": "comment", "id": "5"}, {"type": "comment", "id": "12"}]}`,
			wantMany: []Identity{
				{Type: "comment", ID: "5"},
				{Type: "comment", ID: "12"},
			},
		},
		{
			name:     "EmptyToMany",
			raw:      `{"data": []}`,
			wantMany: []Identity{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rel Relationship
			if err := json.Unmarshal([]byte(tt.raw), &rel); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !rel.HasData() {
				t.Fatal("HasData() = false, want true")
			}

			linkage, err := rel.Decode()
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}

			if linkage.Null != tt.wantNull {
				t.Errorf("Null = %v, want %v", linkage.Null, tt.wantNull)
			}
			if tt.wantOne != nil {
				if linkage.One == nil || *linkage.One != *tt.wantOne {
					t.Errorf("One = %v, want %v", linkage.One, tt.wantOne)
				}
			}
			if tt.wantMany != nil {
				if !linkage.IsMany {
					t.Fatal("IsMany = false, want true")
				}
				if len(linkage.Many) != len(tt.wantMany) {
					t.Fatalf("len(Many) = %d, want %d", len(linkage.Many), len(tt.wantMany))
				}
				for i := range tt.wantMany {
					if linkage.Many[i] != tt.wantMany[i] {
						t.Errorf("Many[%d] = %v, want %v", i, linkage.Many[i], tt.wantMany[i])
					}
				}
			}
		})
	}
}

func TestRelationshipAbsentData(t *testing.T) {
	var rel Relationship
	if err := json.Unmarshal([]byte(`{"links": {"related": "/articles/1/comments"}}`), &rel); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if rel.HasData() {
		t.Error("HasData() = true for links-only relationship")
	}
	if !rel.LinksOnly() {
		t.Error("LinksOnly() = false, want true")
	}
	if _, err := rel.Decode(); err == nil {
		t.Error("Decode() should fail without a data member")
	}
}

func TestRelationshipBuilders(t *testing.T) {
	one := ToOne(Identity{Type: "author", ID: "9"})
	linkage, err := one.Decode()
	if err != nil || linkage.One == nil || linkage.One.ID != "9" {
		t.Errorf("ToOne round-trip failed: %v %v", linkage, err)
	}

	many := ToMany([]Identity{{Type: "b", ID: "1"}, {Type: "b", ID: "2"}})
	linkage, err = many.Decode()
	if err != nil || !linkage.IsMany || len(linkage.Many) != 2 {
		t.Fatalf("ToMany round-trip failed: %v %v", linkage, err)
	}
	if linkage.Many[0].ID != "1" || linkage.Many[1].ID != "2" {
		t.Errorf("ToMany order = %v, want [1 2]", linkage.Many)
	}

	null := ToNull()
	linkage, err = null.Decode()
	if err != nil || !linkage.Null {
		t.Errorf("ToNull round-trip failed: %v %v", linkage, err)
	}
}

func TestPrimaryDataShapes(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantMany bool
		wantLen  int
	}{
		{name: "SingleObject", raw: `{"data": {"type": "article", "id": "1"}}`, wantLen: 1},
		{name: "Array", raw: `{"data": [{"type": "article", "id": "1"}, {"type": "article", "id": "2"}]}`, wantMany: true, wantLen: 2},
		{name: "EmptyArray", raw: `{"data": []}`, wantMany: true, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Read(strings.NewReader(tt.raw))
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if doc.Data == nil {
				t.Fatal("Data = nil")
			}
			if doc.Data.IsMany != tt.wantMany {
				t.Errorf("IsMany = %v, want %v", doc.Data.IsMany, tt.wantMany)
			}
			if got := len(doc.Data.Resources()); got != tt.wantLen {
				t.Errorf("len(Resources()) = %d, want %d", got, tt.wantLen)
			}
		})
	}
}

func TestDocumentWithoutData(t *testing.T) {
	doc, err := Read(strings.NewReader(`{"meta": {"total": 10}}`))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if doc.HasData() {
		t.Error("HasData() = true for meta-only document")
	}
	if doc.Meta["total"] != float64(10) {
		t.Errorf("Meta[total] = %v, want 10", doc.Meta["total"])
	}
}

func TestErrorDocument(t *testing.T) {
	doc, err := Read(strings.NewReader(`{"errors": [{"status": "404", "title": "Not Found"}]}`))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if doc.HasData() {
		t.Error("HasData() = true for error document")
	}
	if len(doc.Errors) != 1 || doc.Errors[0].Status != "404" {
		t.Errorf("Errors = %v", doc.Errors)
	}
}

func TestRoundTrip(t *testing.T) {
	doc := Document{
		Data: &PrimaryData{One: &Resource{
			Type:       "article",
			ID:         "1",
			Attributes: map[string]any{"title": "Graphs"},
			Relationships: map[string]Relationship{
				"author":   ToOne(Identity{Type: "person", ID: "9"}),
				"comments": ToMany([]Identity{{Type: "comment", ID: "5"}}),
			},
		}},
		Included: []Resource{{Type: "person", ID: "9", Attributes: map[string]any{"name": "dgeb"}}},
		Meta:     map[string]any{"count": 1.0},
	}

	var buf bytes.Buffer
	if err := Write(doc, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if got.Data == nil || got.Data.One == nil {
		t.Fatal("round-trip lost primary data")
	}
	if got.Data.One.Attributes["title"] != "Graphs" {
		t.Errorf("title = %v", got.Data.One.Attributes["title"])
	}
	if len(got.Included) != 1 || got.Included[0].Type != "person" {
		t.Errorf("Included = %v", got.Included)
	}
	if got.Meta["count"] != 1.0 {
		t.Errorf("Meta = %v", got.Meta)
	}

	rel := got.Data.One.Relationships["comments"]
	linkage, err := rel.Decode()
	if err != nil || !linkage.IsMany || linkage.Many[0].ID != "5" {
		t.Errorf("comments linkage = %v, err %v", linkage, err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "payload.json")

	doc := Single(Resource{Type: "article", ID: "1"})
	if err := WriteFile(doc, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.Data.One.Type != "article" || got.Data.One.ID != "1" {
		t.Errorf("got %+v", got.Data.One)
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("ReadFile on missing file should fail")
	}
}

func TestReadRejectsMalformedJSON(t *testing.T) {
	if _, err := Read(strings.NewReader(`{"data": {`)); err == nil {
		t.Error("Read should fail on truncated JSON")
	}
}

func TestWriteFileCreateError(t *testing.T) {
	err := WriteFile(Document{}, filepath.Join(os.DevNull, "nope", "x.json"))
	if err == nil {
		t.Error("WriteFile should fail for invalid path")
	}
}
