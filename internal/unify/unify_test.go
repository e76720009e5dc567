package unify

import (
	"strings"
	"testing"

	"easyconfig/configsource"
	"easyconfig/flatkey"
	"easyconfig/internal/classify"
	"easyconfig/internal/diag"
)

func unifyDoc(t *testing.T, doc, key string) (ArraySchema, *diag.Collector) {
	t.Helper()
	src, err := configsource.NewBuilder().AddJSON("test.json", []byte(doc)).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	var c diag.Collector
	return Unify(src, flatkey.Entry{Key: key}, &c), &c
}

func TestUnify_MergesProperties(t *testing.T) {
	schema, c := unifyDoc(t, `{"People": [
		{"Name": "ann", "Age": 30},
		{"Name": "bob", "Email": "b@example.com", "Tags": ["x"]}
	]}`, "People")

	if c.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.Diagnostics())
	}

	want := []Property{
		{Name: "Name", Type: classify.String},
		{Name: "Age", Type: classify.Int},
		{Name: "Email", Type: classify.String},
		{Name: "Tags", Type: classify.StringArray},
	}
	if schema.Len() != len(want) {
		t.Fatalf("got %d properties, want %d: %+v", schema.Len(), len(want), schema.Properties)
	}
	for i, p := range want {
		if schema.Properties[i] != p {
			t.Errorf("Properties[%d] = %+v, want %+v", i, schema.Properties[i], p)
		}
	}
	if typ, ok := schema.Type("Email"); !ok || typ != classify.String {
		t.Errorf("Type(Email) = %v, %v", typ, ok)
	}
	if _, ok := schema.Type("Missing"); ok {
		t.Error("Type(Missing) reported present")
	}
}

func TestUnify_TypeConflictKeepsFirstSeen(t *testing.T) {
	schema, c := unifyDoc(t, `{"People": [
		{"Name": "ann", "Age": 30},
		{"Name": "bob", "Age": "twelve"},
		{"Name": "cy", "Age": "thirteen"}
	]}`, "People")

	if typ, _ := schema.Type("Age"); typ != classify.Int {
		t.Errorf("Age unified to %v, want int", typ)
	}

	ds := c.Diagnostics()
	if len(ds) != 1 {
		t.Fatalf("got %d diagnostics, want exactly 1: %v", len(ds), ds)
	}
	if ds[0].Key != "People:1:Age" {
		t.Errorf("diagnostic key = %q, want People:1:Age", ds[0].Key)
	}
	if !strings.Contains(ds[0].Reason, "keeping int") {
		t.Errorf("diagnostic reason = %q", ds[0].Reason)
	}
}

func TestUnify_QuotedNumeralsClassifyByText(t *testing.T) {
	schema, c := unifyDoc(t, `{"People": [{"Age": 30}, {"Age": "12"}]}`, "People")

	if c.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", c.Diagnostics())
	}
	if typ, _ := schema.Type("Age"); typ != classify.Int {
		t.Errorf("Age unified to %v, want int", typ)
	}
}

func TestUnify_NestedRecordRejected(t *testing.T) {
	schema, c := unifyDoc(t, `{"Items": [
		{"Name": "a", "Meta": {"K": 1}},
		{"Name": "b", "Meta": {"K": 2}},
		{"Name": "c", "Parts": [{"Id": 1}]}
	]}`, "Items")

	if _, ok := schema.Type("Meta"); ok {
		t.Error("nested object should be omitted")
	}
	if _, ok := schema.Type("Parts"); ok {
		t.Error("nested object array should be omitted")
	}
	if _, ok := schema.Type("Name"); !ok {
		t.Error("Name should still be unified")
	}

	ds := c.Diagnostics()
	if len(ds) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %v", len(ds), ds)
	}
	if ds[0].Key != "Items:0:Meta" || ds[1].Key != "Items:2:Parts" {
		t.Errorf("diagnostic keys = %q, %q", ds[0].Key, ds[1].Key)
	}
}

func TestUnify_ScalarElementReported(t *testing.T) {
	schema, c := unifyDoc(t, `{"Items": ["loose", {"Name": "a"}]}`, "Items")

	if _, ok := schema.Type("Name"); !ok {
		t.Error("Name should be unified from the record element")
	}
	if ds := c.ForKey("Items:0"); len(ds) != 1 {
		t.Errorf("expected one diagnostic for Items:0, got %v", c.Diagnostics())
	}
}

func TestUnify_MixedElementReported(t *testing.T) {
	_, c := unifyDoc(t, `{"Items": [{"0": "a", "x": "b"}, {"Name": "a"}]}`, "Items")

	if ds := c.ForKey("Items:0"); len(ds) != 1 {
		t.Errorf("expected one diagnostic for Items:0, got %v", c.Diagnostics())
	}
}

func TestUnify_MixedPropertyReported(t *testing.T) {
	schema, c := unifyDoc(t, `{"Items": [{"P": {"0": "a", "x": "b"}}, {"P": {"0": "a", "x": "b"}}]}`, "Items")

	if _, ok := schema.Type("P"); ok {
		t.Error("invalid property should be omitted")
	}
	if c.Len() != 1 {
		t.Errorf("got %d diagnostics, want 1: %v", c.Len(), c.Diagnostics())
	}
}
