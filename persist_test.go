package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func sampleDocument() Document {
	doc := NewDocument(defaultSettings())
	a := elementTemplate(KindButton)
	a.ID, a.Z = "btn-1", 1
	b := elementTemplate(KindImage)
	b.ID, b.Z, b.Locked = "img-1", 2, true
	doc.Elements = append(doc.Elements, a, b)
	doc.Selected = "btn-1"
	return doc
}

func TestDocument_RoundTripKeepsIDs(t *testing.T) {
	doc := sampleDocument()
	data, err := MarshalDocument(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := UnmarshalDocument(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Selected != "" {
		t.Errorf("selection persisted: %q", got.Selected)
	}
	doc.Selected = ""
	if !documentsEqual(doc, got) {
		t.Errorf("round trip differs:\n got %+v\nwant %+v", got, doc)
	}
}

func TestDocument_EmptyElementsEncodeAsArray(t *testing.T) {
	data, err := MarshalDocument(Document{Settings: defaultSettings()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(raw["elements"]) != "[]" {
		t.Errorf("elements = %s, want []", raw["elements"])
	}
}

func TestDocument_MalformedRejected(t *testing.T) {
	encode := func(fd fileDocument) []byte {
		data, err := json.Marshal(fd)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		return data
	}
	valid := func() fileDocument {
		doc := sampleDocument()
		return fileDocument{Version: documentVersion, Settings: doc.Settings, Elements: doc.Elements}
	}

	cases := map[string][]byte{
		"not json": []byte("{"),
		"version": func() []byte {
			fd := valid()
			fd.Version = 2
			return encode(fd)
		}(),
		"settings": func() []byte {
			fd := valid()
			fd.Settings.Width = 3
			return encode(fd)
		}(),
		"below floor": func() []byte {
			fd := valid()
			fd.Elements[0].Height = 2
			return encode(fd)
		}(),
		"unknown kind": func() []byte {
			fd := valid()
			fd.Elements[0].Kind = "slider"
			return encode(fd)
		}(),
		"bad color": func() []byte {
			fd := valid()
			fd.Elements[1].Style.Fill = "red"
			return encode(fd)
		}(),
		"duplicate id": func() []byte {
			fd := valid()
			fd.Elements[1].ID = fd.Elements[0].ID
			return encode(fd)
		}(),
		"missing id": func() []byte {
			fd := valid()
			fd.Elements[0].ID = ""
			return encode(fd)
		}(),
	}
	for name, data := range cases {
		if _, err := UnmarshalDocument(data); !errors.Is(err, ErrMalformed) {
			t.Errorf("%s: err = %v, want ErrMalformed", name, err)
		}
	}
}

func TestSaveDocument_Atomic(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "layouts")
	path := filepath.Join(dir, "page.json")

	doc := sampleDocument()
	if err := SaveDocument(path, doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	doc.Elements[0].X = 400
	if err := SaveDocument(path, doc); err != nil {
		t.Fatalf("second save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "page.json" {
		t.Errorf("directory holds %v", entries)
	}

	got, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Elements[0].X != 400 || got.Elements[1].ID != "img-1" || !got.Elements[1].Locked {
		t.Errorf("loaded %+v", got.Elements)
	}
}

func TestLoadDocument_Missing(t *testing.T) {
	_, err := LoadDocument(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v", err)
	}
}
