package bm25

import (
	"path/filepath"
	"reflect"
	"testing"
)

var testCorpus = []string{
	"Toyota Fortuner Legender 2022 in Islamabad; 5 km mileage; Diesel engine, Automatic transmission, white color, SUV body type; price 15000000",
	"Toyota Premio X EX Package 1.8 2018 in Peshawar; 17,000 km mileage; Petrol engine, Automatic transmission, pearl white, Sedan body type; price 8500000",
	"Honda Civic Oriel 2012 in Lahore; 33,000 km mileage; Petrol engine, Manual transmission, black color, Sedan body type; price 3200000",
}

func fitted(t *testing.T) *Encoder {
	t.Helper()
	e := New(0, 0)
	if err := e.Fit(testCorpus); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	return e
}

func TestEncode_ParallelArrays(t *testing.T) {
	e := fitted(t)

	vec, err := e.Encode("diesel SUV automatic")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := vec.Validate(); err != nil {
		t.Fatalf("invariant violated: %v", err)
	}
	if vec.IsZero() {
		t.Fatal("expected non-zero vector for in-vocabulary terms")
	}
	for i := 1; i < len(vec.Indices); i++ {
		if vec.Indices[i] <= vec.Indices[i-1] {
			t.Fatalf("indices not strictly ascending: %v", vec.Indices)
		}
	}
	for _, v := range vec.Values {
		if v <= 0 {
			t.Errorf("expected positive weights, got %v", vec.Values)
		}
	}
}

func TestEncode_Deterministic(t *testing.T) {
	e := fitted(t)

	a, err := e.Encode("petrol sedan in Lahore under 4000000")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b, err := e.Encode("petrol sedan in Lahore under 4000000")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("identical input produced different vectors")
	}
}

func TestEncode_RarerTermWeighsMore(t *testing.T) {
	e := fitted(t)

	// "diesel" appears in one document, "petrol" in two.
	dv, err := e.Encode("diesel")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	pv, err := e.Encode("petrol")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(dv.Values) != 1 || len(pv.Values) != 1 {
		t.Fatalf("expected single-term vectors, got %d and %d", len(dv.Values), len(pv.Values))
	}
	if dv.Values[0] <= pv.Values[0] {
		t.Errorf("idf ordering broken: diesel %v <= petrol %v", dv.Values[0], pv.Values[0])
	}
}

func TestEncode_UnknownTermsOnly(t *testing.T) {
	e := fitted(t)

	vec, err := e.Encode("zeppelin quixotic")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !vec.IsZero() {
		t.Errorf("expected zero vector, got %d terms", len(vec.Indices))
	}
}

func TestEncode_EmptyInput(t *testing.T) {
	e := fitted(t)
	if _, err := e.Encode("   "); err == nil {
		t.Fatal("expected error for whitespace-only input")
	}
}

func TestEncode_NotFitted(t *testing.T) {
	e := New(0, 0)
	if _, err := e.Encode("anything"); err == nil {
		t.Fatal("expected error for unfitted encoder")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	e := fitted(t)
	path := filepath.Join(t.TempDir(), "vocab.json")

	if err := e.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.VocabularySize() != e.VocabularySize() {
		t.Fatalf("vocabulary size %d != %d", loaded.VocabularySize(), e.VocabularySize())
	}

	query := "7 seater diesel SUV automatic under 15000000"
	want, err := e.Encode(query)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := loaded.Encode(query)
	if err != nil {
		t.Fatalf("Encode after Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Error("loaded encoder disagrees with fitted encoder")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing artifact")
	}
}
