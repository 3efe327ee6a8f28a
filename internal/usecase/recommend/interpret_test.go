package recommend

import "testing"

func TestInterpret_SentinelAlone(t *testing.T) {
	set := Interpret(Sentinel)
	if set.Matched {
		t.Fatal("expected no-match for bare sentinel")
	}
}

func TestInterpret_SentinelEmbedded(t *testing.T) {
	// Even mid-paragraph the sentinel wins; content is ignored, not parsed.
	set := Interpret("I looked carefully but NOTHING in the catalog fits your needs.")
	if set.Matched {
		t.Fatal("expected no-match for embedded sentinel")
	}
	if set.Text != "" {
		t.Errorf("no-match must carry no text, got %q", set.Text)
	}
}

func TestInterpret_CaseSensitive(t *testing.T) {
	set := Interpret("nothing matched? Quite the opposite:\n1. **Toyota Fortuner 2022** — diesel SUV")
	if !set.Matched {
		t.Fatal("lowercase token must not trigger the sentinel")
	}
}

func TestInterpret_Empty(t *testing.T) {
	if Interpret("").Matched {
		t.Error("expected no-match for empty response")
	}
	if Interpret(" \n\t ").Matched {
		t.Error("expected no-match for whitespace-only response")
	}
}

func TestInterpret_PassesTextThrough(t *testing.T) {
	raw := "## Best Matches\n1. **Toyota Fortuner Legender 2022** — 7 seater diesel SUV under budget"
	set := Interpret(raw)
	if !set.Matched {
		t.Fatal("expected match")
	}
	if set.Text != raw {
		t.Errorf("text altered: %q", set.Text)
	}
}
