package main

import "testing"

func TestLookup(t *testing.T) {
	for _, name := range []string{"partition", "plot"} {
		c := lookup(name)
		if c == nil || c.name != name || c.run == nil {
			t.Errorf("missing command %s", name)
			continue
		}
		if c.blurb == "" || c.notes == "" {
			t.Errorf("command %s should describe itself", name)
		}
	}
	if lookup("help") != nil || lookup("") != nil || lookup("Partition") != nil {
		t.Error("unexpected command")
	}
}

func TestInputFiles(t *testing.T) {
	var in inputFiles
	if err := in.Set("a.bins"); err != nil {
		t.Fatal(err)
	}
	if err := in.Set("b.bins"); err != nil {
		t.Fatal(err)
	}
	if len(in) != 2 || in.String() != "a.bins b.bins" {
		t.Error("problem collecting repeated flags", in)
	}
}
