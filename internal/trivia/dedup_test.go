package trivia

import (
	"reflect"
	"testing"
)

func TestAskedSet(t *testing.T) {
	s := NewAskedSet("a", "b")
	if !s.Add("c") {
		t.Fatal("Add of new text reported false")
	}
	if s.Add("a") {
		t.Fatal("Add of existing text reported true")
	}
	if got := s.Texts(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("Texts() = %v", got)
	}
	if s.Contains("A") {
		t.Fatal("membership must be exact")
	}

	clone := s.Clone()
	clone.Add("d")
	if s.Contains("d") {
		t.Fatal("clone shares state with original")
	}

	s.Clear()
	if s.Len() != 0 || s.Contains("a") {
		t.Fatal("Clear left entries behind")
	}
}

func TestAskedSet_NilAndZero(t *testing.T) {
	var nilSet *AskedSet
	if nilSet.Contains("x") || nilSet.Len() != 0 || nilSet.Texts() != nil {
		t.Fatal("nil set should be empty")
	}

	var zero AskedSet
	if !zero.Add("x") || !zero.Contains("x") {
		t.Fatal("zero value should be usable")
	}
}
