package utils

import (
	"reflect"
	"testing"
)

func TestUniqueInts(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		want []int
	}{
		{"empty", []int{}, []int{}},
		{"no dupes", []int{3, 1, 2}, []int{3, 1, 2}},
		{"dupes removed keeping order", []int{5, 1, 5, 2, 1}, []int{5, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UniqueInts(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("UniqueInts(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestContainsString(t *testing.T) {
	list := []string{"alice", "bob"}
	if !ContainsString(list, "bob") {
		t.Error("expected bob to be found")
	}
	if ContainsString(list, "carol") {
		t.Error("did not expect carol to be found")
	}
	if ContainsString(nil, "x") {
		t.Error("nil list must contain nothing")
	}
}
