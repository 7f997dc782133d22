// This file is part of dialecte - https://github.com/hipparcos/dialecte
//
// Copyright 2019 The dialecte authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package avl

import (
	"fmt"
	"reflect"
	"testing"
)

func TestInsertLookup(t *testing.T) {
	var tr Tree
	if !tr.Insert("b", 2) || !tr.Insert("a", 1) || !tr.Insert("c", 3) {
		t.Fatal("insert of new keys reported no insertion")
	}
	if tr.Insert("b", 20) {
		t.Error("overwrite reported as insertion")
	}
	if tr.Size() != 3 {
		t.Errorf("size = %d, want 3", tr.Size())
	}
	v, ok := tr.Lookup("b")
	if !ok || v.(int) != 20 {
		t.Errorf("lookup b = %v, %v", v, ok)
	}
	if _, ok := tr.Lookup("missing"); ok {
		t.Error("lookup of missing key succeeded")
	}
}

func TestKeysOrdered(t *testing.T) {
	var tr Tree
	for _, k := range []string{"m", "c", "x", "a", "t", "e"} {
		tr.Insert(k, nil)
	}
	want := []string{"a", "c", "e", "m", "t", "x"}
	if got := tr.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("keys = %v, want %v", got, want)
	}
}

func TestBalance(t *testing.T) {
	var tr Tree
	// ascending insertion degenerates a naive BST; the AVL must stay
	// logarithmic
	const n = 1024
	for i := 0; i < n; i++ {
		tr.Insert(fmt.Sprintf("%05d", i), i)
	}
	if h := height(tr.root); h > 12 {
		t.Errorf("height = %d after %d ascending inserts", h, n)
	}
	for i := 0; i < n; i++ {
		v, ok := tr.Lookup(fmt.Sprintf("%05d", i))
		if !ok || v.(int) != i {
			t.Fatalf("lookup %d failed", i)
		}
	}
}

func TestWalkStops(t *testing.T) {
	var tr Tree
	for _, k := range []string{"a", "b", "c"} {
		tr.Insert(k, nil)
	}
	var seen []string
	tr.Walk(func(k string, _ interface{}) bool {
		seen = append(seen, k)
		return k != "b"
	})
	if !reflect.DeepEqual(seen, []string{"a", "b"}) {
		t.Errorf("walk visited %v", seen)
	}
}
