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

// Package avl provides a self-balancing binary tree keyed by string,
// used as the binding store of the environment.
package avl

// Tree is an AVL tree mapping strings to arbitrary payloads. The zero
// value is an empty tree.
type Tree struct {
	root *node
	size int
}

type node struct {
	left, right *node
	height      int
	key         string
	payload     interface{}
}

func height(n *node) int {
	if n == nil {
		return 0
	}
	return n.height
}

func (n *node) fix() *node {
	l, r := height(n.left), height(n.right)
	if l > r {
		n.height = l + 1
	} else {
		n.height = r + 1
	}
	return n
}

func balanceFactor(n *node) int {
	if n == nil {
		return 0
	}
	return height(n.right) - height(n.left)
}

func rotateLeft(n *node) *node {
	r := n.right
	n.right = r.left
	r.left = n
	n.fix()
	return r.fix()
}

func rotateRight(n *node) *node {
	l := n.left
	n.left = l.right
	l.right = n
	n.fix()
	return l.fix()
}

func balance(n *node) *node {
	n.fix()
	switch bf := balanceFactor(n); {
	case bf > 1:
		if balanceFactor(n.right) < 0 {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	case bf < -1:
		if balanceFactor(n.left) > 0 {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	}
	return n
}

// Insert binds key to payload, overwriting an existing binding. It
// reports whether a new node was inserted.
func (t *Tree) Insert(key string, payload interface{}) bool {
	var inserted bool
	t.root, inserted = insert(t.root, key, payload)
	if inserted {
		t.size++
	}
	return inserted
}

func insert(n *node, key string, payload interface{}) (*node, bool) {
	if n == nil {
		return &node{height: 1, key: key, payload: payload}, true
	}
	var inserted bool
	switch {
	case key < n.key:
		n.left, inserted = insert(n.left, key, payload)
	case key > n.key:
		n.right, inserted = insert(n.right, key, payload)
	default:
		n.payload = payload
		return n, false
	}
	return balance(n), inserted
}

// Lookup returns the payload bound to key.
func (t *Tree) Lookup(key string) (interface{}, bool) {
	n := t.root
	for n != nil {
		switch {
		case key < n.key:
			n = n.left
		case key > n.key:
			n = n.right
		default:
			return n.payload, true
		}
	}
	return nil, false
}

// Size returns the number of bindings.
func (t *Tree) Size() int { return t.size }

// Walk visits every binding in key order. Walking stops when fn returns
// false.
func (t *Tree) Walk(fn func(key string, payload interface{}) bool) {
	walk(t.root, fn)
}

func walk(n *node, fn func(string, interface{}) bool) bool {
	if n == nil {
		return true
	}
	return walk(n.left, fn) && fn(n.key, n.payload) && walk(n.right, fn)
}

// Keys returns all keys in order.
func (t *Tree) Keys() []string {
	keys := make([]string, 0, t.size)
	t.Walk(func(k string, _ interface{}) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}
