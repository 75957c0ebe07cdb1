// Package idgen provides identifier generators for tasks, projects and teams.
package idgen

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Kind is the entity an identifier is generated for.
type Kind string

const (
	KindTask    Kind = "task"
	KindProject Kind = "project"
	KindTeam    Kind = "team"
)

// Generator produces identifiers. seq is the store's counter for the kind; it is
// advanced by the store on every call whether or not the generator uses it.
type Generator interface {
	NewID(kind Kind, seq int) string
}

// Counter formats ids from the store counters: "task-1", "project-3".
type Counter struct{}

// NewID implements Generator.
func (Counter) NewID(kind Kind, seq int) string {
	return string(kind) + "-" + strconv.Itoa(seq)
}

// UUID generates random version 4 UUIDs and ignores the counters.
type UUID struct{}

// NewID implements Generator.
func (UUID) NewID(_ Kind, _ int) string {
	return uuid.NewString()
}

// New returns the generator registered under name ("counter" or "uuid").
// Unknown names fall back to Counter.
func New(name string) Generator {
	if name == "uuid" {
		return UUID{}
	}
	return Counter{}
}

// Seq extracts the counter value from a Counter-style id of the given kind.
func Seq(kind Kind, id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, string(kind)+"-")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// NextSeq returns the smallest counter greater than every Counter-style id in ids,
// and at least current.
func NextSeq(kind Kind, current int, ids []string) int {
	next := current
	for _, id := range ids {
		if n, ok := Seq(kind, id); ok && n >= next {
			next = n + 1
		}
	}
	return next
}
