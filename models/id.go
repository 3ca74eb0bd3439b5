package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Reddit object fullname kinds.
const (
	KindComment   = "t1"
	KindRedditor  = "t2"
	KindPost      = "t3"
	KindSubreddit = "t5"
)

// DecodeID converts a base-36 textual object id into its dense integer form,
// the inverse of reddit's own encoding. Ids are lowercase [0-9a-z].
func DecodeID(id string) (int64, error) {
	if id == "" {
		return 0, fmt.Errorf("decode id: empty id")
	}
	n, err := strconv.ParseInt(id, 36, 64)
	if err != nil {
		return 0, fmt.Errorf("decode id %q: %w", id, err)
	}
	return n, nil
}

// EncodeID is the inverse of DecodeID.
func EncodeID(n int64) string {
	return strconv.FormatInt(n, 36)
}

// ParseFullname splits a typed reference like "t1_c0b6xx" into its kind and
// bare id.
func ParseFullname(fullname string) (kind, id string, err error) {
	kind, id, ok := strings.Cut(fullname, "_")
	if !ok || kind == "" || id == "" {
		return "", "", fmt.Errorf("parse fullname %q: missing kind separator", fullname)
	}
	return kind, id, nil
}
