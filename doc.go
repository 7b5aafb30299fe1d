// Package scribe ships streams of log chunks into a distributed file store,
// compressing them on the way out.
//
// A File owns exactly one store target. Targets whose name ends in ".lzo"
// are written in the lzop container format with block framing and raw
// fallback; ".zst" and ".lz4" targets use the matching stream codec; any
// other name passes bytes through untouched. Reopening a target that
// already exists appends to it with compression disabled, so a shipped
// file never mixes headered and headerless content.
//
// A File is not safe for concurrent use. One session means one writer;
// independent sessions on distinct targets need no coordination.
package scribe
