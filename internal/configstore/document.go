package configstore

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/andywolf/neovate-desk/internal/apperr"
)

// PluginsKey is the top-level config key listing plugin script paths.
const PluginsKey = "plugins"

// document is a top-level JSON object that remembers its key order so that
// edits do not reshuffle the user's file.
type document struct {
	keys   []string
	values map[string]json.RawMessage
}

func parseDocument(content string) (*document, error) {
	if err := Validate(content); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(strings.NewReader(content))
	tok, err := dec.Token()
	if err != nil {
		return nil, apperr.InvalidInput("config is not valid JSON", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, apperr.Validation("config must be a JSON object")
	}

	doc := &document{values: make(map[string]json.RawMessage)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, apperr.InvalidInput("config is not valid JSON", err)
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, apperr.InvalidInput("config is not valid JSON", err)
		}
		// Duplicate keys: last value wins, first position is kept.
		if _, seen := doc.values[key]; !seen {
			doc.keys = append(doc.keys, key)
		}
		doc.values[key] = raw
	}
	return doc, nil
}

func (d *document) set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return apperr.InvalidInput("failed to encode config value", err)
	}
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = raw
	return nil
}

func (d *document) remove(key string) {
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// stringArray returns the string members of an array value, ignoring
// anything else a user may have typed by hand.
func (d *document) stringArray(key string) []string {
	raw, ok := d.values[key]
	if !ok {
		return nil
	}
	var items []interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// marshal renders the document with two-space indentation and a trailing newline.
func (d *document) marshal() (string, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			compact.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return "", apperr.InvalidInput("failed to encode config key", err)
		}
		compact.Write(k)
		compact.WriteByte(':')
		compact.Write(d.values[key])
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return "", apperr.InvalidInput("failed to format config", err)
	}
	out.WriteByte('\n')
	return out.String(), nil
}

// PluginEntries returns the string entries of the config's plugins array.
func PluginEntries(content string) ([]string, error) {
	doc, err := parseDocument(content)
	if err != nil {
		return nil, err
	}
	return doc.stringArray(PluginsKey), nil
}

// EnablePlugin makes sure entry is listed in the plugins array. Entries equal
// to legacy are rewritten to entry in place, and entry is kept only at its
// first position. If any entry already satisfies match, nothing is appended.
// The returned bool reports whether the document changed.
func EnablePlugin(content, entry, legacy string, match func(string) bool) (string, bool, error) {
	doc, err := parseDocument(content)
	if err != nil {
		return "", false, err
	}

	current := doc.stringArray(PluginsKey)
	next := make([]string, 0, len(current)+1)
	changed := false
	found := false
	seenEntry := false
	for _, p := range current {
		if legacy != "" && p == legacy {
			p = entry
			changed = true
		}
		if p == entry {
			if seenEntry {
				changed = true
				continue
			}
			seenEntry = true
		}
		if p == entry || match(p) {
			found = true
		}
		next = append(next, p)
	}
	if !found {
		next = append(next, entry)
		changed = true
	}
	if !changed {
		return content, false, nil
	}

	if err := doc.set(PluginsKey, next); err != nil {
		return "", false, err
	}
	out, err := doc.marshal()
	if err != nil {
		return "", false, err
	}
	return out, true, nil
}

// DisablePlugin removes every plugins entry for which match returns true.
// The plugins key is dropped once it is empty.
func DisablePlugin(content string, match func(string) bool) (string, bool, error) {
	doc, err := parseDocument(content)
	if err != nil {
		return "", false, err
	}

	current := doc.stringArray(PluginsKey)
	next := make([]string, 0, len(current))
	for _, p := range current {
		if !match(p) {
			next = append(next, p)
		}
	}
	if len(next) == len(current) {
		return content, false, nil
	}

	if len(next) == 0 {
		doc.remove(PluginsKey)
	} else if err := doc.set(PluginsKey, next); err != nil {
		return "", false, err
	}
	out, err := doc.marshal()
	if err != nil {
		return "", false, err
	}
	return out, true, nil
}
